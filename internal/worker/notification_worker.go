package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/store-admin/internal/events"
	"github.com/spec-kit/store-admin/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartRelay feeds broker order events into the local hub until ctx ends.
// The returned channel closes once the relay has stopped.
func StartRelay(ctx context.Context, relay *events.Relay, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if relay == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		if err := relay.Run(ctx); err != nil {
			logger.Error("order event relay stopped", zap.Error(err))
			return
		}
		logger.Info("order event relay stopped")
	}()
	return done
}
