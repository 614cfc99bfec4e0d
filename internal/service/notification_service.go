package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/store-admin/internal/events"
)

// NotificationService forwards order domain events to live dashboards.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  events.OrderPublisher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, publisher events.OrderPublisher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderCreated, n.handleOrderCreated)
	n.dispatcher.Subscribe(events.EventOrderPaid, n.handleOrderPaid)
}

func (n *NotificationService) handleOrderCreated(ctx context.Context, event events.Event) error {
	order, ok := event.Payload.(events.OrderEvent)
	if !ok {
		return fmt.Errorf("order_created: unexpected payload %T", event.Payload)
	}
	n.logger.Info("OrderCreated",
		zap.String("store_id", event.StoreID),
		zap.String("order_id", event.OrderID),
		zap.Int64("total_price", order.TotalPrice))
	if n.publisher == nil {
		return nil
	}
	return n.publisher.PublishOrder(ctx, order)
}

func (n *NotificationService) handleOrderPaid(_ context.Context, event events.Event) error {
	n.logger.Info("OrderPaid",
		zap.String("store_id", event.StoreID),
		zap.String("order_id", event.OrderID),
		zap.Any("payload", event.Payload))
	return nil
}
