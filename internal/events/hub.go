package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSubscriberBuffer = 16

// OrderPublisher pushes order snapshots towards live streams.
type OrderPublisher interface {
	PublishOrder(ctx context.Context, event OrderEvent) error
}

// Subscription is one open live stream bound to a store.
type Subscription struct {
	ID      string
	StoreID string

	events chan []byte
	done   chan struct{}
	once   sync.Once
}

// Events yields serialized order events.
func (s *Subscription) Events() <-chan []byte {
	return s.events
}

// Done is closed once the subscription is removed from the hub.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.done) })
}

// Hub is the per-process registry of live order streams. Delivery is at-most-once:
// a subscriber whose queue is full misses the event and nothing is replayed.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*Subscription
	buffer int
	logger *zap.Logger
}

// NewHub creates an empty registry.
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[string]*Subscription),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a new stream for the store.
func (h *Hub) Subscribe(storeID string) *Subscription {
	sub := &Subscription{
		ID:      uuid.NewString(),
		StoreID: storeID,
		events:  make(chan []byte, h.buffer),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	h.subs[sub.ID] = sub
	h.mu.Unlock()

	h.logger.Debug("order stream subscribed", zap.String("store_id", storeID), zap.String("subscription_id", sub.ID))
	return sub
}

// Unsubscribe removes the stream. Calling it more than once is harmless.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	_, existed := h.subs[sub.ID]
	delete(h.subs, sub.ID)
	h.mu.Unlock()

	sub.close()
	if existed {
		h.logger.Debug("order stream unsubscribed", zap.String("store_id", sub.StoreID), zap.String("subscription_id", sub.ID))
	}
}

// Count returns the number of open subscriptions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// PublishOrder serializes the event once and hands it to every stream of the store.
func (h *Hub) PublishOrder(_ context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.Deliver(event.StoreID, payload)
	return nil
}

// Deliver fans an already serialized event out to the store's streams and
// returns how many received it.
func (h *Hub) Deliver(storeID string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.subs {
		if sub.StoreID != storeID {
			continue
		}
		select {
		case sub.events <- payload:
			delivered++
		default:
			h.logger.Warn("order stream queue full; event dropped",
				zap.String("store_id", storeID),
				zap.String("subscription_id", sub.ID))
		}
	}
	return delivered
}

// Close ends every open stream; used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[string]*Subscription)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}
