package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BrokerPublisher sends order events to a Redis stream so every instance's Relay sees them.
type BrokerPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewBrokerPublisher wraps a watermill publisher.
func NewBrokerPublisher(publisher message.Publisher, topic string) *BrokerPublisher {
	return &BrokerPublisher{publisher: publisher, topic: topic}
}

// DefaultStreamMaxLen bounds the order stream when no limit is configured.
const DefaultStreamMaxLen int64 = 10000

// NewRedisStreamPublisher builds a BrokerPublisher backed by Redis streams. The
// stream is trimmed to roughly maxLen entries on every publish.
func NewRedisStreamPublisher(client redis.UniversalClient, topic string, maxLen int64, logger *zap.Logger) (*BrokerPublisher, error) {
	pub, err := redisstream.NewPublisher(publisherConfig(client, topic, maxLen), NewWatermillLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create redis stream publisher: %w", err)
	}
	return NewBrokerPublisher(pub, topic), nil
}

func publisherConfig(client redis.UniversalClient, topic string, maxLen int64) redisstream.PublisherConfig {
	if maxLen <= 0 {
		maxLen = DefaultStreamMaxLen
	}
	return redisstream.PublisherConfig{
		Client:  client,
		Maxlens: map[string]int64{topic: maxLen},
	}
}

// PublishOrder implements OrderPublisher.
func (p *BrokerPublisher) PublishOrder(_ context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set("store_id", event.StoreID)
	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close releases the underlying publisher.
func (p *BrokerPublisher) Close() error {
	return p.publisher.Close()
}

// Relay feeds broker messages into the local Hub.
type Relay struct {
	subscriber message.Subscriber
	topic      string
	hub        *Hub
	logger     *zap.Logger
}

// NewRelay wires a watermill subscriber to the hub.
func NewRelay(subscriber message.Subscriber, topic string, hub *Hub, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{subscriber: subscriber, topic: topic, hub: hub, logger: logger}
}

// NewRedisStreamRelay subscribes without a consumer group so that every instance
// receives every message.
func NewRedisStreamRelay(client redis.UniversalClient, topic string, hub *Hub, logger *zap.Logger) (*Relay, error) {
	sub, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{Client: client}, NewWatermillLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create redis stream subscriber: %w", err)
	}
	return NewRelay(sub, topic, hub, logger), nil
}

// Run consumes until ctx is cancelled or the subscriber closes.
func (r *Relay) Run(ctx context.Context) error {
	messages, err := r.subscriber.Subscribe(ctx, r.topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", r.topic, err)
	}
	for msg := range messages {
		r.handle(msg)
	}
	return nil
}

func (r *Relay) handle(msg *message.Message) {
	defer msg.Ack()

	var head struct {
		StoreID string `json:"storeId"`
	}
	if err := json.Unmarshal(msg.Payload, &head); err != nil || head.StoreID == "" {
		r.logger.Warn("discarding malformed order event", zap.String("message_uuid", msg.UUID), zap.Error(err))
		return
	}
	r.hub.Deliver(head.StoreID, msg.Payload)
}

// Close stops the subscriber.
func (r *Relay) Close() error {
	return r.subscriber.Close()
}

// watermillLogger bridges watermill onto zap.
type watermillLogger struct {
	logger *zap.Logger
}

// NewWatermillLogger adapts a zap logger to watermill.LoggerAdapter.
func NewWatermillLogger(logger *zap.Logger) watermill.LoggerAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &watermillLogger{logger: logger.Named("watermill")}
}

func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.logger.Error(msg, append(zapFields(fields), zap.Error(err))...)
}

func (l *watermillLogger) Info(msg string, fields watermill.LogFields) {
	l.logger.Info(msg, zapFields(fields)...)
}

func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.logger.Debug(msg, zapFields(fields)...)
}

func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.logger.Debug(msg, zapFields(fields)...)
}

func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{logger: l.logger.With(zapFields(fields)...)}
}

func zapFields(fields watermill.LogFields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}
