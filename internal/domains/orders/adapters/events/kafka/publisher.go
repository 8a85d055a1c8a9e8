package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
)

// StatusChangedTopic carries order status transition events.
const StatusChangedTopic = "order.status.changed"

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher emits order lifecycle events to Kafka.
type Publisher struct {
	producer sarama.SyncProducer
	logger   *slog.Logger
}

// NewPublisher connects a synchronous producer to the given brokers.
func NewPublisher(brokers []string, logger *slog.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("connect kafka producer: %w", err)
	}
	return &Publisher{producer: producer, logger: logger}, nil
}

// PublishStatusChanged sends the event keyed by order id so transitions for
// one order stay ordered within a partition.
func (p *Publisher) PublishStatusChanged(ctx context.Context, event ports.StatusChangedEvent) error {
	if p == nil || p.producer == nil {
		return errors.New("kafka publisher not configured")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status-changed event: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: StatusChangedTopic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(payload),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send status-changed event: %w", err)
	}
	if p.logger != nil {
		p.logger.LogAttrs(ctx, slog.LevelInfo, "status-changed event published",
			slog.String("topic", StatusChangedTopic),
			slog.Int64("partition", int64(partition)),
			slog.Int64("offset", offset),
			slog.String("order.id", event.OrderID))
	}
	return nil
}

// Close releases the underlying producer.
func (p *Publisher) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
