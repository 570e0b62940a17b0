// Package eventbus publishes detected events to downstream consumers.
// Publishing is best effort: failures are logged and counted and never
// hold up notification delivery.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/donaldgifford/sale-tracker/internal/metrics"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

// Publisher sends a product's detected events downstream.
type Publisher interface {
	Publish(ctx context.Context, product domain.TrackedProduct, events []domain.Event) error
	Close() error
}

// Record is the JSON value of one published event.
type Record struct {
	Kind        domain.EventKind `json:"kind"`
	ProductID   domain.ProductID `json:"product_id"`
	ProductName string           `json:"product_name"`
	Region      string           `json:"region"`
	Prev        *domain.Snapshot `json:"prev,omitempty"`
	Next        domain.Snapshot  `json:"next"`
}

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic keyed by product id, so
// every event of a product lands on the same partition in order.
type KafkaPublisher struct {
	writer messageWriter
	log    *slog.Logger
	now    func() time.Time
}

// KafkaOption configures a KafkaPublisher.
type KafkaOption func(*KafkaPublisher)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) KafkaOption {
	return func(p *KafkaPublisher) {
		p.log = l
	}
}

// withWriter replaces the Kafka writer, for tests.
func withWriter(w messageWriter) KafkaOption {
	return func(p *KafkaPublisher) {
		p.writer = w
	}
}

// NewKafkaPublisher creates a publisher for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, opts ...KafkaOption) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	p := &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			Compression:            kafka.Gzip,
			MaxAttempts:            3,
			WriteTimeout:           10 * time.Second,
			BatchTimeout:           100 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		log: slog.Default(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Publish writes one message per event.
func (p *KafkaPublisher) Publish(ctx context.Context, product domain.TrackedProduct, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		value, err := json.Marshal(Record{
			Kind:        ev.Kind,
			ProductID:   ev.ProductID,
			ProductName: product.Name,
			Region:      product.Region,
			Prev:        ev.Prev,
			Next:        ev.Next,
		})
		if err != nil {
			return fmt.Errorf("marshaling %s event: %w", ev.Kind, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.ProductID),
			Value: value,
			Time:  p.now(),
			Headers: []kafka.Header{
				{Key: "event_kind", Value: []byte(ev.Kind.String())},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		metrics.EventPublishFailuresTotal.Inc()
		return fmt.Errorf("publishing %d events for %s: %w", len(msgs), product.ID, err)
	}
	metrics.EventsPublishedTotal.Add(float64(len(msgs)))
	p.log.Debug("events published", "product_id", product.ID, "count", len(msgs))
	return nil
}

// Close flushes pending writes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoOpPublisher discards events. It is used when no event stream is configured.
type NoOpPublisher struct{}

// Publish implements Publisher.
func (NoOpPublisher) Publish(context.Context, domain.TrackedProduct, []domain.Event) error {
	return nil
}

// Close implements Publisher.
func (NoOpPublisher) Close() error { return nil }

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = NoOpPublisher{}
)
