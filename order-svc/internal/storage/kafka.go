package storage

import (
	"context"
	"encoding/json"

	"tableside/order-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes order events keyed by order id, so every event for
// one order lands on the same partition.
type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
}

// NoopPublisher drops events; used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.OrderEvent) error { return nil }
