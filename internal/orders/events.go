package orders

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

const orderEventsTopic = "order-created"

// KafkaPublisher writes order-created events to Kafka, keyed by order
// number for per-order ordering.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderEventsTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *Order) error {
	payload, err := marshalOrderCreated(order)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(order.Number),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order_created")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order-created event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events. Used when Kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *Order) error {
	return nil
}
