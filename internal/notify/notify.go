package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/fuyileeperez18-source/walmer-store/internal/checkout"
)

const confirmationsTopic = "order-confirmations"

// KafkaNotifier implements checkout.Notifier by handing the confirmation
// to the messaging pipeline. Delivery (email/WhatsApp) happens in the
// notifier worker; this publish is the fire-and-forget boundary.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers ...string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  confirmationsTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w}
}

func (n *KafkaNotifier) OrderConfirmed(ctx context.Context, c checkout.OrderConfirmation) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(c.OrderNumber),
		Value: payload,
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish confirmation: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// LogNotifier logs the confirmation instead of sending it. Stands in for
// the external channel in local runs.
type LogNotifier struct{}

func (LogNotifier) OrderConfirmed(_ context.Context, c checkout.OrderConfirmation) error {
	log.Printf("order %s confirmed for %s <%s>, total %.2f %s",
		c.OrderNumber, c.Name, c.Email, c.TotalAmount, c.Currency)
	return nil
}

// NoopNotifier drops confirmations. Used in tests.
type NoopNotifier struct{}

func (NoopNotifier) OrderConfirmed(context.Context, checkout.OrderConfirmation) error {
	return nil
}
