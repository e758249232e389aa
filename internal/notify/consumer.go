package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/fuyileeperez18-source/walmer-store/internal/checkout"
)

// MessageReader is the slice of kafka.Reader the consumer needs; tests
// inject a fake.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Sender delivers one confirmation over a concrete channel.
type Sender interface {
	Send(ctx context.Context, c checkout.OrderConfirmation) error
}

// LogSender writes the confirmation to the log. The real email/WhatsApp
// transports live outside this repository.
type LogSender struct{}

func (LogSender) Send(_ context.Context, c checkout.OrderConfirmation) error {
	log.Printf("confirmation sent: order %s to %s <%s> (%s)", c.OrderNumber, c.Name, c.Email, c.Phone)
	return nil
}

// Consumer reads order confirmations from Kafka and hands them to the
// sender. A malformed or undeliverable message is logged and skipped;
// confirmations are best effort by design.
type Consumer struct {
	reader MessageReader
	sender Sender
}

func NewConsumer(sender Sender, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    confirmationsTopic,
		GroupID:  "notifier",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, sender: sender}
}

// NewConsumerWithReader wires an injected reader (tests).
func NewConsumerWithReader(reader MessageReader, sender Sender) *Consumer {
	return &Consumer{reader: reader, sender: sender}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	var confirmation checkout.OrderConfirmation
	if err := json.Unmarshal(m.Value, &confirmation); err != nil {
		log.Printf("error parsing confirmation: %v", err)
		return
	}
	if confirmation.OrderNumber == "" {
		log.Printf("confirmation without order number, skipping")
		return
	}

	if err := c.sender.Send(ctx, confirmation); err != nil {
		log.Printf("failed to deliver confirmation for order %s: %v", confirmation.OrderNumber, err)
	}
}
