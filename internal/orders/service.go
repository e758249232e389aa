package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fuyileeperez18-source/walmer-store/internal/checkout"
)

// EventPublisher emits the order-created event after the row is durable.
// Kafka in production, a capture fake in tests.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *Order) error
}

// Service implements checkout.OrderService: it writes the order row
// (deduplicated on the idempotency key) and then emits an order-created
// event. The write is the transactional boundary; a publish failure is
// logged and the event is re-emittable from the stored row.
type Service struct {
	repo      OrderRepository
	publisher EventPublisher
}

func NewService(repo OrderRepository, publisher EventPublisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

func (s *Service) CreateOrder(ctx context.Context, req *checkout.OrderRequest) (string, error) {
	order := &Order{
		Number:         req.OrderNumber,
		IdempotencyKey: req.IdempotencyKey,
		ShopperID:      req.ShopperID,
		TotalAmount:    req.TotalAmount,
		Currency:       req.Currency,
		Status:         OrderStatusConfirmed,
		Items:          req.Items,
		ShippingInfo:   req.ShippingInfo,
	}

	if err := s.repo.InsertOrder(ctx, order); err != nil {
		if errors.Is(err, ErrDuplicateOrder) {
			// A retried submit with the same idempotency key: the order
			// already exists, return its number instead of failing.
			existing, lookupErr := s.lookupByIdempotencyKey(ctx, req)
			if lookupErr != nil {
				return "", fmt.Errorf("order exists but lookup failed: %w", lookupErr)
			}
			log.Printf("duplicate order request for idempotency key %s, returning order %s", req.IdempotencyKey, existing)
			return existing, nil
		}
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
		log.Printf("failed to publish order-created event for order %s: %v", order.Number, err)
	}

	return order.Number, nil
}

func (s *Service) lookupByIdempotencyKey(ctx context.Context, req *checkout.OrderRequest) (string, error) {
	existing, err := s.repo.ListOrdersByShopperID(ctx, req.ShopperID)
	if err != nil {
		return "", err
	}
	for _, o := range existing {
		if o.IdempotencyKey == req.IdempotencyKey {
			return o.Number, nil
		}
	}
	return "", ErrOrderNotFound
}

// OrderCreatedEvent is the payload written to the orders topic.
type OrderCreatedEvent struct {
	Number      string                  `json:"number"`
	ShopperID   string                  `json:"shopper_id"`
	Items       []checkout.SnapshotItem `json:"items"`
	TotalAmount float64                 `json:"total_amount"`
	Currency    string                  `json:"currency"`
	CreatedAt   time.Time               `json:"created_at"`
}

func marshalOrderCreated(order *Order) ([]byte, error) {
	event := OrderCreatedEvent{
		Number:      order.Number,
		ShopperID:   order.ShopperID,
		Items:       order.Items,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
		CreatedAt:   time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order-created event: %w", err)
	}
	return data, nil
}
