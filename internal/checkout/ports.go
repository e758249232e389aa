package checkout

import "context"

// PaymentPort authorizes a charge with the external payment service. The
// result is opaque to the core: a token on success, a reason on refusal.
// Transport errors come back as a plain error; the core imposes no retry
// policy.
type PaymentPort interface {
	Authorize(ctx context.Context, card CardDetails, amount float64) (*PaymentResult, error)
}

// OrderRequest is the order-creation payload sent to the order service
// exactly once per successful checkout.
type OrderRequest struct {
	OrderNumber      string         `json:"order_number"`
	IdempotencyKey   string         `json:"idempotency_key"`
	ShopperID        string         `json:"shopper_id"`
	Items            []SnapshotItem `json:"items"`
	Subtotal         float64        `json:"subtotal"`
	ShippingCost     float64        `json:"shipping_cost"`
	Tax              float64        `json:"tax"`
	Discount         float64        `json:"discount"`
	TotalAmount      float64        `json:"total_amount"`
	Currency         string         `json:"currency"`
	ShippingInfo     ShippingInfo   `json:"shipping_info"`
	ShippingMethodID string         `json:"shipping_method_id"`
	PaymentToken     string         `json:"payment_token"`
}

// OrderService durably records a finalized order. True order-number
// uniqueness is enforced here, not client-side.
type OrderService interface {
	CreateOrder(ctx context.Context, req *OrderRequest) (string, error)
}

// OrderConfirmation is the fire-and-forget confirmation message. A
// delivery failure never rolls back the already-finalized order.
type OrderConfirmation struct {
	OrderNumber string  `json:"order_number"`
	ShopperID   string  `json:"shopper_id"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Name        string  `json:"name"`
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`
	ItemCount   int     `json:"item_count"`
}

// Notifier is the outbound confirmation messaging port (email/WhatsApp);
// the core only calls it.
type Notifier interface {
	OrderConfirmed(ctx context.Context, n OrderConfirmation) error
}
