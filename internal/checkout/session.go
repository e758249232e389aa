package checkout

import (
	"time"

	"github.com/fuyileeperez18-source/walmer-store/internal/cart"
)

// SnapshotItem is one cart line frozen at checkout time.
type SnapshotItem struct {
	LineID    string  `json:"line_id"`
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// CartSnapshot is the cart state captured when checkout begins, so totals
// shown during checkout do not silently change if the cart is mutated in
// another tab.
type CartSnapshot struct {
	Items      []SnapshotItem `json:"items"`
	Subtotal   float64        `json:"subtotal"`
	ItemCount  int            `json:"item_count"`
	Currency   string         `json:"currency"`
	CapturedAt time.Time      `json:"captured_at"`
}

func snapshotCart(items []cart.LineItem, currency string) CartSnapshot {
	snapshot := CartSnapshot{
		Items:      make([]SnapshotItem, 0, len(items)),
		Currency:   currency,
		CapturedAt: time.Now(),
	}

	for _, item := range items {
		subtotal := item.Subtotal()
		snapshot.Items = append(snapshot.Items, SnapshotItem{
			LineID:    item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  subtotal,
		})
		snapshot.Subtotal += subtotal
		snapshot.ItemCount += item.Quantity
	}

	return snapshot
}

// PaymentResult is the opaque outcome of a payment authorization: a
// success token, or a failure reason kept for display at the Payment step.
type PaymentResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// CardDetails is passed through to the payment port untouched; the core
// never inspects or stores card data.
type CardDetails struct {
	Number   string `json:"number"`
	Holder   string `json:"holder"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	CVC      string `json:"cvc"`
}

// Session is the single-use state carried through the checkout steps.
// Once Confirmation is entered it cannot be reopened; a new checkout
// needs a new session built from the (now empty) cart.
type Session struct {
	ID        string
	ShopperID string
	Step      Step
	Snapshot  CartSnapshot

	// Frozen when leaving the Shipping step; kept as editable defaults
	// when the shopper navigates back.
	ShippingInfo     *ShippingInfo
	ShippingMethodID string

	// IdempotencyKey is minted when the session first enters the Payment
	// step and travels with the order-creation request so a retried
	// submit cannot create a second order.
	IdempotencyKey string

	// CouponCode is recorded but never priced; discount application is a
	// documented no-op extension point.
	CouponCode string

	PaymentResult *PaymentResult
	OrderNumber   string

	CreatedAt time.Time
}
