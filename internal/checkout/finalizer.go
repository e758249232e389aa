package checkout

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fuyileeperez18-source/walmer-store/internal/cart"
	"github.com/fuyileeperez18-source/walmer-store/internal/pricing"
)

// Finalizer turns a paid checkout session into a durable order. The
// order-creation call is the single side-effecting boundary: it is
// awaited before the cart is cleared, and a failure leaves both cart and
// session untouched so the shopper can retry.
type Finalizer struct {
	orders   OrderService
	notifier Notifier
}

func NewFinalizer(orders OrderService, notifier Notifier) *Finalizer {
	return &Finalizer{orders: orders, notifier: notifier}
}

// Finalize creates the order, clears the cart exactly once and sends the
// confirmation. Only the order-creation failure is returned; a cart-save
// or notification failure is logged and does not undo the order.
func (f *Finalizer) Finalize(ctx context.Context, session *Session, agg *cart.Aggregate, quote pricing.Quote) (string, error) {
	orderNumber := NewOrderNumber(time.Now())

	req := &OrderRequest{
		OrderNumber:      orderNumber,
		IdempotencyKey:   session.IdempotencyKey,
		ShopperID:        session.ShopperID,
		Items:            session.Snapshot.Items,
		Subtotal:         quote.Subtotal,
		ShippingCost:     quote.ShippingCost,
		Tax:              quote.Tax,
		Discount:         quote.Discount,
		TotalAmount:      quote.Total,
		Currency:         session.Snapshot.Currency,
		ShippingInfo:     *session.ShippingInfo,
		ShippingMethodID: session.ShippingMethodID,
		PaymentToken:     session.PaymentResult.Token,
	}

	createdNumber, err := f.orders.CreateOrder(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOrderServiceFailed, err)
	}
	if createdNumber != "" {
		orderNumber = createdNumber
	}

	if err := agg.Clear(ctx); err != nil {
		// The order exists; an unsaved empty cart only risks a stale
		// record resurfacing on the next load.
		log.Printf("failed to persist cleared cart for shopper %s: %v", session.ShopperID, err)
	}

	confirmation := OrderConfirmation{
		OrderNumber: orderNumber,
		ShopperID:   session.ShopperID,
		Email:       session.ShippingInfo.Email,
		Phone:       session.ShippingInfo.Phone,
		Name:        session.ShippingInfo.Name,
		TotalAmount: quote.Total,
		Currency:    session.Snapshot.Currency,
		ItemCount:   session.Snapshot.ItemCount,
	}
	if err := f.notifier.OrderConfirmed(ctx, confirmation); err != nil {
		log.Printf("failed to send confirmation for order %s: %v", orderNumber, err)
	}

	return orderNumber, nil
}

// NewOrderNumber builds a human-readable order number with a time-based
// prefix and a random suffix. Uniqueness here is best effort; the order
// service enforces it durably.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("WS-%s-%s", now.Format("20060102"), suffix)
}
