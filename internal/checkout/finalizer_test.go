package checkout

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuyileeperez18-source/walmer-store/internal/pricing"
	"github.com/fuyileeperez18-source/walmer-store/internal/storage"
)

func paidSession() *Session {
	info := validShippingInfo()
	return &Session{
		ID:             "sess-1",
		ShopperID:      "shopper-1",
		Step:           StepPayment,
		IdempotencyKey: "idem-1",
		Snapshot: CartSnapshot{
			Items: []SnapshotItem{
				{LineID: "p-1", ProductID: "p-1", Name: "Hoodie", Quantity: 2, UnitPrice: 60, Subtotal: 120},
			},
			Subtotal:  120,
			ItemCount: 2,
			Currency:  "USD",
		},
		ShippingInfo:     &info,
		ShippingMethodID: "standard",
		PaymentResult:    &PaymentResult{Success: true, Token: "TXN-1"},
	}
}

func testQuote() pricing.Quote {
	return pricing.Quote{Subtotal: 120, ShippingCost: 0, Tax: 9.60, Total: 129.60}
}

func TestFinalize_BuildsOrderRequest(t *testing.T) {
	ctx := context.Background()
	agg, err := newTestCart(ctx, storage.NewMemoryStore())
	require.NoError(t, err)

	orders := &mockOrderService{}
	notifier := &mockNotifier{}
	f := NewFinalizer(orders, notifier)

	orderNumber, err := f.Finalize(ctx, paidSession(), agg, testQuote())
	require.NoError(t, err)
	assert.NotEmpty(t, orderNumber)

	require.Len(t, orders.requests, 1)
	req := orders.requests[0]
	assert.Equal(t, orderNumber, req.OrderNumber)
	assert.Equal(t, "idem-1", req.IdempotencyKey)
	assert.Equal(t, "shopper-1", req.ShopperID)
	assert.Equal(t, 129.60, req.TotalAmount)
	assert.Equal(t, "USD", req.Currency)
	assert.Equal(t, "TXN-1", req.PaymentToken)
	assert.Equal(t, "standard", req.ShippingMethodID)

	// Cart cleared only after the order was accepted.
	assert.Equal(t, 0, agg.ItemCount())

	require.Len(t, notifier.confirmations, 1)
	confirmation := notifier.confirmations[0]
	assert.Equal(t, orderNumber, confirmation.OrderNumber)
	assert.Equal(t, "jane@example.com", confirmation.Email)
	assert.Equal(t, 129.60, confirmation.TotalAmount)
	assert.Equal(t, 2, confirmation.ItemCount)
}

func TestFinalize_OrderFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	agg, err := newTestCart(ctx, storage.NewMemoryStore())
	require.NoError(t, err)

	orders := &mockOrderService{err: errors.New("insert failed")}
	notifier := &mockNotifier{}
	f := NewFinalizer(orders, notifier)

	_, err = f.Finalize(ctx, paidSession(), agg, testQuote())
	assert.ErrorIs(t, err, ErrOrderServiceFailed)

	assert.Equal(t, 4, agg.ItemCount())
	assert.Empty(t, notifier.confirmations)
}

func TestFinalize_UsesServiceAssignedNumber(t *testing.T) {
	ctx := context.Background()
	agg, err := newTestCart(ctx, storage.NewMemoryStore())
	require.NoError(t, err)

	// The order service deduplicated and returned an existing number.
	orders := &mockOrderService{number: "WS-20260101-DEADBEEF"}
	f := NewFinalizer(orders, &mockNotifier{})

	orderNumber, err := f.Finalize(ctx, paidSession(), agg, testQuote())
	require.NoError(t, err)
	assert.Equal(t, "WS-20260101-DEADBEEF", orderNumber)
}

func TestFinalize_NotifyFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	agg, err := newTestCart(ctx, storage.NewMemoryStore())
	require.NoError(t, err)

	orders := &mockOrderService{}
	notifier := &mockNotifier{err: errors.New("broker unreachable")}
	f := NewFinalizer(orders, notifier)

	orderNumber, err := f.Finalize(ctx, paidSession(), agg, testQuote())
	require.NoError(t, err)
	assert.NotEmpty(t, orderNumber)
	assert.Equal(t, 0, agg.ItemCount())
}

func TestNewOrderNumber_Format(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^WS-20260314-[0-9A-F]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number := NewOrderNumber(now)
		assert.Regexp(t, pattern, number)
		seen[number] = true
	}
	// Random suffixes should not collide in a small sample.
	assert.Greater(t, len(seen), 95)
}
