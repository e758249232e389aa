package checkout

import (
	"context"
	"sync/atomic"

	"github.com/fuyileeperez18-source/walmer-store/internal/cart"
	"github.com/fuyileeperez18-source/walmer-store/internal/catalog"
	"github.com/fuyileeperez18-source/walmer-store/internal/storage"
)

// mockPayment is a PaymentPort with a scriptable outcome. When release is
// set, Authorize blocks until the channel is closed, which lets tests
// observe the in-flight window.
type mockPayment struct {
	calls   atomic.Int64
	result  *PaymentResult
	err     error
	release chan struct{}

	lastAmount float64
}

func (m *mockPayment) Authorize(_ context.Context, _ CardDetails, amount float64) (*PaymentResult, error) {
	m.calls.Add(1)
	m.lastAmount = amount
	if m.release != nil {
		<-m.release
	}
	return m.result, m.err
}

// mockOrderService records the requests it receives and answers with a
// fixed number or error.
type mockOrderService struct {
	calls    atomic.Int64
	requests []*OrderRequest
	number   string
	err      error
}

func (m *mockOrderService) CreateOrder(_ context.Context, req *OrderRequest) (string, error) {
	m.calls.Add(1)
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	return m.number, nil
}

// mockNotifier captures confirmations and optionally fails.
type mockNotifier struct {
	confirmations []OrderConfirmation
	err           error
}

func (m *mockNotifier) OrderConfirmed(_ context.Context, n OrderConfirmation) error {
	m.confirmations = append(m.confirmations, n)
	return m.err
}

// newTestCart builds an aggregate with two lines totalling 150.00.
func newTestCart(ctx context.Context, store storage.CartStore) (*cart.Aggregate, error) {
	agg := cart.NewAggregate(store, cart.New("shopper-1"))
	if err := agg.AddItem(ctx, &catalog.Product{ID: "p-1", Name: "Hoodie", Price: 60.00}, nil, 2); err != nil {
		return nil, err
	}
	if err := agg.AddItem(ctx, &catalog.Product{ID: "p-2", Name: "Mug", Price: 15.00}, nil, 2); err != nil {
		return nil, err
	}
	return agg, nil
}
