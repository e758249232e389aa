package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuyileeperez18-source/walmer-store/internal/checkout"
)

// capturePublisher records published orders and optionally fails.
type capturePublisher struct {
	published []*Order
	err       error
}

func (p *capturePublisher) PublishOrderCreated(_ context.Context, order *Order) error {
	p.published = append(p.published, order)
	return p.err
}

func orderRequest(number, idemKey string) *checkout.OrderRequest {
	return &checkout.OrderRequest{
		OrderNumber:    number,
		IdempotencyKey: idemKey,
		ShopperID:      "shopper-1",
		Items: []checkout.SnapshotItem{
			{LineID: "p-1", ProductID: "p-1", Name: "Hoodie", Quantity: 2, UnitPrice: 60, Subtotal: 120},
		},
		Subtotal:    120,
		Tax:         9.60,
		TotalAmount: 129.60,
		Currency:    "USD",
		ShippingInfo: checkout.ShippingInfo{
			Email: "jane@example.com",
			Name:  "Jane Doe",
		},
		ShippingMethodID: "standard",
		PaymentToken:     "TXN-1",
	}
}

func TestCreateOrder_InsertsAndPublishes(t *testing.T) {
	repo := NewMemoryRepository()
	publisher := &capturePublisher{}
	svc := NewService(repo, publisher)
	ctx := context.Background()

	number, err := svc.CreateOrder(ctx, orderRequest("WS-20260101-AAAA0001", "idem-1"))
	require.NoError(t, err)
	assert.Equal(t, "WS-20260101-AAAA0001", number)

	stored, err := repo.GetOrderByNumber(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusConfirmed, stored.Status)
	assert.Equal(t, 129.60, stored.TotalAmount)
	assert.Equal(t, "idem-1", stored.IdempotencyKey)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, number, publisher.published[0].Number)
}

func TestCreateOrder_DuplicateIdempotencyKeyReturnsExisting(t *testing.T) {
	repo := NewMemoryRepository()
	publisher := &capturePublisher{}
	svc := NewService(repo, publisher)
	ctx := context.Background()

	first, err := svc.CreateOrder(ctx, orderRequest("WS-20260101-AAAA0001", "idem-1"))
	require.NoError(t, err)

	// A retried submit carries the same key but a fresh number.
	second, err := svc.CreateOrder(ctx, orderRequest("WS-20260101-BBBB0002", "idem-1"))
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// Only the first attempt produced a row and an event.
	all, err := repo.ListOrdersByShopperID(ctx, "shopper-1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Len(t, publisher.published, 1)
}

func TestCreateOrder_PublishFailureIsNonFatal(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, &capturePublisher{err: errors.New("broker unreachable")})
	ctx := context.Background()

	number, err := svc.CreateOrder(ctx, orderRequest("WS-20260101-AAAA0001", "idem-1"))
	require.NoError(t, err)

	_, err = repo.GetOrderByNumber(ctx, number)
	assert.NoError(t, err)
}

func TestCreateOrder_RepositoryFailure(t *testing.T) {
	svc := NewService(failingRepo{}, &capturePublisher{})

	_, err := svc.CreateOrder(context.Background(), orderRequest("WS-20260101-AAAA0001", "idem-1"))
	assert.Error(t, err)
}

type failingRepo struct{ OrderRepository }

func (failingRepo) InsertOrder(context.Context, *Order) error {
	return errors.New("connection refused")
}

func TestMemoryRepository_ListSortsNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for _, number := range []string{"WS-20260101-AAAA0001", "WS-20260101-BBBB0002", "WS-20260101-CCCC0003"} {
		order := &Order{Number: number, IdempotencyKey: number, ShopperID: "shopper-1"}
		require.NoError(t, repo.InsertOrder(ctx, order))
	}

	listed, err := repo.ListOrdersByShopperID(ctx, "shopper-1")
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.False(t, listed[0].CreatedAt.Before(listed[1].CreatedAt))
	assert.False(t, listed[1].CreatedAt.Before(listed[2].CreatedAt))
}

func TestMemoryRepository_DuplicateNumber(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.InsertOrder(ctx, &Order{Number: "WS-1", IdempotencyKey: "idem-1"}))
	err := repo.InsertOrder(ctx, &Order{Number: "WS-1", IdempotencyKey: "idem-2"})
	assert.ErrorIs(t, err, ErrDuplicateOrder)
}
