package orders

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository implements OrderRepository in memory, with the same
// idempotency-key uniqueness the Postgres schema enforces. Used in tests
// and for local runs without a database.
type MemoryRepository struct {
	mu     sync.RWMutex
	byNum  map[string]*Order
	byIdem map[string]string // idempotency key -> order number
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byNum:  make(map[string]*Order),
		byIdem: make(map[string]string),
	}
}

func (r *MemoryRepository) InsertOrder(_ context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byIdem[order.IdempotencyKey]; exists {
		return ErrDuplicateOrder
	}
	if _, exists := r.byNum[order.Number]; exists {
		return ErrDuplicateOrder
	}

	cp := *order
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	r.byNum[cp.Number] = &cp
	r.byIdem[cp.IdempotencyKey] = cp.Number
	return nil
}

func (r *MemoryRepository) GetOrderByNumber(_ context.Context, number string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, exists := r.byNum[number]
	if !exists {
		return nil, ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (r *MemoryRepository) ListOrdersByShopperID(_ context.Context, shopperID string) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Order
	for _, order := range r.byNum {
		if order.ShopperID == shopperID {
			cp := *order
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) RunMigrations(*Credentials) error {
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
