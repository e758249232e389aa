package storage

import (
	"context"
	"sync"

	"github.com/fuyileeperez18-source/walmer-store/internal/cart"
)

// MemoryStore implements CartStore with in-memory storage. Used in tests
// and for local runs without a backing database.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*cart.Cart // shopperID -> cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*cart.Cart),
	}
}

func (s *MemoryStore) Load(_ context.Context, shopperID string) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.carts[shopperID]
	if !exists {
		return nil, ErrCartNotFound
	}
	return c.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[c.ShopperID] = c.Clone()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, shopperID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, shopperID)
	return nil
}
