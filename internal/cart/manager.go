package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Manager hands out one live Aggregate per shopper, loading the persisted
// record on first use. Concurrent first requests for the same shopper go
// through singleflight so the store is hit once.
type Manager struct {
	store CartStore
	sfg   singleflight.Group // Prevents duplicate loads for the same shopper

	mu   sync.RWMutex
	live map[string]*Aggregate
}

func NewManager(store CartStore) *Manager {
	return &Manager{
		store: store,
		live:  make(map[string]*Aggregate),
	}
}

// Get returns the shopper's aggregate, loading it from the store if it is
// not live yet. A missing or corrupt record falls back to an empty cart;
// a store outage is logged and also falls back, so the storefront keeps
// working with in-memory state rather than failing hard.
func (m *Manager) Get(ctx context.Context, shopperID string) (*Aggregate, error) {
	m.mu.RLock()
	agg, exists := m.live[shopperID]
	m.mu.RUnlock()
	if exists {
		return agg, nil
	}

	v, err, _ := m.sfg.Do(shopperID, func() (interface{}, error) {
		m.mu.RLock()
		existing, ok := m.live[shopperID]
		m.mu.RUnlock()
		if ok {
			return existing, nil
		}

		c, errLoad := m.store.Load(ctx, shopperID)
		if errLoad != nil {
			if !errors.Is(errLoad, ErrCartNotFound) {
				log.Printf("failed to load cart for shopper %s, starting empty: %v", shopperID, errLoad)
			}
			c = New(shopperID)
		}

		created := NewAggregate(m.store, c)
		m.mu.Lock()
		m.live[shopperID] = created
		m.mu.Unlock()
		return created, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Aggregate), nil
}

// Evict drops the live aggregate so the next Get reloads from the store.
func (m *Manager) Evict(shopperID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, shopperID)
}
