package catalog

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
)

// Catalog is the read-only view of products the storefront consumes.
type Catalog interface {
	Product(ctx context.Context, id string) (*Product, error)
	Variant(ctx context.Context, productID, variantID string) (*ProductVariant, error)
}

// MemoryCatalog implements Catalog with in-memory storage. It stands in
// for the external catalog service in local deployments and tests.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[string]*Product
	variants map[string]map[string]*ProductVariant // productID -> variantID -> variant
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		products: make(map[string]*Product),
		variants: make(map[string]map[string]*ProductVariant),
	}
}

func (c *MemoryCatalog) Product(_ context.Context, id string) (*Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, exists := c.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (c *MemoryCatalog) Variant(_ context.Context, productID, variantID string) (*ProductVariant, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	vs, exists := c.variants[productID]
	if !exists {
		return nil, ErrProductNotFound
	}
	v, exists := vs[variantID]
	if !exists {
		return nil, ErrVariantNotFound
	}
	cp := *v
	return &cp, nil
}

// SetProduct upserts a product (used for initialization and tests).
func (c *MemoryCatalog) SetProduct(p Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = &p
}

// SetVariant upserts a variant under the given product.
func (c *MemoryCatalog) SetVariant(productID string, v ProductVariant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.variants[productID]; !exists {
		c.variants[productID] = make(map[string]*ProductVariant)
	}
	c.variants[productID][v.ID] = &v
}
