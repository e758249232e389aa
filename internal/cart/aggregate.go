package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fuyileeperez18-source/walmer-store/internal/catalog"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Aggregate owns the cart of one shopper and writes every mutation
// through to the injected store. It does not check stock levels: callers
// are expected to reject adds for out-of-stock variants before reaching
// the aggregate.
type Aggregate struct {
	mu    sync.RWMutex
	store CartStore
	cart  *Cart
}

// NewAggregate wraps an already-loaded cart. Use Manager.Get to load one
// from the store.
func NewAggregate(store CartStore, c *Cart) *Aggregate {
	return &Aggregate{store: store, cart: c}
}

// AddItem appends a line item, snapshotting the unit price from the
// variant if present, else from the product. Adding an already-present
// (product, variant) pair increments the existing line's quantity instead
// of creating a duplicate. The cart drawer becomes visible and the
// updated cart is persisted.
func (a *Aggregate) AddItem(ctx context.Context, product *catalog.Product, variant *catalog.ProductVariant, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	variantID := ""
	unitPrice := product.Price
	name := product.Name
	if variant != nil {
		variantID = variant.ID
		unitPrice = variant.Price
		name = fmt.Sprintf("%s (%s)", product.Name, variant.Name)
	}

	lineID := LineID(product.ID, variantID)
	if i := a.cart.findItem(lineID); i >= 0 {
		a.cart.Items[i].Quantity += quantity
	} else {
		a.cart.Items = append(a.cart.Items, LineItem{
			ID:        lineID,
			ProductID: product.ID,
			VariantID: variantID,
			Name:      name,
			UnitPrice: unitPrice,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		})
	}
	a.cart.IsOpen = true

	return a.persist(ctx)
}

// RemoveItem deletes the line item. Removing an absent item is a no-op,
// not an error; the cart is persisted either way.
func (a *Aggregate) RemoveItem(ctx context.Context, lineID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if i := a.cart.findItem(lineID); i >= 0 {
		a.cart.Items = append(a.cart.Items[:i], a.cart.Items[i+1:]...)
	}

	return a.persist(ctx)
}

// UpdateQuantity sets the quantity of a line item. A quantity of zero or
// less is equivalent to RemoveItem.
func (a *Aggregate) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return a.RemoveItem(ctx, lineID)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if i := a.cart.findItem(lineID); i >= 0 {
		a.cart.Items[i].Quantity = quantity
	}

	return a.persist(ctx)
}

// Clear empties the cart. Used by the order finalizer and the explicit
// "clear cart" action only.
func (a *Aggregate) Clear(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cart.Items = nil

	return a.persist(ctx)
}

// SetOpen persists the drawer visibility flag.
func (a *Aggregate) SetOpen(ctx context.Context, open bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cart.IsOpen = open

	return a.persist(ctx)
}

// Subtotal is Σ unitPrice × quantity over all items. Pure, no side effect.
func (a *Aggregate) Subtotal() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cart.Subtotal()
}

// ItemCount is Σ quantity over all items.
func (a *Aggregate) ItemCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cart.ItemCount()
}

// Items returns a copy of the line items in insertion order.
func (a *Aggregate) Items() []LineItem {
	a.mu.RLock()
	defer a.mu.RUnlock()

	items := make([]LineItem, len(a.cart.Items))
	copy(items, a.cart.Items)
	return items
}

// Snapshot returns a deep copy of the whole cart record.
func (a *Aggregate) Snapshot() *Cart {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cart.Clone()
}

// persist writes the cart through to the store. Callers hold a.mu.
func (a *Aggregate) persist(ctx context.Context) error {
	a.cart.UpdatedAt = time.Now()
	if err := a.store.Save(ctx, a.cart); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
