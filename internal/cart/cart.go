package cart

import (
	"time"
)

// SchemaVersion is written into every persisted cart record so the stored
// shape can evolve safely. Loaders treat records with an unknown version
// as corrupt and fall back to an empty cart.
const SchemaVersion = 1

// LineItem is one entry in the cart for a specific (product, variant) pair.
//
// UnitPrice is captured at the moment the item was added (variant price if
// present, else product price) and is never re-synced against the catalog.
// A price change between add-to-cart and payment is deliberately not
// re-checked; checkout prices what the shopper saw when adding.
type LineItem struct {
	ID        string    `json:"id" bson:"id"`
	ProductID string    `json:"product_id" bson:"product_id"`
	VariantID string    `json:"variant_id,omitempty" bson:"variant_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	UnitPrice float64   `json:"unit_price" bson:"unit_price"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	AddedAt   time.Time `json:"added_at" bson:"added_at"`
}

// Subtotal returns UnitPrice * Quantity for this line.
func (li LineItem) Subtotal() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

// LineID derives the identity key for a (productID, variantID) pair.
// At most one LineItem exists per key in a cart.
func LineID(productID, variantID string) string {
	if variantID == "" {
		return productID
	}
	return productID + "::" + variantID
}

// Cart is the persisted cart record for one shopper. Items keep insertion
// order for display; the order carries no other meaning. IsOpen is the
// drawer visibility flag, persisted alongside items with no business invariant.
type Cart struct {
	SchemaVersion int        `json:"schema_version" bson:"schema_version"`
	ShopperID     string     `json:"shopper_id" bson:"shopper_id"`
	Items         []LineItem `json:"items" bson:"items"`
	IsOpen        bool       `json:"is_open" bson:"is_open"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at"`
}

// New returns an empty cart for the given shopper.
func New(shopperID string) *Cart {
	now := time.Now()
	return &Cart{
		SchemaVersion: SchemaVersion,
		ShopperID:     shopperID,
		Items:         nil,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Subtotal is the sum of UnitPrice * Quantity over all items.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities over all items.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) findItem(lineID string) int {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so stores and snapshots never alias live items.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Items = make([]LineItem, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}
