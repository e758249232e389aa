package catalog

import "time"

// Product is a read-only record owned by the catalog service.
// The storefront core never mutates it.
type Product struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Price       float64
	Quantity    int32
	ImageURL    string
	CreatedAt   time.Time
}

// ProductVariant is a specific sellable configuration of a product
// (e.g. a size/color combination) with its own price and stock.
type ProductVariant struct {
	ID       string
	Name     string
	Price    float64
	Quantity int32
}

// InStock reports whether the variant has any sellable stock left.
func (v ProductVariant) InStock() bool {
	return v.Quantity > 0
}
