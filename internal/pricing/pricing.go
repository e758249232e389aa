package pricing

import "math"

// ShippingMethod is one entry of the fixed shipping catalog.
type ShippingMethod struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	FlatCost      float64 `json:"flat_cost"`
	EstimatedDays int     `json:"estimated_days"`
}

// Methods is the fixed shipping catalog offered at checkout.
var Methods = []ShippingMethod{
	{ID: "standard", Label: "Standard", FlatCost: 10, EstimatedDays: 5},
	{ID: "express", Label: "Express", FlatCost: 25, EstimatedDays: 2},
	{ID: "overnight", Label: "Overnight", FlatCost: 40, EstimatedDays: 1},
}

// MethodByID looks up a shipping method in the fixed catalog.
func MethodByID(id string) (ShippingMethod, bool) {
	for _, m := range Methods {
		if m.ID == id {
			return m, true
		}
	}
	return ShippingMethod{}, false
}

// Quote is the derived money breakdown for a checkout.
type Quote struct {
	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shipping_cost"`
	Tax          float64 `json:"tax"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
}

// Price derives shipping, tax and total from a subtotal and a chosen
// shipping method. It is deterministic and side-effect-free so the UI can
// call it on every re-render without drift.
//
// Only the tax line is rounded (to 2 decimal places); the subtotal is
// accumulated unrounded to avoid cumulative rounding error across many
// line items.
func Price(subtotal float64, method ShippingMethod, freeShippingThreshold, taxRate, discount float64) Quote {
	shippingCost := method.FlatCost
	if subtotal >= freeShippingThreshold {
		shippingCost = 0
	}

	tax := round2(subtotal * taxRate)

	return Quote{
		Subtotal:     subtotal,
		ShippingCost: shippingCost,
		Tax:          tax,
		Discount:     discount,
		Total:        subtotal + shippingCost + tax - discount,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
