package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fuyileeperez18-source/walmer-store/internal/cart"
	"github.com/fuyileeperez18-source/walmer-store/internal/catalog"
)

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type SetDrawerRequestDTO struct {
	Open bool `json:"open"`
}

type CartResponseDTO struct {
	Items     []cart.LineItem `json:"items"`
	Subtotal  float64         `json:"subtotal"`
	ItemCount int             `json:"item_count"`
	IsOpen    bool            `json:"is_open"`
}

func cartResponse(agg *cart.Aggregate) CartResponseDTO {
	record := agg.Snapshot()
	return CartResponseDTO{
		Items:     record.Items,
		Subtotal:  record.Subtotal(),
		ItemCount: record.ItemCount(),
		IsOpen:    record.IsOpen,
	}
}

func (a *API) aggregate(w http.ResponseWriter, r *http.Request) *cart.Aggregate {
	shopperID := shopperIDFromContext(r.Context())
	if shopperID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing shopper identity")
		return nil
	}

	agg, err := a.carts.Get(r.Context(), shopperID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return nil
	}
	return agg
}

func (a *API) GetCart(w http.ResponseWriter, r *http.Request) {
	agg := a.aggregate(w, r)
	if agg == nil {
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(agg))
}

func (a *API) AddItem(w http.ResponseWriter, r *http.Request) {
	agg := a.aggregate(w, r)
	if agg == nil {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := a.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	// Stock gating is a catalog concern layered on top of the aggregate:
	// the aggregate itself never checks stock.
	var variant *catalog.ProductVariant
	if req.VariantID != "" {
		variant, err = a.catalog.Variant(r.Context(), req.ProductID, req.VariantID)
		if err != nil {
			respondError(w, http.StatusNotFound, "not_found", "variant not found")
			return
		}
		if !variant.InStock() {
			respondError(w, http.StatusConflict, "out_of_stock", "variant is out of stock")
			return
		}
	} else if product.Quantity <= 0 {
		respondError(w, http.StatusConflict, "out_of_stock", "product is out of stock")
		return
	}

	if err := agg.AddItem(r.Context(), product, variant, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(agg))
}

func (a *API) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	agg := a.aggregate(w, r)
	if agg == nil {
		return
	}

	lineID := chi.URLParam(r, "line_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be 99 or less")
		return
	}

	// Zero or negative quantities remove the line.
	if err := agg.UpdateQuantity(r.Context(), lineID, req.Quantity); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update quantity")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(agg))
}

func (a *API) RemoveItem(w http.ResponseWriter, r *http.Request) {
	agg := a.aggregate(w, r)
	if agg == nil {
		return
	}

	lineID := chi.URLParam(r, "line_id")

	if err := agg.RemoveItem(r.Context(), lineID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove item")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(agg))
}

func (a *API) ClearCart(w http.ResponseWriter, r *http.Request) {
	agg := a.aggregate(w, r)
	if agg == nil {
		return
	}

	if err := agg.Clear(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(agg))
}

func (a *API) SetDrawer(w http.ResponseWriter, r *http.Request) {
	agg := a.aggregate(w, r)
	if agg == nil {
		return
	}

	var req SetDrawerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := agg.SetOpen(r.Context(), req.Open); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update drawer state")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(agg))
}
