package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fuyileeperez18-source/walmer-store/internal/cart"
	"github.com/fuyileeperez18-source/walmer-store/internal/catalog"
	"github.com/fuyileeperez18-source/walmer-store/internal/checkout"
)

// API is the storefront's HTTP surface: the UI-event boundary in front of
// the cart aggregate and the checkout state machine.
type API struct {
	carts     *cart.Manager
	catalog   catalog.Catalog
	cfg       checkout.Config
	payment   checkout.PaymentPort
	finalizer *checkout.Finalizer

	mu       sync.RWMutex
	sessions map[string]*checkout.Machine // session ID -> machine
}

func NewAPI(carts *cart.Manager, cat catalog.Catalog, cfg checkout.Config, payment checkout.PaymentPort, finalizer *checkout.Finalizer) *API {
	return &API{
		carts:     carts,
		catalog:   cat,
		cfg:       cfg,
		payment:   payment,
		finalizer: finalizer,
		sessions:  make(map[string]*checkout.Machine),
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ShopperMiddleware)
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", a.GetCart)
			r.Delete("/", a.ClearCart)
			r.Post("/items", a.AddItem)
			r.Put("/items/{line_id}", a.UpdateQuantity)
			r.Delete("/items/{line_id}", a.RemoveItem)
			r.Post("/drawer", a.SetDrawer)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", a.BeginCheckout)
			r.Get("/{session_id}", a.GetCheckout)
			r.Post("/{session_id}/shipping", a.SubmitShipping)
			r.Post("/{session_id}/back", a.BackToShipping)
			r.Post("/{session_id}/coupon", a.ApplyCoupon)
			r.Post("/{session_id}/payment", a.SubmitPayment)
		})
	})

	return r
}

func (a *API) machine(sessionID string) (*checkout.Machine, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.sessions[sessionID]
	return m, ok
}

func (a *API) putMachine(sessionID string, m *checkout.Machine) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessions[sessionID] = m
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// respondCheckoutError maps the checkout sentinels onto HTTP statuses.
func respondCheckoutError(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "shipping info is invalid",
			Code:   "validation_failed",
			Fields: verr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrSessionClosed):
		respondError(w, http.StatusGone, "session_closed", err.Error())
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, checkout.ErrNoShippingMethod):
		respondError(w, http.StatusBadRequest, "unknown_shipping_method", err.Error())
	case errors.Is(err, checkout.ErrPaymentInFlight):
		respondError(w, http.StatusConflict, "payment_in_flight", err.Error())
	case errors.Is(err, checkout.ErrPaymentDeclined):
		respondError(w, http.StatusPaymentRequired, "payment_declined", err.Error())
	case errors.Is(err, checkout.ErrOrderServiceFailed):
		respondError(w, http.StatusBadGateway, "order_service_failed", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
