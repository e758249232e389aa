package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fuyileeperez18-source/walmer-store/internal/checkout"
	"github.com/fuyileeperez18-source/walmer-store/internal/pricing"
)

type SubmitShippingRequestDTO struct {
	Info             checkout.ShippingInfo `json:"info"`
	ShippingMethodID string                `json:"shipping_method_id"`
}

type ApplyCouponRequestDTO struct {
	Code string `json:"code"`
}

type SubmitPaymentRequestDTO struct {
	Card checkout.CardDetails `json:"card"`
}

type CheckoutResponseDTO struct {
	SessionID        string                   `json:"session_id"`
	Step             checkout.Step            `json:"step"`
	Snapshot         checkout.CartSnapshot    `json:"snapshot"`
	ShippingInfo     *checkout.ShippingInfo   `json:"shipping_info,omitempty"`
	ShippingMethodID string                   `json:"shipping_method_id,omitempty"`
	CouponCode       string                   `json:"coupon_code,omitempty"`
	Quote            pricing.Quote            `json:"quote"`
	PaymentResult    *checkout.PaymentResult  `json:"payment_result,omitempty"`
	OrderNumber      string                   `json:"order_number,omitempty"`
	ShippingMethods  []pricing.ShippingMethod `json:"shipping_methods"`
}

func checkoutResponse(m *checkout.Machine) CheckoutResponseDTO {
	session := m.Session()
	return CheckoutResponseDTO{
		SessionID:        session.ID,
		Step:             session.Step,
		Snapshot:         session.Snapshot,
		ShippingInfo:     session.ShippingInfo,
		ShippingMethodID: session.ShippingMethodID,
		CouponCode:       session.CouponCode,
		Quote:            m.Quote(),
		PaymentResult:    session.PaymentResult,
		OrderNumber:      session.OrderNumber,
		ShippingMethods:  pricing.Methods,
	}
}

// BeginCheckout snapshots the cart and opens a new single-use session.
func (a *API) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	agg := a.aggregate(w, r)
	if agg == nil {
		return
	}

	m, err := checkout.Begin(a.cfg, a.payment, a.finalizer, agg)
	if err != nil {
		respondCheckoutError(w, err)
		return
	}

	a.putMachine(m.Session().ID, m)
	respondJSON(w, http.StatusCreated, checkoutResponse(m))
}

func (a *API) sessionMachine(w http.ResponseWriter, r *http.Request) *checkout.Machine {
	sessionID := chi.URLParam(r, "session_id")
	m, ok := a.machine(sessionID)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "checkout session not found")
		return nil
	}
	if m.Session().ShopperID != shopperIDFromContext(r.Context()) {
		respondError(w, http.StatusForbidden, "forbidden", "checkout session belongs to another shopper")
		return nil
	}
	return m
}

func (a *API) GetCheckout(w http.ResponseWriter, r *http.Request) {
	m := a.sessionMachine(w, r)
	if m == nil {
		return
	}
	respondJSON(w, http.StatusOK, checkoutResponse(m))
}

func (a *API) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	m := a.sessionMachine(w, r)
	if m == nil {
		return
	}

	var req SubmitShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := m.SubmitShipping(req.Info, req.ShippingMethodID); err != nil {
		respondCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponse(m))
}

func (a *API) BackToShipping(w http.ResponseWriter, r *http.Request) {
	m := a.sessionMachine(w, r)
	if m == nil {
		return
	}

	if err := m.BackToShipping(); err != nil {
		respondCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponse(m))
}

func (a *API) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	m := a.sessionMachine(w, r)
	if m == nil {
		return
	}

	var req ApplyCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := m.ApplyCoupon(req.Code); err != nil {
		respondCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponse(m))
}

func (a *API) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	m := a.sessionMachine(w, r)
	if m == nil {
		return
	}

	var req SubmitPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if _, err := m.SubmitPayment(r.Context(), req.Card); err != nil {
		respondCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, checkoutResponse(m))
}
