package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuyileeperez18-source/walmer-store/internal/checkout"
)

func validShippingRequest() SubmitShippingRequestDTO {
	return SubmitShippingRequestDTO{
		Info: checkout.ShippingInfo{
			Email:      "jane@example.com",
			Name:       "Jane Doe",
			Phone:      "+14155550123",
			Address1:   "1 Market St",
			City:       "San Francisco",
			Region:     "CA",
			PostalCode: "94105",
			Country:    "US",
		},
		ShippingMethodID: "standard",
	}
}

func decodeCheckout(t *testing.T, rec *httptest.ResponseRecorder) CheckoutResponseDTO {
	t.Helper()
	var resp CheckoutResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// beginCheckout seeds a cart worth 134.30 (2 hoodies + 1 mug) and opens a
// session for shopper-1.
func beginCheckout(t *testing.T, router chi.Router) CheckoutResponseDTO {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "shopper-1",
		AddItemRequestDTO{ProductID: "p-hoodie", Quantity: 2})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "shopper-1",
		AddItemRequestDTO{ProductID: "p-mug", Quantity: 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout", "shopper-1", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeCheckout(t, rec)
}

func TestBeginCheckout_EmptyCart(t *testing.T) {
	router := newTestAPI(approveOutcome{}).Router()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout", "shopper-1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "empty_cart", resp.Code)
}

func TestBeginCheckout_SnapshotsCart(t *testing.T) {
	router := newTestAPI(approveOutcome{}).Router()

	resp := beginCheckout(t, router)

	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, checkout.StepShipping, resp.Step)
	assert.Equal(t, 134.30, resp.Snapshot.Subtotal)
	assert.Equal(t, 3, resp.Snapshot.ItemCount)
	assert.Len(t, resp.ShippingMethods, 3)
}

func TestGetCheckout_UnknownSession(t *testing.T) {
	router := newTestAPI(approveOutcome{}).Router()

	rec := doRequest(t, router, http.MethodGet, "/api/v1/checkout/nope", "shopper-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCheckout_WrongShopper(t *testing.T) {
	router := newTestAPI(approveOutcome{}).Router()
	session := beginCheckout(t, router)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/checkout/"+session.SessionID, "shopper-2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmitShipping_AdvancesToPayment(t *testing.T) {
	router := newTestAPI(approveOutcome{}).Router()
	session := beginCheckout(t, router)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/shipping",
		"shopper-1", validShippingRequest())
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeCheckout(t, rec)
	assert.Equal(t, checkout.StepPayment, resp.Step)
	assert.Equal(t, "standard", resp.ShippingMethodID)

	// 134.30 is above the free-shipping threshold.
	assert.Equal(t, 0.0, resp.Quote.ShippingCost)
	assert.Equal(t, 10.74, resp.Quote.Tax)
	assert.Equal(t, 145.04, resp.Quote.Total)
}

func TestSubmitShipping_ValidationErrors(t *testing.T) {
	router := newTestAPI(approveOutcome{}).Router()
	session := beginCheckout(t, router)

	body := validShippingRequest()
	body.Info.Email = "nope"
	body.Info.PostalCode = ""

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/shipping",
		"shopper-1", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp.Code)
	assert.Contains(t, resp.Fields, "email")
	assert.Contains(t, resp.Fields, "postal_code")
	assert.NotContains(t, resp.Fields, "name")
}

func TestSubmitShipping_UnknownMethod(t *testing.T) {
	router := newTestAPI(approveOutcome{}).Router()
	session := beginCheckout(t, router)

	body := validShippingRequest()
	body.ShippingMethodID = "teleport"

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/shipping",
		"shopper-1", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBackToShipping(t *testing.T) {
	router := newTestAPI(approveOutcome{}).Router()
	session := beginCheckout(t, router)

	doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/shipping",
		"shopper-1", validShippingRequest())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/back",
		"shopper-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeCheckout(t, rec)
	assert.Equal(t, checkout.StepShipping, resp.Step)
	// The frozen info survives as editable defaults.
	require.NotNil(t, resp.ShippingInfo)
	assert.Equal(t, "jane@example.com", resp.ShippingInfo.Email)
}

func TestBackToShipping_FromShippingConflicts(t *testing.T) {
	router := newTestAPI(approveOutcome{}).Router()
	session := beginCheckout(t, router)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/back",
		"shopper-1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApplyCoupon_RecordedWithZeroDiscount(t *testing.T) {
	router := newTestAPI(approveOutcome{}).Router()
	session := beginCheckout(t, router)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/coupon",
		"shopper-1", ApplyCouponRequestDTO{Code: "WELCOME10"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeCheckout(t, rec)
	assert.Equal(t, "WELCOME10", resp.CouponCode)
	assert.Equal(t, 0.0, resp.Quote.Discount)
}

func TestSubmitPayment_FullCheckoutFlow(t *testing.T) {
	router := newTestAPI(approveOutcome{}).Router()
	session := beginCheckout(t, router)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/shipping",
		"shopper-1", validShippingRequest())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/payment",
		"shopper-1", SubmitPaymentRequestDTO{Card: checkout.CardDetails{Number: "4242424242424242"}})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeCheckout(t, rec)
	assert.Equal(t, checkout.StepConfirmation, resp.Step)
	assert.NotEmpty(t, resp.OrderNumber)
	require.NotNil(t, resp.PaymentResult)
	assert.True(t, resp.PaymentResult.Success)

	// The cart was cleared by finalization.
	cartRec := doRequest(t, router, http.MethodGet, "/api/v1/cart", "shopper-1", nil)
	require.Equal(t, http.StatusOK, cartRec.Code)
	assert.Empty(t, decodeCart(t, cartRec).Items)
}

func TestSubmitPayment_DeclinedReturns402(t *testing.T) {
	router := newTestAPI(declineOutcome{}).Router()
	session := beginCheckout(t, router)

	doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/shipping",
		"shopper-1", validShippingRequest())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/payment",
		"shopper-1", SubmitPaymentRequestDTO{})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "payment_declined", resp.Code)

	// Session stays on Payment and the cart is untouched.
	getRec := doRequest(t, router, http.MethodGet, "/api/v1/checkout/"+session.SessionID, "shopper-1", nil)
	assert.Equal(t, checkout.StepPayment, decodeCheckout(t, getRec).Step)

	cartRec := doRequest(t, router, http.MethodGet, "/api/v1/cart", "shopper-1", nil)
	assert.Len(t, decodeCart(t, cartRec).Items, 2)
}

func TestSubmitPayment_BeforeShippingConflicts(t *testing.T) {
	router := newTestAPI(approveOutcome{}).Router()
	session := beginCheckout(t, router)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/payment",
		"shopper-1", SubmitPaymentRequestDTO{})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCompletedSession_IsGone(t *testing.T) {
	router := newTestAPI(approveOutcome{}).Router()
	session := beginCheckout(t, router)

	doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/shipping",
		"shopper-1", validShippingRequest())
	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/payment",
		"shopper-1", SubmitPaymentRequestDTO{})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/shipping",
		"shopper-1", validShippingRequest())
	assert.Equal(t, http.StatusGone, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/payment",
		"shopper-1", SubmitPaymentRequestDTO{})
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestPaymentEmbedsDeclineReason(t *testing.T) {
	router := newTestAPI(declineOutcome{}).Router()
	session := beginCheckout(t, router)

	doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/shipping",
		"shopper-1", validShippingRequest())
	doRequest(t, router, http.MethodPost, "/api/v1/checkout/"+session.SessionID+"/payment",
		"shopper-1", SubmitPaymentRequestDTO{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/checkout/"+session.SessionID, "shopper-1", nil)
	resp := decodeCheckout(t, rec)
	require.NotNil(t, resp.PaymentResult)
	assert.False(t, resp.PaymentResult.Success)
	assert.Equal(t, "insufficient funds", resp.PaymentResult.Reason)
}
