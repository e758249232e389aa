package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fuyileeperez18-source/walmer-store/internal/cart"
	"github.com/fuyileeperez18-source/walmer-store/internal/pricing"
)

// Config carries the flat pricing parameters the machine derives totals
// with. Tax jurisdiction rules are out of scope; the rate is flat.
type Config struct {
	FreeShippingThreshold float64
	TaxRate               float64
	Currency              string
}

// Machine sequences one checkout session through Shipping → Payment →
// Confirmation, validating each step's input before advancing. It owns
// the in-progress session and the cart aggregate it was started from.
type Machine struct {
	mu        sync.Mutex
	cfg       Config
	payment   PaymentPort
	finalizer *Finalizer
	cart      *cart.Aggregate
	session   *Session

	// inFlight guards against double submission while a payment attempt
	// is pending. It must resolve to false on every outcome so the UI
	// never gets stuck.
	inFlight bool
}

// Begin starts a checkout for the given cart, capturing a snapshot of its
// items and subtotal. An empty cart cannot be checked out.
func Begin(cfg Config, payment PaymentPort, finalizer *Finalizer, agg *cart.Aggregate) (*Machine, error) {
	items := agg.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	record := agg.Snapshot()
	session := &Session{
		ID:        uuid.New().String(),
		ShopperID: record.ShopperID,
		Step:      StepShipping,
		Snapshot:  snapshotCart(items, cfg.Currency),
		CreatedAt: time.Now(),
	}

	return &Machine{
		cfg:       cfg,
		payment:   payment,
		finalizer: finalizer,
		cart:      agg,
		session:   session,
	}, nil
}

// Session returns a copy of the session for display.
func (m *Machine) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.session
}

// Step returns the current checkout step.
func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Step
}

// SubmitShipping validates the shipping info and chosen method, freezes
// them on the session and advances to the Payment step. Validation
// failures come back as *ValidationError with field-level messages and
// leave the session where it was.
func (m *Machine) SubmitShipping(info ShippingInfo, methodID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Step.IsTerminal() {
		return ErrSessionClosed
	}
	if !CanTransitionTo(m.session.Step, StepPayment) {
		return ErrIllegalTransition
	}
	if _, ok := pricing.MethodByID(methodID); !ok {
		return ErrNoShippingMethod
	}
	if err := ValidateShippingInfo(info); err != nil {
		return err
	}

	m.session.ShippingInfo = &info
	m.session.ShippingMethodID = methodID
	if m.session.IdempotencyKey == "" {
		// Minted once per session: a payment retry after back-navigation
		// reuses the same key so the order service can deduplicate.
		m.session.IdempotencyKey = uuid.New().String()
	}
	m.session.Step = StepPayment
	return nil
}

// BackToShipping is the explicit "edit shipping" backward transition. The
// frozen shipping data is kept as editable defaults. Navigation is
// rejected while a payment attempt is pending: moving the step out from
// under the in-flight authorization would strand an authorized charge
// with no order.
func (m *Machine) BackToShipping() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Step.IsTerminal() {
		return ErrSessionClosed
	}
	if m.inFlight {
		return ErrPaymentInFlight
	}
	if !CanTransitionTo(m.session.Step, StepShipping) {
		return ErrIllegalTransition
	}

	m.session.Step = StepShipping
	return nil
}

// ApplyCoupon records the coupon code on the session. No discount policy
// is wired yet: the quote always carries a zero discount.
func (m *Machine) ApplyCoupon(code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.Step.IsTerminal() {
		return ErrSessionClosed
	}
	if m.inFlight {
		return ErrPaymentInFlight
	}

	m.session.CouponCode = code
	return nil
}

// Quote derives the current money breakdown from the frozen snapshot and
// the chosen shipping method. Before a method is chosen the shipping line
// is zero.
func (m *Machine) Quote() pricing.Quote {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quoteLocked()
}

func (m *Machine) quoteLocked() pricing.Quote {
	method, _ := pricing.MethodByID(m.session.ShippingMethodID)
	return pricing.Price(m.session.Snapshot.Subtotal, method, m.cfg.FreeShippingThreshold, m.cfg.TaxRate, 0)
}

// SubmitPayment authorizes the charge and, on success, finalizes the
// order and enters Confirmation. On a declined payment or a finalize
// failure the session stays in Payment with the reason attached, so the
// shopper can retry or navigate back. A second submit while one is in
// flight is rejected with ErrPaymentInFlight.
func (m *Machine) SubmitPayment(ctx context.Context, card CardDetails) (string, error) {
	m.mu.Lock()
	if m.session.Step.IsTerminal() {
		m.mu.Unlock()
		return "", ErrSessionClosed
	}
	if m.session.Step != StepPayment {
		m.mu.Unlock()
		return "", ErrIllegalTransition
	}
	if m.inFlight {
		m.mu.Unlock()
		return "", ErrPaymentInFlight
	}
	m.inFlight = true
	amount := m.quoteLocked().Total
	m.mu.Unlock()

	// The authorize call happens outside the lock so the session stays
	// readable while the gateway is slow; inFlight blocks a second submit.
	result, err := m.payment.Authorize(ctx, card, amount)

	m.mu.Lock()
	defer func() {
		m.inFlight = false
		m.mu.Unlock()
	}()

	if err != nil {
		m.session.PaymentResult = &PaymentResult{Success: false, Reason: err.Error()}
		return "", fmt.Errorf("payment authorization failed: %w", err)
	}
	if !result.Success {
		m.session.PaymentResult = result
		return "", fmt.Errorf("%w: %s", ErrPaymentDeclined, result.Reason)
	}
	m.session.PaymentResult = result

	if !CanTransitionTo(m.session.Step, StepConfirmation) {
		return "", ErrIllegalTransition
	}

	orderNumber, err := m.finalizer.Finalize(ctx, m.session, m.cart, m.quoteLocked())
	if err != nil {
		// Cart and session are untouched; the shopper retries.
		return "", err
	}

	m.session.OrderNumber = orderNumber
	m.session.Step = StepConfirmation
	return orderNumber, nil
}
