package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition  = errors.New("illegal transition of checkout step")
	ErrSessionClosed      = errors.New("checkout session is closed")
	ErrNoShippingMethod   = errors.New("unknown shipping method")
	ErrPaymentInFlight    = errors.New("a payment attempt is already in flight")
	ErrPaymentDeclined    = errors.New("payment was declined")
	ErrOrderServiceFailed = errors.New("order service did not accept the order")
)
