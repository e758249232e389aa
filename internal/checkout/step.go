package checkout

// Step is the checkout step sequence: Shipping → Payment → Confirmation.
// Forward movement is linear with no skips; backward navigation is
// allowed until Confirmation, which is terminal.
type Step string

const (
	StepShipping     Step = "SHIPPING"
	StepPayment      Step = "PAYMENT"
	StepConfirmation Step = "CONFIRMATION"
)

// IsTerminal reports whether the step ends the session.
func (s Step) IsTerminal() bool {
	return s == StepConfirmation
}

// String representation (for logging)
func (s Step) String() string {
	return string(s)
}

// CanTransitionTo reports whether the step sequence allows moving from
// one step to another. Forward transitions are adjacent-only; any
// backward transition is allowed except out of Confirmation.
func CanTransitionTo(from, to Step) bool {
	if from.IsTerminal() {
		return false
	}
	switch from {
	case StepShipping:
		return to == StepPayment
	case StepPayment:
		return to == StepConfirmation || to == StepShipping
	default:
		return false
	}
}
