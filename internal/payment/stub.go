package payment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/fuyileeperez18-source/walmer-store/internal/checkout"
)

// Outcome decides the result of a stubbed authorization. The seam exists
// so tests can force a specific refusal.
type Outcome interface {
	GetStatus() (success bool, reason string)
}

// RandomOutcome approves roughly 95% of charges and spreads the rest over
// the known refusal reasons.
type RandomOutcome struct{}

var refusalReasons = []string{
	"insufficient funds",
	"card expired",
	"card reported stolen",
	"suspected fraud",
	"issuer unavailable",
}

func (r RandomOutcome) GetStatus() (bool, string) {
	randomInt := rand.Intn(101) // 101 because Intn is exclusive of the upper bound
	return calcStatus(randomInt)
}

func calcStatus(randomInt int) (bool, string) {
	if randomInt < 95 {
		return true, ""
	}
	reason := randomInt - 95
	if reason >= len(refusalReasons) {
		return false, "unknown reason"
	}
	return false, refusalReasons[reason]
}

// Stub implements checkout.PaymentPort without an external gateway. Used
// for local runs and tests.
type Stub struct {
	outcome Outcome
}

func NewStub(outcome Outcome) *Stub {
	return &Stub{outcome: outcome}
}

func (s *Stub) Authorize(_ context.Context, _ checkout.CardDetails, _ float64) (*checkout.PaymentResult, error) {
	success, reason := s.outcome.GetStatus()
	if !success {
		return &checkout.PaymentResult{Success: false, Reason: reason}, nil
	}
	return &checkout.PaymentResult{
		Success: true,
		Token:   fmt.Sprintf("TXN-%d", time.Now().UnixNano()),
	}, nil
}
