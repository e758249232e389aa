package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcStatus(t *testing.T) {
	tests := []struct {
		name      string
		randomInt int
		success   bool
		reason    string
	}{
		{"zero approves", 0, true, ""},
		{"94 approves", 94, true, ""},
		{"95 refuses with first reason", 95, false, "insufficient funds"},
		{"96 card expired", 96, false, "card expired"},
		{"97 card stolen", 97, false, "card reported stolen"},
		{"98 suspected fraud", 98, false, "suspected fraud"},
		{"99 issuer unavailable", 99, false, "issuer unavailable"},
		{"100 unknown reason", 100, false, "unknown reason"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			success, reason := calcStatus(tt.randomInt)
			assert.Equal(t, tt.success, success)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

// fixedOutcome forces a deterministic result.
type fixedOutcome struct {
	success bool
	reason  string
}

func (f fixedOutcome) GetStatus() (bool, string) {
	return f.success, f.reason
}

func TestStubAuthorize_Success(t *testing.T) {
	stub := NewStub(fixedOutcome{success: true})

	result, err := stub.Authorize(context.Background(), cardFixture(), 100)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Token, "TXN-"))
	assert.Empty(t, result.Reason)
}

func TestStubAuthorize_Refusal(t *testing.T) {
	stub := NewStub(fixedOutcome{success: false, reason: "insufficient funds"})

	result, err := stub.Authorize(context.Background(), cardFixture(), 100)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Empty(t, result.Token)
	assert.Equal(t, "insufficient funds", result.Reason)
}
