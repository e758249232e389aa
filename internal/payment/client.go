package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fuyileeperez18-source/walmer-store/internal/checkout"
)

// Client implements checkout.PaymentPort against an HTTP payment gateway.
// Calls run through a circuit breaker so a flapping gateway fails fast
// instead of queueing shoppers behind timeouts. The breaker rejects, it
// never retries; all retries stay user-initiated.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*checkout.PaymentResult]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name:    "payment-gateway",
		Timeout: 30 * time.Second,
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*checkout.PaymentResult](settings),
	}
}

type chargeRequest struct {
	Card   checkout.CardDetails `json:"card"`
	Amount float64              `json:"amount"`
}

type chargeResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func (c *Client) Authorize(ctx context.Context, card checkout.CardDetails, amount float64) (*checkout.PaymentResult, error) {
	return c.breaker.Execute(func() (*checkout.PaymentResult, error) {
		return c.authorize(ctx, card, amount)
	})
}

func (c *Client) authorize(ctx context.Context, card checkout.CardDetails, amount float64) (*checkout.PaymentResult, error) {
	body, err := json.Marshal(chargeRequest{Card: card, Amount: amount})
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var charge chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return nil, fmt.Errorf("decode charge response: %w", err)
	}

	return &checkout.PaymentResult{
		Success: charge.Success,
		Token:   charge.Token,
		Reason:  charge.Reason,
	}, nil
}
