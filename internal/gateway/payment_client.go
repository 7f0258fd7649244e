// Package gateway wraps the external payment provider.  The core only
// needs one operation: charge an opaque token and obtain the provider's
// transaction id.  Gateway failures are infrastructure errors, distinct
// from the booking business rules; callers leave the reservation in
// PENDING so the confirmation can be retried.
package gateway

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "time"

    "github.com/google/uuid"
)

// PaymentClient charges tokens against the payment provider.
type PaymentClient interface {
    Charge(ctx context.Context, amountCents uint32, currency, token, description string) (string, error)
}

// HTTPPaymentClient talks to a Stripe-style charges endpoint over HTTP.
// Every request carries a fresh idempotency key so a retried call after
// a network failure cannot double-charge the customer.
type HTTPPaymentClient struct {
    baseURL string
    apiKey  string
    client  *http.Client
}

// NewHTTPPaymentClient builds a client for the given endpoint and secret
// key.  The underlying HTTP client uses a bounded timeout so a hung
// provider cannot stall a confirmation worker indefinitely.
func NewHTTPPaymentClient(baseURL, apiKey string) *HTTPPaymentClient {
    return &HTTPPaymentClient{
        baseURL: baseURL,
        apiKey:  apiKey,
        client:  &http.Client{Timeout: 15 * time.Second},
    }
}

type chargeRequest struct {
    AmountCents uint32 `json:"amount_cents"`
    Currency    string `json:"currency"`
    Source      string `json:"source"`
    Description string `json:"description"`
}

type chargeResponse struct {
    ID string `json:"id"`
}

// Charge posts a charge and returns the provider's transaction id.  Any
// non-200 response or transport failure is returned as an error; the
// caller decides whether the operation is retryable.
func (c *HTTPPaymentClient) Charge(ctx context.Context, amountCents uint32, currency, token, description string) (string, error) {
    body, err := json.Marshal(chargeRequest{
        AmountCents: amountCents,
        Currency:    currency,
        Source:      token,
        Description: description,
    })
    if err != nil {
        return "", err
    }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", bytes.NewReader(body))
    if err != nil {
        return "", err
    }
    req.Header.Set("Content-Type", "application/json")
    req.Header.Set("Authorization", "Bearer "+c.apiKey)
    req.Header.Set("Idempotency-Key", uuid.NewString())

    resp, err := c.client.Do(req)
    if err != nil {
        return "", fmt.Errorf("payment gateway unreachable: %w", err)
    }
    defer func() { _ = resp.Body.Close() }()

    if resp.StatusCode != http.StatusOK {
        return "", fmt.Errorf("unexpected status code from payment gateway: %d", resp.StatusCode)
    }
    var out chargeResponse
    if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
        return "", fmt.Errorf("decode gateway response: %w", err)
    }
    if out.ID == "" {
        return "", fmt.Errorf("payment gateway returned an empty transaction id")
    }
    return out.ID, nil
}
