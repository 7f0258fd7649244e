package gateway

import (
    "context"
    "fmt"
    "sync"
)

// ChargeCall records one invocation of the mock's Charge method.
type ChargeCall struct {
    AmountCents uint32
    Currency    string
    Token       string
    Description string
}

// PaymentMock is an in-memory PaymentClient for tests.  It records
// every charge and returns deterministic transaction ids, or the
// configured error.
type PaymentMock struct {
    mock    sync.Mutex
    Err     error
    Charges []ChargeCall
}

func (m *PaymentMock) Charge(_ context.Context, amountCents uint32, currency, token, description string) (string, error) {
    m.mock.Lock()
    defer m.mock.Unlock()
    if m.Err != nil {
        return "", m.Err
    }
    m.Charges = append(m.Charges, ChargeCall{
        AmountCents: amountCents,
        Currency:    currency,
        Token:       token,
        Description: description,
    })
    return fmt.Sprintf("txn_%06d", len(m.Charges)), nil
}
