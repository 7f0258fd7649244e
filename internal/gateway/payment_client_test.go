package gateway

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestChargeSuccess(t *testing.T) {
    var gotAuth, gotIdem string
    var gotBody chargeRequest
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        require.Equal(t, http.MethodPost, r.Method)
        require.Equal(t, "/v1/charges", r.URL.Path)
        gotAuth = r.Header.Get("Authorization")
        gotIdem = r.Header.Get("Idempotency-Key")
        require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
        _ = json.NewEncoder(w).Encode(map[string]string{"id": "ch_12345"})
    }))
    defer srv.Close()

    c := NewHTTPPaymentClient(srv.URL, "sk_test_abc")
    txn, err := c.Charge(context.Background(), 25000, "BRL", "tok_visa", "reservation 42")
    require.NoError(t, err)
    assert.Equal(t, "ch_12345", txn)

    assert.Equal(t, "Bearer sk_test_abc", gotAuth)
    assert.NotEmpty(t, gotIdem)
    assert.Equal(t, uint32(25000), gotBody.AmountCents)
    assert.Equal(t, "BRL", gotBody.Currency)
    assert.Equal(t, "tok_visa", gotBody.Source)
}

func TestChargeRejectedStatus(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        http.Error(w, `{"error":"card_declined"}`, http.StatusPaymentRequired)
    }))
    defer srv.Close()

    c := NewHTTPPaymentClient(srv.URL, "sk_test_abc")
    _, err := c.Charge(context.Background(), 100, "USD", "tok_bad", "")
    require.Error(t, err)
    assert.Contains(t, err.Error(), "402")
}

func TestChargeEmptyTransactionID(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        _ = json.NewEncoder(w).Encode(map[string]string{"id": ""})
    }))
    defer srv.Close()

    c := NewHTTPPaymentClient(srv.URL, "sk_test_abc")
    _, err := c.Charge(context.Background(), 100, "USD", "tok_visa", "")
    assert.Error(t, err)
}

func TestChargeUnreachableGateway(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
    srv.Close() // shut down before the call so the dial fails

    c := NewHTTPPaymentClient(srv.URL, "sk_test_abc")
    _, err := c.Charge(context.Background(), 100, "USD", "tok_visa", "")
    assert.Error(t, err)
}

func TestPaymentMockSequencesTransactionIDs(t *testing.T) {
    m := &PaymentMock{}
    first, err := m.Charge(context.Background(), 100, "USD", "tok_a", "a")
    require.NoError(t, err)
    second, err := m.Charge(context.Background(), 200, "USD", "tok_b", "b")
    require.NoError(t, err)
    assert.NotEqual(t, first, second)
    require.Len(t, m.Charges, 2)
    assert.Equal(t, "tok_b", m.Charges[1].Token)
}
