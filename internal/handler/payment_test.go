package handler

import (
    "net/http"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/digitalbooking/campsite-booking/internal/gateway"
    "github.com/digitalbooking/campsite-booking/internal/repository"
)

func newTestPaymentHandler() *PaymentHandler {
    return NewPaymentHandler(
        repository.NewReservationRepo(nil),
        repository.NewPaymentOrderRepo(nil),
        &gateway.PaymentMock{},
    )
}

func TestCreateOrderRejectsMissingUser(t *testing.T) {
    h := newTestPaymentHandler()
    c, rec := newRequestContext(t, http.MethodPost, "/v1/payment-orders", `{}`, nil)
    require.NoError(t, h.CreateOrder(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrderValidatesBody(t *testing.T) {
    h := newTestPaymentHandler()
    cases := []struct {
        name string
        body string
        want string
    }{
        {"missing reservation", `{"amount_cents":1000,"token":"tok_visa"}`, "reservation_id"},
        {"zero amount", `{"reservation_id":5,"token":"tok_visa"}`, "amount_cents"},
        {"missing token", `{"reservation_id":5,"amount_cents":1000}`, "token"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            c, rec := newRequestContext(t, http.MethodPost, "/v1/payment-orders", tc.body, uint64(7))
            require.NoError(t, h.CreateOrder(c))
            assert.Equal(t, http.StatusBadRequest, rec.Code)
            assert.Contains(t, rec.Body.String(), tc.want)
        })
    }
}

func TestNewPaymentHandlerPanicsOnNilGateway(t *testing.T) {
    assert.Panics(t, func() {
        NewPaymentHandler(repository.NewReservationRepo(nil), repository.NewPaymentOrderRepo(nil), nil)
    })
}
