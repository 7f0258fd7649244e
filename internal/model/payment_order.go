package model

import "time"

// PaymentOrder records a successful charge against the payment gateway
// for a single reservation.  It is one-to-one with a reservation and
// gates the confirm transition: a reservation only moves to PAID once a
// payment order referencing it exists.  Beyond that, it takes no part in
// the ledger's consistency logic.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – the reservation this payment belongs to.
//  TransactionID – identifier returned by the external gateway.
//  AmountCents   – charged amount in cents.
//  Currency      – ISO currency code, e.g. "BRL", "USD".
//  Token         – opaque charge token supplied by the client.
//  Description   – free-form charge description.
//  CreatedAt     – creation timestamp.
type PaymentOrder struct {
    ID            uint64    // payment_orders.id
    ReservationID uint64    // payment_orders.reservation_id
    TransactionID string    // payment_orders.transaction_id
    AmountCents   uint32    // payment_orders.amount_cents
    Currency      string    // payment_orders.currency
    Token         string    // payment_orders.token
    Description   string    // payment_orders.description
    CreatedAt     time.Time // payment_orders.created_at
}
