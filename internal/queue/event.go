// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationPaidEvent is published when a reservation's payment is
// confirmed and its dates are committed to the occupancy ledger.  It
// carries enough information for downstream consumers to log, notify or
// feed analytics without querying the primary database.
type ReservationPaidEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    ListingID     uint64 `json:"listing_id"`
    ListingName   string `json:"listing_name"`
    UserID        uint64 `json:"user_id"`
    StartDate     string `json:"start_date"`
    EndDate       string `json:"end_date"`
    Headcount     int    `json:"headcount"`
    TotalCents    uint32 `json:"total_cents"`
    TransactionID string `json:"transaction_id"`
    PaidAt        string `json:"paid_at"`
}
