package model

import "time"

// Reservation statuses.  A reservation is created PENDING and moves to
// PAID once payment is confirmed and the requested dates are committed
// to the occupancy ledger.  PAID reservations whose end date has passed
// are rewritten to CLOSED when read.  CANCELLED is reached when payment
// confirmation finds the dates no longer available.
const (
    StatusPending   = "PENDING"
    StatusPaid      = "PAID"
    StatusCancelled = "CANCELLED"
    StatusClosed    = "CLOSED"
)

// Reservation records a customer's request to occupy a listing over an
// inclusive date range with a given headcount.  Creating a reservation
// does not commit any capacity; only the confirm transition writes to
// the occupancy ledger.
//
// Fields:
//  ID         – primary key identifier.
//  ListingID  – listing being reserved.
//  UserID     – customer who made the reservation.
//  StartDate  – first day of the stay (inclusive).
//  EndDate    – last day of the stay (inclusive, >= StartDate).
//  StartTime  – arrival time on the first day (e.g. "14:00").
//  Headcount  – number of people, positive.
//  Status     – one of PENDING, PAID, CANCELLED, CLOSED.
//  TotalCents – total price in cents; opaque to the ledger.
//  PaymentRef – external payment transaction reference, if any.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
    ID         uint64    // reservations.id
    ListingID  uint64    // reservations.listing_id
    UserID     uint64    // reservations.user_id
    StartDate  time.Time // reservations.start_date (DATE)
    EndDate    time.Time // reservations.end_date (DATE)
    StartTime  string    // reservations.start_time (TIME)
    Headcount  int       // reservations.headcount
    Status     string    // reservations.status
    TotalCents uint32    // reservations.total_cents
    PaymentRef *string   // reservations.payment_ref (nullable)
    CreatedAt  time.Time // reservations.created_at
    UpdatedAt  time.Time // reservations.updated_at
}

// Elapsed reports whether the stay has already finished: the end date is
// before the given day.  Both values are compared at day granularity.
func (r *Reservation) Elapsed(today time.Time) bool {
    return dayOf(r.EndDate).Before(dayOf(today))
}

// ShouldClose reports whether a read should rewrite this reservation to
// CLOSED: it is PAID and its end date has passed.
func (r *Reservation) ShouldClose(today time.Time) bool {
    return r.Status == StatusPaid && r.Elapsed(today)
}

// Deletable reports whether the reservation may be removed.  Deletion is
// permitted once the reservation is CLOSED, or whenever the end date is
// not after today (the stay has already elapsed).  PENDING or CANCELLED
// reservations whose dates have passed may be deleted freely; they never
// committed capacity, so no ledger rollback is needed.
func (r *Reservation) Deletable(today time.Time) bool {
    if r.Status == StatusClosed {
        return true
    }
    return !dayOf(r.EndDate).After(dayOf(today))
}

// dayOf truncates a timestamp to midnight UTC so reservations compare at
// calendar-day granularity regardless of how the value was scanned.
func dayOf(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
