// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrReservationNotFound maps to a 404 response, while
// ErrCapacityExceeded signals that a ledger increment would break the
// per-day capacity invariant.
package repository

import "errors"

// ErrListingNotFound is returned when a referenced listing does not
// exist in the catalog.
var ErrListingNotFound = errors.New("listing not found")

// ErrUserNotFound is returned when a referenced customer account does
// not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrReservationNotFound is returned when a reservation lookup by id
// matches no row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrPaymentOrderNotFound is returned when a payment order lookup by id
// matches no row.
var ErrPaymentOrderNotFound = errors.New("payment order not found")

// ErrCapacityExceeded is returned by the occupancy ledger when an
// increment would drive a day's reserved count above the listing's
// daily capacity. The caller is expected to have validated capacity
// under the same transaction, so hitting this error means a concurrency
// bug or a bypassed check; it must be logged loudly and never clamped.
var ErrCapacityExceeded = errors.New("occupancy increment exceeds daily capacity")
