// Package availability decides whether a requested date range fits a
// listing's remaining daily capacity.  The check is a pure read over the
// occupancy ledger: it performs no mutation and may be called repeatedly
// with identical results, which matters because it runs once when a
// reservation is created and again when payment is confirmed.
package availability

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/digitalbooking/campsite-booking/internal/utils"
)

// CountReader supplies the committed headcount for a (listing, day) pair.
// Implementations return 0 for days with no ledger record.  The repository
// layer provides both a plain reader and a transaction-scoped reader that
// locks the rows it touches.
type CountReader interface {
    ReservedCount(ctx context.Context, listingID uint64, day time.Time) (int, error)
}

// ErrHeadcountExceedsCapacity rejects a request whose headcount is larger
// than the listing's daily capacity.  No date could ever satisfy such a
// request, so it is a business-rule violation rather than a per-day
// conflict.
var ErrHeadcountExceedsCapacity = errors.New("headcount exceeds the listing's daily capacity")

// DatesUnavailableError reports every day in the requested range that
// lacks sufficient remaining capacity, so callers can surface all
// problems at once instead of the first one found.
type DatesUnavailableError struct {
    Dates []time.Time
}

func (e *DatesUnavailableError) Error() string {
    names := make([]string, len(e.Dates))
    for i, d := range e.Dates {
        names[i] = utils.FormatDay(d)
    }
    return fmt.Sprintf("dates unavailable: %s", strings.Join(names, ", "))
}

// CheckRange enumerates every calendar day in [start, end] inclusive and
// tests whether reservedCount + headcount <= capacity holds on each.
// It returns nil when every day is feasible and a *DatesUnavailableError
// carrying every infeasible day otherwise.  The headcount precondition
// is validated before any ledger read.
func CheckRange(ctx context.Context, reader CountReader, listingID uint64, capacity, headcount int, start, end time.Time) error {
    if headcount > capacity {
        return ErrHeadcountExceedsCapacity
    }
    days, err := utils.DaysBetween(start, end)
    if err != nil {
        return err
    }
    var conflicts []time.Time
    for _, d := range days {
        count, err := reader.ReservedCount(ctx, listingID, d)
        if err != nil {
            return err
        }
        if count+headcount > capacity {
            conflicts = append(conflicts, d)
        }
    }
    if len(conflicts) > 0 {
        return &DatesUnavailableError{Dates: conflicts}
    }
    return nil
}
