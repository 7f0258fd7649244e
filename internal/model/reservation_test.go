package model

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
    t, err := time.Parse("2006-01-02", s)
    if err != nil {
        panic(err)
    }
    return t
}

func TestReservationDeletable(t *testing.T) {
    today := day("2024-03-15")

    tests := []struct {
        name    string
        status  string
        endDate time.Time
        want    bool
    }{
        {"closed is always deletable", StatusClosed, day("2024-12-31"), true},
        {"paid with future end date is protected", StatusPaid, day("2024-03-16"), false},
        {"pending with future end date is protected", StatusPending, day("2024-04-01"), false},
        {"paid ending today is deletable", StatusPaid, day("2024-03-15"), true},
        {"pending with elapsed dates is deletable", StatusPending, day("2024-03-01"), true},
        {"cancelled with elapsed dates is deletable", StatusCancelled, day("2024-03-14"), true},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            r := &Reservation{Status: tt.status, EndDate: tt.endDate}
            assert.Equal(t, tt.want, r.Deletable(today))
        })
    }
}

func TestReservationShouldClose(t *testing.T) {
    today := day("2024-03-15")

    paidPast := &Reservation{Status: StatusPaid, EndDate: day("2024-03-14")}
    assert.True(t, paidPast.ShouldClose(today))

    // End date today means the stay is still running; nothing to close yet.
    paidToday := &Reservation{Status: StatusPaid, EndDate: day("2024-03-15")}
    assert.False(t, paidToday.ShouldClose(today))

    pendingPast := &Reservation{Status: StatusPending, EndDate: day("2024-03-01")}
    assert.False(t, pendingPast.ShouldClose(today))

    closed := &Reservation{Status: StatusClosed, EndDate: day("2024-03-01")}
    assert.False(t, closed.ShouldClose(today))
}

func TestElapsedIgnoresTimeOfDay(t *testing.T) {
    // Scanned DATE values may carry a non-midnight clock depending on the
    // driver's location handling; Elapsed must compare days only.
    end := time.Date(2024, 3, 14, 23, 0, 0, 0, time.UTC)
    now := time.Date(2024, 3, 15, 0, 30, 0, 0, time.UTC)
    r := &Reservation{Status: StatusPaid, EndDate: end}
    assert.True(t, r.Elapsed(now))
    assert.False(t, r.Elapsed(end))
}
