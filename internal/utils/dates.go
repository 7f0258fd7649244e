package utils // package utils provides small date helpers shared across layers

import (
    "errors"
    "time"
)

// DayFormat is the wire and storage format for calendar days.
const DayFormat = "2006-01-02"

// ErrInvalidRange is returned by DaysBetween when the end day precedes
// the start day.
var ErrInvalidRange = errors.New("end date before start date")

// Day truncates a timestamp to midnight UTC.  All availability and
// ledger logic operates at calendar-day granularity, so every time.Time
// that represents a day should pass through here first.
func Day(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a UTC day.
func ParseDay(s string) (time.Time, error) {
    t, err := time.Parse(DayFormat, s)
    if err != nil {
        return time.Time{}, err
    }
    return Day(t), nil
}

// FormatDay renders a day back to YYYY-MM-DD.
func FormatDay(t time.Time) string {
    return Day(t).Format(DayFormat)
}

// DaysBetween enumerates every calendar day from start to end inclusive.
// A range of a single day yields one element.  It returns ErrInvalidRange
// when end is before start.
func DaysBetween(start, end time.Time) ([]time.Time, error) {
    s, e := Day(start), Day(end)
    if e.Before(s) {
        return nil, ErrInvalidRange
    }
    days := make([]time.Time, 0, int(e.Sub(s).Hours()/24)+1)
    for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
        days = append(days, d)
    }
    return days, nil
}
