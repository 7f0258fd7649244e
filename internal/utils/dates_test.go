package utils

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
    start, err := ParseDay("2024-01-10")
    require.NoError(t, err)
    end, err := ParseDay("2024-01-12")
    require.NoError(t, err)

    days, err := DaysBetween(start, end)
    require.NoError(t, err)
    require.Len(t, days, 3)
    assert.Equal(t, "2024-01-10", FormatDay(days[0]))
    assert.Equal(t, "2024-01-11", FormatDay(days[1]))
    assert.Equal(t, "2024-01-12", FormatDay(days[2]))
}

func TestDaysBetweenSingleDay(t *testing.T) {
    d, err := ParseDay("2024-02-29")
    require.NoError(t, err)

    days, err := DaysBetween(d, d)
    require.NoError(t, err)
    require.Len(t, days, 1)
    assert.Equal(t, d, days[0])
}

func TestDaysBetweenCrossesMonthBoundary(t *testing.T) {
    start, _ := ParseDay("2024-01-30")
    end, _ := ParseDay("2024-02-02")

    days, err := DaysBetween(start, end)
    require.NoError(t, err)
    require.Len(t, days, 4)
    assert.Equal(t, "2024-02-01", FormatDay(days[2]))
}

func TestDaysBetweenInvalidRange(t *testing.T) {
    start, _ := ParseDay("2024-01-12")
    end, _ := ParseDay("2024-01-10")

    _, err := DaysBetween(start, end)
    assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDayNormalizesToMidnightUTC(t *testing.T) {
    loc := time.FixedZone("UTC-3", -3*60*60)
    stamped := time.Date(2024, 5, 1, 22, 30, 0, 0, loc) // 2024-05-02 01:30 UTC
    assert.Equal(t, "2024-05-02", FormatDay(stamped))
}

func TestParseDayRejectsGarbage(t *testing.T) {
    _, err := ParseDay("01/10/2024")
    assert.Error(t, err)
}
