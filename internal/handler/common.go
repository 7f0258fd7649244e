package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "strconv" // strconv converts strings to numeric types
    "time"    // time renders conflict days

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/digitalbooking/campsite-booking/internal/model"
    "github.com/digitalbooking/campsite-booking/internal/utils"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getEmail extracts the authenticated user's email claim, or "" when
// the token carried none.
func getEmail(c echo.Context) string {
    if s, ok := c.Get("email").(string); ok {
        return s
    }
    return ""
}

// isAdmin reports whether the authenticated user carries the ADMIN role.
func isAdmin(c echo.Context) bool {
    role, _ := c.Get("role").(string)
    return role == model.RoleAdmin
}

// reservationView renders a reservation for JSON responses.  Date fields
// are formatted as calendar days; the payment reference is omitted until
// the reservation has one.
func reservationView(res *model.Reservation) echo.Map {
    m := echo.Map{
        "id":          res.ID,
        "listing_id":  res.ListingID,
        "user_id":     res.UserID,
        "start_date":  utils.FormatDay(res.StartDate),
        "end_date":    utils.FormatDay(res.EndDate),
        "start_time":  res.StartTime,
        "headcount":   res.Headcount,
        "status":      res.Status,
        "total_cents": res.TotalCents,
        "created_at":  res.CreatedAt,
        "updated_at":  res.UpdatedAt,
    }
    if res.PaymentRef != nil {
        m["payment_ref"] = *res.PaymentRef
    }
    return m
}

// conflictDays formats a list of infeasible days for error responses.
func conflictDays(days []time.Time) []string {
    out := make([]string, len(days))
    for i, d := range days {
        out[i] = utils.FormatDay(d)
    }
    return out
}
