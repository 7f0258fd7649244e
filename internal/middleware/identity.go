package middleware

// identity.go holds helpers shared across middleware files.  The rate
// limiter keys buckets per user when a request is authenticated and
// falls back to "anon" for guests.

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated user's identifier for use in
// Redis keys.  JWTAuth stores the raw "sub" claim, which may decode as a
// string or a number depending on the issuer.
func currentUserID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        return fmt.Sprintf("%.0f", v)
    case uint64:
        return fmt.Sprintf("%d", v)
    }
    return "anon"
}
