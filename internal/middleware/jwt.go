package middleware // middleware provides reusable HTTP middleware functions

import (
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the token's subject, email and role claims into the
// request context.  Tokens are issued by the identity collaborator; this
// service only verifies them.  The provided secret must match the
// issuer's signing secret.  Handlers downstream read the claims via
// c.Get("user_id"), c.Get("email") and c.Get("role").
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse with HS256 only; any other signing method is rejected.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            // Store the claims for handlers and downstream middleware.
            // Type assertions are left to the consumers.
            c.Set("user_id", claims["sub"])
            c.Set("email", claims["email"])
            c.Set("role", claims["role"])
            return next(c)
        }
    }
}
