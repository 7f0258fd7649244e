package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
    t.Helper()
    tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := tok.SignedString([]byte(secret))
    require.NoError(t, err)
    return signed
}

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/reservations/1", nil)
    if authHeader != "" {
        req.Header.Set("Authorization", authHeader)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    h := JWTAuth(testSecret)(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
    token := signToken(t, testSecret, jwt.MapClaims{
        "sub":   "42",
        "email": "ana@example.com",
        "role":  "CUSTOMER",
    })
    rec, c := runJWT(t, "Bearer "+token)

    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "42", c.Get("user_id"))
    assert.Equal(t, "ana@example.com", c.Get("email"))
    assert.Equal(t, "CUSTOMER", c.Get("role"))
}

func TestJWTAuthMissingHeader(t *testing.T) {
    rec, _ := runJWT(t, "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
    token := signToken(t, "some-other-secret", jwt.MapClaims{"sub": "42"})
    rec, _ := runJWT(t, "Bearer "+token)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMalformedToken(t *testing.T) {
    rec, _ := runJWT(t, "Bearer not.a.token")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("role", "ADMIN")

    h := RequireRole("CUSTOMER", "ADMIN")(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsUnknownRole(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("role", "GUEST")

    h := RequireRole("ADMIN")(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    h := RequireRole("ADMIN")(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}
