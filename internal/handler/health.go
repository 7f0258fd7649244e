package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health is the liveness endpoint used by load balancers and monitoring.
// It answers "ok" with HTTP 200 as long as the process is serving.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
