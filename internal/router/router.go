package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/digitalbooking/campsite-booking/internal/handler" // handlers implementing the booking logic
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and monitoring probe this endpoint to verify that
    // the service is up and running.
    e.GET("/healthz", handler.Health)
}
