package router

import (
    "github.com/labstack/echo/v4"

    "github.com/digitalbooking/campsite-booking/internal/handler"
    "github.com/digitalbooking/campsite-booking/internal/middleware"
    "github.com/digitalbooking/campsite-booking/internal/model"
)

// RegisterReservations registers the booking endpoints under /v1.  All
// routes require a valid JWT; customers operate on their own
// reservations while admins may read and delete anyone's.  The readGuard
// middlewares (rate limiting, response caching) are applied to the read
// endpoints only: mutations must never be served from cache, and their
// throughput is already bounded by the per-listing locking discipline.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, p *handler.PaymentHandler, jwtSecret string, readGuard ...echo.MiddlewareFunc) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
    )

    // ---- Reservations ----
    g.POST("/reservations", h.Create)
    g.POST("/reservations/:id/confirm", h.Confirm)
    g.GET("/reservations/:id", h.Get, readGuard...)
    g.DELETE("/reservations/:id", h.Delete)

    // Customers list their own reservations by the email bound to their
    // token; the handler enforces the match.
    g.GET("/customers/:email/reservations", h.ListByCustomer, readGuard...)

    // ---- Payment orders ----
    g.POST("/payment-orders", p.CreateOrder)

    // ---- Admin ----
    // The paginated listing across all customers is admin-only.
    admin := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleAdmin),
    )
    admin.GET("/reservations", h.List, readGuard...)
}
