package handler

import (
    "errors"   // for errors.Is comparisons
    "net/http" // HTTP status codes

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/digitalbooking/campsite-booking/internal/gateway"
    "github.com/digitalbooking/campsite-booking/internal/model"
    "github.com/digitalbooking/campsite-booking/internal/repository"
)

// PaymentHandler charges reservations through the payment gateway and
// records the resulting payment orders.  A payment order is the
// prerequisite for confirming a reservation; a gateway failure leaves
// the reservation PENDING so the customer can retry.
type PaymentHandler struct {
    ReservationRepo  *repository.ReservationRepo
    PaymentOrderRepo *repository.PaymentOrderRepo
    Gateway          gateway.PaymentClient
}

// NewPaymentHandler constructs a new PaymentHandler with the provided
// dependencies.  All dependencies must be non-nil.
func NewPaymentHandler(reservationRepo *repository.ReservationRepo, paymentOrderRepo *repository.PaymentOrderRepo, gw gateway.PaymentClient) *PaymentHandler {
    if reservationRepo == nil || paymentOrderRepo == nil || gw == nil {
        panic("nil dependency passed to NewPaymentHandler")
    }
    return &PaymentHandler{
        ReservationRepo:  reservationRepo,
        PaymentOrderRepo: paymentOrderRepo,
        Gateway:          gw,
    }
}

// CreateOrder handles POST /v1/payment-orders.  It charges the given
// token against the gateway for a PENDING reservation owned by the
// caller and stores the payment order on success.  Gateway errors map
// to 502: the charge may or may not have gone through on the provider
// side, the reservation stays PENDING, and retries are safe because
// every gateway call carries a fresh idempotency key.
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        ReservationID uint64 `json:"reservation_id"`
        AmountCents   uint32 `json:"amount_cents"`
        Currency      string `json:"currency"`
        Token         string `json:"token"`
        Description   string `json:"description"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.ReservationID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id is required"})
    }
    if body.AmountCents == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount_cents must be positive"})
    }
    if body.Token == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
    }
    if body.Currency == "" {
        body.Currency = "USD"
    }

    ctx := c.Request().Context()
    res, err := h.ReservationRepo.GetByID(ctx, body.ReservationID)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
    }
    if res.UserID != userID && !isAdmin(c) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    if res.Status != model.StatusPending {
        return c.JSON(http.StatusConflict, echo.Map{
            "error":  "reservation is not pending",
            "status": res.Status,
        })
    }

    txnID, err := h.Gateway.Charge(ctx, body.AmountCents, body.Currency, body.Token, body.Description)
    if err != nil {
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway error"})
    }

    order := &model.PaymentOrder{
        ReservationID: res.ID,
        TransactionID: txnID,
        AmountCents:   body.AmountCents,
        Currency:      body.Currency,
        Token:         body.Token,
        Description:   body.Description,
    }
    if err := h.PaymentOrderRepo.Create(ctx, order); err != nil {
        // The provider accepted the charge but the order row was lost.
        // Surface the transaction id so support can reconcile manually.
        return c.JSON(http.StatusInternalServerError, echo.Map{
            "error":          "failed to store payment order",
            "transaction_id": txnID,
        })
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "item": echo.Map{
            "id":             order.ID,
            "reservation_id": order.ReservationID,
            "transaction_id": order.TransactionID,
            "amount_cents":   order.AmountCents,
            "currency":       order.Currency,
            "description":    order.Description,
            "created_at":     order.CreatedAt,
        },
    })
}
