package handler

import (
    "context"  // detached context for post-commit event publishing
    "errors"   // for errors.Is / errors.As comparisons
    "log"      // loud logging for invariant violations
    "net/http" // HTTP status codes
    "strconv"  // parsing path and query parameters
    "time"     // working with timestamps

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/digitalbooking/campsite-booking/internal/availability"
    "github.com/digitalbooking/campsite-booking/internal/model"
    "github.com/digitalbooking/campsite-booking/internal/queue"
    "github.com/digitalbooking/campsite-booking/internal/repository"
    queue_publisher "github.com/digitalbooking/campsite-booking/internal/service"
    "github.com/digitalbooking/campsite-booking/internal/utils"
)

// ReservationHandler groups the repositories required to create,
// confirm, list and delete reservations.  All methods assume that JWT
// authentication and role validation have already been performed by
// middleware.  Methods may return 401 Unauthorized if the user ID
// cannot be extracted from the context.  State transitions run inside a
// single transaction each to guarantee atomicity.
type ReservationHandler struct {
    ListingRepo      *repository.ListingRepo      // access to listings for capacity and locking
    UserRepo         *repository.UserRepo         // access to users for existence and ownership checks
    ReservationRepo  *repository.ReservationRepo  // access to reservations
    OccupancyRepo    *repository.OccupancyRepo    // access to the occupancy ledger
    PaymentOrderRepo *repository.PaymentOrderRepo // access to payment orders gating confirmation
}

// NewReservationHandler constructs a new ReservationHandler with the
// provided repositories.  All dependencies must be non-nil.
func NewReservationHandler(listingRepo *repository.ListingRepo, userRepo *repository.UserRepo, reservationRepo *repository.ReservationRepo, occupancyRepo *repository.OccupancyRepo, paymentOrderRepo *repository.PaymentOrderRepo) *ReservationHandler {
    if listingRepo == nil || userRepo == nil || reservationRepo == nil || occupancyRepo == nil || paymentOrderRepo == nil {
        panic("nil repository passed to NewReservationHandler")
    }
    return &ReservationHandler{
        ListingRepo:      listingRepo,
        UserRepo:         userRepo,
        ReservationRepo:  reservationRepo,
        OccupancyRepo:    occupancyRepo,
        PaymentOrderRepo: paymentOrderRepo,
    }
}

// Create handles POST /v1/reservations.  It records a new PENDING
// reservation for the authenticated customer.  The availability check
// performed here is advisory only: no capacity is committed until the
// reservation is confirmed, so two customers may hold PENDING
// reservations over the same contested days.  Returns 201 Created with
// the stored reservation, 404 when the listing does not exist, 400 when
// the headcount can never fit the listing, and 409 listing every
// unavailable day when the range does not currently fit.
func (h *ReservationHandler) Create(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        ListingID  uint64 `json:"listing_id"`
        StartDate  string `json:"start_date"`
        EndDate    string `json:"end_date"`
        StartTime  string `json:"start_time"`
        Headcount  int    `json:"headcount"`
        TotalCents uint32 `json:"total_cents"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.ListingID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "listing_id is required"})
    }
    if body.Headcount <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "headcount must be positive"})
    }
    start, err := utils.ParseDay(body.StartDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
    }
    end, err := utils.ParseDay(body.EndDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
    }
    if end.Before(start) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must not precede start_date"})
    }

    ctx := c.Request().Context()
    // The customer must exist; accounts are managed elsewhere but a
    // reservation without an account is meaningless.
    if _, err := h.UserRepo.GetByID(ctx, userID); err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    listing, err := h.ListingRepo.GetByID(ctx, body.ListingID)
    if err != nil {
        if errors.Is(err, repository.ErrListingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    if err := availability.CheckRange(ctx, h.OccupancyRepo, listing.ID, listing.DailyCapacity, body.Headcount, start, end); err != nil {
        var unavailable *availability.DatesUnavailableError
        switch {
        case errors.Is(err, availability.ErrHeadcountExceedsCapacity):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "headcount exceeds the listing's daily capacity"})
        case errors.As(err, &unavailable):
            return c.JSON(http.StatusConflict, echo.Map{
                "error":             "dates unavailable",
                "unavailable_dates": conflictDays(unavailable.Dates),
            })
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
        }
    }

    res := &model.Reservation{
        ListingID:  listing.ID,
        UserID:     userID,
        StartDate:  start,
        EndDate:    end,
        StartTime:  body.StartTime,
        Headcount:  body.Headcount,
        Status:     model.StatusPending,
        TotalCents: body.TotalCents,
    }
    tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := h.ReservationRepo.CreateTx(ctx, tx, res); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true
    return c.JSON(http.StatusCreated, echo.Map{"item": reservationView(res)})
}

// Confirm handles POST /v1/reservations/:id/confirm.  It finalises a
// PENDING reservation against a previously created payment order.  The
// requested dates are re-checked under locks and, when still available,
// committed to the occupancy ledger day by day; the reservation then
// moves to PAID.  When any day has become unavailable since creation
// the reservation moves to CANCELLED instead and a 409 is returned with
// the conflicting days.  Confirming a reservation that is not PENDING
// yields 409 without touching it.  The listing row is locked first so
// concurrent confirms on the same listing cannot interleave between
// their re-check and their ledger writes.
func (h *ReservationHandler) Confirm(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || resID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var body struct {
        PaymentOrderID uint64 `json:"payment_order_id"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.PaymentOrderID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_order_id is required"})
    }

    ctx := c.Request().Context()
    tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    res, err := h.ReservationRepo.GetForUpdateTx(ctx, tx, resID)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
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

    order, err := h.PaymentOrderRepo.GetByIDTx(ctx, tx, body.PaymentOrderID)
    if err != nil {
        if errors.Is(err, repository.ErrPaymentOrderNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "payment order not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payment order"})
    }
    if order.ReservationID != res.ID {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment order does not belong to this reservation"})
    }

    // Lock the listing row before re-checking: days without ledger rows
    // cannot be row-locked, so this lock is what keeps two confirms on
    // the same listing from both passing the re-check.
    listing, err := h.ListingRepo.GetForUpdateTx(ctx, tx, res.ListingID)
    if err != nil {
        if errors.Is(err, repository.ErrListingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load listing"})
    }

    reader := h.OccupancyRepo.TxReader(tx, true)
    if err := availability.CheckRange(ctx, reader, listing.ID, listing.DailyCapacity, res.Headcount, res.StartDate, res.EndDate); err != nil {
        var unavailable *availability.DatesUnavailableError
        switch {
        case errors.Is(err, availability.ErrHeadcountExceedsCapacity):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "headcount exceeds the listing's daily capacity"})
        case errors.As(err, &unavailable):
            // The dates were taken while this reservation sat pending.
            // The reservation is cancelled in the same transaction so
            // the customer sees a terminal status rather than a retry
            // loop on a range that can no longer fit.
            if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, res.ID, model.StatusCancelled, nil); err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel reservation"})
            }
            if err := tx.Commit(); err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
            }
            committed = true
            return c.JSON(http.StatusConflict, echo.Map{
                "error":             "dates unavailable",
                "status":            model.StatusCancelled,
                "unavailable_dates": conflictDays(unavailable.Dates),
            })
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
        }
    }

    days, err := utils.DaysBetween(res.StartDate, res.EndDate)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid reservation dates"})
    }
    for _, day := range days {
        if err := h.OccupancyRepo.IncrementTx(ctx, tx, listing.ID, day, res.Headcount, listing.DailyCapacity); err != nil {
            if errors.Is(err, repository.ErrCapacityExceeded) {
                // The guarded update refused an increment that the locked
                // re-check said would fit.  That means the locking
                // discipline has been violated somewhere; surface it loudly.
                log.Printf("occupancy ledger: capacity guard tripped after availability re-check (reservation=%d listing=%d day=%s)",
                    res.ID, listing.ID, utils.FormatDay(day))
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "capacity invariant violated"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update occupancy"})
        }
    }
    if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, res.ID, model.StatusPaid, &order.TransactionID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    res.Status = model.StatusPaid
    res.PaymentRef = &order.TransactionID

    // Publish after commit with a detached context: the HTTP request may
    // finish before the broker answers, and a lost event never
    // un-commits capacity.
    event := queue.ReservationPaidEvent{
        ReservationID: res.ID,
        ListingID:     listing.ID,
        ListingName:   listing.Name,
        UserID:        res.UserID,
        StartDate:     utils.FormatDay(res.StartDate),
        EndDate:       utils.FormatDay(res.EndDate),
        Headcount:     res.Headcount,
        TotalCents:    res.TotalCents,
        TransactionID: order.TransactionID,
        PaidAt:        time.Now().UTC().Format(time.RFC3339),
    }
    go func() {
        pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = queue_publisher.PublishReservationPaid(pubCtx, event)
    }()

    return c.JSON(http.StatusOK, echo.Map{"item": reservationView(res)})
}

// Get handles GET /v1/reservations/:id.  Customers may fetch only their
// own reservations; admins may fetch any.  The lazy close rule applies,
// so an elapsed PAID reservation is returned as CLOSED.
func (h *ReservationHandler) Get(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || resID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    res, err := h.ReservationRepo.GetByID(c.Request().Context(), resID)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
    }
    if res.UserID != userID && !isAdmin(c) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": reservationView(res)})
}

// List handles GET /v1/reservations.  It returns one page of all
// reservations, newest first, for operators.  Page numbers start at 1;
// page_size defaults to 20 and is capped at 100.
func (h *ReservationHandler) List(c echo.Context) error {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    if page < 1 {
        page = 1
    }
    pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
    if pageSize < 1 {
        pageSize = 20
    }
    if pageSize > 100 {
        pageSize = 100
    }
    items, total, err := h.ReservationRepo.ListPage(c.Request().Context(), page, pageSize)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    views := make([]echo.Map, 0, len(items))
    for i := range items {
        views = append(views, reservationView(&items[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items":     views,
        "total":     total,
        "page":      page,
        "page_size": pageSize,
    })
}

// ListByCustomer handles GET /v1/customers/:email/reservations.  A
// customer may list only the reservations tied to their own email; the
// email in the token must match the email in the path unless the caller
// is an admin.  Returns 404 when no account exists for the email and an
// empty items array when the account simply has no reservations.
func (h *ReservationHandler) ListByCustomer(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    email := c.Param("email")
    if email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
    }
    if !isAdmin(c) && getEmail(c) != email {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    ctx := c.Request().Context()
    if _, err := h.UserRepo.GetByEmail(ctx, email); err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    items, err := h.ReservationRepo.ListByUserEmail(ctx, email)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    views := make([]echo.Map, 0, len(items))
    for i := range items {
        views = append(views, reservationView(&items[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": views})
}

// Delete handles DELETE /v1/reservations/:id.  A reservation may only
// be removed once it is CLOSED or its end date has elapsed; removing an
// active stay would orphan committed ledger capacity.  Customers may
// delete only their own reservations; admins may delete any.  Returns
// 204 on success and 409 while the stay is still current.
func (h *ReservationHandler) Delete(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || resID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    ctx := c.Request().Context()
    res, err := h.ReservationRepo.GetByID(ctx, resID)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
    }
    if res.UserID != userID && !isAdmin(c) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    if !res.Deletable(time.Now().UTC()) {
        return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not finalized"})
    }
    if err := h.ReservationRepo.Delete(ctx, resID); err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete reservation"})
    }
    return c.NoContent(http.StatusNoContent)
}
