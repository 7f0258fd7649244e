package handler

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/digitalbooking/campsite-booking/internal/model"
    "github.com/digitalbooking/campsite-booking/internal/repository"
)

// newTestReservationHandler builds a handler whose repositories are bound
// to a nil database.  Only request validation paths may be exercised;
// any test reaching the database would panic, which is exactly the
// signal we want.
func newTestReservationHandler() *ReservationHandler {
    return NewReservationHandler(
        repository.NewListingRepo(nil),
        repository.NewUserRepo(nil),
        repository.NewReservationRepo(nil),
        repository.NewOccupancyRepo(nil),
        repository.NewPaymentOrderRepo(nil),
    )
}

func newRequestContext(t *testing.T, method, target, body string, userID interface{}) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    e := echo.New()
    var req *http.Request
    if body != "" {
        req = httptest.NewRequest(method, target, strings.NewReader(body))
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    } else {
        req = httptest.NewRequest(method, target, nil)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if userID != nil {
        c.Set("user_id", userID)
    }
    return c, rec
}

func TestCreateRejectsMissingUser(t *testing.T) {
    h := newTestReservationHandler()
    c, rec := newRequestContext(t, http.MethodPost, "/v1/reservations", `{}`, nil)
    require.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateRejectsMissingListing(t *testing.T) {
    h := newTestReservationHandler()
    c, rec := newRequestContext(t, http.MethodPost, "/v1/reservations",
        `{"start_date":"2026-09-01","end_date":"2026-09-03","headcount":2}`, uint64(7))
    require.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, rec.Body.String(), "listing_id")
}

func TestCreateRejectsNonPositiveHeadcount(t *testing.T) {
    h := newTestReservationHandler()
    c, rec := newRequestContext(t, http.MethodPost, "/v1/reservations",
        `{"listing_id":1,"start_date":"2026-09-01","end_date":"2026-09-03","headcount":0}`, uint64(7))
    require.NoError(t, h.Create(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, rec.Body.String(), "headcount")
}

func TestCreateRejectsMalformedDates(t *testing.T) {
    h := newTestReservationHandler()
    cases := []struct {
        name string
        body string
        want string
    }{
        {"bad start", `{"listing_id":1,"start_date":"01/09/2026","end_date":"2026-09-03","headcount":2}`, "start_date"},
        {"bad end", `{"listing_id":1,"start_date":"2026-09-01","end_date":"tomorrow","headcount":2}`, "end_date"},
        {"inverted range", `{"listing_id":1,"start_date":"2026-09-03","end_date":"2026-09-01","headcount":2}`, "end_date"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            c, rec := newRequestContext(t, http.MethodPost, "/v1/reservations", tc.body, uint64(7))
            require.NoError(t, h.Create(c))
            assert.Equal(t, http.StatusBadRequest, rec.Code)
            assert.Contains(t, rec.Body.String(), tc.want)
        })
    }
}

func TestConfirmRejectsInvalidIDs(t *testing.T) {
    h := newTestReservationHandler()

    c, rec := newRequestContext(t, http.MethodPost, "/v1/reservations/abc/confirm", `{"payment_order_id":1}`, uint64(7))
    c.SetParamNames("id")
    c.SetParamValues("abc")
    require.NoError(t, h.Confirm(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    c, rec = newRequestContext(t, http.MethodPost, "/v1/reservations/5/confirm", `{}`, uint64(7))
    c.SetParamNames("id")
    c.SetParamValues("5")
    require.NoError(t, h.Confirm(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, rec.Body.String(), "payment_order_id")
}

func TestDeleteRejectsInvalidID(t *testing.T) {
    h := newTestReservationHandler()
    c, rec := newRequestContext(t, http.MethodDelete, "/v1/reservations/0", "", uint64(7))
    c.SetParamNames("id")
    c.SetParamValues("0")
    require.NoError(t, h.Delete(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListByCustomerEnforcesEmailMatch(t *testing.T) {
    h := newTestReservationHandler()
    c, rec := newRequestContext(t, http.MethodGet, "/v1/customers/other@example.com/reservations", "", uint64(7))
    c.SetParamNames("email")
    c.SetParamValues("other@example.com")
    c.Set("email", "me@example.com")
    c.Set("role", model.RoleCustomer)
    require.NoError(t, h.ListByCustomer(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReservationViewFormatsDates(t *testing.T) {
    ref := "txn_000123"
    res := &model.Reservation{
        ID:         9,
        ListingID:  3,
        UserID:     7,
        StartDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
        EndDate:    time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
        StartTime:  "14:00",
        Headcount:  2,
        Status:     model.StatusPaid,
        TotalCents: 45000,
        PaymentRef: &ref,
    }
    view := reservationView(res)
    assert.Equal(t, "2026-09-01", view["start_date"])
    assert.Equal(t, "2026-09-03", view["end_date"])
    assert.Equal(t, "txn_000123", view["payment_ref"])

    res.PaymentRef = nil
    view = reservationView(res)
    _, present := view["payment_ref"]
    assert.False(t, present, "payment_ref is omitted until the reservation has one")
}

func TestConflictDays(t *testing.T) {
    days := []time.Time{
        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
        time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
    }
    assert.Equal(t, []string{"2026-09-01", "2026-09-02"}, conflictDays(days))
}
