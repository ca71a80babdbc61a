package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mediasales/internal/core"
	"mediasales/internal/report"
)

type stubReports struct {
	rows     []report.RollupRow
	invoices []report.InvoiceRow
	share    report.ClientShare
	err      error

	lastParams report.Params
	calls      int
}

func (s *stubReports) SalesRollup(ctx context.Context, p report.Params) ([]report.RollupRow, error) {
	s.lastParams = p
	s.calls++
	return s.rows, s.err
}

func (s *stubReports) InvoiceSummary(ctx context.Context, view report.InvoiceView, today time.Time) ([]report.InvoiceRow, error) {
	return s.invoices, s.err
}

func (s *stubReports) ClientShare(ctx context.Context) (report.ClientShare, error) {
	return s.share, s.err
}

type stubBookings struct {
	id     int64
	err    error
	last   core.Record
	stored *core.Record
}

func (s *stubBookings) CreateBooking(ctx context.Context, rec core.Record) (int64, error) {
	s.last = rec
	return s.id, s.err
}

func (s *stubBookings) GetBooking(ctx context.Context, id int64) (*core.Record, error) {
	if s.stored == nil {
		return nil, sql.ErrNoRows
	}
	return s.stored, nil
}

func newTestServer(bookings BookingStore, reports ReportProvider) *Server {
	s := NewServer(":0", bookings, reports, time.Minute, report.HalfYearScopeCurrent)
	s.now = func() time.Time {
		return time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)
	}
	return s
}

func TestSalesReportHandler(t *testing.T) {
	reports := &stubReports{rows: []report.RollupRow{{Kind: report.DataRow, Period: "July 2024"}}}
	s := newTestServer(&stubBookings{}, reports)

	req := httptest.NewRequest(http.MethodGet, "/reports/sales?view=monthly", nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}
	if reports.lastParams.Granularity != core.Monthly {
		t.Errorf("granularity = %q", reports.lastParams.Granularity)
	}

	var body struct {
		Rows []report.RollupRow `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Rows) != 1 || body.Rows[0].Period != "July 2024" {
		t.Errorf("rows = %+v", body.Rows)
	}

	// Second request is served from cache without recomputing.
	rec2 := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/reports/sales?view=monthly", nil))
	if got := rec2.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("X-Cache = %q, want HIT", got)
	}
	if reports.calls != 1 {
		t.Errorf("rollup computed %d times, want 1", reports.calls)
	}
}

func TestSalesReportHandlerRejectsUnknownView(t *testing.T) {
	s := newTestServer(&stubBookings{}, &stubReports{})

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/sales?view=daily", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSalesReportHandlerCustomRange(t *testing.T) {
	reports := &stubReports{}
	s := newTestServer(&stubBookings{}, reports)

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/reports/sales?view=customDate&startDate=2024-06-01&endDate=2024-06-30", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !reports.lastParams.Range.Complete() {
		t.Error("expected complete range on params")
	}

	// Missing bounds are a client error.
	rec = httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/sales?view=customDate", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	// Inverted bounds too.
	rec = httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/reports/sales?view=customDate&startDate=2024-06-30&endDate=2024-06-01", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestInvoiceReportHandler(t *testing.T) {
	reports := &stubReports{invoices: []report.InvoiceRow{
		{MonthYearKey: "2024-6", Month: "Jun 2024", InvoiceRaised: 4, AmountCollected: 1, Outstanding: 3},
	}}
	s := newTestServer(&stubBookings{}, reports)

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/invoices?view=currentYear", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Rows           []report.InvoiceRow `json:"rows"`
		CollectionRate string              `json:"collectionRate"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.CollectionRate != "25.00" {
		t.Errorf("collectionRate = %q", body.CollectionRate)
	}

	rec = httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/invoices?view=lastTuesday", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestClientShareHandler(t *testing.T) {
	reports := &stubReports{share: report.ClientShare{core.DirectClient: 300}}
	s := newTestServer(&stubBookings{}, reports)

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/client-share", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Direct Client") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCreateBookingHandler(t *testing.T) {
	bookings := &stubBookings{id: 7}
	reports := &stubReports{}
	s := newTestServer(bookings, reports)

	// Warm the report cache so we can observe invalidation.
	s.Handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/reports/sales?view=monthly", nil))

	payload := `{
		"createdAt": "2024-07-10T00:00:00Z",
		"totalAmount": 500000,
		"clientType": "Direct Client",
		"company": "Acme Media",
		"lineItems": [{"price": 500000, "tradedAmount": 0}],
		"operationalCosts": [{"amount": 10000, "categoryName": "Electricity"}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if bookings.last.ClientType != core.DirectClient || len(bookings.last.LineItems) != 1 {
		t.Errorf("stored record = %+v", bookings.last)
	}

	var body map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["id"] != 7 {
		t.Errorf("id = %d, want 7", body["id"])
	}

	// The write must have purged cached report views.
	rec = httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/sales?view=monthly", nil))
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache after write = %q, want MISS", got)
	}
}

func TestCreateBookingHandlerValidation(t *testing.T) {
	bookings := &stubBookings{err: core.ErrInvalidTimestamp}
	s := newTestServer(bookings, &stubReports{})

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"totalAmount": 1}`))
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{not json`))
	rec = httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status for malformed body = %d, want 400", rec.Code)
	}
}

func TestGetBookingHandler(t *testing.T) {
	bookings := &stubBookings{stored: &core.Record{
		ID:          7,
		CreatedAt:   time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC),
		TotalAmount: 500000,
		ClientType:  core.DirectClient,
		Company:     "Acme Media",
	}}
	s := newTestServer(bookings, &stubReports{})

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/7", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		ID         int64  `json:"id"`
		ClientType string `json:"clientType"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != 7 || body.ClientType != string(core.DirectClient) {
		t.Errorf("body = %+v", body)
	}

	rec = httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/notanumber", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status for bad id = %d, want 400", rec.Code)
	}

	bookings.stored = nil
	rec = httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/99", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status for missing booking = %d, want 404", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(&stubBookings{}, &stubReports{})

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}
