package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mediasales/internal/core"
	"mediasales/internal/report"
)

const dateLayout = "2006-01-02"

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// serveCached writes cached bytes when present, otherwise calls build
// and caches the rendered payload under the full request URI.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, build func() (any, error)) {
	key := r.URL.RequestURI()
	if body, ok := s.responseCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		_, _ = w.Write(body)
		return
	}

	v, err := build()
	if err != nil {
		slog.ErrorContext(r.Context(), "Report build failed", "url", r.URL.Path, "error", err)
		s.writeError(w, http.StatusInternalServerError, "report unavailable")
		return
	}

	body, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal report", "error", err)
		s.writeError(w, http.StatusInternalServerError, "report unavailable")
		return
	}

	s.responseCache.Set(key, body)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	_, _ = w.Write(body)
}

// handleSalesReport serves GET /reports/sales?view=yearly and the other
// granularities; customDate additionally needs startDate and endDate.
func (s *Server) handleSalesReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	view := strings.TrimSpace(r.URL.Query().Get("view"))
	if view == "" {
		view = string(core.Yearly)
	}
	gran, err := core.ParseGranularity(view)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := report.Params{
		Granularity:   gran,
		Today:         s.now().UTC(),
		HalfYearScope: s.halfYearScope,
	}

	if gran == core.CustomRange {
		rng, err := parseDateRange(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		params.Range = rng
	}

	s.serveCached(w, r, func() (any, error) {
		rows, err := s.reports.SalesRollup(r.Context(), params)
		if err != nil {
			return nil, err
		}
		return map[string]any{"rows": rows}, nil
	})
}

func parseDateRange(startRaw, endRaw string) (*core.DateRange, error) {
	if startRaw == "" || endRaw == "" {
		return nil, errors.New("customDate view requires startDate and endDate")
	}
	start, err := time.ParseInLocation(dateLayout, startRaw, time.UTC)
	if err != nil {
		return nil, errors.New("invalid startDate, want YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(dateLayout, endRaw, time.UTC)
	if err != nil {
		return nil, errors.New("invalid endDate, want YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, errors.New("endDate before startDate")
	}
	return &core.DateRange{Start: start, End: end}, nil
}

// handleInvoiceReport serves GET /reports/invoices?view=currentYear.
func (s *Server) handleInvoiceReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	view, ok := report.ParseInvoiceView(strings.TrimSpace(r.URL.Query().Get("view")))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown invoice view")
		return
	}

	s.serveCached(w, r, func() (any, error) {
		rows, err := s.reports.InvoiceSummary(r.Context(), view, s.now().UTC())
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"rows":           rows,
			"collectionRate": report.CollectionRate(rows),
		}, nil
	})
}

// handleClientShare serves GET /reports/client-share.
func (s *Server) handleClientShare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	s.serveCached(w, r, func() (any, error) {
		share, err := s.reports.ClientShare(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]any{"revenueByClientType": share}, nil
	})
}

type bookingRequest struct {
	CreatedAt          time.Time `json:"createdAt"`
	TotalAmount        float64   `json:"totalAmount"`
	ClientType         string    `json:"clientType"`
	Company            string    `json:"company"`
	OutstandingInvoice float64   `json:"outstandingInvoice"`
	TotalPayment       float64   `json:"totalPayment"`
	LineItems          []struct {
		Price        float64 `json:"price"`
		TradedAmount float64 `json:"tradedAmount"`
	} `json:"lineItems"`
	OperationalCosts []struct {
		Amount       float64 `json:"amount"`
		CategoryName string  `json:"categoryName"`
	} `json:"operationalCosts"`
}

// handleCreateBooking serves POST /bookings.
func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec := core.Record{
		CreatedAt:          req.CreatedAt,
		TotalAmount:        req.TotalAmount,
		ClientType:         core.ParseClientType(req.ClientType),
		Company:            req.Company,
		OutstandingInvoice: req.OutstandingInvoice,
		TotalPayment:       req.TotalPayment,
	}
	for _, li := range req.LineItems {
		rec.LineItems = append(rec.LineItems, core.LineItem{Price: li.Price, TradedAmount: li.TradedAmount})
	}
	for _, oc := range req.OperationalCosts {
		rec.CostEntries = append(rec.CostEntries, core.CostEntry{Amount: oc.Amount, CategoryName: oc.CategoryName})
	}

	id, err := s.bookings.CreateBooking(r.Context(), rec)
	if err != nil {
		if errors.Is(err, core.ErrInvalidTimestamp) || errors.Is(err, core.ErrInvalidAmount) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create booking", "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not save booking")
		return
	}

	// New data invalidates every cached report view
	s.responseCache.Purge()

	s.writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// handleGetBooking serves GET /bookings/{id}.
func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	rec, err := s.bookings.GetBooking(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to load booking", "booking_id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "could not load booking")
		return
	}

	resp := bookingResponse{
		ID:                 rec.ID,
		CreatedAt:          rec.CreatedAt,
		TotalAmount:        rec.TotalAmount,
		ClientType:         string(rec.ClientType),
		Company:            rec.Company,
		OutstandingInvoice: rec.OutstandingInvoice,
		TotalPayment:       rec.TotalPayment,
	}
	for _, li := range rec.LineItems {
		resp.LineItems = append(resp.LineItems, bookingResponseItem{Price: li.Price, TradedAmount: li.TradedAmount})
	}
	for _, ce := range rec.CostEntries {
		resp.OperationalCosts = append(resp.OperationalCosts, bookingResponseCost{Amount: ce.Amount, CategoryName: ce.CategoryName})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type bookingResponseItem struct {
	Price        float64 `json:"price"`
	TradedAmount float64 `json:"tradedAmount"`
}

type bookingResponseCost struct {
	Amount       float64 `json:"amount"`
	CategoryName string  `json:"categoryName"`
}

type bookingResponse struct {
	ID                 int64                 `json:"id"`
	CreatedAt          time.Time             `json:"createdAt"`
	TotalAmount        float64               `json:"totalAmount"`
	ClientType         string                `json:"clientType"`
	Company            string                `json:"company"`
	OutstandingInvoice float64               `json:"outstandingInvoice"`
	TotalPayment       float64               `json:"totalPayment"`
	LineItems          []bookingResponseItem `json:"lineItems"`
	OperationalCosts   []bookingResponseCost `json:"operationalCosts"`
}
