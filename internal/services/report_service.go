package services

import (
	"context"
	"fmt"
	"time"

	"mediasales/internal/core"
	"mediasales/internal/report"
)

// BookingLister loads the booking records a report runs over.
type BookingLister interface {
	ListBookings(ctx context.Context) ([]core.Record, error)
}

// ReportService computes display-ready reports from stored bookings.
type ReportService struct {
	bookings BookingLister
}

func NewReportService(bookings BookingLister) *ReportService {
	return &ReportService{bookings: bookings}
}

// SalesRollup runs the full pipeline for one view: load, aggregate into
// period buckets, then finalize into ordered rows with subtotals.
func (s *ReportService) SalesRollup(ctx context.Context, p report.Params) ([]report.RollupRow, error) {
	records, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	agg := report.Aggregate(records, p)
	return report.Finalize(agg), nil
}

// InvoiceSummary builds the month-by-month invoicing table.
func (s *ReportService) InvoiceSummary(ctx context.Context, view report.InvoiceView, today time.Time) ([]report.InvoiceRow, error) {
	records, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return report.InvoiceSummary(records, view, today), nil
}

// ClientShare sums raw booking revenue per canonical client type.
func (s *ReportService) ClientShare(ctx context.Context) (report.ClientShare, error) {
	records, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return report.RevenueByClientType(records), nil
}
