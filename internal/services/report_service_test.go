package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"mediasales/internal/core"
	"mediasales/internal/report"
)

type stubLister struct {
	records []core.Record
	err     error
}

func (s *stubLister) ListBookings(ctx context.Context) ([]core.Record, error) {
	return s.records, s.err
}

func TestSalesRollup(t *testing.T) {
	created := time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC)
	lister := &stubLister{records: []core.Record{
		{
			ID:          1,
			CreatedAt:   created,
			TotalAmount: 500000,
			ClientType:  core.DirectClient,
			LineItems:   []core.LineItem{{Price: 500000}},
		},
	}}
	svc := NewReportService(lister)

	rows, err := svc.SalesRollup(context.Background(), report.Params{
		Granularity: core.Monthly,
		Today:       time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("SalesRollup: %v", err)
	}

	// Four client rows plus the trailing quarter subtotal.
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if rows[0].ClientType != string(core.DirectClient) || rows[0].TotalRevenue != "5.00" {
		t.Errorf("direct client row = %+v", rows[0])
	}
	last := rows[len(rows)-1]
	if last.Kind != report.SubtotalRow || last.TotalRevenue != "5.00" {
		t.Errorf("subtotal row = %+v", last)
	}
}

func TestSalesRollupListError(t *testing.T) {
	svc := NewReportService(&stubLister{err: errors.New("db closed")})

	_, err := svc.SalesRollup(context.Background(), report.Params{
		Granularity: core.Yearly,
		Today:       time.Now(),
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestClientShare(t *testing.T) {
	lister := &stubLister{records: []core.Record{
		{CreatedAt: time.Now(), TotalAmount: 100, ClientType: core.LocalAgency},
		{CreatedAt: time.Now(), TotalAmount: 250, ClientType: core.LocalAgency},
	}}
	svc := NewReportService(lister)

	share, err := svc.ClientShare(context.Background())
	if err != nil {
		t.Fatalf("ClientShare: %v", err)
	}
	if share[core.LocalAgency] != 350 {
		t.Errorf("local agency = %v, want 350", share[core.LocalAgency])
	}
}
