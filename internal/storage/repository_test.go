package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mediasales/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "bookings.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func storedBooking(created time.Time) core.Record {
	return core.Record{
		CreatedAt:   created,
		TotalAmount: 500000,
		ClientType:  core.DirectClient,
		Company:     "Acme Media",
		LineItems: []core.LineItem{
			{Price: 300000, TradedAmount: 0},
			{Price: 200000, TradedAmount: 150000},
		},
		CostEntries: []core.CostEntry{
			{Amount: 20000, CategoryName: "Electricity"},
			{Amount: 10000, CategoryName: "Site Rental"},
		},
	}
}

func TestCreateAndGetBooking(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := time.Date(2024, time.July, 5, 10, 30, 0, 0, time.UTC)
	id, err := repo.CreateBooking(ctx, storedBooking(created))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	got, err := repo.GetBooking(ctx, id)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, created)
	}
	if got.ClientType != core.DirectClient || got.Company != "Acme Media" {
		t.Errorf("booking = %+v", got)
	}
	if len(got.LineItems) != 2 || len(got.CostEntries) != 2 {
		t.Fatalf("line items = %d, costs = %d", len(got.LineItems), len(got.CostEntries))
	}
	if got.LineItems[1].TradedAmount != 150000 {
		t.Errorf("traded amount = %v", got.LineItems[1].TradedAmount)
	}
	if got.CostEntries[1].CategoryName != "Site Rental" {
		t.Errorf("cost category = %q", got.CostEntries[1].CategoryName)
	}
}

func TestCreateBookingRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)

	rec := storedBooking(time.Time{}) // zero timestamp
	if _, err := repo.CreateBooking(context.Background(), rec); err == nil {
		t.Fatal("expected validation error for zero timestamp")
	}
}

func TestListBookingsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// Inserted out of chronological order on purpose.
	days := []int{10, 25, 3}
	for _, d := range days {
		rec := storedBooking(time.Date(2024, time.July, d, 0, 0, 0, 0, time.UTC))
		if _, err := repo.CreateBooking(ctx, rec); err != nil {
			t.Fatalf("create booking: %v", err)
		}
	}

	records, err := repo.ListBookings(ctx)
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			t.Errorf("records out of order: %v before %v",
				records[i-1].CreatedAt, records[i].CreatedAt)
		}
	}
	if records[0].CreatedAt.Day() != 25 {
		t.Errorf("first record day = %d, want newest (25)", records[0].CreatedAt.Day())
	}
}
