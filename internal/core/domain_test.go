package core

import (
	"testing"
	"time"
)

func TestRecordValidate(t *testing.T) {
	good := Record{
		CreatedAt:   time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: 500000,
		ClientType:  DirectClient,
		LineItems:   []LineItem{{Price: 300000, TradedAmount: 0}},
		CostEntries: []CostEntry{{Amount: 1200, CategoryName: "Electricity"}},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Record{
		{TotalAmount: 1}, // zero timestamp
		{CreatedAt: time.Now(), TotalAmount: -1},
		{CreatedAt: time.Now(), LineItems: []LineItem{{Price: -5}}},
		{CreatedAt: time.Now(), CostEntries: []CostEntry{{Amount: -1}}},
	}
	for i, rec := range bads {
		if err := rec.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseGranularity(t *testing.T) {
	for _, s := range []string{"yearly", "halfYearly", "quarterly", "monthly", "weekly", "customDate"} {
		if _, err := ParseGranularity(s); err != nil {
			t.Errorf("ParseGranularity(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := ParseGranularity("daily"); err == nil {
		t.Error("expected error for unknown view")
	}
}

func TestDateRangeComplete(t *testing.T) {
	var nilRange *DateRange
	if nilRange.Complete() {
		t.Error("nil range should not be complete")
	}
	half := &DateRange{Start: time.Now()}
	if half.Complete() {
		t.Error("range missing end should not be complete")
	}
	full := &DateRange{Start: time.Now(), End: time.Now()}
	if !full.Complete() {
		t.Error("full range should be complete")
	}
}
