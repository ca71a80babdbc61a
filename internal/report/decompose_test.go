package report

import (
	"testing"
	"time"

	"mediasales/internal/core"
)

func TestDecomposeOwnedAndTraded(t *testing.T) {
	rec := core.Record{
		CreatedAt: time.Now(),
		LineItems: []core.LineItem{
			{Price: 300000, TradedAmount: 0},      // owned
			{Price: 500000, TradedAmount: 200000}, // traded
		},
	}

	b := Decompose(rec)
	if got := core.FormatLac(b.OwnedRevenue); got != "3.00" {
		t.Errorf("owned revenue = %s", got)
	}
	if got := core.FormatLac(b.TradedRevenue); got != "5.00" {
		t.Errorf("traded revenue = %s", got)
	}
	if got := core.FormatLac(b.TradedCost); got != "2.00" {
		t.Errorf("traded cost = %s", got)
	}
	if got := core.FormatLac(b.TradedMargin); got != "3.00" {
		t.Errorf("traded margin = %s", got)
	}
	if got := core.FormatLac(b.GrossOwned); got != "3.00" {
		t.Errorf("gross owned = %s", got)
	}
	if got := core.FormatLac(b.GrossTraded); got != "5.00" {
		t.Errorf("gross traded = %s", got)
	}
}

func TestDecomposeCostEntries(t *testing.T) {
	rec := core.Record{
		CreatedAt: time.Now(),
		CostEntries: []core.CostEntry{
			{Amount: 100000, CategoryName: "Electricity"},
			{Amount: 200000, CategoryName: "License Fees Deposit NF Railway"},
			{Amount: 300000, CategoryName: "License Fees Deposit ASTC"},
			{Amount: 400000, CategoryName: "Site Rental"},
			{Amount: 500000, CategoryName: "Hoarding Hire & Rental"},
			{Amount: 600000, CategoryName: "Printing Charges"}, // unmatched -> misc
			{Amount: 700000, CategoryName: ""},                 // dropped
		},
	}

	b := Decompose(rec)
	if got := b.Costs[core.CostElectricity]; got != 1 {
		t.Errorf("electricity = %v", got)
	}
	if got := b.Costs[core.CostLicenseFee]; got != 5 {
		t.Errorf("license fee = %v", got)
	}
	if got := b.Costs[core.CostRental]; got != 9 {
		t.Errorf("rental = %v", got)
	}
	if got := b.Costs[core.CostMisc]; got != 6 {
		t.Errorf("misc = %v", got)
	}

	var total float64
	for _, v := range b.Costs {
		total += v
	}
	if total != 21 { // the empty-name entry never lands anywhere
		t.Errorf("total costs = %v, want 21", total)
	}
}

func TestResolveCostCategory(t *testing.T) {
	if _, ok := ResolveCostCategory(""); ok {
		t.Error("empty name should not resolve")
	}
	if cat, ok := ResolveCostCategory("Anything Else"); !ok || cat != core.CostMisc {
		t.Errorf("unmatched name = %v, %v", cat, ok)
	}
	if cat, _ := ResolveCostCategory("Electricity"); cat != core.CostElectricity {
		t.Errorf("electricity resolved to %v", cat)
	}
}
