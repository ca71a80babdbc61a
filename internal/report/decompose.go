package report

import "mediasales/internal/core"

// Breakdown is one record's contribution to a bucket, already converted
// to lac.
type Breakdown struct {
	OwnedRevenue  float64
	TradedRevenue float64
	TradedCost    float64
	TradedMargin  float64
	GrossOwned    float64
	GrossTraded   float64
	Costs         map[core.CostCategory]float64
}

// costCategories resolves the raw operational-cost type names used by the
// booking system. Names are matched exactly; anything else that is
// non-empty lands in Misc, empty names are dropped entirely.
var costCategories = map[string]core.CostCategory{
	"Electricity":                     core.CostElectricity,
	"License Fees Deposit NF Railway": core.CostLicenseFee,
	"License Fees Deposit ASTC":       core.CostLicenseFee,
	"Site Rental":                     core.CostRental,
	"Hoarding Hire & Rental":          core.CostRental,
}

// ResolveCostCategory maps a cost-entry name to its category. The second
// return is false when the name is empty, meaning the entry is skipped
// rather than misfiled.
func ResolveCostCategory(name string) (core.CostCategory, bool) {
	if name == "" {
		return "", false
	}
	if cat, ok := costCategories[name]; ok {
		return cat, true
	}
	return core.CostMisc, true
}

// Decompose walks a record's line items and cost entries and classifies
// each into the revenue and cost accumulators. A line item with zero
// traded amount is owned inventory; otherwise it is a traded site whose
// margin is price minus traded cost.
func Decompose(rec core.Record) Breakdown {
	b := Breakdown{Costs: make(map[core.CostCategory]float64)}

	for _, li := range rec.LineItems {
		price := core.ToLac(li.Price)
		traded := core.ToLac(li.TradedAmount)

		if li.TradedAmount == 0 {
			b.OwnedRevenue += price
			b.GrossOwned += price
		} else {
			b.TradedRevenue += price
			b.GrossTraded += price
			b.TradedCost += traded
			b.TradedMargin += price - traded
		}
	}

	for _, ce := range rec.CostEntries {
		cat, ok := ResolveCostCategory(ce.CategoryName)
		if !ok {
			continue
		}
		b.Costs[cat] += core.ToLac(ce.Amount)
	}

	return b
}
