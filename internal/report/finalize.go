package report

import (
	"strconv"

	"mediasales/internal/core"
)

// RowKind distinguishes per-bucket rows from quarter subtotal rows.
type RowKind string

const (
	DataRow     RowKind = "data"
	SubtotalRow RowKind = "subtotal"
)

// OperationalCosts carries the four formatted cost-category fields.
type OperationalCosts struct {
	Electricity string `json:"electricity"`
	LicenseFee  string `json:"licenseFee"`
	Rental      string `json:"rental"`
	Misc        string `json:"misc"`
}

// RollupRow is one finalized, display-ready row. Monetary fields are
// decimal strings in lac, or the placeholder when nothing contributed.
type RollupRow struct {
	Kind               RowKind          `json:"kind"`
	Period             string           `json:"period"`
	ClientType         string           `json:"clientType"`
	OwnedSiteRevenue   string           `json:"ownedSiteRevenue"`
	TradedSiteRevenue  string           `json:"tradedSiteRevenue"`
	OperationalCosts   OperationalCosts `json:"operationalCosts"`
	TradedPurchaseCost string           `json:"tradedPurchaseCost"`
	TradedMargin       string           `json:"tradedMargin"`
	GrossRevenueOwned  string           `json:"grossRevenueOwned"`
	GrossRevenueTraded string           `json:"grossRevenueTraded"`
	TotalRevenue       string           `json:"totalRevenue"`
}

// quarterTotals is the carried accumulator between subtotal emissions.
// Placeholder rows contribute zero.
type quarterTotals struct {
	owned, traded, tradedCost, margin float64
	grossOwned, grossTraded, total    float64
	costs                             [4]float64 // electricity, licenseFee, rental, misc
}

// Finalize orders the aggregated buckets chronologically and emits one
// row per canonical client type per period, filling absent pairs with
// placeholder rows, inserting a subtotal row at every calendar-quarter
// boundary and one trailing subtotal for the final quarter. A last pass
// blanks period labels that repeat the previous row's so each period
// reads once per block.
func Finalize(agg *Aggregation) []RollupRow {
	keys := agg.Keys()
	if len(keys) == 0 {
		return nil
	}

	var rows []RollupRow
	var qt quarterTotals
	currentQuarter := -1

	for _, key := range keys {
		g := agg.groups[key]

		if currentQuarter != -1 && g.quarterIndex != currentQuarter {
			rows = append(rows, qt.row(currentQuarter))
			qt = quarterTotals{}
		}
		currentQuarter = g.quarterIndex

		for _, ct := range core.ClientTypes {
			b := g.byClient[ct]
			if b == nil {
				rows = append(rows, placeholderRow(g.period, ct))
				continue
			}
			rows = append(rows, dataRow(g.period, ct, b))
			qt.add(b)
		}
	}

	rows = append(rows, qt.row(currentQuarter))

	for i := len(rows) - 1; i >= 1; i-- {
		if rows[i].Period == rows[i-1].Period {
			rows[i].Period = ""
		}
	}
	return rows
}

func dataRow(period string, ct core.ClientType, b *Bucket) RollupRow {
	return RollupRow{
		Kind:              DataRow,
		Period:            period,
		ClientType:        string(ct),
		OwnedSiteRevenue:  core.FormatLac(b.OwnedSiteRevenue),
		TradedSiteRevenue: core.FormatLac(b.TradedSiteRevenue),
		OperationalCosts: OperationalCosts{
			Electricity: core.FormatLac(b.OperationalCosts[core.CostElectricity]),
			LicenseFee:  core.FormatLac(b.OperationalCosts[core.CostLicenseFee]),
			Rental:      core.FormatLac(b.OperationalCosts[core.CostRental]),
			Misc:        core.FormatLac(b.OperationalCosts[core.CostMisc]),
		},
		TradedPurchaseCost: core.FormatLac(b.TradedPurchaseCost),
		TradedMargin:       core.FormatLac(b.TradedMargin),
		GrossRevenueOwned:  core.FormatLac(b.GrossRevenueOwned),
		GrossRevenueTraded: core.FormatLac(b.GrossRevenueTraded),
		TotalRevenue:       core.FormatLac(b.TotalRevenue),
	}
}

// placeholderRow marks a client type with no records in the period.
// Every field stays the placeholder so "no data" remains distinguishable
// from a recorded zero.
func placeholderRow(period string, ct core.ClientType) RollupRow {
	const p = core.Placeholder
	return RollupRow{
		Kind:              DataRow,
		Period:            period,
		ClientType:        string(ct),
		OwnedSiteRevenue:  p,
		TradedSiteRevenue: p,
		OperationalCosts: OperationalCosts{
			Electricity: p,
			LicenseFee:  p,
			Rental:      p,
			Misc:        p,
		},
		TradedPurchaseCost: p,
		TradedMargin:       p,
		GrossRevenueOwned:  p,
		GrossRevenueTraded: p,
		TotalRevenue:       p,
	}
}

func (qt *quarterTotals) add(b *Bucket) {
	qt.owned += b.OwnedSiteRevenue
	qt.traded += b.TradedSiteRevenue
	qt.tradedCost += b.TradedPurchaseCost
	qt.margin += b.TradedMargin
	qt.grossOwned += b.GrossRevenueOwned
	qt.grossTraded += b.GrossRevenueTraded
	qt.total += b.TotalRevenue
	qt.costs[0] += b.OperationalCosts[core.CostElectricity]
	qt.costs[1] += b.OperationalCosts[core.CostLicenseFee]
	qt.costs[2] += b.OperationalCosts[core.CostRental]
	qt.costs[3] += b.OperationalCosts[core.CostMisc]
}

func (qt *quarterTotals) row(quarterIndex int) RollupRow {
	return RollupRow{
		Kind:              SubtotalRow,
		Period:            "Total for Q" + strconv.Itoa(quarterIndex+1),
		ClientType:        "Total",
		OwnedSiteRevenue:  core.FormatLac(qt.owned),
		TradedSiteRevenue: core.FormatLac(qt.traded),
		OperationalCosts: OperationalCosts{
			Electricity: core.FormatLac(qt.costs[0]),
			LicenseFee:  core.FormatLac(qt.costs[1]),
			Rental:      core.FormatLac(qt.costs[2]),
			Misc:        core.FormatLac(qt.costs[3]),
		},
		TradedPurchaseCost: core.FormatLac(qt.tradedCost),
		TradedMargin:       core.FormatLac(qt.margin),
		GrossRevenueOwned:  core.FormatLac(qt.grossOwned),
		GrossRevenueTraded: core.FormatLac(qt.grossTraded),
		TotalRevenue:       core.FormatLac(qt.total),
	}
}
