package report

import (
	"log/slog"
	"sort"

	"mediasales/internal/core"
)

// Bucket accumulates one (groupingKey, clientType) pair. All values are
// in lac. Buckets are created on first contribution and only ever added
// to; a pass never deletes one.
type Bucket struct {
	OwnedSiteRevenue   float64
	TradedSiteRevenue  float64
	TradedPurchaseCost float64
	TradedMargin       float64
	GrossRevenueOwned  float64
	GrossRevenueTraded float64
	TotalRevenue       float64
	OperationalCosts   map[core.CostCategory]float64
}

// group holds every client-type bucket for one grouping key plus the
// key-level metadata the finalizer needs.
type group struct {
	period       string
	quarterIndex int
	byClient     map[core.ClientType]*Bucket
}

// Aggregation is the result of one pass: buckets keyed by grouping key
// and client type. State is local to the pass; concurrent passes over
// different inputs need no locking.
type Aggregation struct {
	groups map[string]*group
}

// Keys returns the grouping keys in chronological order.
func (a *Aggregation) Keys() []string {
	keys := make([]string, 0, len(a.groups))
	for k := range a.groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return CompareKeys(keys[i], keys[j]) < 0 })
	return keys
}

// Bucket returns the accumulator for a key and client type, or nil when
// no record contributed to that pair.
func (a *Aggregation) Bucket(key string, ct core.ClientType) *Bucket {
	g, ok := a.groups[key]
	if !ok {
		return nil
	}
	return g.byClient[ct]
}

// Aggregate folds the records into per-period, per-client-type buckets.
// Out-of-scope records are skipped; records with a zero timestamp are
// logged and excluded rather than failing the pass. The resulting sums
// are independent of input order.
func Aggregate(records []core.Record, p Params) *Aggregation {
	agg := &Aggregation{groups: make(map[string]*group)}

	for _, rec := range records {
		if rec.CreatedAt.IsZero() {
			slog.Warn("skipping record with invalid timestamp", "booking_id", rec.ID)
			continue
		}

		cls, ok := Classify(rec, p)
		if !ok {
			continue
		}

		g := agg.groups[cls.GroupingKey]
		if g == nil {
			g = &group{
				period:       cls.PeriodLabel,
				quarterIndex: cls.QuarterIndex,
				byClient:     make(map[core.ClientType]*Bucket),
			}
			agg.groups[cls.GroupingKey] = g
		}

		ct := rec.ClientType
		if ct == "" {
			ct = core.UnknownClient
		}
		b := g.byClient[ct]
		if b == nil {
			b = &Bucket{OperationalCosts: make(map[core.CostCategory]float64)}
			g.byClient[ct] = b
		}

		bd := Decompose(rec)
		b.OwnedSiteRevenue += bd.OwnedRevenue
		b.TradedSiteRevenue += bd.TradedRevenue
		b.TradedPurchaseCost += bd.TradedCost
		b.TradedMargin += bd.TradedMargin
		b.GrossRevenueOwned += bd.GrossOwned
		b.GrossRevenueTraded += bd.GrossTraded
		b.TotalRevenue += core.ToLac(rec.TotalAmount)
		for cat, amt := range bd.Costs {
			b.OperationalCosts[cat] += amt
		}
	}

	return agg
}
