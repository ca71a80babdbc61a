package report

import "mediasales/internal/core"

// ClientShare is total raw booking revenue per canonical client type.
// Values stay in raw currency units; chart consumers scale as they like.
type ClientShare map[core.ClientType]float64

// RevenueByClientType sums booking totals per client type across all
// records. Every canonical type is present in the result even when zero;
// unclassified records are not counted.
func RevenueByClientType(records []core.Record) ClientShare {
	share := make(ClientShare, len(core.ClientTypes))
	for _, ct := range core.ClientTypes {
		share[ct] = 0
	}
	for _, rec := range records {
		if _, ok := share[rec.ClientType]; ok {
			share[rec.ClientType] += rec.TotalAmount
		}
	}
	return share
}
