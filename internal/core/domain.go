package core

import (
	"errors"
	"time"
)

// ClientType is the commercial classification of the booking client.
const (
	DirectClient   ClientType = "Direct Client"
	LocalAgency    ClientType = "Local Agency"
	NationalAgency ClientType = "National Agency"
	Government     ClientType = "Government"
	UnknownClient  ClientType = "-"
)

// Granularity selects the reporting window and grouping-key scheme.
const (
	Yearly      Granularity = "yearly"
	HalfYearly  Granularity = "halfYearly"
	Quarterly   Granularity = "quarterly"
	Monthly     Granularity = "monthly"
	Weekly      Granularity = "weekly"
	CustomRange Granularity = "customDate"
)

// CostCategory is the operational-cost bucket a cost entry resolves to.
const (
	CostElectricity CostCategory = "electricity"
	CostLicenseFee  CostCategory = "licenseFee"
	CostRental      CostCategory = "rental"
	CostMisc        CostCategory = "misc"
)

type (
	ClientType   string
	Granularity  string
	CostCategory string

	// Record is one booking as ingested. Immutable input to the report
	// engine; amounts are raw currency units, not lac.
	Record struct {
		ID                 int64
		CreatedAt          time.Time
		TotalAmount        float64
		ClientType         ClientType
		Company            string
		OutstandingInvoice float64
		TotalPayment       float64
		LineItems          []LineItem
		CostEntries        []CostEntry
	}

	// LineItem is one booked site. TradedAmount == 0 means the site is
	// self-owned; TradedAmount > 0 means it was bought in at that cost.
	LineItem struct {
		Price        float64
		TradedAmount float64
	}

	// CostEntry is one operational cost attached to a booking. The raw
	// category name is resolved to a CostCategory by the report engine.
	CostEntry struct {
		Amount       float64
		CategoryName string
	}

	// DateRange bounds a custom reporting window, inclusive on both ends.
	DateRange struct {
		Start time.Time
		End   time.Time
	}
)

var (
	ErrInvalidTimestamp = errors.New("invalid created-at timestamp")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidClient    = errors.New("invalid client type")
)

// ClientTypes is the canonical enumeration order used by report output.
var ClientTypes = []ClientType{DirectClient, LocalAgency, NationalAgency, Government}

// ParseClientType maps a stored classification onto the enum, folding
// anything unrecognized to UnknownClient rather than failing.
func ParseClientType(s string) ClientType {
	switch ClientType(s) {
	case DirectClient, LocalAgency, NationalAgency, Government:
		return ClientType(s)
	default:
		return UnknownClient
	}
}

// ParseGranularity validates a view selector from the wire.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case Yearly, HalfYearly, Quarterly, Monthly, Weekly, CustomRange:
		return Granularity(s), nil
	default:
		return "", errors.New("unknown view: " + s)
	}
}

// Complete reports whether both bounds of the range are set.
func (r *DateRange) Complete() bool {
	return r != nil && !r.Start.IsZero() && !r.End.IsZero()
}

func (rec Record) Validate() error {
	if rec.CreatedAt.IsZero() {
		return ErrInvalidTimestamp
	}
	if rec.TotalAmount < 0 {
		return ErrInvalidAmount
	}
	for _, li := range rec.LineItems {
		if li.Price < 0 || li.TradedAmount < 0 {
			return ErrInvalidAmount
		}
	}
	for _, ce := range rec.CostEntries {
		if ce.Amount < 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}
