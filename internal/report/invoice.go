package report

import (
	"sort"
	"strconv"
	"time"

	"mediasales/internal/core"
)

// InvoiceView selects the window for the invoice summary.
type InvoiceView string

const (
	InvoiceViewAll          InvoiceView = ""
	InvoiceViewPast10Years  InvoiceView = "past10Years"
	InvoiceViewPast5Years   InvoiceView = "past5Years"
	InvoiceViewPreviousYear InvoiceView = "previousYear"
	InvoiceViewCurrentYear  InvoiceView = "currentYear"
)

// ParseInvoiceView validates a view selector from the wire.
func ParseInvoiceView(s string) (InvoiceView, bool) {
	switch InvoiceView(s) {
	case InvoiceViewAll, InvoiceViewPast10Years, InvoiceViewPast5Years,
		InvoiceViewPreviousYear, InvoiceViewCurrentYear:
		return InvoiceView(s), true
	}
	return "", false
}

// InvoiceRow is one month's invoicing totals, amounts in lac.
type InvoiceRow struct {
	MonthYearKey    string  `json:"monthYearKey"`
	Month           string  `json:"month"`
	InvoiceRaised   float64 `json:"invoiceRaised"`
	AmountCollected float64 `json:"amountCollected"`
	Outstanding     float64 `json:"outstanding"`
}

// InvoiceSummary groups records by calendar month and sums invoices
// raised against amounts collected. Months where any component comes out
// negative are dropped. Rows are ordered chronologically.
func InvoiceSummary(records []core.Record, view InvoiceView, today time.Time) []InvoiceRow {
	winStart, winEnd := invoiceWindow(view, today)

	type totals struct {
		raised, collected float64
		sample            time.Time
	}
	byMonth := make(map[string]*totals)

	for _, rec := range records {
		if rec.CreatedAt.IsZero() {
			continue
		}
		key := strconv.Itoa(rec.CreatedAt.Year()) + "-" + strconv.Itoa(int(rec.CreatedAt.Month()))
		t := byMonth[key]
		if t == nil {
			t = &totals{sample: rec.CreatedAt}
			byMonth[key] = t
		}
		t.raised += core.ToLac(rec.OutstandingInvoice)
		t.collected += core.ToLac(rec.TotalPayment)
	}

	rows := make([]InvoiceRow, 0, len(byMonth))
	for key, t := range byMonth {
		monthStart := time.Date(t.sample.Year(), t.sample.Month(), 1, 0, 0, 0, 0, time.UTC)
		if !winStart.IsZero() && monthStart.Before(winStart) {
			continue
		}
		if !winEnd.IsZero() && monthStart.After(winEnd) {
			continue
		}

		outstanding := t.raised - t.collected
		if t.raised < 0 || t.collected < 0 || outstanding < 0 {
			continue
		}
		rows = append(rows, InvoiceRow{
			MonthYearKey:    key,
			Month:           t.sample.Month().String()[:3] + " " + strconv.Itoa(t.sample.Year()),
			InvoiceRaised:   t.raised,
			AmountCollected: t.collected,
			Outstanding:     outstanding,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		yi, mi := splitMonthKey(rows[i].MonthYearKey)
		yj, mj := splitMonthKey(rows[j].MonthYearKey)
		if yi != yj {
			return yi < yj
		}
		return mi < mj
	})
	return rows
}

// CollectionRate is the collected-to-raised percentage for a set of
// invoice rows, or the placeholder when nothing was raised.
func CollectionRate(rows []InvoiceRow) string {
	var raised, collected float64
	for _, r := range rows {
		raised += r.InvoiceRaised
		collected += r.AmountCollected
	}
	return core.Percentage(collected, raised)
}

func invoiceWindow(view InvoiceView, today time.Time) (start, end time.Time) {
	switch view {
	case InvoiceViewPast10Years:
		return time.Date(today.Year()-10, time.January, 1, 0, 0, 0, 0, time.UTC), time.Time{}
	case InvoiceViewPast5Years:
		return time.Date(today.Year()-5, time.January, 1, 0, 0, 0, 0, time.UTC), time.Time{}
	case InvoiceViewPreviousYear:
		return time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(today.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC)
	case InvoiceViewCurrentYear:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}, time.Time{}
	}
}

func splitMonthKey(key string) (year, month int) {
	for i := 0; i < len(key); i++ {
		if key[i] == '-' {
			year, _ = strconv.Atoi(key[:i])
			month, _ = strconv.Atoi(key[i+1:])
			return year, month
		}
	}
	return 0, 0
}
