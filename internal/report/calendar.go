// Package report implements the period-bucketed sales rollup engine:
// fiscal-calendar arithmetic, record classification, line-item
// decomposition, aggregation, and finalization into display-ready rows.
package report

import "time"

// HalfYear identifies the two halves of the April–March fiscal year.
type HalfYear string

const (
	FirstHalf  HalfYear = "First Half"
	SecondHalf HalfYear = "Second Half"
)

// fiscalYearStartMonth is April; the fiscal year runs Apr 1 – Mar 31.
const fiscalYearStartMonth = time.April

// FiscalYear returns the fiscal year a date belongs to, named after the
// calendar year in which that fiscal year starts.
func FiscalYear(t time.Time) int {
	if t.Month() >= fiscalYearStartMonth {
		return t.Year()
	}
	return t.Year() - 1
}

// FiscalYearBounds returns the fiscal-year window containing today.
// The start is inclusive, the end exclusive (April 1 of the next year).
func FiscalYearBounds(today time.Time) (start, end time.Time) {
	fy := FiscalYear(today)
	start = time.Date(fy, fiscalYearStartMonth, 1, 0, 0, 0, 0, today.Location())
	return start, start.AddDate(1, 0, 0)
}

// QuarterBounds returns the calendar quarter containing today
// (3-month blocks from January). Start inclusive, end exclusive.
func QuarterBounds(today time.Time) (start, end time.Time) {
	qm := time.Month((int(today.Month()-1)/3)*3 + 1)
	start = time.Date(today.Year(), qm, 1, 0, 0, 0, 0, today.Location())
	return start, start.AddDate(0, 3, 0)
}

// MonthBounds returns the calendar month containing today.
// Start inclusive, end exclusive.
func MonthBounds(today time.Time) (start, end time.Time) {
	start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return start, start.AddDate(0, 1, 0)
}

// HalfYearBounds returns which fiscal half is active for today and its
// window. First Half is Apr 1 – Sep 30, Second Half Oct 1 – Mar 31; the
// active half follows today's month, not the record's.
func HalfYearBounds(today time.Time) (HalfYear, time.Time, time.Time) {
	fyStart, _ := FiscalYearBounds(today)
	mid := fyStart.AddDate(0, 6, 0) // Oct 1
	if m := today.Month(); m >= time.April && m <= time.September {
		return FirstHalf, fyStart, mid
	}
	return SecondHalf, mid, fyStart.AddDate(1, 0, 0)
}

// WeekOfMonth returns the 1-indexed week of the month, where the first
// partial week (offset by the weekday of the 1st) counts as week 1.
func WeekOfMonth(t time.Time) int {
	firstWeekday := int(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).Weekday())
	return (t.Day() + firstWeekday + 6) / 7
}

// FiscalQuarterLabel names the fiscal quarter a 0-based month index falls
// in: Apr–Jun is the First Quarter, Jan–Mar the Fourth.
func FiscalQuarterLabel(month0 int) string {
	switch {
	case month0 >= 3 && month0 <= 5:
		return "First Quarter"
	case month0 >= 6 && month0 <= 8:
		return "Second Quarter"
	case month0 >= 9 && month0 <= 11:
		return "Third Quarter"
	default:
		return "Fourth Quarter"
	}
}

// CalendarQuarterLabel names the calendar quarter of a 0-based month
// index: Jan–Mar is the First Quarter.
func CalendarQuarterLabel(month0 int) string {
	switch month0 / 3 {
	case 0:
		return "First Quarter"
	case 1:
		return "Second Quarter"
	case 2:
		return "Third Quarter"
	default:
		return "Fourth Quarter"
	}
}

// calendarQuarterIndex is the 0-based calendar quarter of a 0-based month
// index. Subtotal boundary detection keys off this, independent of the
// fiscal-year alignment of the labels.
func calendarQuarterIndex(month0 int) int {
	return month0 / 3
}
