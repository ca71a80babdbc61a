package report

import (
	"strconv"
	"strings"
	"time"

	"mediasales/internal/core"
)

// HalfYearScope controls the half-yearly filtering policy. The observed
// behavior of the production reports keeps only records falling in the
// half of the fiscal year that today's date is in; ScopeRecord instead
// admits the whole fiscal year and lets each record sit in its own half.
type HalfYearScope string

const (
	HalfYearScopeCurrent HalfYearScope = "current"
	HalfYearScopeRecord  HalfYearScope = "record"
)

// Params is the immutable configuration for one aggregation pass.
type Params struct {
	Granularity   core.Granularity
	Today         time.Time
	Range         *core.DateRange
	HalfYearScope HalfYearScope
}

// Classification places one record in a time bucket. GroupingKey sorts
// chronologically under CompareKeys; QuarterIndex is the 0-based calendar
// quarter used only for subtotal boundary detection.
type Classification struct {
	PeriodLabel  string
	GroupingKey  string
	QuarterIndex int
}

// Classify decides whether a record is in scope for the given params and,
// if so, computes its period label and grouping key. The second return is
// false for out-of-scope records (outside the active window, future-dated,
// or a custom range with missing bounds).
func Classify(rec core.Record, p Params) (Classification, bool) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() || createdAt.After(p.Today) {
		return Classification{}, false
	}

	month0 := int(createdAt.Month()) - 1
	// Period labels use the fiscal year for every view, matching the
	// production report's labeling.
	fy := FiscalYear(createdAt)
	monthName := createdAt.Month().String()

	switch p.Granularity {
	case core.Yearly:
		if s, e := FiscalYearBounds(p.Today); !inWindow(createdAt, s, e) {
			return Classification{}, false
		}

	case core.HalfYearly:
		if s, e := FiscalYearBounds(p.Today); !inWindow(createdAt, s, e) {
			return Classification{}, false
		}
		if p.HalfYearScope != HalfYearScopeRecord {
			_, hs, he := HalfYearBounds(p.Today)
			if !inWindow(createdAt, hs, he) {
				return Classification{}, false
			}
		}

	case core.Quarterly:
		if s, e := QuarterBounds(p.Today); !inWindow(createdAt, s, e) {
			return Classification{}, false
		}
		return Classification{
			PeriodLabel:  monthName + " " + strconv.Itoa(fy),
			GroupingKey:  FiscalQuarterLabel(month0) + "-" + strconv.Itoa(fy) + "-" + pad2(month0),
			QuarterIndex: calendarQuarterIndex(month0),
		}, true

	case core.Monthly:
		if s, e := MonthBounds(p.Today); !inWindow(createdAt, s, e) {
			return Classification{}, false
		}

	case core.Weekly:
		if s, e := MonthBounds(p.Today); !inWindow(createdAt, s, e) {
			return Classification{}, false
		}
		week := WeekOfMonth(createdAt)
		return Classification{
			PeriodLabel: "Week " + strconv.Itoa(week) + ", " + monthName + " " + strconv.Itoa(fy),
			GroupingKey: "week-" + strconv.Itoa(week) + "-" +
				strconv.Itoa(int(p.Today.Month())-1) + "-" + strconv.Itoa(fy),
			QuarterIndex: calendarQuarterIndex(month0),
		}, true

	case core.CustomRange:
		if !p.Range.Complete() {
			return Classification{}, false
		}
		if createdAt.Before(p.Range.Start) || createdAt.After(p.Range.End) {
			return Classification{}, false
		}
		startLabel := p.Range.Start.Format("2006-01-02")
		endLabel := p.Range.End.Format("2006-01-02")
		return Classification{
			PeriodLabel:  startLabel + " - " + endLabel,
			GroupingKey:  "custom-" + startLabel + "-" + endLabel,
			QuarterIndex: calendarQuarterIndex(month0),
		}, true

	default:
		return Classification{}, false
	}

	// Yearly, half-yearly and monthly views share the month-year scheme.
	return Classification{
		PeriodLabel:  monthName + " " + strconv.Itoa(fy),
		GroupingKey:  strconv.Itoa(month0) + "-" + strconv.Itoa(fy),
		QuarterIndex: calendarQuarterIndex(month0),
	}, true
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// pad2 zero-pads the month component of quarterly keys so the
// lexicographic remainder comparison in CompareKeys stays chronological
// ("09" sorts before "10").
func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// CompareKeys orders grouping keys chronologically: the numeric prefix
// before the first dash is compared as an integer when both sides have
// one, then the remainder lexicographically. The finalizer's subtotal
// placement depends on this ordering.
func CompareKeys(a, b string) int {
	aPrefix, aRest, _ := strings.Cut(a, "-")
	bPrefix, bRest, _ := strings.Cut(b, "-")

	an, aerr := strconv.Atoi(aPrefix)
	bn, berr := strconv.Atoi(bPrefix)
	if aerr == nil && berr == nil {
		if an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(aRest, bRest)
}
