// Package core holds the booking domain model and the lac money unit.
//
// All report output is denominated in lac (100,000 currency units). The
// conversion happens exactly once, at accumulation time; downstream code
// only ever formats already-converted values.
package core

import "strconv"

// LacUnit is the number of raw currency units in one lac. Part of the
// output contract; consumers expect amounts pre-divided by this.
const LacUnit = 100_000

// Placeholder marks a field with no contributing data. Distinct from
// "0.00", which means recorded activity that sums to zero.
const Placeholder = "-"

// ToLac converts a raw currency amount to lac.
func ToLac(amount float64) float64 {
	return amount / LacUnit
}

// FormatLac renders an amount already in lac to two decimal places.
func FormatLac(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Percentage renders part/whole as a percentage with two decimals, or the
// placeholder when the denominator is zero.
func Percentage(part, whole float64) string {
	if whole == 0 {
		return Placeholder
	}
	return strconv.FormatFloat(part/whole*100, 'f', 2, 64)
}
