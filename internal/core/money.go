// Package core holds the shift table model: rows with their expense lists,
// the derived net value, snapshot conversion and branch summaries.
//
// This file contains the lenient numeric and date coercion applied to
// every value typed by the operator.
package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical year-month-day form of a row date.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order when a date is not already canonical.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// maxExponent bounds the decimal exponent of an accepted value. Arithmetic
// rescales to exponent 0, so larger magnitudes would allocate huge integers.
const maxExponent = 20

// maxDigits bounds the coefficient length of an accepted value.
const maxDigits = 40

// Coerce parses s as a decimal number. Empty, non-numeric or out of range
// input yields zero.
//
// Examples:
//
//	Coerce("12.5") -> 12.5
//	Coerce(" 7 ")  -> 7
//	Coerce("")     -> 0
//	Coerce("abc")  -> 0
//	Coerce("1e30") -> 0
func Coerce(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent || d.NumDigits() > maxDigits {
		return decimal.Zero
	}
	return d
}

// Today returns the canonical form of t's calendar day.
func Today(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate converts free-form date text to canonical form.
// Blank or unparseable input falls back to today.
func NormalizeDate(value, today string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return today
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t.Format(DateLayout)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(DateLayout)
		}
	}
	return today
}
