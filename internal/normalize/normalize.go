// Package normalize centralizes the defensive parsing that used to be
// scattered across report handlers: SKU canonicalization, lenient date
// parsing and quantity coercion. Every function is total; malformed input
// maps to a zero value instead of an error so a single bad upstream record
// never aborts a multi-SKU report.
package normalize

import (
	"strconv"
	"strings"
	"time"
)

var skuStripper = strings.NewReplacer(" ", "", "-", "", "_", "")

// SKU canonicalizes a raw SKU string so purchase orders, variants and
// forecasts referring to the same SKU join despite inconsistent formatting:
// trim, uppercase, then strip spaces, hyphens and underscores. Idempotent;
// empty input yields "".
func SKU(raw string) string {
	return skuStripper.Replace(strings.ToUpper(strings.TrimSpace(raw)))
}

// dateLayouts is tried in order; the first successful parse wins. The order
// matters for ambiguous numeric dates: "03/04/2025" parses as March 4 via
// the MM/DD layout before DD/MM is ever tried. That ordering mirrors the
// upload formats seen in production and is intentionally not locale-aware;
// changing it silently would reclassify historical purchase orders.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02-01-2006",
	"01/02/2006",
	"January 2, 2006",
	"02/01/2006",
	"2006-01-02T15:04:05",
}

// ParseDate parses a heterogeneous date representation into a calendar date
// (UTC midnight). ok is false when the value is empty or matches no known
// layout; callers must treat that as "exclude from date-based logic".
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true
		}
	}

	return time.Time{}, false
}

// DateOf truncates a timestamp to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthOf truncates a timestamp to the first day of its calendar month.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Quantity coerces a raw quantity string to a non-error integer the way the
// upload pipeline always has: float first so "12.0" survives, 0 on anything
// that is not numeric.
func Quantity(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return int(f)
}

// IntOrZero dereferences a nullable integer column.
func IntOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// ClampNonNegative treats negative or sentinel inventory counts as zero
// available stock, never as negative demand.
func ClampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
