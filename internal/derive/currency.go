// Package derive implements the auto-derivation engine: the recomputation
// pass that walks a record value for priced and timed line items and
// maintains the derived payment amount, total duration, and end time.
package derive

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseCurrency converts a formatted currency value ("$12.34", "12.34",
// 12.34) to its numeric form. Malformed values parse to 0 — derivation
// runs on every edit and must never fail on half-typed input.
func ParseCurrency(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		var b strings.Builder
		for _, r := range n {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				b.WriteRune(r)
			}
		}
		f, err := strconv.ParseFloat(b.String(), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// FormatCurrency renders a numeric amount as a two-decimal currency
// string. All arithmetic happens on the parsed numeric form; formatting
// happens exactly once, here — formatted strings are never fed back into
// further arithmetic.
func FormatCurrency(n float64) string {
	// Round half away from zero at cent precision before printing.
	cents := math.Round(n * 100)
	return fmt.Sprintf("$%.2f", cents/100)
}

// parseNumber reads a loosely typed numeric value (string from a text
// input, or a JSON number). The second return reports whether the value
// was usable.
func parseNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
