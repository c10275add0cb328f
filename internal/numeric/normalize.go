// Package numeric normalizes human-entered price strings into canonical
// decimal strings. Admin users type prices in mixed locale conventions
// ("129.990", "129,990", "1.234,56"), so the parser has to decide per input
// which separator is the decimal point and which is a thousands grouping.
package numeric

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize converts a free-form price string into a canonical decimal string
// rounded to the given number of price decimals. The empty string signals
// "no value"; unparsable input also yields the empty string, never an error.
//
// Separator resolution:
//   - both "." and "," present: the one occurring later is the decimal
//     separator, the other is a thousands grouping and is removed;
//   - only one separator present: it is treated as the decimal separator
//     iff exactly 1 or 2 digits follow its last occurrence, otherwise it is
//     a thousands grouping and every occurrence is removed.
//
// The 1-2 digit window is why "1.234" reads as one thousand two hundred
// thirty four and not as a fraction. That is the intended trade-off for
// price input: three-digit fractional tails on prices are grouping, not
// sub-cent precision.
func Normalize(raw string, decimals int32) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = stripNonNumeric(s)
	if s == "" {
		return ""
	}

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	case lastDot >= 0:
		if n := len(s) - lastDot - 1; n < 1 || n > 2 {
			s = strings.ReplaceAll(s, ".", "")
		}
	case lastComma >= 0:
		if n := len(s) - lastComma - 1; n >= 1 && n <= 2 {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return ""
	}

	return Format(d, decimals)
}

// Format renders a decimal rounded to the configured price decimals with
// trailing zeros trimmed ("12.50" becomes "12.5").
func Format(d decimal.Decimal, decimals int32) string {
	return d.Round(decimals).String()
}

// Canonical re-rounds an already canonical decimal string to the configured
// price decimals. Empty or unparsable input yields the empty string. Unlike
// Normalize it never applies the separator heuristic: machine-produced
// values with long fractional tails ("89.9000") pass through intact instead
// of being misread as thousands grouping.
func Canonical(s string, decimals int32) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ""
	}
	return Format(d, decimals)
}

// ParsePositive parses a canonical decimal string and reports whether it
// holds a value strictly greater than zero.
func ParsePositive(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}

// stripNonNumeric drops every rune that cannot be part of a numeric input,
// keeping digits, separators and the minus sign.
func stripNonNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
