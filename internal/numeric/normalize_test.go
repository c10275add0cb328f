package numeric

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		// --- Single separator heuristics ---
		{name: "dot with three trailing digits is thousands grouping", raw: "129.990", want: "129990"},
		{name: "comma with three trailing digits is thousands grouping", raw: "129,990", want: "129990"},
		{name: "dot with two trailing digits is decimal", raw: "12.50", want: "12.5"},
		{name: "comma with two trailing digits is decimal", raw: "12,50", want: "12.5"},
		{name: "dot with one trailing digit is decimal", raw: "99.9", want: "99.9"},
		{name: "repeated dots collapse as grouping", raw: "1.234.567", want: "1234567"},

		// --- Both separators: the later one wins as decimal ---
		{name: "european style grouping", raw: "1.234,56", want: "1234.56"},
		{name: "us style grouping", raw: "1,234.56", want: "1234.56"},

		// --- Plain values ---
		{name: "integer passes through", raw: "129990", want: "129990"},
		{name: "three digit tail reads as grouping even on short values", raw: "10.005", want: "10005"},
		{name: "leading and trailing space trimmed", raw: "  42.10 ", want: "42.1"},

		// --- Noise stripping ---
		{name: "currency symbols and spaces stripped", raw: "$ 1,234.56", want: "1234.56"},
		{name: "letters stripped before parsing", raw: "12x.50", want: "12.5"},

		// --- Empty / unparsable ---
		{name: "empty input", raw: "", want: ""},
		{name: "whitespace only", raw: "   ", want: ""},
		{name: "no numeric content", raw: "abc$%", want: ""},
		{name: "lone minus sign", raw: "-", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw, 2))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	// Canonical output must be a stable fixed point of the parser.
	inputs := []string{"129.990", "129,990", "12.50", "12,50", "1.234,56", "1,234.56", "0.99", "129990", ""}

	for _, raw := range inputs {
		once := Normalize(raw, 2)
		twice := Normalize(once, 2)
		assert.Equal(t, once, twice, "normalize(normalize(%q))", raw)
	}
}

func TestNormalize_Precision(t *testing.T) {
	// The configured decimals control rounding, not padding.
	assert.Equal(t, "12.346", Normalize("12.3456", 3))
	assert.Equal(t, "12", Normalize("12.4", 0))
	assert.Equal(t, "12.5", Normalize("12.50", 4))
}

func TestCanonical(t *testing.T) {
	// Canonical never applies the separator heuristic: machine-produced
	// values with long fractional tails keep their magnitude.
	assert.Equal(t, "89.9", Canonical("89.9000", 2))
	assert.Equal(t, "1234.567", Canonical("1234.567", 4))
	assert.Equal(t, "12.35", Canonical("12.3456", 2))
	assert.Equal(t, "", Canonical("", 2))
	assert.Equal(t, "", Canonical("n/a", 2))
	assert.Equal(t, "2000", Canonical(" 2000 ", 2))
}

func TestParsePositive(t *testing.T) {
	d, ok := ParsePositive("12.5")
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("12.5")))

	_, ok = ParsePositive("")
	assert.False(t, ok)

	_, ok = ParsePositive("0")
	assert.False(t, ok)

	_, ok = ParsePositive("-3")
	assert.False(t, ok)

	_, ok = ParsePositive("not-a-number")
	assert.False(t, ok)
}
