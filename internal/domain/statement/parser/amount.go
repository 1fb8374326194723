package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencySymbols are stripped before numeric conversion.
var currencySymbols = []string{"$", "€", "£"}

// NormalizeAmount parses a free-form monetary token into a signed decimal.
// It strips currency symbols, thousands separators and embedded spaces, and
// treats a parenthesized value as negative (accounting convention).
// The second return value is false when the token is not an amount — a
// normal outcome for blank or textual cells, not an error.
func NormalizeAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// roundAmount converts a normalized decimal into the 2-decimal display value
// carried by Entry.
func roundAmount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
