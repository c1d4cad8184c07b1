// Package core holds the sales ledger data model and the aggregation engine.
//
// This file contains helpers for parsing and formatting monetary amounts and
// percentages entered by users.
package core

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var errInvalidAmount = errors.New("invalid amount")

// dotGrouped matches pt-BR thousands grouping without a decimal part, e.g. 1.500.
var dotGrouped = regexp.MustCompile(`^[1-9]\d{0,2}(\.\d{3})+$`)

// ParseAmount parses a non-negative decimal amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
// A value with both separators is read as pt-BR grouping (1.234,56), and so
// is a dot followed by whole groups of three digits (1.500 is 1500).
// The empty string parses as zero.
//
// Examples:
//
//	ParseAmount("12.34")    -> 12.34
//	ParseAmount("12,34")    -> 12.34
//	ParseAmount("1.234,56") -> 1234.56
//	ParseAmount("1.500")    -> 1500
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		// pt-BR: dots group thousands, the comma separates decimals
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if dotGrouped.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeValue
	}
	return d, nil
}

// ParsePercentage parses a percentage in 0..100.
func ParsePercentage(s string) (decimal.Decimal, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	d, err := ParseAmount(s)
	if err != nil || d.GreaterThan(hundred) {
		return decimal.Zero, ErrInvalidPercentage
	}
	return d, nil
}

// FormatAmount renders an amount in reais for display, e.g. "R$ 1.234,56".
func FormatAmount(d decimal.Decimal) string {
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return sign + "R$ " + b.String() + "," + frac
}
