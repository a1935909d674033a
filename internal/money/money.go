// Package money holds the monetary rounding rules used across the register.
// All amounts are decimal values rounded to two places at the moment they are
// produced, so sums of already-rounded amounts never drift.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Round2 rounds an amount to two decimal places (half away from zero).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Parse parses a decimal amount from its string form.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return d, nil
}

// Format renders an amount with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
