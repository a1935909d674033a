package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/reconbattery/pos/internal/money"
)

var ErrInvalidTaxRate = errors.New("tax rate percent must be between 0 and 100")

// Totals are the derived amounts for a cart. Subtotal is the exact sum of the
// already-rounded line totals; Total carries no further rounding because both
// operands are at two-decimal precision.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals derives subtotal, tax and total for the cart. ratePercent is
// a percentage (7.625 means 7.625%) and must be within [0, 100]; when tax is
// disabled the rate is ignored and tax is zero.
func ComputeTotals(c Cart, taxEnabled bool, ratePercent decimal.Decimal) (Totals, error) {
	if ratePercent.IsNegative() || ratePercent.GreaterThan(oneHundred) {
		return Totals{}, ErrInvalidTaxRate
	}

	subtotal := decimal.Zero
	for _, line := range c {
		subtotal = subtotal.Add(line.LineTotal)
	}

	tax := decimal.Zero
	if taxEnabled {
		tax = money.Round2(subtotal.Mul(ratePercent.Div(oneHundred)))
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}, nil
}
