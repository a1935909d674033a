package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

// Product is a catalog entry. The name is the unique key. Price may be
// negative: negative-priced entries represent discount or deposit-return
// lines (core-charge refunds).
type Product struct {
	Name  string
	Price decimal.Decimal
}
