package sale

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("sale not found")

// Method is the payment method recorded on a sale.
type Method string

const (
	MethodCash  Method = "Cash"
	MethodCard  Method = "Card"
	MethodCheck Method = "Check"
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCash, MethodCard, MethodCheck:
		return Method(s), nil
	}

	return "", fmt.Errorf("unknown payment method %q", s)
}

// Sale is a persisted, finalized transaction header. The id is assigned by
// the store and stable once assigned; SaleDate is overwritten on every
// re-save.
type Sale struct {
	ID       int64
	SaleDate time.Time
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	Method   Method
}

// Line is a persisted line item belonging to exactly one sale. A sale's full
// line set is replaced atomically on every save, never patched individually.
type Line struct {
	ID        int64
	SaleID    int64
	Item      string
	Qty       int
	Price     decimal.Decimal
	LineTotal decimal.Decimal
}
