// Package cart models the in-progress, unsaved line items of the current
// transaction. Operations are pure: they return a new cart and never mutate
// the receiver, which keeps the controller's cancellation semantics trivial.
package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/reconbattery/pos/internal/money"
)

var ErrIndexOutOfRange = errors.New("cart index out of range")

// Line is one cart row. UnitPrice is a snapshot taken when the product was
// first added and is never refreshed from the catalog afterwards.
type Line struct {
	Product   string
	Qty       int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Cart is an ordered sequence of lines with at most one line per product.
type Cart []Line

// Add merges the product into the cart. An existing line gains one unit at
// its original unit price; otherwise a new line with quantity 1 is appended.
func (c Cart) Add(product string, unitPrice decimal.Decimal) Cart {
	next := c.clone()

	for i := range next {
		if next[i].Product == product {
			next[i].Qty++
			next[i].LineTotal = lineTotal(next[i].Qty, next[i].UnitPrice)

			return next
		}
	}

	return append(next, Line{
		Product:   product,
		Qty:       1,
		UnitPrice: unitPrice,
		LineTotal: lineTotal(1, unitPrice),
	})
}

// SetQuantity replaces the quantity of the line at index. A quantity of zero
// or less removes the line entirely.
func (c Cart) SetQuantity(index, qty int) (Cart, error) {
	if index < 0 || index >= len(c) {
		return nil, ErrIndexOutOfRange
	}

	if qty <= 0 {
		return c.Remove(index)
	}

	next := c.clone()
	next[index].Qty = qty
	next[index].LineTotal = lineTotal(qty, next[index].UnitPrice)

	return next, nil
}

// Remove drops the line at index.
func (c Cart) Remove(index int) (Cart, error) {
	if index < 0 || index >= len(c) {
		return nil, ErrIndexOutOfRange
	}

	next := make(Cart, 0, len(c)-1)
	next = append(next, c[:index]...)
	next = append(next, c[index+1:]...)

	return next, nil
}

func (c Cart) clone() Cart {
	next := make(Cart, len(c))
	copy(next, c)

	return next
}

func lineTotal(qty int, unitPrice decimal.Decimal) decimal.Decimal {
	return money.Round2(unitPrice.Mul(decimal.NewFromInt(int64(qty))))
}
