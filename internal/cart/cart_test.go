package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconbattery/pos/internal/cart"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCart_Add_MergesExistingLine(t *testing.T) {
	c := cart.Cart{}
	c = c.Add("Bat45", dec("45.00"))
	c = c.Add("Bat45", dec("45.00"))

	require.Len(t, c, 1)
	assert.Equal(t, "Bat45", c[0].Product)
	assert.Equal(t, 2, c[0].Qty)
	assert.True(t, c[0].LineTotal.Equal(dec("90.00")), "got %s", c[0].LineTotal)
}

func TestCart_Add_KeepsSnapshotPrice(t *testing.T) {
	// The second add passes a different price; the line must keep the
	// price snapshotted at first add.
	c := cart.Cart{}
	c = c.Add("Bat45", dec("45.00"))
	c = c.Add("Bat45", dec("99.99"))

	require.Len(t, c, 1)
	assert.True(t, c[0].UnitPrice.Equal(dec("45.00")))
	assert.True(t, c[0].LineTotal.Equal(dec("90.00")))
}

func TestCart_Add_AppendsNewLine(t *testing.T) {
	c := cart.Cart{}
	c = c.Add("Bat45", dec("45.00"))
	c = c.Add("CoreDep16", dec("16.00"))

	require.Len(t, c, 2)
	assert.Equal(t, "Bat45", c[0].Product)
	assert.Equal(t, "CoreDep16", c[1].Product)
	assert.Equal(t, 1, c[1].Qty)
}

func TestCart_Add_DoesNotMutateOriginal(t *testing.T) {
	c := cart.Cart{}
	c = c.Add("Bat45", dec("45.00"))

	_ = c.Add("Bat45", dec("45.00"))

	assert.Equal(t, 1, c[0].Qty)
}

func TestCart_SetQuantity(t *testing.T) {
	type testCase struct {
		name      string
		index     int
		qty       int
		wantLen   int
		wantQty   int
		wantTotal string
		wantErr   error
	}

	tests := []testCase{
		{
			name:      "UpdatesQuantityAndTotal",
			index:     0,
			qty:       3,
			wantLen:   2,
			wantQty:   3,
			wantTotal: "135.00",
		},
		{
			name:    "ZeroRemovesLine",
			index:   0,
			qty:     0,
			wantLen: 1,
		},
		{
			name:    "NegativeRemovesLine",
			index:   1,
			qty:     -4,
			wantLen: 1,
		},
		{
			name:    "IndexOutOfRange",
			index:   2,
			qty:     1,
			wantErr: cart.ErrIndexOutOfRange,
		},
		{
			name:    "NegativeIndex",
			index:   -1,
			qty:     1,
			wantErr: cart.ErrIndexOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cart.Cart{}
			c = c.Add("Bat45", dec("45.00"))
			c = c.Add("CoreDep16", dec("16.00"))

			got, err := c.SetQuantity(tt.index, tt.qty)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)

			if tt.wantQty > 0 {
				assert.Equal(t, tt.wantQty, got[tt.index].Qty)
				assert.True(t, got[tt.index].LineTotal.Equal(dec(tt.wantTotal)))
			}
		})
	}
}

func TestCart_Remove(t *testing.T) {
	c := cart.Cart{}
	c = c.Add("Bat45", dec("45.00"))
	c = c.Add("CoreDep16", dec("16.00"))

	got, err := c.Remove(0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CoreDep16", got[0].Product)

	_, err = c.Remove(5)
	assert.ErrorIs(t, err, cart.ErrIndexOutOfRange)
}

func TestCart_NegativePriceLines(t *testing.T) {
	// Core-charge refunds are negative-price products; totals go down.
	c := cart.Cart{}
	c = c.Add("Bat45", dec("45.00"))
	c = c.Add("RCoreDep16", dec("-16.00"))

	require.Len(t, c, 2)
	assert.True(t, c[1].LineTotal.Equal(dec("-16.00")))

	totals, err := cart.ComputeTotals(c, false, dec("0"))
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(dec("29.00")))
}
