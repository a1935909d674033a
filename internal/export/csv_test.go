package export

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCSV_HeadersInDeclarationOrder(t *testing.T) {
	type record struct {
		ID       int64
		Item     string
		SaleID   int64
		Qty      int
		SaleDate time.Time
	}

	csv, err := MarshalCSV([]record{})
	require.NoError(t, err)
	assert.Equal(t, "id,item,saleId,qty,saleDate", csv)
}

func TestMarshalCSV_Rows(t *testing.T) {
	type record struct {
		Item     string
		Qty      int
		Price    decimal.Decimal
		SaleDate time.Time
	}

	rows := []record{
		{
			Item:     "Bat45",
			Qty:      2,
			Price:    decimal.RequireFromString("45.00"),
			SaleDate: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		},
		{
			Item:  "Battery, reconditioned",
			Qty:   1,
			Price: decimal.RequireFromString("-16.00"),
		},
	}

	csv, err := MarshalCSV(rows)
	require.NoError(t, err)

	want := "item,qty,price,saleDate\n" +
		"Bat45,2,45,2025-03-14T09:30:00Z\n" +
		`"Battery, reconditioned",1,-16,0001-01-01T00:00:00Z`
	assert.Equal(t, want, csv)
}

func TestMarshalCSV_NilPointerIsEmpty(t *testing.T) {
	type record struct {
		Name string
		Note *string
	}

	note := "has,comma"
	rows := []record{
		{Name: "a", Note: nil},
		{Name: "b", Note: &note},
	}

	csv, err := MarshalCSV(rows)
	require.NoError(t, err)

	want := "name,note\na,\nb,\"has,comma\""
	assert.Equal(t, want, csv)
}

func TestMarshalCSV_RejectsNonSlice(t *testing.T) {
	_, err := MarshalCSV("nope")
	assert.Error(t, err)

	_, err = MarshalCSV([]int{1})
	assert.Error(t, err)
}
