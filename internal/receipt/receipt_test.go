package receipt_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconbattery/pos/internal/cart"
	"github.com/reconbattery/pos/internal/receipt"
	"github.com/reconbattery/pos/internal/register"
	"github.com/reconbattery/pos/internal/sale"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFilePrinter_Print(t *testing.T) {
	spool := t.TempDir()
	printer := receipt.NewFilePrinter(spool, "Recon Battery Warehouse", "123 Depot Rd")

	r := register.Receipt{
		SaleID: 42,
		Date:   time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC),
		Lines: cart.Cart{
			{Product: "Bat45", Qty: 2, UnitPrice: dec("45.00"), LineTotal: dec("90.00")},
		},
		Totals: cart.Totals{Subtotal: dec("90.00"), Tax: dec("6.86"), Total: dec("96.86")},
		Method: sale.MethodCash,
	}

	require.NoError(t, printer.Print(context.Background(), r))

	matches, err := filepath.Glob(filepath.Join(spool, "receipt_42_*.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	body, err := os.ReadFile(matches[0])
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "Recon Battery Warehouse")
	assert.Contains(t, text, "123 Depot Rd")
	assert.Contains(t, text, "Sale ID: 42")
	assert.Contains(t, text, "Bat45")
	assert.Contains(t, text, "Subtotal: 90.00")
	assert.Contains(t, text, "Tax:      6.86")
	assert.Contains(t, text, "Total:    96.86")
	assert.Contains(t, text, "Method:   Cash")
}

func TestFilePrinter_Print_DistinctFilesPerPrint(t *testing.T) {
	spool := t.TempDir()
	printer := receipt.NewFilePrinter(spool, "Recon Battery Warehouse")

	r := register.Receipt{SaleID: 7, Date: time.Now(), Method: sale.MethodCard}

	require.NoError(t, printer.Print(context.Background(), r))
	require.NoError(t, printer.Print(context.Background(), r))

	matches, err := filepath.Glob(filepath.Join(spool, "receipt_7_*.txt"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}
