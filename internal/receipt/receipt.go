// Package receipt renders plain-text receipts into a spool directory. It is
// the external print side effect behind the register's Print gate.
package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/reconbattery/pos/internal/money"
	"github.com/reconbattery/pos/internal/register"
)

// FilePrinter writes one text file per receipt, named by a fresh document id.
type FilePrinter struct {
	spoolDir   string
	storeName  string
	storeLines []string
}

func NewFilePrinter(spoolDir, storeName string, addressLines ...string) *FilePrinter {
	return &FilePrinter{
		spoolDir:   spoolDir,
		storeName:  storeName,
		storeLines: addressLines,
	}
}

func (p *FilePrinter) Print(_ context.Context, r register.Receipt) error {
	if err := os.MkdirAll(p.spoolDir, 0o755); err != nil {
		return fmt.Errorf("creating spool directory: %w", err)
	}

	name := fmt.Sprintf("receipt_%d_%s.txt", r.SaleID, uuid.New())
	path := filepath.Join(p.spoolDir, name)

	if err := os.WriteFile(path, []byte(p.render(r)), 0o644); err != nil {
		return fmt.Errorf("writing receipt: %w", err)
	}

	return nil
}

func (p *FilePrinter) render(r register.Receipt) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", p.storeName)

	for _, line := range p.storeLines {
		fmt.Fprintf(&b, "%s\n", line)
	}

	fmt.Fprintf(&b, "\nDate: %s\n", r.Date.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Sale ID: %d\n\n", r.SaleID)
	fmt.Fprintf(&b, "%-20s %5s %10s %10s\n", "Item", "Qty", "Price", "Total")

	for _, line := range r.Lines {
		fmt.Fprintf(&b, "%-20s %5d %10s %10s\n",
			line.Product, line.Qty, money.Format(line.UnitPrice), money.Format(line.LineTotal))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", money.Format(r.Totals.Subtotal))
	fmt.Fprintf(&b, "Tax:      %s\n", money.Format(r.Totals.Tax))
	fmt.Fprintf(&b, "Total:    %s\n", money.Format(r.Totals.Total))
	fmt.Fprintf(&b, "Method:   %s\n", r.Method)
	fmt.Fprintf(&b, "\nThank you for your business!\n")

	return b.String()
}
