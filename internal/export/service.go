// Package export serializes store tables to CSV for download and archival.
package export

import (
	"context"
	"fmt"

	"github.com/reconbattery/pos/internal/catalog"
	"github.com/reconbattery/pos/internal/sale"
)

// Table names accepted by Export.
const (
	TableProducts  = "products"
	TableSales     = "sales"
	TableSaleLines = "saleLines"
)

type Service struct {
	catalog *catalog.Service
	sales   *sale.Service
}

func NewService(cat *catalog.Service, sales *sale.Service) *Service {
	return &Service{catalog: cat, sales: sales}
}

// Export returns the named table as CSV.
func (s *Service) Export(ctx context.Context, table string) (string, error) {
	switch table {
	case TableProducts:
		products, err := s.catalog.List(ctx)
		if err != nil {
			return "", fmt.Errorf("listing products: %w", err)
		}

		return MarshalCSV(products)
	case TableSales:
		sales, err := s.sales.List(ctx, sale.ListFilter{})
		if err != nil {
			return "", fmt.Errorf("listing sales: %w", err)
		}

		return MarshalCSV(sales)
	case TableSaleLines:
		lines, err := s.sales.AllLines(ctx)
		if err != nil {
			return "", fmt.Errorf("listing sale lines: %w", err)
		}

		return MarshalCSV(lines)
	}

	return "", fmt.Errorf("unknown table %q", table)
}
