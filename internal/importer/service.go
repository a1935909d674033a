package importer

import (
	"fmt"
	"io"

	"github.com/reconbattery/pos/internal/catalog"
	"github.com/reconbattery/pos/internal/importer/catalogcsv"
)

type Service struct {
	catalogImporter Importer
}

func NewService() *Service {
	return &Service{
		catalogImporter: catalogcsv.NewParser(),
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]catalog.Product, error) {
	var imp Importer

	switch format {
	case FormatCatalogCSV:
		imp = s.catalogImporter
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	return imp.Parse(r)
}
