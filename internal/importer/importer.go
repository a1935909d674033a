package importer

import (
	"io"

	"github.com/reconbattery/pos/internal/catalog"
)

type Format string

const (
	FormatCatalogCSV Format = "catalog"
)

type Importer interface {
	Parse(r io.Reader) ([]catalog.Product, error)
}
