// Package catalogcsv reads product catalog CSV exports. The header row is
// located anywhere in the file (spreadsheet exports often carry title rows
// above the data) by matching column names, and the file's encoding is
// auto-detected before parsing.
package catalogcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/reconbattery/pos/internal/catalog"
	enc "github.com/reconbattery/pos/internal/encoding"
	"github.com/reconbattery/pos/internal/money"
)

const (
	colName  = "name"
	colPrice = "price"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]catalog.Product, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx, ok := findHeader(rows)
	if !ok {
		return nil, fmt.Errorf("no catalog header found: expected %q and %q columns", colName, colPrice)
	}

	return parseRows(cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps lowercased column names to their index in the row.
type colIndex map[string]int

func findHeader(rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		_, hasName := cols[colName]
		_, hasPrice := cols[colPrice]

		if hasName && hasPrice {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func parseRows(cols colIndex, rows [][]string, headerRowNum int) ([]catalog.Product, error) {
	nameIdx := cols[colName]
	priceIdx := cols[colPrice]

	var products []catalog.Product

	for i, row := range rows {
		if len(row) <= nameIdx || len(row) <= priceIdx {
			continue
		}

		name := strings.TrimSpace(row[nameIdx])
		if name == "" {
			continue
		}

		price, err := money.Parse(strings.TrimSpace(row[priceIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", headerRowNum+i+1, err)
		}

		products = append(products, catalog.Product{Name: name, Price: price})
	}

	return products, nil
}
