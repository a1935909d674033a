package catalogcsv_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconbattery/pos/internal/importer/catalogcsv"
)

func TestParser_Parse(t *testing.T) {
	input := strings.Join([]string{
		"Name,Price",
		"Bat45,45.00",
		"RCoreDep16,-16.00",
		"Adj1,1.00",
	}, "\n")

	products, err := catalogcsv.NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "Bat45", products[0].Name)
	assert.Equal(t, "45.00", products[0].Price.StringFixed(2))
	assert.Equal(t, "RCoreDep16", products[1].Name)
	assert.Equal(t, "-16.00", products[1].Price.StringFixed(2))
}

func TestParser_Parse_HeaderBelowTitleRows(t *testing.T) {
	input := strings.Join([]string{
		"Recon Battery Warehouse",
		"Catalog export,,",
		"",
		"name,price",
		"Bat65,65.00",
	}, "\n")

	products, err := catalogcsv.NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Bat65", products[0].Name)
}

func TestParser_Parse_ExtraColumnsAndBlankNames(t *testing.T) {
	input := strings.Join([]string{
		"SKU,Name,Price,Notes",
		"1,Bat80,80.00,fast mover",
		"2,,12.00,no name",
		"3,Bat100,100.00,",
	}, "\n")

	products, err := catalogcsv.NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Bat80", products[0].Name)
	assert.Equal(t, "Bat100", products[1].Name)
}

func TestParser_Parse_NoHeader(t *testing.T) {
	input := "Bat45,45.00\nBat65,65.00\n"

	_, err := catalogcsv.NewParser().Parse(strings.NewReader(input))
	assert.ErrorContains(t, err, "no catalog header")
}

func TestParser_Parse_BadPrice(t *testing.T) {
	input := "name,price\nBat45,forty-five\n"

	_, err := catalogcsv.NewParser().Parse(strings.NewReader(input))
	assert.ErrorContains(t, err, "row 2")
}

func TestParser_Parse_Windows1252Encoding(t *testing.T) {
	// "Batterie d'occasion" with a Windows-1252 e-acute (0xE9).
	input := []byte("name,price\nBatterie d'occasion r\xe9nov\xe9e,30.00\n")

	products, err := catalogcsv.NewParser().Parse(strings.NewReader(string(input)))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Batterie d'occasion rénovée", products[0].Name)
}
