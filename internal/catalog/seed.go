package catalog

import "github.com/shopspring/decimal"

// defaultProducts is the warehouse's starter catalog: reconditioned battery
// tiers, core-charge deposits and their refunds, and rounding adjustments.
func defaultProducts() []Product {
	entries := []struct {
		name  string
		price string
	}{
		{"Adj1", "1.00"},
		{"Bat45", "45.00"},
		{"Bat65", "65.00"},
		{"Bat80", "80.00"},
		{"Bat100", "100.00"},
		{"BatUp5", "5.00"},
		{"CoreDep16", "16.00"},
		{"CoreDep20", "20.00"},
		{"RCoreDep16", "-16.00"},
		{"RCoreDep20", "-20.00"},
		{"OAdj1", "-1.00"},
		{"OAdj5", "-5.00"},
		{"OJB-1", "-1.00"},
		{"OJB-9", "-9.00"},
		{"OJB-10c", "-0.10"},
		{"OJB-20c", "-0.20"},
	}

	products := make([]Product, len(entries))
	for i, e := range entries {
		products[i] = Product{Name: e.name, Price: decimal.RequireFromString(e.price)}
	}

	return products
}
