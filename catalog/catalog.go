/*
Package catalog holds the static reference data for the demo dataset.

PURPOSE:
  Fixed distributor identities (with their baseline average return rates)
  and the product code -> display name catalog. Both are created once at
  startup and never mutated; callers receive copies.

SEE ALSO:
  - generator: Consumes this registry to build the synthetic ledger
*/
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/warp/returns-review/ledger"
)

// Product is one catalog entry.
type Product struct {
	Code string
	Name string
}

var distributors = []ledger.Distributor{
	{ID: "D001", Name: "Eastland Pharma Distribution", AvgReturnRate: decimal.NewFromFloat(0.015)},
	{ID: "D002", Name: "Northern HealthCare Channels", AvgReturnRate: decimal.NewFromFloat(0.04)},
	{ID: "D003", Name: "MedLife Pharmacy Chain", AvgReturnRate: decimal.NewFromFloat(0.07)},
	{ID: "D004", Name: "Kangning Franchise Pharmacies", AvgReturnRate: decimal.NewFromFloat(0.095)},
}

var products = []Product{
	{Code: "MED-001", Name: "Ibuprofen SR Capsules (0.3g x 24)"},
	{Code: "MED-002", Name: "Amoxicillin Capsules (0.25g x 24)"},
	{Code: "MED-003", Name: "Vitamin C Chewable Tablets (100mg x 100)"},
	{Code: "MED-004", Name: "Compound Cold Relief Granules (10g x 9)"},
	{Code: "MED-005", Name: "Artificial Tears Eye Drops (0.4ml x 30)"},
	{Code: "MED-006", Name: "Surgical Face Masks (50 pack)"},
}

// Distributors returns a copy of the distributor registry.
func Distributors() []ledger.Distributor {
	return append([]ledger.Distributor(nil), distributors...)
}

// Products returns a copy of the product catalog in code order.
func Products() []Product {
	return append([]Product(nil), products...)
}

// ProductName returns the display name for a product code, or the code
// itself when unknown.
func ProductName(code string) string {
	for _, p := range products {
		if p.Code == code {
			return p.Name
		}
	}
	return code
}
