/*
Package report derives every displayed metric from the raw transaction set.

PURPOSE:
  Pure, stateless folds over a transaction collection. Nothing here is
  cached: every aggregate is re-derivable from the raw ledger at any filter
  granularity, so calling any function twice on the same input yields
  identical output and never mutates the input.

CONVENTIONS:
  - "Return rate" is always returned quantity / purchased quantity for the
    grouping; monetary totals are secondary context and never ratio'd
  - Every ratio is zero-guarded: rate is 0 when the purchase quantity is 0
  - All functions are total over any input, including the empty slice
  - Tie ordering follows first appearance in the input (stable sorts)

SEE ALSO:
  - ledger: The Transaction model folded here
  - api: Presentation layer consuming these aggregates
*/
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/returns-review/ledger"
)

// YearAll is the sentinel year filter that keeps every transaction.
const YearAll = "all"

const defaultTopProducts = 5

// =============================================================================
// FILTERS
// =============================================================================

// FilterByYear keeps transactions whose date falls in the requested
// calendar year. The YearAll sentinel passes the input through unchanged.
func FilterByYear(txs []ledger.Transaction, year string) []ledger.Transaction {
	if year == YearAll || year == "" {
		return txs
	}
	var result []ledger.Transaction
	for _, tx := range txs {
		if tx.Date.Format("2006") == year {
			result = append(result, tx)
		}
	}
	return result
}

// FilterByProduct keeps transactions for one product code.
func FilterByProduct(txs []ledger.Transaction, productCode string) []ledger.Transaction {
	var result []ledger.Transaction
	for _, tx := range txs {
		if tx.ProductCode == productCode {
			result = append(result, tx)
		}
	}
	return result
}

// FilterByKind keeps transactions of one kind (purchase or return).
func FilterByKind(txs []ledger.Transaction, kind ledger.Kind) []ledger.Transaction {
	var result []ledger.Transaction
	for _, tx := range txs {
		if tx.Kind == kind {
			result = append(result, tx)
		}
	}
	return result
}

// =============================================================================
// MONTHLY SERIES
// =============================================================================

// MonthlyPoint is one month on the return-rate trend chart.
type MonthlyPoint struct {
	Period      string // sortable "2024-03" key
	Label       string // short "24-03" axis label
	PurchaseQty int
	ReturnQty   int
	ReturnRate  float64
}

// MonthlySeries groups by year-month, sums purchase and return quantities
// separately, and computes the quantity return rate per month. Output is
// sorted ascending by month key.
func MonthlySeries(txs []ledger.Transaction) []MonthlyPoint {
	type monthly struct {
		purchaseQty int
		returnQty   int
	}
	byMonth := make(map[string]*monthly)
	for _, tx := range txs {
		key := tx.MonthKey()
		m := byMonth[key]
		if m == nil {
			m = &monthly{}
			byMonth[key] = m
		}
		switch tx.Kind {
		case ledger.KindPurchase:
			m.purchaseQty += tx.Quantity
		case ledger.KindReturn:
			m.returnQty += tx.Quantity
		}
	}

	keys := make([]string, 0, len(byMonth))
	for key := range byMonth {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	points := make([]MonthlyPoint, 0, len(keys))
	for _, key := range keys {
		m := byMonth[key]
		points = append(points, MonthlyPoint{
			Period:      key,
			Label:       key[2:],
			PurchaseQty: m.purchaseQty,
			ReturnQty:   m.returnQty,
			ReturnRate:  quantityRate(m.returnQty, m.purchaseQty),
		})
	}
	return points
}

// AverageReturnRate is the overall quantity return rate across the whole
// input set.
func AverageReturnRate(txs []ledger.Transaction) float64 {
	purchaseQty, returnQty := 0, 0
	for _, tx := range txs {
		switch tx.Kind {
		case ledger.KindPurchase:
			purchaseQty += tx.Quantity
		case ledger.KindReturn:
			returnQty += tx.Quantity
		}
	}
	return quantityRate(returnQty, purchaseQty)
}

// =============================================================================
// TOP RETURNED PRODUCTS
// =============================================================================

// ProductReturns is one row of the top-returned-products list.
type ProductReturns struct {
	ProductCode string
	ProductName string
	ReturnQty   int
}

// TopReturnedProducts groups returns by product code, sums quantities, and
// keeps the n highest (5 when n <= 0). Ties keep input order.
func TopReturnedProducts(txs []ledger.Transaction, n int) []ProductReturns {
	if n <= 0 {
		n = defaultTopProducts
	}

	index := make(map[string]int)
	var rows []ProductReturns
	for _, tx := range txs {
		if !tx.IsReturn() {
			continue
		}
		i, ok := index[tx.ProductCode]
		if !ok {
			i = len(rows)
			index[tx.ProductCode] = i
			rows = append(rows, ProductReturns{ProductCode: tx.ProductCode, ProductName: tx.ProductName})
		}
		rows[i].ReturnQty += tx.Quantity
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ReturnQty > rows[j].ReturnQty })
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// =============================================================================
// PIVOTS
// =============================================================================

// BatchSummary is one row of the batch pivot.
type BatchSummary struct {
	BatchID       string
	PurchaseQty   int
	PurchaseValue decimal.Decimal
	ReturnQty     int
	ReturnValue   decimal.Decimal
	ReturnRate    float64
}

// BatchPivot groups all transactions by batch id and sorts descending by
// quantity return rate.
func BatchPivot(txs []ledger.Transaction) []BatchSummary {
	index := make(map[string]int)
	var rows []BatchSummary
	for _, tx := range txs {
		i, ok := index[tx.BatchID]
		if !ok {
			i = len(rows)
			index[tx.BatchID] = i
			rows = append(rows, BatchSummary{BatchID: tx.BatchID})
		}
		switch tx.Kind {
		case ledger.KindPurchase:
			rows[i].PurchaseQty += tx.Quantity
			rows[i].PurchaseValue = rows[i].PurchaseValue.Add(tx.Value)
		case ledger.KindReturn:
			rows[i].ReturnQty += tx.Quantity
			rows[i].ReturnValue = rows[i].ReturnValue.Add(tx.Value)
		}
	}
	for i := range rows {
		rows[i].ReturnRate = quantityRate(rows[i].ReturnQty, rows[i].PurchaseQty)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ReturnRate > rows[j].ReturnRate })
	return rows
}

// ProductSummary is one row of the product pivot.
type ProductSummary struct {
	ProductCode   string
	ProductName   string
	PurchaseQty   int
	PurchaseValue decimal.Decimal
	ReturnQty     int
	ReturnValue   decimal.Decimal
	ReturnRate    float64
}

// ProductPivot has the same shape as BatchPivot but groups by product code
// and carries the display name alongside.
func ProductPivot(txs []ledger.Transaction) []ProductSummary {
	index := make(map[string]int)
	var rows []ProductSummary
	for _, tx := range txs {
		i, ok := index[tx.ProductCode]
		if !ok {
			i = len(rows)
			index[tx.ProductCode] = i
			rows = append(rows, ProductSummary{ProductCode: tx.ProductCode, ProductName: tx.ProductName})
		}
		switch tx.Kind {
		case ledger.KindPurchase:
			rows[i].PurchaseQty += tx.Quantity
			rows[i].PurchaseValue = rows[i].PurchaseValue.Add(tx.Value)
		case ledger.KindReturn:
			rows[i].ReturnQty += tx.Quantity
			rows[i].ReturnValue = rows[i].ReturnValue.Add(tx.Value)
		}
	}
	for i := range rows {
		rows[i].ReturnRate = quantityRate(rows[i].ReturnQty, rows[i].PurchaseQty)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ReturnRate > rows[j].ReturnRate })
	return rows
}

// =============================================================================
// DISTRIBUTOR SUMMARIES
// =============================================================================

// DistributorSummary is one row of the overview list.
type DistributorSummary struct {
	Distributor   ledger.Distributor
	PurchaseQty   int
	PurchaseValue decimal.Decimal
	ReturnQty     int
	ReturnValue   decimal.Decimal
	ReturnRate    float64
	PendingCount  int
}

// DistributorSummaries folds the (already year-filtered) ledger into one
// row per distributor and sorts descending by quantity return rate.
func DistributorSummaries(distributors []ledger.Distributor, txs []ledger.Transaction) []DistributorSummary {
	rows := make([]DistributorSummary, len(distributors))
	index := make(map[string]int, len(distributors))
	for i, d := range distributors {
		rows[i] = DistributorSummary{Distributor: d, PurchaseValue: decimal.Zero, ReturnValue: decimal.Zero}
		index[d.ID] = i
	}

	for _, tx := range txs {
		i, ok := index[tx.DistributorID]
		if !ok {
			continue
		}
		switch tx.Kind {
		case ledger.KindPurchase:
			rows[i].PurchaseQty += tx.Quantity
			rows[i].PurchaseValue = rows[i].PurchaseValue.Add(tx.Value)
		case ledger.KindReturn:
			rows[i].ReturnQty += tx.Quantity
			rows[i].ReturnValue = rows[i].ReturnValue.Add(tx.Value)
			if tx.Status == ledger.StatusPending {
				rows[i].PendingCount++
			}
		}
	}
	for i := range rows {
		rows[i].ReturnRate = quantityRate(rows[i].ReturnQty, rows[i].PurchaseQty)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ReturnRate > rows[j].ReturnRate })
	return rows
}

// PendingCount counts returns currently awaiting manual review.
func PendingCount(txs []ledger.Transaction) int {
	count := 0
	for _, tx := range txs {
		if tx.IsReturn() && tx.Status == ledger.StatusPending {
			count++
		}
	}
	return count
}

func quantityRate(returnQty, purchaseQty int) float64 {
	if purchaseQty <= 0 {
		return 0
	}
	return float64(returnQty) / float64(purchaseQty)
}
