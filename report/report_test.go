package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/returns-review/ledger"
)

// =============================================================================
// FIXTURES
// =============================================================================

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func purchase(id, distributorID, product, batch string, qty int, value int64, on time.Time) ledger.Transaction {
	return ledger.Transaction{
		ID: id, DistributorID: distributorID, Kind: ledger.KindPurchase,
		ProductCode: product, ProductName: "Product " + product,
		Quantity: qty, Value: decimal.NewFromInt(value), Date: on, BatchID: batch,
	}
}

func returned(id, distributorID, product, batch string, qty int, value int64, on time.Time, status ledger.ApprovalStatus) ledger.Transaction {
	return ledger.Transaction{
		ID: id, DistributorID: distributorID, Kind: ledger.KindReturn,
		ProductCode: product, ProductName: "Product " + product,
		Quantity: qty, Value: decimal.NewFromInt(value), Date: on, BatchID: batch,
		Status: status,
	}
}

func fixtureLedger() []ledger.Transaction {
	return []ledger.Transaction{
		purchase("T1", "D001", "MED-001", "B001-2024-01-1", 100, 5000, date(2024, time.January, 10)),
		purchase("T2", "D001", "MED-002", "B001-2024-01-1", 50, 2500, date(2024, time.January, 10)),
		purchase("T3", "D002", "MED-001", "B002-2024-03-1", 200, 8000, date(2024, time.March, 5)),
		returned("R1", "D001", "MED-001", "B001-2024-01-1", 10, 500, date(2024, time.January, 20), ledger.StatusPending),
		returned("R2", "D002", "MED-002", "B002-2024-03-1", 20, 800, date(2024, time.March, 15), ledger.StatusAutoApproved),
		purchase("T4", "D001", "MED-003", "B001-2023-06-1", 80, 4000, date(2023, time.June, 1)),
		returned("R3", "D001", "MED-003", "B001-2023-06-1", 8, 400, date(2023, time.June, 12), ledger.StatusPending),
	}
}

// =============================================================================
// FILTER TESTS
// =============================================================================

func TestFilterByYear(t *testing.T) {
	txs := fixtureLedger()

	assert.Len(t, FilterByYear(txs, "2024"), 5)
	assert.Len(t, FilterByYear(txs, "2023"), 2)
	assert.Empty(t, FilterByYear(txs, "2020"))
	assert.Len(t, FilterByYear(txs, YearAll), len(txs), "sentinel keeps everything")
	assert.Len(t, FilterByYear(txs, ""), len(txs), "empty behaves like the sentinel")
}

func TestFilters_EmptyInput(t *testing.T) {
	assert.Empty(t, FilterByYear(nil, "2024"))
	assert.Empty(t, FilterByProduct(nil, "MED-001"))
	assert.Empty(t, FilterByKind(nil, ledger.KindReturn))
}

// =============================================================================
// MONTHLY SERIES TESTS
// =============================================================================

func TestMonthlySeries(t *testing.T) {
	points := MonthlySeries(FilterByYear(fixtureLedger(), "2024"))

	require.Len(t, points, 2)
	assert.Equal(t, "2024-01", points[0].Period)
	assert.Equal(t, "24-01", points[0].Label)
	assert.Equal(t, 150, points[0].PurchaseQty)
	assert.Equal(t, 10, points[0].ReturnQty)
	assert.InDelta(t, 10.0/150.0, points[0].ReturnRate, 1e-9)

	assert.Equal(t, "2024-03", points[1].Period)
	assert.InDelta(t, 20.0/200.0, points[1].ReturnRate, 1e-9)
}

func TestMonthlySeries_ReturnOnlyMonthIsZeroGuarded(t *testing.T) {
	// GIVEN: A month with returns but no purchases
	// THEN: Its rate is 0, not a division failure

	txs := []ledger.Transaction{
		returned("R1", "D001", "MED-001", "B1", 5, 250, date(2024, time.February, 2), ledger.StatusPending),
	}

	points := MonthlySeries(txs)
	require.Len(t, points, 1)
	assert.Zero(t, points[0].ReturnRate)
	assert.Equal(t, 5, points[0].ReturnQty)
}

func TestAverageReturnRate(t *testing.T) {
	txs := FilterByYear(fixtureLedger(), "2024")

	// 30 returned units over 350 purchased
	assert.InDelta(t, 30.0/350.0, AverageReturnRate(txs), 1e-9)
	assert.Zero(t, AverageReturnRate(nil))
}

// =============================================================================
// TOP PRODUCT TESTS
// =============================================================================

func TestTopReturnedProducts(t *testing.T) {
	rows := TopReturnedProducts(fixtureLedger(), 2)

	require.Len(t, rows, 2)
	assert.Equal(t, "MED-002", rows[0].ProductCode)
	assert.Equal(t, 20, rows[0].ReturnQty)
	assert.Equal(t, "MED-001", rows[1].ProductCode)
}

func TestTopReturnedProducts_StableTies(t *testing.T) {
	txs := []ledger.Transaction{
		returned("R1", "D001", "MED-005", "B1", 7, 100, date(2024, time.May, 1), ledger.StatusPending),
		returned("R2", "D001", "MED-002", "B1", 7, 100, date(2024, time.May, 2), ledger.StatusPending),
		returned("R3", "D001", "MED-009", "B1", 7, 100, date(2024, time.May, 3), ledger.StatusPending),
	}

	rows := TopReturnedProducts(txs, 5)
	require.Len(t, rows, 3)
	// Equal quantities keep first-seen order.
	assert.Equal(t, "MED-005", rows[0].ProductCode)
	assert.Equal(t, "MED-002", rows[1].ProductCode)
	assert.Equal(t, "MED-009", rows[2].ProductCode)
}

func TestTopReturnedProducts_DefaultsToFive(t *testing.T) {
	var txs []ledger.Transaction
	for _, code := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		txs = append(txs, returned("R-"+code, "D001", code, "B1", 1, 100, date(2024, time.May, 1), ledger.StatusPending))
	}
	assert.Len(t, TopReturnedProducts(txs, 0), 5)
}

// =============================================================================
// PIVOT TESTS
// =============================================================================

func TestBatchPivot(t *testing.T) {
	txs := fixtureLedger()
	rows := BatchPivot(txs)

	require.Len(t, rows, 3)
	// B002: 20/200 = 0.10, B001-2023: 8/80 = 0.10, B001-2024: 10/150
	assert.InDelta(t, 0.10, rows[0].ReturnRate, 1e-9)
	// Rate ties keep input order: B001-2024's batch appeared first but has
	// the lowest rate, so the two 0.10 batches come first in input order.
	assert.Equal(t, "B002-2024-03-1", rows[0].BatchID)
	assert.Equal(t, "B001-2023-06-1", rows[1].BatchID)
	assert.Equal(t, "B001-2024-01-1", rows[2].BatchID)

	assert.Equal(t, 200, rows[0].PurchaseQty)
	assert.True(t, rows[0].PurchaseValue.Equal(decimal.NewFromInt(8000)))
	assert.True(t, rows[0].ReturnValue.Equal(decimal.NewFromInt(800)))
}

func TestProductPivot(t *testing.T) {
	rows := ProductPivot(FilterByYear(fixtureLedger(), "2024"))

	require.Len(t, rows, 2)
	assert.Equal(t, "MED-002", rows[0].ProductCode)
	assert.InDelta(t, 20.0/50.0, rows[0].ReturnRate, 1e-9)
	assert.Equal(t, "Product MED-002", rows[0].ProductName)

	assert.Equal(t, "MED-001", rows[1].ProductCode)
	assert.InDelta(t, 10.0/300.0, rows[1].ReturnRate, 1e-9)
}

func TestPivots_AreIdempotent(t *testing.T) {
	txs := fixtureLedger()

	first := BatchPivot(txs)
	second := BatchPivot(txs)
	assert.Equal(t, first, second)
	assert.Equal(t, fixtureLedger(), txs, "input is never mutated")
}

// =============================================================================
// DISTRIBUTOR SUMMARY TESTS
// =============================================================================

func TestDistributorSummaries(t *testing.T) {
	distributors := []ledger.Distributor{
		{ID: "D001", Name: "One", AvgReturnRate: decimal.NewFromFloat(0.015)},
		{ID: "D002", Name: "Two", AvgReturnRate: decimal.NewFromFloat(0.04)},
		{ID: "D003", Name: "Three", AvgReturnRate: decimal.NewFromFloat(0.07)},
	}

	rows := DistributorSummaries(distributors, fixtureLedger())
	require.Len(t, rows, 3)

	// D002: 20/200 = 0.10 beats D001: 18/230
	assert.Equal(t, "D002", rows[0].Distributor.ID)
	assert.Equal(t, "D001", rows[1].Distributor.ID)
	assert.Equal(t, "D003", rows[2].Distributor.ID)
	assert.Zero(t, rows[2].ReturnRate, "distributor without transactions")

	assert.Equal(t, 2, rows[1].PendingCount)
	assert.Equal(t, 0, rows[0].PendingCount)
}

func TestDistributorSummaries_IgnoresUnknownDistributors(t *testing.T) {
	distributors := []ledger.Distributor{{ID: "D001", Name: "One"}}
	txs := []ledger.Transaction{
		purchase("T1", "D001", "MED-001", "B1", 10, 500, date(2024, time.January, 1)),
		purchase("T2", "D999", "MED-001", "B9", 99, 999, date(2024, time.January, 1)),
	}

	rows := DistributorSummaries(distributors, txs)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].PurchaseQty)
}

func TestPendingCount(t *testing.T) {
	assert.Equal(t, 2, PendingCount(fixtureLedger()))
	assert.Zero(t, PendingCount(nil))
}
