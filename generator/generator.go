/*
Package generator constructs the synthetic transaction ledger.

PURPOSE:
  Given the distributor registry and product catalog, produce a complete,
  internally consistent dataset: purchase batches per distributor, then a
  probabilistic return-injection pass per batch, including risk
  classification and initial approval-status assignment.

HOW A BATCH IS BUILT:
 1. Pick a batch date inside the target year, spread across months by batch
    index, and derive the batch id from distributor, year, month, sequence
 2. Generate 1-5 purchases; back-fill the finalized batch totals onto every
    purchase row of the batch
 3. Decide whether the batch has returns (forced for the designated
    structuring case, otherwise probability min(1, baseline x 8))
 4. Split a target return value across 1-3 returns with jitter, derive each
    return quantity from its value share of the batch
 5. Score each return against the distributor baseline (see risk.go) and
    set the initial approval status

DETERMINISM:
  Not required. A fixed Seed gives reproducible output for tests and demos;
  every invariant holds for every seed.

INVARIANTS:
  - Within one batch, the purchase rows sum exactly to the denormalized
    batch totals carried on every row of the batch
  - Every return quantity is >= 1
  - A return is pending iff its rating is medium or high
  - The structuring batch always contains exactly three returns

SEE ALSO:
  - risk.go: Rating thresholds and risk notes
  - catalog: Static registry consumed here
*/
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/returns-review/catalog"
	"github.com/warp/returns-review/ledger"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

const (
	defaultYear                  = 2024
	defaultBatchesPerDistributor = 5
	firstTransactionID           = 1000

	// The dataset must reliably contain one structuring example for demos
	// and tests: this distributor/batch-index combination always receives
	// exactly three return transactions.
	structuringDistributorID = "D004"
	structuringBatchIndex    = 2
	structuringReturnCount   = 3

	minPurchaseQty       = 10
	purchaseQtySpan      = 50 // qty in [10, 59]
	minPurchaseValue     = 500
	purchaseValueSpan    = 2000 // value in [500, 2499]
	maxPurchasesPerBatch = 5

	minReturnDelayDays  = 5
	returnDelaySpanDays = 20 // return lands 5-24 days after the batch date

	returnProbabilityFactor = 8.0
	spikeProbability        = 0.1
)

var (
	spikeMultiplier  = decimal.NewFromInt(3)
	normalMultiplier = decimal.NewFromFloat(0.8)

	// Target-value clamps: at most 30% of batch value, at least 100
	// currency units.
	maxBatchShare  = decimal.NewFromFloat(0.3)
	minReturnValue = decimal.NewFromInt(100)

	// Heuristic fallback kept for compatibility with the original
	// behavior: a share that would exceed the unreturned remainder
	// collapses to 5% of batch value, not to the true remainder.
	overflowFallback = decimal.NewFromFloat(0.05)

	forcedShareMin   = decimal.NewFromInt(200)
	forcedShareFloor = decimal.NewFromInt(350)
)

var returnReasons = []string{"damaged packaging", "near expiry"}

// Config controls one generation pass. Zero values fall back to the demo
// defaults (catalog registry, year 2024, 5 batches, time-based seed).
type Config struct {
	Year                  int
	BatchesPerDistributor int
	Seed                  int64
	Distributors          []ledger.Distributor
	Products              []catalog.Product
}

type Generator struct {
	rng          *rand.Rand
	year         int
	batchCount   int
	distributors []ledger.Distributor
	products     []catalog.Product
	nextID       int
}

func New(cfg Config) *Generator {
	if cfg.Year == 0 {
		cfg.Year = defaultYear
	}
	if cfg.BatchesPerDistributor == 0 {
		cfg.BatchesPerDistributor = defaultBatchesPerDistributor
	}
	if cfg.Distributors == nil {
		cfg.Distributors = catalog.Distributors()
	}
	if cfg.Products == nil {
		cfg.Products = catalog.Products()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Generator{
		rng:          rand.New(rand.NewSource(seed)),
		year:         cfg.Year,
		batchCount:   cfg.BatchesPerDistributor,
		distributors: cfg.Distributors,
		products:     cfg.Products,
	}
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate produces the full ledger: the concatenation, in generation
// order, of all purchase and return rows across all distributors and
// batches. No two transactions share an identifier.
func (g *Generator) Generate() ledger.Dataset {
	g.nextID = firstTransactionID

	ds := ledger.Dataset{
		Distributors: append([]ledger.Distributor(nil), g.distributors...),
	}
	for _, d := range g.distributors {
		for b := 0; b < g.batchCount; b++ {
			ds.Transactions = append(ds.Transactions, g.generateBatch(d, b)...)
		}
	}
	return ds
}

func (g *Generator) generateBatch(d ledger.Distributor, batchIndex int) []ledger.Transaction {
	// Spread batches roughly evenly across the year by index.
	month := batchIndex * 12 / g.batchCount
	batchDate := time.Date(g.year, time.Month(month+1), 1+g.rng.Intn(28), 0, 0, 0, 0, time.UTC)
	batchID := fmt.Sprintf("B%s-%d-%02d-%d", d.ID[len(d.ID)-3:], g.year, month+1, batchIndex+1)

	rows := g.generatePurchases(d, batchID, batchDate)

	totalQty := 0
	totalValue := decimal.Zero
	for _, p := range rows {
		totalQty += p.Quantity
		totalValue = totalValue.Add(p.Value)
	}
	// Batch totals are fixed here, once all purchases for the batch exist,
	// and back-filled onto every purchase row as a read-only projection.
	for i := range rows {
		rows[i].BatchTotalQty = totalQty
		rows[i].BatchTotalValue = totalValue
	}

	forced := d.ID == structuringDistributorID && batchIndex == structuringBatchIndex
	hasReturns := forced || g.rng.Float64() < d.AvgReturnRate.InexactFloat64()*returnProbabilityFactor
	if hasReturns {
		rows = append(rows, g.generateReturns(d, batchID, batchDate, totalQty, totalValue, forced)...)
	}
	return rows
}

func (g *Generator) generatePurchases(d ledger.Distributor, batchID string, batchDate time.Time) []ledger.Transaction {
	count := 1 + g.rng.Intn(maxPurchasesPerBatch)
	purchases := make([]ledger.Transaction, 0, count)
	for p := 0; p < count; p++ {
		product := g.products[g.rng.Intn(len(g.products))]
		purchases = append(purchases, ledger.Transaction{
			ID:            g.nextTransactionID("T"),
			DistributorID: d.ID,
			Kind:          ledger.KindPurchase,
			ProductCode:   product.Code,
			ProductName:   product.Name,
			Quantity:      minPurchaseQty + g.rng.Intn(purchaseQtySpan),
			Value:         decimal.NewFromInt(int64(minPurchaseValue + g.rng.Intn(purchaseValueSpan))),
			Date:          batchDate,
			BatchID:       batchID,
		})
	}
	return purchases
}

func (g *Generator) generateReturns(d ledger.Distributor, batchID string, batchDate time.Time, batchQty int, batchValue decimal.Decimal, forced bool) []ledger.Transaction {
	target := g.targetReturnValue(d.AvgReturnRate, batchValue)

	count := 1 + g.rng.Intn(3)
	if forced {
		count = structuringReturnCount
	}

	cumulative := decimal.Zero
	returns := make([]ledger.Transaction, 0, count)
	for r := 0; r < count; r++ {
		if !forced && cumulative.GreaterThanOrEqual(target) {
			break
		}

		value := g.returnShare(target, count, forced)
		if remaining := batchValue.Sub(cumulative); value.GreaterThan(remaining) {
			value = batchValue.Mul(overflowFallback).Floor()
		}
		cumulative = cumulative.Add(value)

		rating, note := assessReturn(cumulative.Div(batchValue), d.AvgReturnRate, r)
		status := ledger.StatusAutoApproved
		if rating.RequiresReview() {
			status = ledger.StatusPending
		}

		product := g.products[g.rng.Intn(len(g.products))]
		returns = append(returns, ledger.Transaction{
			ID:              g.nextTransactionID("R"),
			DistributorID:   d.ID,
			Kind:            ledger.KindReturn,
			ProductCode:     product.Code,
			ProductName:     product.Name,
			Quantity:        returnQuantity(value, batchValue, batchQty),
			Value:           value,
			Date:            batchDate.AddDate(0, 0, minReturnDelayDays+g.rng.Intn(returnDelaySpanDays)),
			BatchID:         batchID,
			BatchTotalQty:   batchQty,
			BatchTotalValue: batchValue,
			Rating:          rating,
			Status:          status,
			ReturnReason:    returnReasons[g.rng.Intn(len(returnReasons))],
			RiskNote:        note,
		})
	}
	return returns
}

// targetReturnValue picks the aggregate value to be returned from a batch:
// usually 0.8x the distributor baseline, occasionally a 3x spike, clamped
// to at most 30% of the batch value and at least 100 currency units.
func (g *Generator) targetReturnValue(baseline, batchValue decimal.Decimal) decimal.Decimal {
	multiplier := normalMultiplier
	if g.rng.Float64() < spikeProbability {
		multiplier = spikeMultiplier
	}

	target := batchValue.Mul(baseline.Mul(multiplier))
	if limit := batchValue.Mul(maxBatchShare); target.GreaterThan(limit) {
		target = limit
	}
	if target.LessThan(minReturnValue) {
		target = minReturnValue
	}
	return target
}

// returnShare jitters one even share of the target by +/-20%. The forced
// structuring case keeps each share material so all three returns register.
func (g *Generator) returnShare(target decimal.Decimal, count int, forced bool) decimal.Decimal {
	share := target.Div(decimal.NewFromInt(int64(count))).Floor()
	share = share.Mul(decimal.NewFromFloat(0.8 + g.rng.Float64()*0.4)).Floor()
	if forced && share.LessThan(forcedShareMin) {
		share = forcedShareFloor
	}
	return share
}

// returnQuantity derives a return's quantity proportionally from its value
// share of the batch, rounded up, minimum 1.
func returnQuantity(value, batchValue decimal.Decimal, batchQty int) int {
	qty := int(value.Div(batchValue).Mul(decimal.NewFromInt(int64(batchQty))).Ceil().IntPart())
	if qty < 1 {
		qty = 1
	}
	return qty
}

func (g *Generator) nextTransactionID(prefix string) string {
	id := fmt.Sprintf("%s%d", prefix, g.nextID)
	g.nextID++
	return id
}
