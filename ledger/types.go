/*
Package ledger provides the core transaction model for the returns dashboard.

PURPOSE:
  This package contains the domain types shared by every other component:
  distributors, purchase/return transactions, risk ratings, and approval
  statuses. The full ordered transaction collection (the Ledger) is owned by
  one application session and held behind the Store interface.

KEY CONCEPTS IN THIS FILE (types.go):
  - Distributor: A pharma distributor with a baseline average return rate
  - Transaction: One purchase or return row, the atomic ledger record
  - Batch: An implicit grouping key shared by transactions; each row carries
    a denormalized copy of the batch purchase totals for display
  - RiskRating / ApprovalStatus: Return-only classification fields

DESIGN PRINCIPLES:
  1. Immutability after generation: the only permitted mutation is an
     approval-status transition on an individual return (see Store)
  2. Precision: monetary values use decimal.Decimal, never float64
  3. Derived batch totals: the per-row batch totals are a read-only
     projection fixed when the batch's purchases are finalized, not a live
     back-reference

SEE ALSO:
  - store.go: Session store contract
  - errors.go: Sentinel errors
  - generator: Constructs the synthetic dataset
  - report: Pure aggregation over []Transaction
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DISTRIBUTOR - Static registry entry
// =============================================================================

// Distributor identifies one pharma distributor. Immutable after creation.
type Distributor struct {
	ID   string
	Name string

	// AvgReturnRate is the baseline average return rate for this
	// distributor, as a fraction of purchased value in [0, 1]. Risk
	// thresholds in the generator are relative to this baseline.
	AvgReturnRate decimal.Decimal
}

// =============================================================================
// TRANSACTION - Atomic ledger record
// =============================================================================

type Kind string

const (
	KindPurchase Kind = "purchase"
	KindReturn   Kind = "return"
)

type RiskRating string

const (
	RiskLow    RiskRating = "low"
	RiskMedium RiskRating = "medium"
	RiskHigh   RiskRating = "high"
)

var riskRank = map[RiskRating]int{RiskLow: 0, RiskMedium: 1, RiskHigh: 2}

// AtLeast reports whether r is rated the same as or above other.
func (r RiskRating) AtLeast(other RiskRating) bool {
	return riskRank[r] >= riskRank[other]
}

// RequiresReview reports whether a return with this rating must be held for
// manual approval at generation time.
func (r RiskRating) RequiresReview() bool {
	return r == RiskMedium || r == RiskHigh
}

type ApprovalStatus string

const (
	StatusPending          ApprovalStatus = "pending"
	StatusAutoApproved     ApprovalStatus = "auto-approved"
	StatusManuallyApproved ApprovalStatus = "manually-approved"
	StatusRejected         ApprovalStatus = "rejected"
)

// Transaction is one purchase or return row. Purchases never carry the
// return-only fields (rating, status, reasons); they stay zero-valued.
type Transaction struct {
	ID            string
	DistributorID string
	Kind          Kind
	ProductCode   string
	ProductName   string
	Quantity      int
	Value         decimal.Decimal
	Date          time.Time // calendar day, UTC midnight

	// Batch grouping key plus the denormalized purchase totals of that
	// batch, fixed once the batch's purchases are finalized.
	BatchID         string
	BatchTotalQty   int
	BatchTotalValue decimal.Decimal

	// Return-only fields.
	Rating          RiskRating
	Status          ApprovalStatus
	ReturnReason    string
	RiskNote        string
	RejectionReason string
}

func (t Transaction) IsPurchase() bool { return t.Kind == KindPurchase }
func (t Transaction) IsReturn() bool   { return t.Kind == KindReturn }

// Year returns the calendar year of the transaction date.
func (t Transaction) Year() int { return t.Date.Year() }

// MonthKey returns the sortable year-month grouping key ("2024-03").
func (t Transaction) MonthKey() string { return t.Date.Format("2006-01") }

// =============================================================================
// DATASET - One generated session ledger
// =============================================================================

// Dataset is the output of one generation pass: the distributor registry and
// the full transaction collection in generation order.
type Dataset struct {
	Distributors []Distributor
	Transactions []Transaction
}
