/*
risk.go - Return risk scoring

PURPOSE:
  Classifies each generated return against the distributor's baseline
  average return rate. Two independent signals feed the rating:

  1. RATIO: the cumulative batch return-value ratio observed at the point
     the return is scored, compared to baseline multiples (2.5x -> high,
     1.5x -> medium). This test is value-based; everywhere else in the
     system return rates are quantity-based.
  2. STRUCTURING: any return that is not the first return transaction in
     its batch is raised to at least medium, regardless of amount.
     Splitting a return across multiple submissions within one batch is
     inherently suspicious.

  Risk notes are appended in priority order (ratio note first, then the
  multi-return note); a return that trips neither signal gets a single
  neutral note.
*/
package generator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/returns-review/ledger"
)

var (
	highRatioMultiplier   = decimal.NewFromFloat(2.5)
	mediumRatioMultiplier = decimal.NewFromFloat(1.5)
)

const (
	noteRatioHigh   = "Batch return ratio is significantly above the distributor baseline."
	noteRatioMedium = "Batch return ratio is slightly elevated against the distributor baseline."
	noteMultiReturn = "Multiple return transactions filed within a single batch."
	noteInRange     = "Within the acceptable range."
)

// assessReturn rates one return. cumulativeRatio is the batch's cumulative
// return value, including this return, divided by the batch total value;
// returnIndex is the zero-based position of this return within its batch.
func assessReturn(cumulativeRatio, baseline decimal.Decimal, returnIndex int) (ledger.RiskRating, string) {
	rating := ledger.RiskLow
	var notes []string

	switch {
	case cumulativeRatio.GreaterThan(baseline.Mul(highRatioMultiplier)):
		rating = ledger.RiskHigh
		notes = append(notes, noteRatioHigh)
	case cumulativeRatio.GreaterThan(baseline.Mul(mediumRatioMultiplier)):
		rating = ledger.RiskMedium
		notes = append(notes, noteRatioMedium)
	}

	if returnIndex >= 1 {
		if !rating.AtLeast(ledger.RiskMedium) {
			rating = ledger.RiskMedium
		}
		notes = append(notes, noteMultiReturn)
	}

	if len(notes) == 0 {
		notes = append(notes, noteInRange)
	}
	return rating, strings.Join(notes, " ")
}
