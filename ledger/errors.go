/*
errors.go - Centralized error types for the ledger

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  Callers match with errors.Is(); the API layer maps these to HTTP status.
*/
package ledger

import "errors"

var (
	// ErrDistributorNotFound is returned when a distributor id does not
	// exist in the registry. This is the one user-visible failure mode:
	// requesting detail for an unknown distributor must yield an explicit
	// not-found outcome rather than a crash.
	ErrDistributorNotFound = errors.New("distributor not found")

	// ErrTransactionNotFound is returned when a transaction id does not
	// exist in the ledger.
	ErrTransactionNotFound = errors.New("transaction not found")
)
