/*
store.go - Session store contract for the transaction ledger

PURPOSE:
  Defines the interface between the domain logic and the backing storage.
  The ledger is created once, atomically, by the generator; after that the
  only write is the approval-status transition on a single return.

WRITE CONTRACT:
  - Seed() replaces the whole dataset (regeneration)
  - SetApproval() is the ONLY row-level mutation, and it is conditional:
    it applies iff the target is a return currently in pending status.
    This makes the one-way pending -> manually-approved | rejected
    transition hold even under concurrent callers.

IMPLEMENTATIONS:
  - ledger/store: in-memory (session default, tests)
  - store/sqlite: SQLite, ":memory:" unless a path is configured

SEE ALSO:
  - review: Approve/Reject built on SetApproval
*/
package ledger

import "context"

// Store holds one session's distributor registry and transaction ledger.
type Store interface {
	// Seed replaces all stored data with a freshly generated dataset.
	Seed(ctx context.Context, ds Dataset) error

	// ListDistributors returns the registry in seeded order.
	ListDistributors(ctx context.Context) ([]Distributor, error)

	// GetDistributor returns one distributor, or ErrDistributorNotFound.
	GetDistributor(ctx context.Context, id string) (*Distributor, error)

	// Transactions returns the full ledger in generation order.
	Transactions(ctx context.Context) ([]Transaction, error)

	// TransactionsByDistributor returns one distributor's rows in
	// generation order. The distributor itself is not required to exist;
	// an unknown id yields an empty slice.
	TransactionsByDistributor(ctx context.Context, distributorID string) ([]Transaction, error)

	// GetTransaction returns one row, or ErrTransactionNotFound.
	GetTransaction(ctx context.Context, id string) (*Transaction, error)

	// SetApproval transitions a pending return to the given terminal
	// status, recording rejectionReason when status is StatusRejected.
	// It reports false (and no error) when the id is unknown, the row is
	// not a return, or the row is not pending - callers treat that as a
	// no-op, never an error.
	SetApproval(ctx context.Context, id string, status ApprovalStatus, rejectionReason string) (bool, error)
}
