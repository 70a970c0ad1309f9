/*
Package review implements the manual approval workflow for flagged returns.

PURPOSE:
  The only mutation path in the system. A return enters review as pending
  (when its risk rating warranted it) and leaves exactly once: manually
  approved, or rejected with a reviewer-supplied reason. Transitions are
  one-way; approved and rejected are terminal.

SEMANTICS:
  Both operations are deliberate no-ops when the target does not exist, is
  not a return, or is no longer pending. The caller learns whether anything
  changed via the applied flag, never via an error; errors are reserved for
  store failures.

SEE ALSO:
  - ledger: Store.SetApproval performs the atomic check-then-set
  - api: Exposes Approve/Reject over HTTP
*/
package review

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/warp/returns-review/ledger"
)

type Reviewer struct {
	store ledger.Store
	log   zerolog.Logger
}

func NewReviewer(store ledger.Store, log zerolog.Logger) *Reviewer {
	return &Reviewer{store: store, log: log}
}

// Approve moves a pending return to manually approved. Returns whether the
// transition was applied.
func (r *Reviewer) Approve(ctx context.Context, transactionID string) (bool, error) {
	applied, err := r.store.SetApproval(ctx, transactionID, ledger.StatusManuallyApproved, "")
	if err != nil {
		return false, err
	}
	r.logOutcome(transactionID, "approve", applied)
	return applied, nil
}

// Reject moves a pending return to rejected and records the reviewer's
// reason. Returns whether the transition was applied.
func (r *Reviewer) Reject(ctx context.Context, transactionID, reason string) (bool, error) {
	applied, err := r.store.SetApproval(ctx, transactionID, ledger.StatusRejected, reason)
	if err != nil {
		return false, err
	}
	r.logOutcome(transactionID, "reject", applied)
	return applied, nil
}

func (r *Reviewer) logOutcome(transactionID, action string, applied bool) {
	event := r.log.Info()
	if !applied {
		event = r.log.Debug()
	}
	event.
		Str("transaction_id", transactionID).
		Str("action", action).
		Bool("applied", applied).
		Msg("review decision")
}
