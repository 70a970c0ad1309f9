/*
Package sqlite provides a SQLite-backed implementation of ledger.Store.

PURPOSE:
  Same contract as the in-memory store, persisted through database/sql.
  The demo runs it against ":memory:" so nothing outlives the process; a
  file path gives a durable ledger with zero code changes.

SCHEMA:
  distributors:  Static registry rows, replaced wholesale on Seed
  transactions:  One row per purchase/return; a hidden AUTOINCREMENT seq
                 column preserves generation order for reads

VALUE ENCODING:
  Monetary amounts and baseline rates are stored as decimal strings, never
  as REAL. Dates are RFC 3339 text.

CONCURRENCY:
  SetApproval is a single guarded UPDATE (id + kind + status in the WHERE
  clause), so the pending check and the write are one atomic statement.

WAL MODE:
  Opened with WAL journaling so readers don't block the writer.

USAGE:
  store, err := sqlite.New(":memory:")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - ledger/store: In-memory implementation of the same interface
  - ledger: Interface definition and domain types
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/returns-review/ledger"
)

// Store implements ledger.Store on top of SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS distributors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		avg_return_rate TEXT NOT NULL
	);

	-- seq preserves generation order across reads; every other consumer
	-- addresses rows by the public transaction id.
	CREATE TABLE IF NOT EXISTS transactions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		distributor_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		product_code TEXT NOT NULL,
		product_name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		value TEXT NOT NULL,
		date TEXT NOT NULL,
		batch_id TEXT NOT NULL,
		batch_total_qty INTEGER NOT NULL,
		batch_total_value TEXT NOT NULL,
		rating TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		return_reason TEXT NOT NULL DEFAULT '',
		risk_note TEXT NOT NULL DEFAULT '',
		rejection_reason TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_distributor
		ON transactions(distributor_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_status
		ON transactions(status) WHERE status = 'pending';
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SEEDING
// =============================================================================

// Seed replaces all stored data with a freshly generated dataset in one
// database transaction.
func (s *Store) Seed(ctx context.Context, ds ledger.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM transactions", "DELETE FROM distributors", "DELETE FROM sqlite_sequence WHERE name = 'transactions'"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear previous dataset: %w", err)
		}
	}

	for _, d := range ds.Distributors {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO distributors (id, name, avg_return_rate) VALUES (?, ?, ?)`,
			d.ID, d.Name, d.AvgReturnRate.String())
		if err != nil {
			return fmt.Errorf("failed to insert distributor %s: %w", d.ID, err)
		}
	}

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			id, distributor_id, kind, product_code, product_name,
			quantity, value, date, batch_id, batch_total_qty, batch_total_value,
			rating, status, return_reason, risk_note, rejection_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare transaction insert: %w", err)
	}
	defer insert.Close()

	for _, t := range ds.Transactions {
		_, err := insert.ExecContext(ctx,
			t.ID, t.DistributorID, string(t.Kind), t.ProductCode, t.ProductName,
			t.Quantity, t.Value.String(), t.Date.UTC().Format(time.RFC3339), t.BatchID,
			t.BatchTotalQty, t.BatchTotalValue.String(),
			string(t.Rating), string(t.Status), t.ReturnReason, t.RiskNote, t.RejectionReason)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// READS
// =============================================================================

func (s *Store) ListDistributors(ctx context.Context) ([]ledger.Distributor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, avg_return_rate FROM distributors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distributors: %w", err)
	}
	defer rows.Close()

	var result []ledger.Distributor
	for rows.Next() {
		d, err := scanDistributor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (s *Store) GetDistributor(ctx context.Context, id string) (*ledger.Distributor, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, avg_return_rate FROM distributors WHERE id = ?`, id)

	d, err := scanDistributor(row)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrDistributorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

const transactionColumns = `
	id, distributor_id, kind, product_code, product_name,
	quantity, value, date, batch_id, batch_total_qty, batch_total_value,
	rating, status, return_reason, risk_note, rejection_reason`

func (s *Store) Transactions(ctx context.Context) ([]ledger.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY seq`)
}

func (s *Store) TransactionsByDistributor(ctx context.Context, distributorID string) ([]ledger.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE distributor_id = ? ORDER BY seq`,
		distributorID)
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)

	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]ledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var result []ledger.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// =============================================================================
// MUTATION
// =============================================================================

// SetApproval transitions a pending return. The WHERE clause carries the
// full precondition, so an unknown id, a purchase, or an already-decided
// return all fall through to applied=false without an error.
func (s *Store) SetApproval(ctx context.Context, id string, status ledger.ApprovalStatus, rejectionReason string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET status = ?, rejection_reason = ?
		WHERE id = ? AND kind = ? AND status = ?`,
		string(status), rejectionReason, id, string(ledger.KindReturn), string(ledger.StatusPending))
	if err != nil {
		return false, fmt.Errorf("failed to update approval status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// =============================================================================
// ROW SCANNING
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDistributor(row rowScanner) (ledger.Distributor, error) {
	var d ledger.Distributor
	var rate string
	if err := row.Scan(&d.ID, &d.Name, &rate); err != nil {
		return ledger.Distributor{}, err
	}

	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return ledger.Distributor{}, fmt.Errorf("invalid stored return rate %q: %w", rate, err)
	}
	d.AvgReturnRate = parsed
	return d, nil
}

func scanTransaction(row rowScanner) (ledger.Transaction, error) {
	var t ledger.Transaction
	var kind, rating, status, value, batchValue, date string

	err := row.Scan(
		&t.ID, &t.DistributorID, &kind, &t.ProductCode, &t.ProductName,
		&t.Quantity, &value, &date, &t.BatchID, &t.BatchTotalQty, &batchValue,
		&rating, &status, &t.ReturnReason, &t.RiskNote, &t.RejectionReason)
	if err != nil {
		return ledger.Transaction{}, err
	}

	t.Kind = ledger.Kind(kind)
	t.Rating = ledger.RiskRating(rating)
	t.Status = ledger.ApprovalStatus(status)

	if t.Value, err = decimal.NewFromString(value); err != nil {
		return ledger.Transaction{}, fmt.Errorf("invalid stored value %q: %w", value, err)
	}
	if t.BatchTotalValue, err = decimal.NewFromString(batchValue); err != nil {
		return ledger.Transaction{}, fmt.Errorf("invalid stored batch value %q: %w", batchValue, err)
	}
	if t.Date, err = time.Parse(time.RFC3339, date); err != nil {
		return ledger.Transaction{}, fmt.Errorf("invalid stored date %q: %w", date, err)
	}
	return t, nil
}
