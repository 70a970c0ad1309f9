// Package store provides the in-memory ledger.Store implementation.
package store

import (
	"context"
	"sync"

	"github.com/warp/returns-review/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (session default, tests)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	distributors []ledger.Distributor
	transactions []ledger.Transaction
	byID         map[string]int // transaction id -> index
}

func NewMemory() *Memory {
	return &Memory{byID: make(map[string]int)}
}

// Seed replaces all stored data with a freshly generated dataset.
func (m *Memory) Seed(_ context.Context, ds ledger.Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.distributors = append([]ledger.Distributor(nil), ds.Distributors...)
	m.transactions = append([]ledger.Transaction(nil), ds.Transactions...)
	m.byID = make(map[string]int, len(m.transactions))
	for i, tx := range m.transactions {
		m.byID[tx.ID] = i
	}
	return nil
}

func (m *Memory) ListDistributors(_ context.Context) ([]ledger.Distributor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ledger.Distributor, len(m.distributors))
	copy(result, m.distributors)
	return result, nil
}

func (m *Memory) GetDistributor(_ context.Context, id string) (*ledger.Distributor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.distributors {
		if d.ID == id {
			found := d
			return &found, nil
		}
	}
	return nil, ledger.ErrDistributorNotFound
}

func (m *Memory) Transactions(_ context.Context) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ledger.Transaction, len(m.transactions))
	copy(result, m.transactions)
	return result, nil
}

func (m *Memory) TransactionsByDistributor(_ context.Context, distributorID string) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ledger.Transaction
	for _, tx := range m.transactions {
		if tx.DistributorID == distributorID {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (m *Memory) GetTransaction(_ context.Context, id string) (*ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return nil, ledger.ErrTransactionNotFound
	}
	found := m.transactions[i]
	return &found, nil
}

// SetApproval transitions a pending return under the write lock, so the
// check-then-set is atomic with respect to other mutators.
func (m *Memory) SetApproval(_ context.Context, id string, status ledger.ApprovalStatus, rejectionReason string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	tx := &m.transactions[i]
	if !tx.IsReturn() || tx.Status != ledger.StatusPending {
		return false, nil
	}

	tx.Status = status
	if status == ledger.StatusRejected {
		tx.RejectionReason = rejectionReason
	}
	return true, nil
}
