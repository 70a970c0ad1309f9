/*
handlers_test.go - Unit tests for API handlers

Tests run against the full chi router with an in-memory store, so route
wiring, parameter extraction, and status codes are covered together.
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/warp/returns-review/generator"
	"github.com/warp/returns-review/ledger"
	"github.com/warp/returns-review/ledger/store"
	"github.com/warp/returns-review/review"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func testDataset() ledger.Dataset {
	jan10 := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	return ledger.Dataset{
		Distributors: []ledger.Distributor{
			{ID: "D001", Name: "Eastland", AvgReturnRate: decimal.NewFromFloat(0.015)},
			{ID: "D004", Name: "Kangning", AvgReturnRate: decimal.NewFromFloat(0.095)},
		},
		Transactions: []ledger.Transaction{
			{ID: "T1000", DistributorID: "D001", Kind: ledger.KindPurchase,
				ProductCode: "MED-001", ProductName: "Ibuprofen", Quantity: 100,
				Value: decimal.NewFromInt(5000), Date: jan10, BatchID: "B001-2024-01-1",
				BatchTotalQty: 100, BatchTotalValue: decimal.NewFromInt(5000)},
			{ID: "R1001", DistributorID: "D001", Kind: ledger.KindReturn,
				ProductCode: "MED-001", ProductName: "Ibuprofen", Quantity: 10,
				Value: decimal.NewFromInt(500), Date: jan10.AddDate(0, 0, 12), BatchID: "B001-2024-01-1",
				BatchTotalQty: 100, BatchTotalValue: decimal.NewFromInt(5000),
				Rating: ledger.RiskHigh, Status: ledger.StatusPending,
				ReturnReason: "damaged packaging", RiskNote: "well above baseline"},
		},
	}
}

func newTestRouter(t *testing.T) (http.Handler, ledger.Store) {
	t.Helper()

	mem := store.NewMemory()
	if err := mem.Seed(context.Background(), testDataset()); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	log := zerolog.Nop()
	handler := NewHandler(mem, review.NewReviewer(mem, log), generator.New(generator.Config{Seed: 7}), log)
	return NewRouter(handler), mem
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	if body == "" {
		body = "{}"
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(into); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

// =============================================================================
// DASHBOARD TESTS
// =============================================================================

func TestDashboard(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/dashboard?year=2024", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp DashboardResponse
	decodeBody(t, rec, &resp)

	if resp.Year != "2024" {
		t.Errorf("year = %q", resp.Year)
	}
	if resp.PendingCount != 1 {
		t.Errorf("pending count = %d, want 1", resp.PendingCount)
	}
	if resp.PurchaseQty != 100 || resp.ReturnQty != 10 {
		t.Errorf("quantities = %d/%d, want 100/10", resp.PurchaseQty, resp.ReturnQty)
	}
	if len(resp.Distributors) != 2 {
		t.Fatalf("distributor rows = %d, want 2", len(resp.Distributors))
	}
	// D001 has the only returns, so it sorts first.
	if resp.Distributors[0].Distributor.ID != "D001" {
		t.Errorf("first row = %s, want D001", resp.Distributors[0].Distributor.ID)
	}
	if len(resp.Years) != 1 || resp.Years[0] != "2024" {
		t.Errorf("years = %v", resp.Years)
	}
}

func TestDashboard_FilteredYearIsEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/dashboard?year=2019", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp DashboardResponse
	decodeBody(t, rec, &resp)
	if resp.ReturnRate != 0 || resp.PendingCount != 0 {
		t.Errorf("empty year should zero the aggregates, got rate=%v pending=%d", resp.ReturnRate, resp.PendingCount)
	}
}

// =============================================================================
// DISTRIBUTOR TESTS
// =============================================================================

func TestGetDistributor_Unknown(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/distributors/D999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Error == "" {
		t.Error("expected an error message")
	}
}

func TestDistributorTransactions_TypeFilter(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/distributors/D001/transactions?type=return", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var txs []TransactionDTO
	decodeBody(t, rec, &txs)
	if len(txs) != 1 || txs[0].ID != "R1001" {
		t.Fatalf("filtered transactions = %+v", txs)
	}
	if txs[0].Status != string(ledger.StatusPending) {
		t.Errorf("status = %q", txs[0].Status)
	}
}

func TestDistributorTransactions_NewestFirst(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/distributors/D001/transactions", "")
	var txs []TransactionDTO
	decodeBody(t, rec, &txs)

	if len(txs) != 2 {
		t.Fatalf("transactions = %d, want 2", len(txs))
	}
	if txs[0].ID != "R1001" {
		t.Errorf("first row = %s, want the later return", txs[0].ID)
	}
}

func TestDistributorBatches(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/distributors/D001/batches", "")
	var rows []BatchSummaryDTO
	decodeBody(t, rec, &rows)

	if len(rows) != 1 {
		t.Fatalf("batch rows = %d, want 1", len(rows))
	}
	if rows[0].BatchID != "B001-2024-01-1" || rows[0].ReturnRate != 0.1 {
		t.Errorf("batch row = %+v", rows[0])
	}
}

// =============================================================================
// REVIEW TESTS
// =============================================================================

func TestApproveReturn(t *testing.T) {
	router, st := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/returns/R1001/approve", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp DecisionResponse
	decodeBody(t, rec, &resp)
	if !resp.Applied {
		t.Fatal("expected the approval to apply")
	}
	if resp.Transaction == nil || resp.Transaction.Status != string(ledger.StatusManuallyApproved) {
		t.Errorf("transaction in response = %+v", resp.Transaction)
	}

	tx, err := st.GetTransaction(context.Background(), "R1001")
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if tx.Status != ledger.StatusManuallyApproved {
		t.Errorf("stored status = %s", tx.Status)
	}
}

func TestApproveReturn_AlreadyDecided(t *testing.T) {
	router, _ := newTestRouter(t)

	doRequest(t, router, http.MethodPost, "/api/returns/R1001/reject", `{"reason":"expired stock"}`)
	rec := doRequest(t, router, http.MethodPost, "/api/returns/R1001/approve", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (no-op, not an error)", rec.Code)
	}
	var resp DecisionResponse
	decodeBody(t, rec, &resp)
	if resp.Applied {
		t.Fatal("second decision must not apply")
	}
	if resp.Transaction.Status != string(ledger.StatusRejected) {
		t.Errorf("status = %q, want the rejection to stand", resp.Transaction.Status)
	}
}

func TestRejectReturn_RequiresReason(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/returns/R1001/reject", `{"reason":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// =============================================================================
// INSIGHT AND ADMIN TESTS
// =============================================================================

func TestChat(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/insights/chat", `{"message":"why is this return high risk?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp ChatResponse
	decodeBody(t, rec, &resp)
	if resp.Reply == "" {
		t.Fatal("chat reply must never be empty")
	}
}

func TestReset_RegeneratesDataset(t *testing.T) {
	router, st := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	txs, err := st.Transactions(context.Background())
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if len(txs) <= 2 {
		t.Fatalf("expected a full generated dataset, got %d rows", len(txs))
	}
	if _, err := st.GetTransaction(context.Background(), "R1001"); err == nil {
		t.Error("old dataset should be gone after reset")
	}
}
