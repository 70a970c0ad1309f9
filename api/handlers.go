/*
handlers.go - HTTP API handlers for the returns review dashboard

PURPOSE:
  Exposes the ledger, aggregation, and review workflow via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to
  domain logic.

ENDPOINTS:
  Dashboard:
    GET    /api/dashboard                       Overview aggregates

  Distributors:
    GET    /api/distributors                    Summary rows, rate-sorted
    GET    /api/distributors/{id}               Single distributor detail
    GET    /api/distributors/{id}/transactions  Row-level ledger, date desc
    GET    /api/distributors/{id}/batches       Batch pivot
    GET    /api/distributors/{id}/products      Product pivot

  Review:
    POST   /api/returns/{id}/approve            Approve a pending return
    POST   /api/returns/{id}/reject             Reject with a reason

  Insight:
    POST   /api/insights/chat                   Canned assistant

  Admin:
    POST   /api/reset                           Regenerate the dataset

FILTERING:
  Read endpoints accept ?year=YYYY (default "all"); the transaction list
  additionally accepts ?type=purchase|return.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (bad JSON, missing reject reason)
  - 404: Unknown distributor
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - report: Aggregation functions called here
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/warp/returns-review/generator"
	"github.com/warp/returns-review/insight"
	"github.com/warp/returns-review/ledger"
	"github.com/warp/returns-review/report"
	"github.com/warp/returns-review/review"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    ledger.Store
	Reviewer *review.Reviewer
	Gen      *generator.Generator
	Log      zerolog.Logger
}

// NewHandler creates a new handler around the given store and generator.
func NewHandler(store ledger.Store, reviewer *review.Reviewer, gen *generator.Generator, log zerolog.Logger) *Handler {
	return &Handler{Store: store, Reviewer: reviewer, Gen: gen, Log: log}
}

// =============================================================================
// DASHBOARD ENDPOINTS
// =============================================================================

// Dashboard returns all overview aggregates for the requested year. An
// optional product code narrows the monthly trend chart only.
// GET /api/dashboard?year=2024&product=MED-001
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	distributors, err := h.Store.ListDistributors(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load distributors", err)
		return
	}
	all, err := h.Store.Transactions(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions", err)
		return
	}

	year := yearParam(r)
	txs := report.FilterByYear(all, year)

	// The trend chart can be narrowed to one product without affecting
	// the other aggregates.
	trend := txs
	if product := strings.TrimSpace(r.URL.Query().Get("product")); product != "" && product != "all" {
		trend = report.FilterByProduct(txs, product)
	}

	resp := DashboardResponse{
		Year:         year,
		Years:        availableYears(all),
		ReturnRate:   report.AverageReturnRate(txs),
		PendingCount: report.PendingCount(txs),
		Monthly:      toMonthlyDTOs(report.MonthlySeries(trend)),
		TopReturned:  toProductReturnsDTOs(report.TopReturnedProducts(txs, 0)),
		Distributors: toDistributorSummaryDTOs(report.DistributorSummaries(distributors, txs)),
	}
	for _, row := range resp.Distributors {
		resp.PurchaseQty += row.PurchaseQty
		resp.PurchaseValue += row.PurchaseValue
		resp.ReturnQty += row.ReturnQty
		resp.ReturnValue += row.ReturnValue
	}

	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// DISTRIBUTOR ENDPOINTS
// =============================================================================

// ListDistributors returns one summary row per distributor, sorted by
// return rate descending.
// GET /api/distributors?year=2024
func (h *Handler) ListDistributors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	distributors, err := h.Store.ListDistributors(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load distributors", err)
		return
	}
	all, err := h.Store.Transactions(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions", err)
		return
	}

	txs := report.FilterByYear(all, yearParam(r))
	writeJSON(w, http.StatusOK, toDistributorSummaryDTOs(report.DistributorSummaries(distributors, txs)))
}

// GetDistributor returns one distributor with its summary and monthly trend.
// GET /api/distributors/{id}?year=2024
func (h *Handler) GetDistributor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	distributor, err := h.Store.GetDistributor(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrDistributorNotFound) {
			writeError(w, http.StatusNotFound, "distributor not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load distributor", err)
		return
	}

	all, err := h.Store.TransactionsByDistributor(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions", err)
		return
	}
	txs := report.FilterByYear(all, yearParam(r))

	summaries := report.DistributorSummaries([]ledger.Distributor{*distributor}, txs)
	writeJSON(w, http.StatusOK, DistributorDetailResponse{
		Distributor: toDistributorDTO(*distributor),
		Summary:     toDistributorSummaryDTO(summaries[0]),
		Monthly:     toMonthlyDTOs(report.MonthlySeries(txs)),
	})
}

// DistributorTransactions returns the row-level ledger for one distributor,
// newest first.
// GET /api/distributors/{id}/transactions?year=2024&type=return
func (h *Handler) DistributorTransactions(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.distributorTransactions(w, r)
	if !ok {
		return
	}

	if kind := strings.TrimSpace(r.URL.Query().Get("type")); kind != "" && kind != "all" {
		txs = report.FilterByKind(txs, ledger.Kind(kind))
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })

	writeJSON(w, http.StatusOK, toTransactionDTOs(txs))
}

// DistributorBatches returns the batch pivot for one distributor.
// GET /api/distributors/{id}/batches?year=2024
func (h *Handler) DistributorBatches(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.distributorTransactions(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toBatchSummaryDTOs(report.BatchPivot(txs)))
}

// DistributorProducts returns the product pivot for one distributor.
// GET /api/distributors/{id}/products?year=2024
func (h *Handler) DistributorProducts(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.distributorTransactions(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProductSummaryDTOs(report.ProductPivot(txs)))
}

// distributorTransactions resolves the {id} parameter (404 on unknown
// distributor) and returns its year-filtered transactions.
func (h *Handler) distributorTransactions(w http.ResponseWriter, r *http.Request) ([]ledger.Transaction, bool) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if _, err := h.Store.GetDistributor(ctx, id); err != nil {
		if errors.Is(err, ledger.ErrDistributorNotFound) {
			writeError(w, http.StatusNotFound, "distributor not found", nil)
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "failed to load distributor", err)
		return nil, false
	}

	txs, err := h.Store.TransactionsByDistributor(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load transactions", err)
		return nil, false
	}
	return report.FilterByYear(txs, yearParam(r)), true
}

// =============================================================================
// REVIEW ENDPOINTS
// =============================================================================

// ApproveReturn approves a pending return. Responds with applied=false
// (not an error) when the target is unknown or no longer pending.
// POST /api/returns/{id}/approve
func (h *Handler) ApproveReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	applied, err := h.Reviewer.Approve(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to approve return", err)
		return
	}
	h.writeDecision(w, r, id, applied)
}

// RejectReturn rejects a pending return with a mandatory reason.
// POST /api/returns/{id}/reject
func (h *Handler) RejectReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		writeError(w, http.StatusBadRequest, "rejection reason is required", nil)
		return
	}

	applied, err := h.Reviewer.Reject(ctx, id, req.Reason)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reject return", err)
		return
	}
	h.writeDecision(w, r, id, applied)
}

func (h *Handler) writeDecision(w http.ResponseWriter, r *http.Request, id string, applied bool) {
	resp := DecisionResponse{Applied: applied}
	if tx, err := h.Store.GetTransaction(r.Context(), id); err == nil {
		dto := toTransactionDTO(*tx)
		resp.Transaction = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// INSIGHT ENDPOINTS
// =============================================================================

// Chat answers one dashboard chat message with a canned response.
// POST /api/insights/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Reply: insight.Reply(req.Message)})
}

// =============================================================================
// ADMIN ENDPOINTS
// =============================================================================

// Reset discards the current dataset and seeds a freshly generated one.
// POST /api/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ds := h.Gen.Generate()
	if err := h.Store.Seed(ctx, ds); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reseed dataset", err)
		return
	}

	h.Log.Info().Int("transactions", len(ds.Transactions)).Msg("dataset regenerated")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"transactions": len(ds.Transactions),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func yearParam(r *http.Request) string {
	year := strings.TrimSpace(r.URL.Query().Get("year"))
	if year == "" {
		return report.YearAll
	}
	return year
}

// availableYears lists the distinct calendar years present in the ledger,
// ascending, for the dashboard's year selector.
func availableYears(txs []ledger.Transaction) []string {
	seen := make(map[string]bool)
	var years []string
	for _, tx := range txs {
		year := tx.Date.Format("2006")
		if !seen[year] {
			seen[year] = true
			years = append(years, year)
		}
	}
	sort.Strings(years)
	return years
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
