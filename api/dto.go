/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY:
  Internal amounts are decimals; the API emits them as JSON numbers for
  chart libraries. The conversion happens only here, at the edge.

SEE ALSO:
  - handlers.go: Uses these types
  - report: Aggregate types converted here
*/
package api

import (
	"github.com/warp/returns-review/ledger"
	"github.com/warp/returns-review/report"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// DistributorDTO represents a distributor in API responses.
type DistributorDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	AvgReturnRate float64 `json:"avg_return_rate"`
}

// TransactionDTO represents one purchase or return row.
type TransactionDTO struct {
	ID              string  `json:"id"`
	DistributorID   string  `json:"distributor_id"`
	Type            string  `json:"type"`
	ProductCode     string  `json:"product_code"`
	ProductName     string  `json:"product_name"`
	Quantity        int     `json:"quantity"`
	Value           float64 `json:"value"`
	Date            string  `json:"date"`
	BatchID         string  `json:"batch_id"`
	BatchTotalQty   int     `json:"batch_total_qty"`
	BatchTotalValue float64 `json:"batch_total_value"`
	RiskRating      string  `json:"risk_rating,omitempty"`
	Status          string  `json:"status,omitempty"`
	ReturnReason    string  `json:"return_reason,omitempty"`
	RiskNote        string  `json:"risk_note,omitempty"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
}

// MonthlyPointDTO is one month on the trend chart.
type MonthlyPointDTO struct {
	Period      string  `json:"period"`
	Label       string  `json:"label"`
	PurchaseQty int     `json:"purchase_qty"`
	ReturnQty   int     `json:"return_qty"`
	ReturnRate  float64 `json:"return_rate"`
}

// ProductReturnsDTO is one row of the top-returned-products list.
type ProductReturnsDTO struct {
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	ReturnQty   int    `json:"return_qty"`
}

// BatchSummaryDTO is one row of the batch pivot.
type BatchSummaryDTO struct {
	BatchID       string  `json:"batch_id"`
	PurchaseQty   int     `json:"purchase_qty"`
	PurchaseValue float64 `json:"purchase_value"`
	ReturnQty     int     `json:"return_qty"`
	ReturnValue   float64 `json:"return_value"`
	ReturnRate    float64 `json:"return_rate"`
}

// ProductSummaryDTO is one row of the product pivot.
type ProductSummaryDTO struct {
	ProductCode   string  `json:"product_code"`
	ProductName   string  `json:"product_name"`
	PurchaseQty   int     `json:"purchase_qty"`
	PurchaseValue float64 `json:"purchase_value"`
	ReturnQty     int     `json:"return_qty"`
	ReturnValue   float64 `json:"return_value"`
	ReturnRate    float64 `json:"return_rate"`
}

// DistributorSummaryDTO is one row of the dashboard overview.
type DistributorSummaryDTO struct {
	Distributor   DistributorDTO `json:"distributor"`
	PurchaseQty   int            `json:"purchase_qty"`
	PurchaseValue float64        `json:"purchase_value"`
	ReturnQty     int            `json:"return_qty"`
	ReturnValue   float64        `json:"return_value"`
	ReturnRate    float64        `json:"return_rate"`
	PendingCount  int            `json:"pending_count"`
}

// DashboardResponse is the aggregate payload behind the overview page.
type DashboardResponse struct {
	Year          string                  `json:"year"`
	Years         []string                `json:"years"`
	PurchaseQty   int                     `json:"purchase_qty"`
	PurchaseValue float64                 `json:"purchase_value"`
	ReturnQty     int                     `json:"return_qty"`
	ReturnValue   float64                 `json:"return_value"`
	ReturnRate    float64                 `json:"return_rate"`
	PendingCount  int                     `json:"pending_count"`
	Monthly       []MonthlyPointDTO       `json:"monthly"`
	TopReturned   []ProductReturnsDTO     `json:"top_returned_products"`
	Distributors  []DistributorSummaryDTO `json:"distributors"`
}

// DistributorDetailResponse is a single distributor with its aggregates.
type DistributorDetailResponse struct {
	Distributor DistributorDTO        `json:"distributor"`
	Summary     DistributorSummaryDTO `json:"summary"`
	Monthly     []MonthlyPointDTO     `json:"monthly"`
}

// DecisionResponse reports the outcome of an approve/reject call.
type DecisionResponse struct {
	Applied     bool            `json:"applied"`
	Transaction *TransactionDTO `json:"transaction,omitempty"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// RejectRequest carries the reviewer's reason for a rejection.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// ChatRequest is one message to the insight assistant.
type ChatRequest struct {
	Message string `json:"message"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toDistributorDTO(d ledger.Distributor) DistributorDTO {
	return DistributorDTO{
		ID:            d.ID,
		Name:          d.Name,
		AvgReturnRate: d.AvgReturnRate.InexactFloat64(),
	}
}

func toTransactionDTO(t ledger.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:              t.ID,
		DistributorID:   t.DistributorID,
		Type:            string(t.Kind),
		ProductCode:     t.ProductCode,
		ProductName:     t.ProductName,
		Quantity:        t.Quantity,
		Value:           t.Value.InexactFloat64(),
		Date:            t.Date.Format("2006-01-02"),
		BatchID:         t.BatchID,
		BatchTotalQty:   t.BatchTotalQty,
		BatchTotalValue: t.BatchTotalValue.InexactFloat64(),
		RiskRating:      string(t.Rating),
		Status:          string(t.Status),
		ReturnReason:    t.ReturnReason,
		RiskNote:        t.RiskNote,
		RejectionReason: t.RejectionReason,
	}
}

func toTransactionDTOs(txs []ledger.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		dtos = append(dtos, toTransactionDTO(tx))
	}
	return dtos
}

func toMonthlyDTOs(points []report.MonthlyPoint) []MonthlyPointDTO {
	dtos := make([]MonthlyPointDTO, 0, len(points))
	for _, p := range points {
		dtos = append(dtos, MonthlyPointDTO{
			Period:      p.Period,
			Label:       p.Label,
			PurchaseQty: p.PurchaseQty,
			ReturnQty:   p.ReturnQty,
			ReturnRate:  p.ReturnRate,
		})
	}
	return dtos
}

func toProductReturnsDTOs(rows []report.ProductReturns) []ProductReturnsDTO {
	dtos := make([]ProductReturnsDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, ProductReturnsDTO{
			ProductCode: row.ProductCode,
			ProductName: row.ProductName,
			ReturnQty:   row.ReturnQty,
		})
	}
	return dtos
}

func toBatchSummaryDTOs(rows []report.BatchSummary) []BatchSummaryDTO {
	dtos := make([]BatchSummaryDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, BatchSummaryDTO{
			BatchID:       row.BatchID,
			PurchaseQty:   row.PurchaseQty,
			PurchaseValue: row.PurchaseValue.InexactFloat64(),
			ReturnQty:     row.ReturnQty,
			ReturnValue:   row.ReturnValue.InexactFloat64(),
			ReturnRate:    row.ReturnRate,
		})
	}
	return dtos
}

func toProductSummaryDTOs(rows []report.ProductSummary) []ProductSummaryDTO {
	dtos := make([]ProductSummaryDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, ProductSummaryDTO{
			ProductCode:   row.ProductCode,
			ProductName:   row.ProductName,
			PurchaseQty:   row.PurchaseQty,
			PurchaseValue: row.PurchaseValue.InexactFloat64(),
			ReturnQty:     row.ReturnQty,
			ReturnValue:   row.ReturnValue.InexactFloat64(),
			ReturnRate:    row.ReturnRate,
		})
	}
	return dtos
}

func toDistributorSummaryDTO(row report.DistributorSummary) DistributorSummaryDTO {
	return DistributorSummaryDTO{
		Distributor:   toDistributorDTO(row.Distributor),
		PurchaseQty:   row.PurchaseQty,
		PurchaseValue: row.PurchaseValue.InexactFloat64(),
		ReturnQty:     row.ReturnQty,
		ReturnValue:   row.ReturnValue.InexactFloat64(),
		ReturnRate:    row.ReturnRate,
		PendingCount:  row.PendingCount,
	}
}

func toDistributorSummaryDTOs(rows []report.DistributorSummary) []DistributorSummaryDTO {
	dtos := make([]DistributorSummaryDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toDistributorSummaryDTO(row))
	}
	return dtos
}
