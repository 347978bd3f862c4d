package dto

import (
	"time"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDocumentRequest defines the payload for creating a new document.
// Exactly one of the totals is meaningful depending on the document type;
// the service validates that the right one is set and positive.
type CreateDocumentRequest struct {
	DocumentType    domain.DocumentType `json:"documentType" binding:"required,oneof=PURCHASE_ORDER SALES_ORDER WORK_ORDER INVOICE SUPPORT_CASE"`
	Reference       string              `json:"reference"`
	Description     string              `json:"description"`
	CurrencyCode    string              `json:"currencyCode"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	OrderedQuantity decimal.Decimal     `json:"orderedQuantity"`
	PlannedQuantity decimal.Decimal     `json:"plannedQuantity"`
}

// DocumentResponse defines the data returned for a document.
type DocumentResponse struct {
	DocumentID      string          `json:"documentID"`
	DocumentType    string          `json:"documentType"`
	Status          string          `json:"status"`
	Reference       string          `json:"reference,omitempty"`
	Description     string          `json:"description,omitempty"`
	CurrencyCode    string          `json:"currencyCode,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	OrderedQuantity decimal.Decimal `json:"orderedQuantity"`
	PlannedQuantity decimal.Decimal `json:"plannedQuantity"`
	ApprovedAt      *time.Time      `json:"approvedAt,omitempty"`
	ActualStartAt   *time.Time      `json:"actualStartAt,omitempty"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	ClosedAt        *time.Time      `json:"closedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// AggregateResponse defines the derived balance returned alongside a document.
type AggregateResponse struct {
	AmountPaid        decimal.Decimal `json:"amountPaid"`
	AmountDue         decimal.Decimal `json:"amountDue"`
	QuantityReceived  decimal.Decimal `json:"quantityReceived"`
	QuantityRemaining decimal.Decimal `json:"quantityRemaining"`
	QuantityCompleted decimal.Decimal `json:"quantityCompleted"`
	QuantityScrapped  decimal.Decimal `json:"quantityScrapped"`
}

// DocumentStateResponse is the engine's uniform success shape: the resulting
// status and aggregate after a lifecycle mutation. Callers must never infer
// success from absence of error alone; this is the observable outcome.
type DocumentStateResponse struct {
	Document  DocumentResponse  `json:"document"`
	Aggregate AggregateResponse `json:"aggregate"`
}

// LedgerEntryResponse defines the data returned for a single ledger entry.
type LedgerEntryResponse struct {
	EntryID         string          `json:"entryID"`
	Kind            string          `json:"kind"`
	Amount          decimal.Decimal `json:"amount"`
	Reference       string          `json:"reference,omitempty"`
	ReversesEntryID *string         `json:"reversesEntryID,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// ListDocumentsResponse wraps a page of documents.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// ToDocumentResponse converts a domain.Document to DocumentResponse DTO.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:      d.DocumentID,
		DocumentType:    string(d.DocumentType),
		Status:          string(d.Status),
		Reference:       d.Reference,
		Description:     d.Description,
		CurrencyCode:    d.CurrencyCode,
		TotalAmount:     d.TotalAmount,
		OrderedQuantity: d.OrderedQuantity,
		PlannedQuantity: d.PlannedQuantity,
		ApprovedAt:      d.ApprovedAt,
		ActualStartAt:   d.ActualStartAt,
		CompletedAt:     d.CompletedAt,
		ClosedAt:        d.ClosedAt,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
	}
}

// ToAggregateResponse converts a domain.Aggregate to AggregateResponse DTO.
func ToAggregateResponse(a domain.Aggregate) AggregateResponse {
	return AggregateResponse{
		AmountPaid:        a.AmountPaid,
		AmountDue:         a.AmountDue,
		QuantityReceived:  a.QuantityReceived,
		QuantityRemaining: a.QuantityRemaining,
		QuantityCompleted: a.QuantityCompleted,
		QuantityScrapped:  a.QuantityScrapped,
	}
}

// ToDocumentStateResponse combines a document and its aggregate into the
// uniform mutation result shape.
func ToDocumentStateResponse(d *domain.Document, a domain.Aggregate) *DocumentStateResponse {
	return &DocumentStateResponse{
		Document:  ToDocumentResponse(d),
		Aggregate: ToAggregateResponse(a),
	}
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:         e.EntryID,
		Kind:            string(e.Kind),
		Amount:          e.Amount,
		Reference:       e.Reference,
		ReversesEntryID: e.ReversesEntryID,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
}

// ToLedgerEntryResponses converts a slice of domain.LedgerEntry to DTOs.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	return responses
}
