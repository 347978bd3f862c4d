package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType identifies which business module owns a document and which
// status graph and ledger rules apply to it.
type DocumentType string

const (
	PurchaseOrder DocumentType = "PURCHASE_ORDER"
	SalesOrder    DocumentType = "SALES_ORDER"
	WorkOrder     DocumentType = "WORK_ORDER"
	Invoice       DocumentType = "INVOICE"
	SupportCase   DocumentType = "SUPPORT_CASE"
)

// Status is a document lifecycle status. The set of valid values is specific
// to the document type; see the transition tables in transitions.go.
type Status string

const (
	StatusDraft              Status = "DRAFT"
	StatusPendingApproval    Status = "PENDING_APPROVAL"
	StatusApproved           Status = "APPROVED"
	StatusSent               Status = "SENT"
	StatusPartiallyReceived  Status = "PARTIALLY_RECEIVED"
	StatusReceived           Status = "RECEIVED"
	StatusPendingFulfillment Status = "PENDING_FULFILLMENT"
	StatusFulfilled          Status = "FULFILLED"
	StatusPlanned            Status = "PLANNED"
	StatusReleased           Status = "RELEASED"
	StatusInProgress         Status = "IN_PROGRESS"
	StatusCompleted          Status = "COMPLETED"
	StatusOpen               Status = "OPEN"
	StatusPartiallyPaid      Status = "PARTIALLY_PAID"
	StatusPaid               Status = "PAID"
	StatusVoid               Status = "VOID"
	StatusEscalated          Status = "ESCALATED"
	StatusOnHold             Status = "ON_HOLD"
	StatusClosed             Status = "CLOSED"
	StatusCancelled          Status = "CANCELLED"
)

// Document represents a single business record tracked by the lifecycle
// engine. Totals are fixed at creation and immutable once the document
// leaves its initial status; only the engine mutates Status, and the
// derived balances live in the ledger, never here.
type Document struct {
	DocumentID   string       `json:"documentID"`   // Primary Key (UUID)
	DocumentType DocumentType `json:"documentType"` // Owning module (Not Null)
	Status       Status       `json:"status"`       // Current lifecycle status
	Reference    string       `json:"reference"`    // External document number (PO number, invoice number)
	Description  string       `json:"description"`  // Nullable user description
	CurrencyCode string       `json:"currencyCode"` // Currency for monetary documents

	// Fixed totals, set at creation. Which field is meaningful depends on
	// the document type: TotalAmount for invoices and sales orders,
	// OrderedQuantity for purchase orders, PlannedQuantity for work orders.
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	OrderedQuantity decimal.Decimal `json:"orderedQuantity"`
	PlannedQuantity decimal.Decimal `json:"plannedQuantity"`

	// Timestamps for key transitions. Nil until the transition happens.
	ApprovedAt    *time.Time `json:"approvedAt,omitempty"`
	ActualStartAt *time.Time `json:"actualStartAt,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	ClosedAt      *time.Time `json:"closedAt,omitempty"`

	AuditFields
}

// InitialStatus returns the status a freshly created document of the given
// type starts in.
func InitialStatus(docType DocumentType) Status {
	switch docType {
	case WorkOrder:
		return StatusPlanned
	case SupportCase:
		return StatusOpen
	default:
		return StatusDraft
	}
}

// ValidDocumentType reports whether t is one of the known document types.
func ValidDocumentType(t DocumentType) bool {
	switch t {
	case PurchaseOrder, SalesOrder, WorkOrder, Invoice, SupportCase:
		return true
	}
	return false
}

// KnownStatus reports whether s is one of the known lifecycle statuses of
// any document type. Whether it is reachable for a given document is decided
// by the transition tables.
func KnownStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusSent,
		StatusPartiallyReceived, StatusReceived, StatusPendingFulfillment,
		StatusFulfilled, StatusPlanned, StatusReleased, StatusInProgress,
		StatusCompleted, StatusOpen, StatusPartiallyPaid, StatusPaid,
		StatusVoid, StatusEscalated, StatusOnHold, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the document is in a status that accepts no
// further transitions or ledger entries.
//
// PAID is deliberately not listed here: a paid invoice still accepts payment
// reversals and a guarded transition to VOID. Its terminality towards new
// payments is enforced by ValidateEntry.
func (d Document) IsTerminal() bool {
	switch d.Status {
	case StatusClosed, StatusCancelled, StatusVoid:
		return true
	}
	return false
}

// FixedTotal returns the creation-time total the ledger bounds are checked
// against for this document type.
func (d Document) FixedTotal() decimal.Decimal {
	switch d.DocumentType {
	case PurchaseOrder:
		return d.OrderedQuantity
	case WorkOrder:
		return d.PlannedQuantity
	default:
		return d.TotalAmount
	}
}
