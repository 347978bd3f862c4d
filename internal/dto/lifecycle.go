package dto

import (
	"github.com/shopspring/decimal"
)

// LedgerEventRequest defines the payload for recording a balance-affecting
// event against a document. Amount is signed: payments, receipts and
// completions are positive; a payment reversal carries the negated amount
// of the entry it reverses.
type LedgerEventRequest struct {
	Kind            string          `json:"kind" binding:"required,oneof=PAYMENT PAYMENT_REVERSAL RECEIPT COMPLETION SCRAP"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Reference       string          `json:"reference"`
	ReversesEntryID *string         `json:"reversesEntryID,omitempty"`
}

// StatusChangeRequest defines the payload for a direct status transition.
// Force is the explicit override accepted by guards that support one (e.g.
// closing a purchase order before full receipt).
type StatusChangeRequest struct {
	TargetStatus string `json:"targetStatus" binding:"required,docstatus"`
	Force        bool   `json:"force"`
}
