package domain

import (
	"fmt"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryKind tags a ledger entry with the balance-affecting event it records.
type EntryKind string

const (
	EntryPayment         EntryKind = "PAYMENT"
	EntryPaymentReversal EntryKind = "PAYMENT_REVERSAL"
	EntryReceipt         EntryKind = "RECEIPT"
	EntryCompletion      EntryKind = "COMPLETION"
	EntryScrap           EntryKind = "SCRAP"
)

// LedgerEntry is one immutable, append-only record of a balance-affecting
// event against a document. Entries are never updated or deleted; a
// correction is a new entry of the inverse sign carrying a back-reference
// to the entry it reverses, so the full history stays auditable.
type LedgerEntry struct {
	EntryID         string          `json:"entryID"`    // Primary Key (UUID)
	DocumentID      string          `json:"documentID"` // FK -> Document.documentID (Not Null)
	Kind            EntryKind       `json:"kind"`
	Amount          decimal.Decimal `json:"amount"`    // Signed quantity or monetary amount
	Reference       string          `json:"reference"` // Receipt number, payment number, etc.
	ReversesEntryID *string         `json:"reversesEntryID,omitempty"`
	AuditFields
}

// Aggregate is a document's derived running balance. It is always
// reproducible by folding the document's ledger entries over its fixed
// totals; the engine never stores it as an independently mutable counter.
type Aggregate struct {
	AmountPaid        decimal.Decimal `json:"amountPaid"`
	AmountDue         decimal.Decimal `json:"amountDue"`
	QuantityReceived  decimal.Decimal `json:"quantityReceived"`
	QuantityRemaining decimal.Decimal `json:"quantityRemaining"`
	QuantityCompleted decimal.Decimal `json:"quantityCompleted"`
	QuantityScrapped  decimal.Decimal `json:"quantityScrapped"`
}

// ComputeAggregate folds the full entry sequence left-to-right over the
// document's fixed totals. Callers may cache the result, but this fold is
// the single source of truth for every balance the engine reports.
func ComputeAggregate(doc Document, entries []LedgerEntry) Aggregate {
	paid := decimal.Zero
	received := decimal.Zero
	completed := decimal.Zero
	scrapped := decimal.Zero

	for _, e := range entries {
		switch e.Kind {
		case EntryPayment, EntryPaymentReversal:
			paid = paid.Add(e.Amount)
		case EntryReceipt:
			received = received.Add(e.Amount)
		case EntryCompletion:
			completed = completed.Add(e.Amount)
		case EntryScrap:
			scrapped = scrapped.Add(e.Amount)
		}
	}

	agg := Aggregate{
		AmountPaid:        paid,
		AmountDue:         doc.TotalAmount.Sub(paid),
		QuantityReceived:  received,
		QuantityCompleted: completed,
		QuantityScrapped:  scrapped,
	}

	switch doc.DocumentType {
	case PurchaseOrder:
		agg.QuantityRemaining = doc.OrderedQuantity.Sub(received)
	case WorkOrder:
		agg.QuantityRemaining = doc.PlannedQuantity.Sub(completed).Sub(scrapped)
	default:
		agg.QuantityRemaining = decimal.Zero
	}

	return agg
}

// entryKindsByType lists which entry kinds a document type accepts at all.
// Sales orders and support cases carry no balance ledger.
var entryKindsByType = map[DocumentType][]EntryKind{
	PurchaseOrder: {EntryReceipt},
	WorkOrder:     {EntryCompletion, EntryScrap},
	Invoice:       {EntryPayment, EntryPaymentReversal},
}

// entryStatusesByKind lists the statuses in which an entry of a given kind
// may be appended. A payment reversal is additionally accepted on a PAID
// invoice; that is the one exception to paid-terminality.
var entryStatusesByKind = map[EntryKind][]Status{
	EntryReceipt:         {StatusApproved, StatusSent, StatusPartiallyReceived},
	EntryCompletion:      {StatusInProgress},
	EntryScrap:           {StatusInProgress},
	EntryPayment:         {StatusOpen, StatusPartiallyPaid},
	EntryPaymentReversal: {StatusOpen, StatusPartiallyPaid, StatusPaid},
}

func kindAcceptedByType(docType DocumentType, kind EntryKind) bool {
	for _, k := range entryKindsByType[docType] {
		if k == kind {
			return true
		}
	}
	return false
}

func kindAcceptedInStatus(status Status, kind EntryKind) bool {
	for _, s := range entryStatusesByKind[kind] {
		if s == status {
			return true
		}
	}
	return false
}

// ValidateEntry checks a candidate entry against the document, its existing
// entries and the post-entry aggregate bounds. It is pure: nothing is
// appended here, and a rejected entry leaves no trace.
//
// Bound violations wrap apperrors.ErrBalanceBound; appends against terminal
// documents (including new payments on a PAID invoice) wrap
// apperrors.ErrDocumentTerminal; kind/status mismatches wrap
// apperrors.ErrInvalidTransition.
func ValidateEntry(doc Document, entries []LedgerEntry, entry LedgerEntry) error {
	if doc.IsTerminal() {
		return fmt.Errorf("%w: document is %s and accepts no further ledger entries", apperrors.ErrDocumentTerminal, doc.Status)
	}
	if doc.DocumentType == Invoice && doc.Status == StatusPaid && entry.Kind == EntryPayment {
		return fmt.Errorf("%w: invoice is fully paid; only a payment reversal or void is possible", apperrors.ErrDocumentTerminal)
	}
	if !kindAcceptedByType(doc.DocumentType, entry.Kind) {
		return fmt.Errorf("%w: documents of type %s do not accept %s entries", apperrors.ErrInvalidTransition, doc.DocumentType, entry.Kind)
	}
	if !kindAcceptedInStatus(doc.Status, entry.Kind) {
		return fmt.Errorf("%w: %s entries are not accepted while the document is %s", apperrors.ErrInvalidTransition, entry.Kind, doc.Status)
	}

	switch entry.Kind {
	case EntryPaymentReversal:
		if err := validateReversal(entries, entry); err != nil {
			return err
		}
	default:
		if entry.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: %s amount must be positive", apperrors.ErrValidation, entry.Kind)
		}
	}

	post := ComputeAggregate(doc, append(append([]LedgerEntry{}, entries...), entry))
	switch entry.Kind {
	case EntryPayment, EntryPaymentReversal:
		if post.AmountPaid.IsNegative() || post.AmountPaid.GreaterThan(doc.TotalAmount) {
			return fmt.Errorf("%w: amount paid would become %s, outside [0, %s]", apperrors.ErrBalanceBound, post.AmountPaid, doc.TotalAmount)
		}
	case EntryReceipt:
		if post.QuantityReceived.GreaterThan(doc.OrderedQuantity) {
			return fmt.Errorf("%w: quantity received would become %s, exceeding ordered quantity %s", apperrors.ErrBalanceBound, post.QuantityReceived, doc.OrderedQuantity)
		}
	case EntryCompletion, EntryScrap:
		produced := post.QuantityCompleted.Add(post.QuantityScrapped)
		if produced.GreaterThan(doc.PlannedQuantity) {
			return fmt.Errorf("%w: completed plus scrapped would become %s, exceeding planned quantity %s", apperrors.ErrBalanceBound, produced, doc.PlannedQuantity)
		}
	}

	return nil
}

// validateReversal checks that a reversal back-references an unreversed
// payment on the same document and exactly negates it.
func validateReversal(entries []LedgerEntry, entry LedgerEntry) error {
	if entry.ReversesEntryID == nil || *entry.ReversesEntryID == "" {
		return fmt.Errorf("%w: a payment reversal must reference the entry it reverses", apperrors.ErrValidation)
	}

	var original *LedgerEntry
	for i := range entries {
		e := entries[i]
		if e.EntryID == *entry.ReversesEntryID && e.Kind == EntryPayment {
			original = &e
		}
		if e.Kind == EntryPaymentReversal && e.ReversesEntryID != nil && *e.ReversesEntryID == *entry.ReversesEntryID {
			return fmt.Errorf("%w: payment %s has already been reversed", apperrors.ErrValidation, *entry.ReversesEntryID)
		}
	}
	if original == nil {
		return fmt.Errorf("%w: no payment entry %s exists on this document", apperrors.ErrValidation, *entry.ReversesEntryID)
	}
	if !entry.Amount.Equal(original.Amount.Neg()) {
		return fmt.Errorf("%w: reversal amount %s must exactly negate the original payment %s", apperrors.ErrValidation, entry.Amount, original.Amount)
	}
	return nil
}

// InferStatus is the pure aggregate -> status promotion function consulted
// by the lifecycle controller after every ledger mutation. Threshold
// statuses (PARTIALLY_RECEIVED, RECEIVED, PARTIALLY_PAID, PAID, COMPLETED)
// are only ever entered through here, never by direct request, so the two
// code paths cannot drift. It also demotes a PAID invoice back through the
// same thresholds after a payment reversal.
func InferStatus(doc Document, agg Aggregate) (Status, bool) {
	switch doc.DocumentType {
	case PurchaseOrder:
		switch doc.Status {
		case StatusApproved, StatusSent, StatusPartiallyReceived:
			if agg.QuantityReceived.Equal(doc.OrderedQuantity) && doc.OrderedQuantity.IsPositive() {
				return StatusReceived, doc.Status != StatusReceived
			}
			if agg.QuantityReceived.IsPositive() {
				return StatusPartiallyReceived, doc.Status != StatusPartiallyReceived
			}
		}
	case Invoice:
		switch doc.Status {
		case StatusOpen, StatusPartiallyPaid, StatusPaid:
			var next Status
			switch {
			case agg.AmountPaid.Equal(doc.TotalAmount) && doc.TotalAmount.IsPositive():
				next = StatusPaid
			case agg.AmountPaid.IsPositive():
				next = StatusPartiallyPaid
			default:
				next = StatusOpen
			}
			return next, next != doc.Status
		}
	case WorkOrder:
		if doc.Status == StatusInProgress {
			produced := agg.QuantityCompleted.Add(agg.QuantityScrapped)
			if produced.Equal(doc.PlannedQuantity) && doc.PlannedQuantity.IsPositive() {
				return StatusCompleted, true
			}
		}
	}
	return doc.Status, false
}
