package domain

import (
	"fmt"
	"time"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/apperrors"
)

// TransitionOptions carries caller-supplied modifiers for a status-change
// request. Force is the explicit override that lets a purchase order be
// closed before every line is fully received.
type TransitionOptions struct {
	Force bool
}

// Guard is a pure predicate deciding whether a transition is legal. It may
// read the document and its derived aggregate but must not mutate anything;
// the lifecycle controller re-evaluates it inside the per-document critical
// section. A false result carries a human-readable reason surfaced verbatim
// to the caller.
type Guard func(doc Document, agg Aggregate, opts TransitionOptions) (bool, string)

// Effect applies a transition's side effect (timestamps) to the document.
// Status assignment itself is done by ApplyTransition.
type Effect func(doc *Document, now time.Time)

// TransitionRule is one directed edge in a document type's status graph.
type TransitionRule struct {
	Target Status
	Guard  Guard // nil means unconditionally allowed
	Effect Effect
}

func setApprovedAt(doc *Document, now time.Time)    { doc.ApprovedAt = &now }
func setActualStartAt(doc *Document, now time.Time) { doc.ActualStartAt = &now }
func setCompletedAt(doc *Document, now time.Time)   { doc.CompletedAt = &now }
func setClosedAt(doc *Document, now time.Time)      { doc.ClosedAt = &now }

func guardZeroReceipts(_ Document, agg Aggregate, _ TransitionOptions) (bool, string) {
	if agg.QuantityReceived.IsPositive() {
		return false, "document cannot be cancelled once receipts exist"
	}
	return true, ""
}

func guardFullyReceivedOrForced(doc Document, agg Aggregate, opts TransitionOptions) (bool, string) {
	if opts.Force {
		return true, ""
	}
	if !agg.QuantityReceived.Equal(doc.OrderedQuantity) {
		return false, fmt.Sprintf("only %s of %s ordered units received; close requires full receipt or an explicit override", agg.QuantityReceived, doc.OrderedQuantity)
	}
	return true, ""
}

func guardNoUnreversedPayments(_ Document, agg Aggregate, _ TransitionOptions) (bool, string) {
	if agg.AmountPaid.IsPositive() {
		return false, "invoice cannot be voided while unreversed payments exist"
	}
	return true, ""
}

// transitionTables declares, per document type, the complete set of directed
// edges between statuses together with their guards and side effects.
// Adding a document type means adding a table here, not threading new
// branches through shared logic.
//
// Threshold statuses (PARTIALLY_RECEIVED, RECEIVED, PARTIALLY_PAID, PAID,
// COMPLETED when reached by production) are absent as targets on purpose:
// they are entered automatically via InferStatus, never by direct request.
//
// The work order "start production" edge applies from both PLANNED and
// RELEASED, while the purchase order chain is strictly single-edge. The
// asymmetry is per-domain policy carried over from the source modules.
// TODO: confirm with the business owner whether PLANNED -> IN_PROGRESS
// should keep bypassing RELEASED.
var transitionTables = map[DocumentType]map[Status][]TransitionRule{
	PurchaseOrder: {
		StatusDraft: {
			{Target: StatusPendingApproval},
			{Target: StatusApproved, Effect: setApprovedAt},
			{Target: StatusCancelled, Guard: guardZeroReceipts, Effect: setClosedAt},
		},
		StatusPendingApproval: {
			{Target: StatusApproved, Effect: setApprovedAt},
			{Target: StatusCancelled, Guard: guardZeroReceipts, Effect: setClosedAt},
		},
		StatusApproved: {
			{Target: StatusSent},
			{Target: StatusCancelled, Guard: guardZeroReceipts, Effect: setClosedAt},
		},
		StatusSent: {
			{Target: StatusCancelled, Guard: guardZeroReceipts, Effect: setClosedAt},
		},
		StatusPartiallyReceived: {
			{Target: StatusClosed, Guard: guardFullyReceivedOrForced, Effect: setClosedAt},
		},
		StatusReceived: {
			{Target: StatusClosed, Guard: guardFullyReceivedOrForced, Effect: setClosedAt},
		},
	},
	SalesOrder: {
		StatusDraft: {
			{Target: StatusPendingApproval},
		},
		StatusPendingApproval: {
			{Target: StatusApproved, Effect: setApprovedAt},
			{Target: StatusCancelled, Effect: setClosedAt},
		},
		StatusApproved: {
			{Target: StatusPendingFulfillment},
		},
		StatusPendingFulfillment: {
			{Target: StatusFulfilled},
		},
		StatusFulfilled: {
			{Target: StatusClosed, Effect: setClosedAt},
		},
	},
	WorkOrder: {
		StatusPlanned: {
			{Target: StatusReleased},
			{Target: StatusInProgress, Effect: setActualStartAt},
		},
		StatusReleased: {
			{Target: StatusInProgress, Effect: setActualStartAt},
		},
		StatusCompleted: {
			{Target: StatusClosed, Effect: setClosedAt},
		},
	},
	Invoice: {
		StatusDraft: {
			{Target: StatusOpen},
		},
		StatusOpen: {
			{Target: StatusVoid, Guard: guardNoUnreversedPayments, Effect: setClosedAt},
		},
		StatusPartiallyPaid: {
			{Target: StatusVoid, Guard: guardNoUnreversedPayments, Effect: setClosedAt},
		},
		StatusPaid: {
			{Target: StatusVoid, Guard: guardNoUnreversedPayments, Effect: setClosedAt},
		},
	},
	SupportCase: {
		StatusOpen: {
			{Target: StatusInProgress},
			{Target: StatusEscalated},
			{Target: StatusClosed, Effect: setClosedAt},
		},
		StatusInProgress: {
			{Target: StatusEscalated},
			{Target: StatusOnHold},
			{Target: StatusClosed, Effect: setClosedAt},
		},
		StatusEscalated: {
			{Target: StatusInProgress},
			{Target: StatusClosed, Effect: setClosedAt},
		},
		StatusOnHold: {
			{Target: StatusInProgress},
		},
	},
}

func findRule(doc Document, target Status) *TransitionRule {
	rules, ok := transitionTables[doc.DocumentType][doc.Status]
	if !ok {
		return nil
	}
	for i := range rules {
		if rules[i].Target == target {
			return &rules[i]
		}
	}
	return nil
}

// CanTransition reports whether the document may move to target given its
// current status and derived aggregate, with the reason when it may not.
// It is pure; ApplyTransition performs the actual move.
func CanTransition(doc Document, agg Aggregate, target Status, opts TransitionOptions) (bool, string) {
	if doc.IsTerminal() {
		return false, fmt.Sprintf("document is %s and accepts no further transitions", doc.Status)
	}
	rule := findRule(doc, target)
	if rule == nil {
		return false, fmt.Sprintf("no transition from %s to %s for %s documents", doc.Status, target, doc.DocumentType)
	}
	if rule.Guard != nil {
		if ok, reason := rule.Guard(doc, agg, opts); !ok {
			return false, reason
		}
	}
	return true, ""
}

// ApplyTransition validates the requested transition and returns the updated
// document. The input document is unchanged on failure.
//
// Terminal documents fail with apperrors.ErrDocumentTerminal; unreachable
// targets and guard failures with apperrors.ErrInvalidTransition.
func ApplyTransition(doc Document, agg Aggregate, target Status, opts TransitionOptions, now time.Time) (Document, error) {
	if doc.IsTerminal() {
		return doc, fmt.Errorf("%w: document is %s and accepts no further transitions", apperrors.ErrDocumentTerminal, doc.Status)
	}
	rule := findRule(doc, target)
	if rule == nil {
		return doc, fmt.Errorf("%w: no transition from %s to %s for %s documents", apperrors.ErrInvalidTransition, doc.Status, target, doc.DocumentType)
	}
	if rule.Guard != nil {
		if ok, reason := rule.Guard(doc, agg, opts); !ok {
			return doc, fmt.Errorf("%w: %s", apperrors.ErrInvalidTransition, reason)
		}
	}

	updated := doc
	updated.Status = target
	if rule.Effect != nil {
		rule.Effect(&updated, now)
	}
	updated.LastUpdatedAt = now
	return updated, nil
}

// ApplyInferredStatus moves the document to a status produced by InferStatus,
// attaching the timestamps an automatic promotion carries. It bypasses the
// transition tables: threshold statuses are not user-requestable edges.
func ApplyInferredStatus(doc Document, status Status, now time.Time) Document {
	updated := doc
	updated.Status = status
	switch status {
	case StatusCompleted:
		updated.CompletedAt = &now
	}
	updated.LastUpdatedAt = now
	return updated
}
