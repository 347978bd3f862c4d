package services

import (
	"context"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/core/domain"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/dto"
)

// LifecycleSvcFacade is the only entry point through which a document's
// status and ledger are mutated. Both operations are serialized per
// document id: guard evaluation, ledger append and status transition run
// as one atomic unit, so concurrent requests can never pass a bound check
// against a stale aggregate.
type LifecycleSvcFacade interface {
	// RecordLedgerEvent appends a balance-affecting entry, recomputes the
	// aggregate and applies any threshold-driven status promotion. The
	// returned state is the observable outcome; on failure the document and
	// its ledger are untouched.
	RecordLedgerEvent(ctx context.Context, documentID string, req dto.LedgerEventRequest, userID string) (*dto.DocumentStateResponse, error)

	// ChangeStatus applies a user-requested status transition after guard
	// evaluation against the current aggregate.
	ChangeStatus(ctx context.Context, documentID string, req dto.StatusChangeRequest, userID string) (*dto.DocumentStateResponse, error)

	// CanTransition reports whether the requested transition would currently
	// be allowed, with the reason when it would not. Advisory only: the
	// answer is re-checked atomically when the mutation is applied.
	CanTransition(ctx context.Context, documentID string, target domain.Status) (bool, string, error)
}
