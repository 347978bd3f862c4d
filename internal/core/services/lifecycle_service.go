package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/apperrors"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/core/domain"
	portsrepo "github.com/ralmosara/NetSuiteClone-sub001/internal/core/ports/repositories"
	portssvc "github.com/ralmosara/NetSuiteClone-sub001/internal/core/ports/services"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/dto"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/middleware"
)

// lifecycleService is the document lifecycle controller: the single entry
// point that mutates a document's status and ledger together.
//
// Every mutation runs inside a per-document critical section spanning the
// read, the guard/bound evaluation and the persisted write, so two
// concurrent payments can never both pass the bound check against a stale
// aggregate. Requests against different documents do not contend.
type lifecycleService struct {
	documentRepo portsrepo.DocumentRepositoryFacade
	locks        *documentLocks
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(documentRepo portsrepo.DocumentRepositoryFacade) portssvc.LifecycleSvcFacade {
	return &lifecycleService{
		documentRepo: documentRepo,
		locks:        newDocumentLocks(),
	}
}

// Ensure lifecycleService implements the portssvc.LifecycleSvcFacade interface
var _ portssvc.LifecycleSvcFacade = (*lifecycleService)(nil)

// loadState reads the document and its full entry sequence. Callers must
// hold the document lock when the result feeds a mutation.
func (s *lifecycleService) loadState(ctx context.Context, documentID string) (*domain.Document, []domain.LedgerEntry, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.documentRepo.FindEntriesByDocumentID(ctx, documentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ledger entries for document %s: %w", documentID, err)
	}
	return doc, entries, nil
}

// RecordLedgerEvent appends a balance-affecting entry and applies any
// threshold-driven status promotion, atomically per document.
// Implements portssvc.LifecycleSvcFacade.
func (s *lifecycleService) RecordLedgerEvent(ctx context.Context, documentID string, req dto.LedgerEventRequest, userID string) (*dto.DocumentStateResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	lock := s.locks.acquire(documentID)
	defer lock.Unlock()

	doc, entries, err := s.loadState(ctx, documentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := domain.LedgerEntry{
		EntryID:         uuid.NewString(),
		DocumentID:      documentID,
		Kind:            domain.EntryKind(req.Kind),
		Amount:          req.Amount,
		Reference:       req.Reference,
		ReversesEntryID: req.ReversesEntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := domain.ValidateEntry(*doc, entries, entry); err != nil {
		logger.Warn("Ledger event rejected",
			slog.String("document_id", documentID),
			slog.String("kind", req.Kind),
			slog.String("error", err.Error()))
		return nil, err
	}

	updated := *doc
	agg := domain.ComputeAggregate(updated, append(append([]domain.LedgerEntry{}, entries...), entry))
	if next, changed := domain.InferStatus(updated, agg); changed {
		updated = domain.ApplyInferredStatus(updated, next, now)
		logger.Info("Status promoted from balance threshold",
			slog.String("document_id", documentID),
			slog.String("from", string(doc.Status)),
			slog.String("to", string(next)))
	} else {
		updated.LastUpdatedAt = now
		updated.LastUpdatedBy = userID
	}

	if err := s.documentRepo.SaveMutation(ctx, updated, &entry); err != nil {
		logger.Error("Failed to persist ledger mutation", slog.String("document_id", documentID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist ledger mutation for document %s: %w", documentID, err)
	}

	logger.Info("Ledger event recorded",
		slog.String("document_id", documentID),
		slog.String("entry_id", entry.EntryID),
		slog.String("kind", req.Kind),
		slog.String("status", string(updated.Status)))
	return dto.ToDocumentStateResponse(&updated, agg), nil
}

// ChangeStatus applies a user-requested status transition after guard
// evaluation, atomically per document.
// Implements portssvc.LifecycleSvcFacade.
func (s *lifecycleService) ChangeStatus(ctx context.Context, documentID string, req dto.StatusChangeRequest, userID string) (*dto.DocumentStateResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	target := domain.Status(req.TargetStatus)
	if target == "" {
		return nil, fmt.Errorf("%w: targetStatus is required", apperrors.ErrValidation)
	}

	lock := s.locks.acquire(documentID)
	defer lock.Unlock()

	doc, entries, err := s.loadState(ctx, documentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	agg := domain.ComputeAggregate(*doc, entries)
	opts := domain.TransitionOptions{Force: req.Force}

	updated, err := domain.ApplyTransition(*doc, agg, target, opts, now)
	if err != nil {
		logger.Warn("Status change rejected",
			slog.String("document_id", documentID),
			slog.String("from", string(doc.Status)),
			slog.String("to", string(target)),
			slog.String("error", err.Error()))
		return nil, err
	}
	updated.LastUpdatedBy = userID

	if err := s.documentRepo.SaveMutation(ctx, updated, nil); err != nil {
		logger.Error("Failed to persist status change", slog.String("document_id", documentID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist status change for document %s: %w", documentID, err)
	}

	logger.Info("Status changed",
		slog.String("document_id", documentID),
		slog.String("from", string(doc.Status)),
		slog.String("to", string(updated.Status)))
	return dto.ToDocumentStateResponse(&updated, agg), nil
}

// CanTransition answers whether a transition would currently succeed.
// Implements portssvc.LifecycleSvcFacade.
func (s *lifecycleService) CanTransition(ctx context.Context, documentID string, target domain.Status) (bool, string, error) {
	doc, entries, err := s.loadState(ctx, documentID)
	if err != nil {
		return false, "", err
	}
	agg := domain.ComputeAggregate(*doc, entries)
	allowed, reason := domain.CanTransition(*doc, agg, target, domain.TransitionOptions{})
	return allowed, reason, nil
}
