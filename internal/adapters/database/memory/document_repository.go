// Package memory provides an in-memory DocumentRepositoryFacade
// implementation for tests and local development.
package memory

import (
	"context"
	"sync"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/apperrors"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/core/domain"
	portsrepo "github.com/ralmosara/NetSuiteClone-sub001/internal/core/ports/repositories"
)

// DocumentRepository stores documents and their ledger entries in process
// memory. Entries are append-only slices; SaveMutation replaces the document
// row and appends the entry under one lock so status and ledger move
// together, matching the atomicity the pgsql adapter gets from a DB
// transaction.
type DocumentRepository struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	entries   map[string][]domain.LedgerEntry
}

// NewDocumentRepository creates an empty in-memory repository.
func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		documents: make(map[string]domain.Document),
		entries:   make(map[string][]domain.LedgerEntry),
	}
}

// Ensure DocumentRepository implements the repository facade
var _ portsrepo.DocumentRepositoryFacade = (*DocumentRepository)(nil)

// SaveDocument persists a new document.
func (r *DocumentRepository) SaveDocument(_ context.Context, doc domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.documents[doc.DocumentID]; exists {
		return apperrors.ErrDuplicate
	}
	r.documents[doc.DocumentID] = doc
	return nil
}

// SaveMutation persists the updated document and, when given, appends one
// ledger entry, atomically.
func (r *DocumentRepository) SaveMutation(_ context.Context, doc domain.Document, newEntry *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.documents[doc.DocumentID]; !exists {
		return apperrors.ErrNotFound
	}
	r.documents[doc.DocumentID] = doc
	if newEntry != nil {
		r.entries[doc.DocumentID] = append(r.entries[doc.DocumentID], *newEntry)
	}
	return nil
}

// FindDocumentByID retrieves a document by its ID.
func (r *DocumentRepository) FindDocumentByID(_ context.Context, documentID string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.documents[documentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments retrieves a page of documents, optionally filtered by type.
// Order is unspecified beyond being stable within a single process run.
func (r *DocumentRepository) ListDocuments(_ context.Context, docType *domain.DocumentType, limit int, offset int) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Document, 0, len(r.documents))
	for _, doc := range r.documents {
		if docType != nil && doc.DocumentType != *docType {
			continue
		}
		all = append(all, doc)
	}

	if offset >= len(all) {
		return []domain.Document{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// FindEntriesByDocumentID retrieves all entries for a document in append order.
func (r *DocumentRepository) FindEntriesByDocumentID(_ context.Context, documentID string) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.entries[documentID]
	out := make([]domain.LedgerEntry, len(entries))
	copy(out, entries)
	return out, nil
}
