package repositories

import (
	"context"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/core/domain"
)

// DocumentReader defines read operations for document data
type DocumentReader interface {
	// FindDocumentByID retrieves a specific document by its unique identifier.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// ListDocuments retrieves a paginated list of documents, optionally
	// filtered by document type.
	ListDocuments(ctx context.Context, docType *domain.DocumentType, limit int, offset int) ([]domain.Document, error)
}

// DocumentWriter defines write operations for document data
type DocumentWriter interface {
	// SaveDocument persists a new document.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// SaveMutation persists an updated document together with an optional
	// newly appended ledger entry as one atomic unit. It is the only write
	// path the lifecycle controller uses; status and ledger can never be
	// persisted out of step with each other.
	SaveMutation(ctx context.Context, doc domain.Document, newEntry *domain.LedgerEntry) error
}

// LedgerEntryReader defines read operations for ledger entry data
type LedgerEntryReader interface {
	// FindEntriesByDocumentID retrieves all ledger entries for a document in
	// chronological append order. The fold over this sequence is the
	// authoritative balance.
	FindEntriesByDocumentID(ctx context.Context, documentID string) ([]domain.LedgerEntry, error)
}

// DocumentRepositoryFacade combines all document-related repository interfaces.
// This is a facade for clients that need access to all operations.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
	LedgerEntryReader
}
