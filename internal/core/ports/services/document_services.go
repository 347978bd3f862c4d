package services

import (
	"context"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/core/domain"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/dto"
)

// DocumentReaderSvc defines read operations for document data
type DocumentReaderSvc interface {
	// GetDocumentByID retrieves a document together with its derived aggregate.
	GetDocumentByID(ctx context.Context, documentID string) (*dto.DocumentStateResponse, error)

	// ListDocuments retrieves a paginated list of documents, optionally
	// filtered by type.
	ListDocuments(ctx context.Context, docType *domain.DocumentType, limit int, offset int) (*dto.ListDocumentsResponse, error)

	// ListEntries retrieves a document's full ledger history in append order.
	ListEntries(ctx context.Context, documentID string) ([]dto.LedgerEntryResponse, error)
}

// DocumentWriterSvc defines write operations for document data
type DocumentWriterSvc interface {
	// CreateDocument persists a new document in its type's initial status
	// with zero ledger entries. Totals are immutable from here on.
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*dto.DocumentStateResponse, error)
}

// DocumentSvcFacade combines all document-related service interfaces
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
}
