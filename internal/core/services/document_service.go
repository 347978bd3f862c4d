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

// documentService provides document creation and read operations. All
// lifecycle mutations go through lifecycleService instead.
type documentService struct {
	documentRepo portsrepo.DocumentRepositoryFacade
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(documentRepo portsrepo.DocumentRepositoryFacade) portssvc.DocumentSvcFacade {
	return &documentService{documentRepo: documentRepo}
}

// Ensure documentService implements the portssvc.DocumentSvcFacade interface
var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// validateTotals checks that the total relevant to the document type is set
// and positive, and that irrelevant totals are left at zero.
func validateTotals(req dto.CreateDocumentRequest) error {
	switch req.DocumentType {
	case domain.PurchaseOrder:
		if !req.OrderedQuantity.IsPositive() {
			return fmt.Errorf("%w: orderedQuantity must be positive for a purchase order", apperrors.ErrValidation)
		}
	case domain.WorkOrder:
		if !req.PlannedQuantity.IsPositive() {
			return fmt.Errorf("%w: plannedQuantity must be positive for a work order", apperrors.ErrValidation)
		}
	case domain.Invoice:
		if !req.TotalAmount.IsPositive() {
			return fmt.Errorf("%w: totalAmount must be positive for an invoice", apperrors.ErrValidation)
		}
		if req.CurrencyCode == "" {
			return fmt.Errorf("%w: currencyCode is required for an invoice", apperrors.ErrValidation)
		}
	case domain.SalesOrder:
		if req.TotalAmount.IsNegative() {
			return fmt.Errorf("%w: totalAmount must not be negative for a sales order", apperrors.ErrValidation)
		}
	case domain.SupportCase:
		if !req.TotalAmount.IsZero() || !req.OrderedQuantity.IsZero() || !req.PlannedQuantity.IsZero() {
			return fmt.Errorf("%w: support cases carry no totals", apperrors.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown document type %s", apperrors.ErrValidation, req.DocumentType)
	}
	return nil
}

// CreateDocument creates a new document in its initial status with zero
// ledger entries. Implements portssvc.DocumentWriterSvc.
func (s *documentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*dto.DocumentStateResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.ValidDocumentType(req.DocumentType) {
		return nil, fmt.Errorf("%w: unknown document type %s", apperrors.ErrValidation, req.DocumentType)
	}
	if err := validateTotals(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := domain.Document{
		DocumentID:      uuid.NewString(),
		DocumentType:    req.DocumentType,
		Status:          domain.InitialStatus(req.DocumentType),
		Reference:       req.Reference,
		Description:     req.Description,
		CurrencyCode:    req.CurrencyCode,
		TotalAmount:     req.TotalAmount,
		OrderedQuantity: req.OrderedQuantity,
		PlannedQuantity: req.PlannedQuantity,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.documentRepo.SaveDocument(ctx, doc); err != nil {
		logger.Error("Failed to save document", slog.String("error", err.Error()), slog.String("document_type", string(req.DocumentType)))
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	logger.Info("Document created", slog.String("document_id", doc.DocumentID), slog.String("document_type", string(doc.DocumentType)))
	return dto.ToDocumentStateResponse(&doc, domain.ComputeAggregate(doc, nil)), nil
}

// GetDocumentByID retrieves a document and its derived aggregate.
// Implements portssvc.DocumentReaderSvc.
func (s *documentService) GetDocumentByID(ctx context.Context, documentID string) (*dto.DocumentStateResponse, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	entries, err := s.documentRepo.FindEntriesByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries for document %s: %w", documentID, err)
	}
	return dto.ToDocumentStateResponse(doc, domain.ComputeAggregate(*doc, entries)), nil
}

// ListDocuments retrieves a page of documents, optionally filtered by type.
// Implements portssvc.DocumentReaderSvc.
func (s *documentService) ListDocuments(ctx context.Context, docType *domain.DocumentType, limit int, offset int) (*dto.ListDocumentsResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if docType != nil && !domain.ValidDocumentType(*docType) {
		return nil, fmt.Errorf("%w: unknown document type %s", apperrors.ErrValidation, *docType)
	}

	docs, err := s.documentRepo.ListDocuments(ctx, docType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	resp := &dto.ListDocumentsResponse{Documents: make([]dto.DocumentResponse, len(docs))}
	for i := range docs {
		resp.Documents[i] = dto.ToDocumentResponse(&docs[i])
	}
	return resp, nil
}

// ListEntries retrieves a document's ledger history in append order.
// Implements portssvc.DocumentReaderSvc.
func (s *documentService) ListEntries(ctx context.Context, documentID string) ([]dto.LedgerEntryResponse, error) {
	if _, err := s.documentRepo.FindDocumentByID(ctx, documentID); err != nil {
		return nil, err
	}
	entries, err := s.documentRepo.FindEntriesByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries for document %s: %w", documentID, err)
	}
	return dto.ToLedgerEntryResponses(entries), nil
}
