package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/apperrors"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/core/domain"
	portssvc "github.com/ralmosara/NetSuiteClone-sub001/internal/core/ports/services"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/dto"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/middleware"
)

// documentHandler handles HTTP requests related to documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

// newDocumentHandler creates a new documentHandler.
func newDocumentHandler(ds portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{documentService: ds}
}

// registerDocumentRoutes registers routes related to documents.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("", h.listDocuments)
		documents.GET("/:documentID", h.getDocument)
		documents.GET("/:documentID/entries", h.listEntries)
	}
}

// createDocument godoc
// @Summary Create a new document
// @Description Creates a business document in its type's initial status with zero ledger entries
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   document body dto.CreateDocumentRequest true "Document details"
// @Success 201 {object} dto.DocumentStateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to create document"
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID := middleware.GetUserIDFromCtx(c.Request.Context())
	logger.Info("Received request to create document", slog.String("document_type", string(req.DocumentType)))

	state, err := h.documentService.CreateDocument(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating document", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create document in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document"})
		}
		return
	}

	logger.Info("Document created successfully", slog.String("document_id", state.Document.DocumentID))
	c.JSON(http.StatusCreated, state)
}

// getDocument godoc
// @Summary Get a document by ID
// @Description Retrieves a document together with its derived aggregate
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentStateResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to retrieve document"
// @Router /documents/{documentID} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	state, err := h.documentService.GetDocumentByID(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		logger.Error("Failed to get document from service", slog.String("error", err.Error()), slog.String("document_id", documentID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve document"})
		return
	}

	c.JSON(http.StatusOK, state)
}

// listDocuments godoc
// @Summary List documents
// @Description Retrieves a paginated list of documents, optionally filtered by type
// @Tags documents
// @Produce  json
// @Param   type query string false "Document type filter"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   offset query int false "Page offset"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 500 {object} map[string]string "Failed to list documents"
// @Router /documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var docType *domain.DocumentType
	if t := c.Query("type"); t != "" {
		dt := domain.DocumentType(t)
		docType = &dt
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.documentService.ListDocuments(c.Request.Context(), docType, limit, offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list documents", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listEntries godoc
// @Summary List a document's ledger entries
// @Description Retrieves the full append-only ledger history for a document
// @Tags documents
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Success 200 {array} dto.LedgerEntryResponse
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entries"
// @Router /documents/{documentID}/entries [get]
func (h *documentHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	entries, err := h.documentService.ListEntries(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		logger.Error("Failed to list ledger entries", slog.String("error", err.Error()), slog.String("document_id", documentID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
