package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/apperrors"
	portssvc "github.com/ralmosara/NetSuiteClone-sub001/internal/core/ports/services"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/dto"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/middleware"
)

// lifecycleHandler handles HTTP requests that mutate a document's status or
// ledger. Error mapping follows the engine taxonomy: guard and graph
// failures are 422, bound violations 422, terminal documents 409, unknown
// ids 404. Reason strings from the engine are surfaced verbatim.
type lifecycleHandler struct {
	lifecycleService portssvc.LifecycleSvcFacade
}

// newLifecycleHandler creates a new lifecycleHandler.
func newLifecycleHandler(ls portssvc.LifecycleSvcFacade) *lifecycleHandler {
	return &lifecycleHandler{lifecycleService: ls}
}

// registerLifecycleRoutes registers the mutation routes for documents.
func registerLifecycleRoutes(rg *gin.RouterGroup, lifecycleService portssvc.LifecycleSvcFacade) {
	h := newLifecycleHandler(lifecycleService)

	documents := rg.Group("/documents")
	{
		documents.POST("/:documentID/events", h.recordLedgerEvent)
		documents.POST("/:documentID/transitions", h.changeStatus)
	}
}

// respondLifecycleError maps engine errors to HTTP statuses.
func respondLifecycleError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
	case errors.Is(err, apperrors.ErrDocumentTerminal):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "DOCUMENT_TERMINAL"})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": "INVALID_TRANSITION"})
	case errors.Is(err, apperrors.ErrBalanceBound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": "BALANCE_BOUND_VIOLATION"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Lifecycle mutation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply document mutation"})
	}
}

// recordLedgerEvent godoc
// @Summary Record a ledger event against a document
// @Description Appends a balance-affecting entry (payment, reversal, receipt, completion, scrap), recomputes the aggregate and applies any threshold-driven status promotion
// @Tags lifecycle
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   event body dto.LedgerEventRequest true "Ledger event"
// @Success 200 {object} dto.DocumentStateResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is terminal"
// @Failure 422 {object} map[string]string "Invalid transition or balance bound violation"
// @Router /documents/{documentID}/events [post]
func (h *lifecycleHandler) recordLedgerEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	var req dto.LedgerEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordLedgerEvent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := middleware.GetUserIDFromCtx(c.Request.Context())
	state, err := h.lifecycleService.RecordLedgerEvent(c.Request.Context(), documentID, req, userID)
	if err != nil {
		respondLifecycleError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// changeStatus godoc
// @Summary Request a status transition for a document
// @Description Applies a guarded status transition; guards may read the document's derived aggregate
// @Tags lifecycle
// @Accept  json
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Param   transition body dto.StatusChangeRequest true "Requested transition"
// @Success 200 {object} dto.DocumentStateResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is terminal"
// @Failure 422 {object} map[string]string "Invalid transition"
// @Router /documents/{documentID}/transitions [post]
func (h *lifecycleHandler) changeStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	var req dto.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ChangeStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := middleware.GetUserIDFromCtx(c.Request.Context())
	state, err := h.lifecycleService.ChangeStatus(c.Request.Context(), documentID, req, userID)
	if err != nil {
		respondLifecycleError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, state)
}
