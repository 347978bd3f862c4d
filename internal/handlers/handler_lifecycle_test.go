package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/apperrors"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/core/domain"
	portssvc "github.com/ralmosara/NetSuiteClone-sub001/internal/core/ports/services"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/dto"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/handlers"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/middleware"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/platform/config"
)

// --- Mock DocumentService ---
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*dto.DocumentStateResponse, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DocumentStateResponse), args.Error(1)
}

func (m *MockDocumentService) GetDocumentByID(ctx context.Context, documentID string) (*dto.DocumentStateResponse, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DocumentStateResponse), args.Error(1)
}

func (m *MockDocumentService) ListDocuments(ctx context.Context, docType *domain.DocumentType, limit int, offset int) (*dto.ListDocumentsResponse, error) {
	args := m.Called(ctx, docType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListDocumentsResponse), args.Error(1)
}

func (m *MockDocumentService) ListEntries(ctx context.Context, documentID string) ([]dto.LedgerEntryResponse, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.LedgerEntryResponse), args.Error(1)
}

var _ portssvc.DocumentSvcFacade = (*MockDocumentService)(nil)

// --- Mock LifecycleService ---
type MockLifecycleService struct {
	mock.Mock
}

func (m *MockLifecycleService) RecordLedgerEvent(ctx context.Context, documentID string, req dto.LedgerEventRequest, userID string) (*dto.DocumentStateResponse, error) {
	args := m.Called(ctx, documentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DocumentStateResponse), args.Error(1)
}

func (m *MockLifecycleService) ChangeStatus(ctx context.Context, documentID string, req dto.StatusChangeRequest, userID string) (*dto.DocumentStateResponse, error) {
	args := m.Called(ctx, documentID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DocumentStateResponse), args.Error(1)
}

func (m *MockLifecycleService) CanTransition(ctx context.Context, documentID string, target domain.Status) (bool, string, error) {
	args := m.Called(ctx, documentID, target)
	return args.Bool(0), args.String(1), args.Error(2)
}

var _ portssvc.LifecycleSvcFacade = (*MockLifecycleService)(nil)

// --- Test Suite Setup ---

type LifecycleHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockDocuments *MockDocumentService
	mockLifecycle *MockLifecycleService
}

func (suite *LifecycleHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockDocuments = new(MockDocumentService)
	suite.mockLifecycle = new(MockLifecycleService)

	suite.router = gin.New()
	suite.router.Use(middleware.ActingUserMiddleware())

	cfg := &config.Config{IsProduction: true} // no swagger routes in tests
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Document:  suite.mockDocuments,
		Lifecycle: suite.mockLifecycle,
	})
}

func (suite *LifecycleHandlerTestSuite) postJSON(path string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "tester")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func stateResponse(docID string, status domain.Status) *dto.DocumentStateResponse {
	return &dto.DocumentStateResponse{
		Document: dto.DocumentResponse{
			DocumentID: docID,
			Status:     string(status),
		},
	}
}

// --- Test Cases ---

func (suite *LifecycleHandlerTestSuite) TestRecordLedgerEvent_Success() {
	expected := stateResponse("doc-1", domain.StatusPartiallyPaid)
	suite.mockLifecycle.On("RecordLedgerEvent", mock.Anything, "doc-1", mock.AnythingOfType("dto.LedgerEventRequest"), "tester").
		Return(expected, nil).Once()

	w := suite.postJSON("/api/v1/documents/doc-1/events", dto.LedgerEventRequest{
		Kind:   string(domain.EntryPayment),
		Amount: decimal.NewFromInt(600),
	})

	suite.Equal(http.StatusOK, w.Code)
	var got dto.DocumentStateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(string(domain.StatusPartiallyPaid), got.Document.Status)
	suite.mockLifecycle.AssertExpectations(suite.T())
}

func (suite *LifecycleHandlerTestSuite) TestRecordLedgerEvent_InvalidKindRejectedByBinding() {
	w := suite.postJSON("/api/v1/documents/doc-1/events", map[string]any{
		"kind":   "REFUND",
		"amount": "10",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLifecycle.AssertNotCalled(suite.T(), "RecordLedgerEvent")
}

func (suite *LifecycleHandlerTestSuite) TestRecordLedgerEvent_ErrorMapping() {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, ""},
		{"terminal document", fmt.Errorf("%w: document is CLOSED", apperrors.ErrDocumentTerminal), http.StatusConflict, "DOCUMENT_TERMINAL"},
		{"invalid transition", fmt.Errorf("%w: wrong status", apperrors.ErrInvalidTransition), http.StatusUnprocessableEntity, "INVALID_TRANSITION"},
		{"balance bound", fmt.Errorf("%w: overpaid", apperrors.ErrBalanceBound), http.StatusUnprocessableEntity, "BALANCE_BOUND_VIOLATION"},
		{"validation", fmt.Errorf("%w: bad amount", apperrors.ErrValidation), http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			suite.mockLifecycle.On("RecordLedgerEvent", mock.Anything, "doc-1", mock.AnythingOfType("dto.LedgerEventRequest"), "tester").
				Return(nil, tt.serviceErr).Once()

			w := suite.postJSON("/api/v1/documents/doc-1/events", dto.LedgerEventRequest{
				Kind:   string(domain.EntryPayment),
				Amount: decimal.NewFromInt(600),
			})

			suite.Equal(tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				var body map[string]string
				suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
				suite.Equal(tt.wantCode, body["code"])
			}
		})
	}
}

func (suite *LifecycleHandlerTestSuite) TestChangeStatus_Success() {
	expected := stateResponse("doc-1", domain.StatusApproved)
	suite.mockLifecycle.On("ChangeStatus", mock.Anything, "doc-1", dto.StatusChangeRequest{TargetStatus: "APPROVED"}, "tester").
		Return(expected, nil).Once()

	w := suite.postJSON("/api/v1/documents/doc-1/transitions", dto.StatusChangeRequest{TargetStatus: "APPROVED"})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLifecycle.AssertExpectations(suite.T())
}

func (suite *LifecycleHandlerTestSuite) TestChangeStatus_GuardFailure() {
	suite.mockLifecycle.On("ChangeStatus", mock.Anything, "doc-1", mock.AnythingOfType("dto.StatusChangeRequest"), "tester").
		Return(nil, fmt.Errorf("%w: document cannot be cancelled once receipts exist", apperrors.ErrInvalidTransition)).Once()

	w := suite.postJSON("/api/v1/documents/doc-1/transitions", dto.StatusChangeRequest{TargetStatus: "CANCELLED"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Contains(body["error"], "receipts exist")
}

func (suite *LifecycleHandlerTestSuite) TestChangeStatus_UnknownStatusRejectedByBinding() {
	w := suite.postJSON("/api/v1/documents/doc-1/transitions", map[string]any{"targetStatus": "ARCHIVED"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLifecycle.AssertNotCalled(suite.T(), "ChangeStatus")
}

func (suite *LifecycleHandlerTestSuite) TestCreateDocument_Success() {
	expected := stateResponse("doc-1", domain.StatusDraft)
	suite.mockDocuments.On("CreateDocument", mock.Anything, mock.AnythingOfType("dto.CreateDocumentRequest"), "tester").
		Return(expected, nil).Once()

	w := suite.postJSON("/api/v1/documents", dto.CreateDocumentRequest{
		DocumentType:    domain.PurchaseOrder,
		OrderedQuantity: decimal.NewFromInt(10),
	})

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockDocuments.AssertExpectations(suite.T())
}

func (suite *LifecycleHandlerTestSuite) TestCreateDocument_UnknownTypeRejectedByBinding() {
	w := suite.postJSON("/api/v1/documents", map[string]any{
		"documentType": "TIMESHEET",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDocuments.AssertNotCalled(suite.T(), "CreateDocument")
}

func TestLifecycleHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleHandlerTestSuite))
}
