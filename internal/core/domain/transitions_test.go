package domain_test

import (
	"testing"
	"time"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/apperrors"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(docType domain.DocumentType, status domain.Status) domain.Document {
	return domain.Document{
		DocumentID:   "doc-1",
		DocumentType: docType,
		Status:       status,
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		doc     domain.Document
		agg     domain.Aggregate
		target  domain.Status
		opts    domain.TransitionOptions
		want    bool
	}{
		{
			name:   "purchase order draft to pending approval",
			doc:    newDoc(domain.PurchaseOrder, domain.StatusDraft),
			target: domain.StatusPendingApproval,
			want:   true,
		},
		{
			name:   "purchase order draft straight to approved",
			doc:    newDoc(domain.PurchaseOrder, domain.StatusDraft),
			target: domain.StatusApproved,
			want:   true,
		},
		{
			name:   "purchase order draft to sent skips approval",
			doc:    newDoc(domain.PurchaseOrder, domain.StatusDraft),
			target: domain.StatusSent,
			want:   false,
		},
		{
			name:   "purchase order cancel with zero receipts",
			doc:    newDoc(domain.PurchaseOrder, domain.StatusSent),
			target: domain.StatusCancelled,
			want:   true,
		},
		{
			name:   "purchase order cancel blocked once receipts exist",
			doc:    newDoc(domain.PurchaseOrder, domain.StatusSent),
			agg:    domain.Aggregate{QuantityReceived: decimal.NewFromInt(1)},
			target: domain.StatusCancelled,
			want:   false,
		},
		{
			name: "purchase order close requires full receipt",
			doc: func() domain.Document {
				d := newDoc(domain.PurchaseOrder, domain.StatusPartiallyReceived)
				d.OrderedQuantity = decimal.NewFromInt(10)
				return d
			}(),
			agg:    domain.Aggregate{QuantityReceived: decimal.NewFromInt(4)},
			target: domain.StatusClosed,
			want:   false,
		},
		{
			name: "purchase order close forced before full receipt",
			doc: func() domain.Document {
				d := newDoc(domain.PurchaseOrder, domain.StatusPartiallyReceived)
				d.OrderedQuantity = decimal.NewFromInt(10)
				return d
			}(),
			agg:    domain.Aggregate{QuantityReceived: decimal.NewFromInt(4)},
			target: domain.StatusClosed,
			opts:   domain.TransitionOptions{Force: true},
			want:   true,
		},
		{
			name:   "threshold status is not a requestable target",
			doc:    newDoc(domain.PurchaseOrder, domain.StatusApproved),
			target: domain.StatusPartiallyReceived,
			want:   false,
		},
		{
			name:   "work order planned to released",
			doc:    newDoc(domain.WorkOrder, domain.StatusPlanned),
			target: domain.StatusReleased,
			want:   true,
		},
		{
			name:   "work order planned straight to in progress",
			doc:    newDoc(domain.WorkOrder, domain.StatusPlanned),
			target: domain.StatusInProgress,
			want:   true,
		},
		{
			name:   "invoice void blocked by unreversed payments",
			doc:    newDoc(domain.Invoice, domain.StatusPartiallyPaid),
			agg:    domain.Aggregate{AmountPaid: decimal.NewFromInt(50)},
			target: domain.StatusVoid,
			want:   false,
		},
		{
			name:   "invoice void after payments reversed",
			doc:    newDoc(domain.Invoice, domain.StatusOpen),
			agg:    domain.Aggregate{AmountPaid: decimal.Zero},
			target: domain.StatusVoid,
			want:   true,
		},
		{
			name:   "paid invoice may be voided once reversals zero the balance",
			doc:    newDoc(domain.Invoice, domain.StatusPaid),
			agg:    domain.Aggregate{AmountPaid: decimal.Zero},
			target: domain.StatusVoid,
			want:   true,
		},
		{
			name:   "support case on hold resumes",
			doc:    newDoc(domain.SupportCase, domain.StatusOnHold),
			target: domain.StatusInProgress,
			want:   true,
		},
		{
			name:   "support case on hold cannot close directly",
			doc:    newDoc(domain.SupportCase, domain.StatusOnHold),
			target: domain.StatusClosed,
			want:   false,
		},
		{
			name:   "closed document accepts nothing",
			doc:    newDoc(domain.SupportCase, domain.StatusClosed),
			target: domain.StatusOpen,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := domain.CanTransition(tt.doc, tt.agg, tt.target, tt.opts)
			assert.Equal(t, tt.want, got)
			if !tt.want {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestApplyTransition_Effects(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("approval stamps ApprovedAt", func(t *testing.T) {
		doc := newDoc(domain.PurchaseOrder, domain.StatusPendingApproval)
		updated, err := domain.ApplyTransition(doc, domain.Aggregate{}, domain.StatusApproved, domain.TransitionOptions{}, now)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, updated.Status)
		require.NotNil(t, updated.ApprovedAt)
		assert.Equal(t, now, *updated.ApprovedAt)
		assert.Equal(t, now, updated.LastUpdatedAt)
	})

	t.Run("starting production stamps ActualStartAt", func(t *testing.T) {
		doc := newDoc(domain.WorkOrder, domain.StatusReleased)
		updated, err := domain.ApplyTransition(doc, domain.Aggregate{}, domain.StatusInProgress, domain.TransitionOptions{}, now)
		require.NoError(t, err)
		require.NotNil(t, updated.ActualStartAt)
		assert.Equal(t, now, *updated.ActualStartAt)
	})

	t.Run("cancellation stamps ClosedAt", func(t *testing.T) {
		doc := newDoc(domain.PurchaseOrder, domain.StatusDraft)
		updated, err := domain.ApplyTransition(doc, domain.Aggregate{}, domain.StatusCancelled, domain.TransitionOptions{}, now)
		require.NoError(t, err)
		require.NotNil(t, updated.ClosedAt)
		assert.Equal(t, now, *updated.ClosedAt)
	})

	t.Run("input document is unchanged on failure", func(t *testing.T) {
		doc := newDoc(domain.PurchaseOrder, domain.StatusDraft)
		updated, err := domain.ApplyTransition(doc, domain.Aggregate{}, domain.StatusSent, domain.TransitionOptions{}, now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		assert.Equal(t, doc, updated)
	})

	t.Run("terminal document returns ErrDocumentTerminal", func(t *testing.T) {
		doc := newDoc(domain.Invoice, domain.StatusVoid)
		_, err := domain.ApplyTransition(doc, domain.Aggregate{}, domain.StatusOpen, domain.TransitionOptions{}, now)
		assert.ErrorIs(t, err, apperrors.ErrDocumentTerminal)
	})
}

func TestApplyInferredStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	doc := newDoc(domain.WorkOrder, domain.StatusInProgress)
	updated := domain.ApplyInferredStatus(doc, domain.StatusCompleted, now)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, now, *updated.CompletedAt)

	inv := newDoc(domain.Invoice, domain.StatusPartiallyPaid)
	updated = domain.ApplyInferredStatus(inv, domain.StatusPaid, now)
	assert.Equal(t, domain.StatusPaid, updated.Status)
	assert.Nil(t, updated.CompletedAt)
}
