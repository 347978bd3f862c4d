package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ralmosara/NetSuiteClone-sub001/internal/apperrors"
	"github.com/ralmosara/NetSuiteClone-sub001/internal/core/domain"
	portsrepo "github.com/ralmosara/NetSuiteClone-sub001/internal/core/ports/repositories"
)

// PgxDocumentRepository persists documents and their ledger entries in
// PostgreSQL. Ledger entries are insert-only; nothing ever updates or
// deletes a row in ledger_entries.
type PgxDocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new repository for document and ledger data.
func NewDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{pool: pool}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const documentColumns = `
	document_id, document_type, status, reference, description, currency_code,
	total_amount, ordered_quantity, planned_quantity,
	approved_at, actual_start_at, completed_at, closed_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	err := row.Scan(
		&doc.DocumentID,
		&doc.DocumentType,
		&doc.Status,
		&doc.Reference,
		&doc.Description,
		&doc.CurrencyCode,
		&doc.TotalAmount,
		&doc.OrderedQuantity,
		&doc.PlannedQuantity,
		&doc.ApprovedAt,
		&doc.ActualStartAt,
		&doc.CompletedAt,
		&doc.ClosedAt,
		&doc.CreatedAt,
		&doc.CreatedBy,
		&doc.LastUpdatedAt,
		&doc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// SaveDocument persists a new document.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.pool.Exec(ctx, query,
		doc.DocumentID,
		doc.DocumentType,
		doc.Status,
		doc.Reference,
		doc.Description,
		doc.CurrencyCode,
		doc.TotalAmount,
		doc.OrderedQuantity,
		doc.PlannedQuantity,
		doc.ApprovedAt,
		doc.ActualStartAt,
		doc.CompletedAt,
		doc.ClosedAt,
		doc.CreatedAt,
		doc.CreatedBy,
		doc.LastUpdatedAt,
		doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document %s: %w", doc.DocumentID, err)
	}
	return nil
}

// SaveMutation persists the updated document row and, when given, the newly
// appended ledger entry within one DB transaction. The row is re-locked with
// FOR UPDATE so the status/ledger pair can never be written out of step even
// if another process bypasses the in-process document lock.
func (r *PgxDocumentRepository) SaveMutation(ctx context.Context, doc domain.Document, newEntry *domain.LedgerEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore rollback error
	}()

	var existingID string
	err = tx.QueryRow(ctx, `SELECT document_id FROM documents WHERE document_id = $1 FOR UPDATE;`, doc.DocumentID).Scan(&existingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock document %s: %w", doc.DocumentID, err)
	}

	updateQuery := `
		UPDATE documents
		SET status = $2,
		    approved_at = $3,
		    actual_start_at = $4,
		    completed_at = $5,
		    closed_at = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE document_id = $1;
	`
	_, err = tx.Exec(ctx, updateQuery,
		doc.DocumentID,
		doc.Status,
		doc.ApprovedAt,
		doc.ActualStartAt,
		doc.CompletedAt,
		doc.ClosedAt,
		doc.LastUpdatedAt,
		doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", doc.DocumentID, err)
	}

	if newEntry != nil {
		entryQuery := `
			INSERT INTO ledger_entries (entry_id, document_id, kind, amount, reference, reverses_entry_id, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`
		_, err = tx.Exec(ctx, entryQuery,
			newEntry.EntryID,
			newEntry.DocumentID,
			newEntry.Kind,
			newEntry.Amount,
			newEntry.Reference,
			newEntry.ReversesEntryID,
			newEntry.CreatedAt,
			newEntry.CreatedBy,
			newEntry.LastUpdatedAt,
			newEntry.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ledger entry for document %s: %w", doc.DocumentID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit mutation for document %s: %w", doc.DocumentID, err)
	}
	return nil
}

// FindDocumentByID retrieves a document by its ID.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1;`
	doc, err := scanDocument(r.pool.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document by ID %s: %w", documentID, err)
	}
	return doc, nil
}

// ListDocuments retrieves a page of documents, newest first, optionally
// filtered by document type.
func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, docType *domain.DocumentType, limit int, offset int) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	args := []any{}
	if docType != nil {
		query += ` WHERE document_type = $1`
		args = append(args, *docType)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	documents := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		documents = append(documents, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}
	return documents, nil
}

// FindEntriesByDocumentID retrieves all ledger entries for a document in
// append order. The fold over this sequence is the authoritative balance.
func (r *PgxDocumentRepository) FindEntriesByDocumentID(ctx context.Context, documentID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT entry_id, document_id, kind, amount, reference, reverses_entry_id, created_at, created_by, last_updated_at, last_updated_by
		FROM ledger_entries
		WHERE document_id = $1
		ORDER BY created_at, entry_id;
	`
	rows, err := r.pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for document %s: %w", documentID, err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(
			&e.EntryID,
			&e.DocumentID,
			&e.Kind,
			&e.Amount,
			&e.Reference,
			&e.ReversesEntryID,
			&e.CreatedAt,
			&e.CreatedBy,
			&e.LastUpdatedAt,
			&e.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}
	return entries, nil
}
