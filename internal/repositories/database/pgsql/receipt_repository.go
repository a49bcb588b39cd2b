package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juanbartrock/gastos_receipts_backend/internal/apperrors"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portsrepo "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/repositories"
	"github.com/juanbartrock/gastos_receipts_backend/internal/models"
	"github.com/juanbartrock/gastos_receipts_backend/internal/utils/mapping"
)

type PgxReceiptRepository struct {
	BaseRepository
}

// newPgxReceiptRepository creates a new repository for pending receipt data.
func newPgxReceiptRepository(pool *pgxpool.Pool) portsrepo.ReceiptRepositoryFacade {
	return &PgxReceiptRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReceiptRepositoryFacade = (*PgxReceiptRepository)(nil)

// SaveReceipt persists a newly classified receipt.
func (r *PgxReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.PendingReceipt) error {
	modelReceipt := mapping.ToModelReceipt(receipt)
	query := `
		INSERT INTO pending_receipts (
			receipt_id, user_id, file_name, content, category, confidence, metadata, status, uploaded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelReceipt.ReceiptID,
		modelReceipt.UserID,
		modelReceipt.FileName,
		modelReceipt.Content,
		modelReceipt.Category,
		modelReceipt.Confidence,
		modelReceipt.Metadata,
		modelReceipt.Status,
		modelReceipt.UploadedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: receipt %s", apperrors.ErrDuplicate, modelReceipt.ReceiptID)
		}
		return fmt.Errorf("failed to insert receipt %s: %w", modelReceipt.ReceiptID, err)
	}
	return nil
}

// FindReceiptByID retrieves a receipt by its unique identifier.
func (r *PgxReceiptRepository) FindReceiptByID(ctx context.Context, receiptID string) (*domain.PendingReceipt, error) {
	query := `
		SELECT receipt_id, user_id, file_name, content, category, confidence, metadata, status, uploaded_at
		FROM pending_receipts
		WHERE receipt_id = $1;
	`
	var modelReceipt models.PendingReceipt
	err := r.Pool.QueryRow(ctx, query, receiptID).Scan(
		&modelReceipt.ReceiptID,
		&modelReceipt.UserID,
		&modelReceipt.FileName,
		&modelReceipt.Content,
		&modelReceipt.Category,
		&modelReceipt.Confidence,
		&modelReceipt.Metadata,
		&modelReceipt.Status,
		&modelReceipt.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find receipt by ID %s: %w", receiptID, err)
	}

	domainReceipt := mapping.ToDomainReceipt(modelReceipt)
	return &domainReceipt, nil
}

// ListReceiptsByUser retrieves the user's receipts, newest first, optionally filtered by
// lifecycle status (empty status means all).
func (r *PgxReceiptRepository) ListReceiptsByUser(ctx context.Context, userID string, status domain.ReceiptStatus) ([]domain.PendingReceipt, error) {
	query := `
		SELECT receipt_id, user_id, file_name, content, category, confidence, metadata, status, uploaded_at
		FROM pending_receipts
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY uploaded_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts for user %s: %w", userID, err)
	}
	defer rows.Close()

	receipts := []domain.PendingReceipt{}
	for rows.Next() {
		var modelReceipt models.PendingReceipt
		if err := rows.Scan(
			&modelReceipt.ReceiptID,
			&modelReceipt.UserID,
			&modelReceipt.FileName,
			&modelReceipt.Content,
			&modelReceipt.Category,
			&modelReceipt.Confidence,
			&modelReceipt.Metadata,
			&modelReceipt.Status,
			&modelReceipt.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan receipt row: %w", err)
		}
		receipts = append(receipts, mapping.ToDomainReceipt(modelReceipt))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipt rows: %w", err)
	}
	return receipts, nil
}

// MarkReceiptDiscarded transitions a pending receipt to discarded. The status guard in
// the WHERE clause enforces the single-transition invariant.
func (r *PgxReceiptRepository) MarkReceiptDiscarded(ctx context.Context, receiptID string) error {
	query := `
		UPDATE pending_receipts
		SET status = $1
		WHERE receipt_id = $2 AND status = $3;
	`
	tag, err := r.Pool.Exec(ctx, query, string(domain.ReceiptDiscarded), receiptID, string(domain.ReceiptPending))
	if err != nil {
		return fmt.Errorf("failed to discard receipt %s: %w", receiptID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: receipt %s is not pending", apperrors.ErrConflict, receiptID)
	}
	return nil
}
