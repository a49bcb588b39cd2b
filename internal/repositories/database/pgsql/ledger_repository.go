package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/juanbartrock/gastos_receipts_backend/internal/apperrors"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portsrepo "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/repositories"
	"github.com/juanbartrock/gastos_receipts_backend/internal/models"
	"github.com/juanbartrock/gastos_receipts_backend/internal/utils/mapping"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger entries and the confirm
// transaction.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// ConfirmLedgerEntry runs the canonical confirm transaction. Order matters: the transfer
// artifact is created before the entry and back-linked after it, the obligation sum is
// re-read under a row lock so concurrent confirmations cannot double-count, and the
// receipt status flip is guarded so a receipt confirms at most once. Any failure rolls
// the whole transaction back.
func (r *PgxLedgerRepository) ConfirmLedgerEntry(ctx context.Context, write portsrepo.ConfirmLedgerWrite) (*portsrepo.ConfirmLedgerResult, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	// 1. Resolve the fixed system category.
	var categoryID string
	err = tx.QueryRow(ctx, `SELECT category_id FROM categories WHERE name = $1;`, write.CategoryName).Scan(&categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrCategoryMissing, write.CategoryName)
		}
		return nil, fmt.Errorf("failed to resolve category %s: %w", write.CategoryName, err)
	}

	entry := write.Entry
	entry.CategoryID = categoryID

	// 2. For transfers, the artifact row is created first, without its back-link.
	if write.Artifact != nil {
		artifactQuery := `
			INSERT INTO transfer_artifacts (
				artifact_id, ledger_entry_id, origin_bank, destination_bank, origin_account,
				destination_account, destination_name, concept, operation_number, created_at
			)
			VALUES ($1, NULL, $2, $3, $4, $5, $6, $7, $8, $9);
		`
		_, err = tx.Exec(ctx, artifactQuery,
			write.Artifact.ArtifactID,
			write.Artifact.OriginBank,
			write.Artifact.DestinationBank,
			write.Artifact.OriginAccount,
			write.Artifact.DestinationAccount,
			write.Artifact.DestinationName,
			write.Artifact.Concept,
			write.Artifact.OperationNumber,
			write.Artifact.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert transfer artifact %s: %w", write.Artifact.ArtifactID, err)
		}
	}

	// 3. Insert the ledger entry.
	modelEntry := mapping.ToModelEntry(entry)
	entryQuery := `
		INSERT INTO ledger_entries (
			entry_id, user_id, amount, concept, entry_date, category_id, movement_channel,
			recurring_obligation_id, receipt_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.UserID,
		modelEntry.Amount,
		modelEntry.Concept,
		modelEntry.EntryDate,
		modelEntry.CategoryID,
		modelEntry.MovementChannel,
		modelEntry.ObligationID,
		modelEntry.ReceiptID,
		modelEntry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ledger entry %s: %w", modelEntry.EntryID, err)
	}

	// 4. Back-link the artifact to the entry it generated.
	if write.Artifact != nil {
		_, err = tx.Exec(ctx,
			`UPDATE transfer_artifacts SET ledger_entry_id = $1 WHERE artifact_id = $2;`,
			entry.EntryID, write.Artifact.ArtifactID)
		if err != nil {
			return nil, fmt.Errorf("failed to back-link transfer artifact %s: %w", write.Artifact.ArtifactID, err)
		}
	}

	// 5. Insert statement line items in one batch.
	if len(write.Items) > 0 {
		batch := &pgx.Batch{}
		itemQuery := `
			INSERT INTO ledger_entry_items (item_id, entry_id, description, amount, item_date)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''));
		`
		for _, item := range write.Items {
			batch.Queue(itemQuery, item.ItemID, entry.EntryID, item.Description, item.Amount, item.ItemDate)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, fmt.Errorf("failed to insert ledger entry items for entry %s: %w", entry.EntryID, err)
		}
	}

	result := &portsrepo.ConfirmLedgerResult{
		Entry:    entry,
		Artifact: write.Artifact,
		Items:    write.Items,
	}
	if result.Artifact != nil {
		result.Artifact.LedgerEntryID = entry.EntryID
	}

	// 6. Recompute the linked obligation's fulfillment state under a row lock.
	if write.ObligationID != nil {
		obligation, err := r.recomputeObligationInTx(ctx, tx, *write.ObligationID, entry.CreatedAt)
		if err != nil {
			return nil, err
		}
		result.Obligation = obligation
	}

	// 7. Flip the receipt to confirmed; the status guard makes confirmation one-shot.
	tag, err := tx.Exec(ctx,
		`UPDATE pending_receipts SET status = $1 WHERE receipt_id = $2 AND status = $3;`,
		string(domain.ReceiptConfirmed), write.ReceiptID, string(domain.ReceiptPending))
	if err != nil {
		return nil, fmt.Errorf("failed to confirm receipt %s: %w", write.ReceiptID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: receipt %s is not pending", apperrors.ErrConflict, write.ReceiptID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return result, nil
}

// recomputeObligationInTx locks the obligation row, re-reads the cumulative sum of its
// linked entries (including the one just inserted) and derives the new state from it.
func (r *PgxLedgerRepository) recomputeObligationInTx(ctx context.Context, tx pgx.Tx, obligationID string, now time.Time) (*domain.RecurringObligation, error) {
	lockQuery := `
		SELECT obligation_id, user_id, concept, expected_amount, status, COALESCE(category_id, '') AS category_id,
		       last_fulfilled_at, created_at, created_by, last_updated_at, last_updated_by
		FROM recurring_obligations
		WHERE obligation_id = $1
		FOR UPDATE;
	`
	modelObligation, err := scanObligation(tx.QueryRow(ctx, lockQuery, obligationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: obligation %s", apperrors.ErrNotFound, obligationID)
		}
		return nil, fmt.Errorf("failed to lock obligation %s: %w", obligationID, err)
	}

	var linkedSum decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE recurring_obligation_id = $1;`,
		obligationID).Scan(&linkedSum)
	if err != nil {
		return nil, fmt.Errorf("failed to sum linked entries for obligation %s: %w", obligationID, err)
	}

	newStatus := domain.FulfillmentStatusFor(linkedSum, modelObligation.ExpectedAmount)
	_, err = tx.Exec(ctx, `
		UPDATE recurring_obligations
		SET status = $1, last_fulfilled_at = $2, last_updated_at = $2
		WHERE obligation_id = $3;
	`, string(newStatus), now, obligationID)
	if err != nil {
		return nil, fmt.Errorf("failed to update obligation %s: %w", obligationID, err)
	}

	modelObligation.Status = string(newStatus)
	modelObligation.LastFulfilledAt = &now
	modelObligation.LastUpdatedAt = now

	domainObligation := mapping.ToDomainObligation(*modelObligation)
	return &domainObligation, nil
}

// ListEntriesByUser retrieves the user's ledger entries, newest first.
func (r *PgxLedgerRepository) ListEntriesByUser(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT entry_id, user_id, amount, concept, entry_date, category_id, movement_channel,
		       recurring_obligation_id, receipt_id, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries for user %s: %w", userID, err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.UserID,
			&m.Amount,
			&m.Concept,
			&m.EntryDate,
			&m.CategoryID,
			&m.MovementChannel,
			&m.ObligationID,
			&m.ReceiptID,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entry rows: %w", err)
	}
	return entries, nil
}
