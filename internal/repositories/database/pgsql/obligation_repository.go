package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juanbartrock/gastos_receipts_backend/internal/apperrors"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portsrepo "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/repositories"
	"github.com/juanbartrock/gastos_receipts_backend/internal/models"
	"github.com/juanbartrock/gastos_receipts_backend/internal/utils/mapping"
)

const obligationColumns = `
	obligation_id, user_id, concept, expected_amount, status, COALESCE(category_id, '') AS category_id,
	last_fulfilled_at, created_at, created_by, last_updated_at, last_updated_by
`

type PgxObligationRepository struct {
	BaseRepository
}

// newPgxObligationRepository creates a new repository for recurring obligation reads.
// Obligation state mutation happens only inside the ledger repository's confirm
// transaction.
func newPgxObligationRepository(pool *pgxpool.Pool) portsrepo.ObligationRepositoryFacade {
	return &PgxObligationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ObligationRepositoryFacade = (*PgxObligationRepository)(nil)

// FindObligationByID retrieves an obligation by its unique identifier.
func (r *PgxObligationRepository) FindObligationByID(ctx context.Context, obligationID string) (*domain.RecurringObligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM recurring_obligations WHERE obligation_id = $1;`

	modelObligation, err := scanObligation(r.Pool.QueryRow(ctx, query, obligationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find obligation by ID %s: %w", obligationID, err)
	}

	domainObligation := mapping.ToDomainObligation(*modelObligation)
	return &domainObligation, nil
}

// ListOpenObligationsByUser retrieves the user's obligations in state pending or
// partially_fulfilled, oldest first for a stable matcher ordering.
func (r *PgxObligationRepository) ListOpenObligationsByUser(ctx context.Context, userID string) ([]domain.RecurringObligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM recurring_obligations
		WHERE user_id = $1 AND status IN ($2, $3)
		ORDER BY created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, userID,
		string(domain.ObligationPending), string(domain.ObligationPartiallyFulfilled))
	if err != nil {
		return nil, fmt.Errorf("failed to list open obligations for user %s: %w", userID, err)
	}
	defer rows.Close()

	obligations := []domain.RecurringObligation{}
	for rows.Next() {
		modelObligation, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan obligation row: %w", err)
		}
		obligations = append(obligations, mapping.ToDomainObligation(*modelObligation))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate obligation rows: %w", err)
	}
	return obligations, nil
}

// scanObligation scans one obligation row from a pgx.Row or pgx.Rows.
func scanObligation(row pgx.Row) (*models.RecurringObligation, error) {
	var m models.RecurringObligation
	err := row.Scan(
		&m.ObligationID,
		&m.UserID,
		&m.Concept,
		&m.ExpectedAmount,
		&m.Status,
		&m.CategoryID,
		&m.LastFulfilledAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
