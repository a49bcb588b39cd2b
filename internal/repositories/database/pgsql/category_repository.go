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
)

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for the fixed system categories.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

// FindCategoryByName retrieves a fixed system category by its unique name.
func (r *PgxCategoryRepository) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	query := `SELECT category_id, name, description FROM categories WHERE name = $1;`

	var m models.Category
	err := r.Pool.QueryRow(ctx, query, name).Scan(&m.CategoryID, &m.Name, &m.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrCategoryMissing, name)
		}
		return nil, fmt.Errorf("failed to find category by name %s: %w", name, err)
	}

	return &domain.Category{
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: m.Description,
	}, nil
}
