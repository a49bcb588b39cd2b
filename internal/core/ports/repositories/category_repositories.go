package repositories

import (
	"context"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
)

// CategoryReader defines read operations for system category data.
type CategoryReader interface {
	// FindCategoryByName retrieves a fixed system category by its unique name.
	FindCategoryByName(ctx context.Context, name string) (*domain.Category, error)
}

// CategoryRepositoryFacade combines all category repository interfaces. The category set
// is fixed and seeded by migration, so there is no writer.
type CategoryRepositoryFacade interface {
	CategoryReader
}
