package repositories

import (
	"context"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
)

// UserRepositoryFacade defines the operations the thin auth boundary needs.
type UserRepositoryFacade interface {
	// SaveUser persists a new user. Duplicate usernames map to apperrors.ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByUsername retrieves a user by username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
