package repositories

import (
	"context"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
)

// ObligationReader defines read operations for recurring obligation data.
type ObligationReader interface {
	// FindObligationByID retrieves an obligation by its unique identifier.
	FindObligationByID(ctx context.Context, obligationID string) (*domain.RecurringObligation, error)

	// ListOpenObligationsByUser retrieves the user's obligations in state pending or
	// partially_fulfilled, the only states the matcher scores against.
	ListOpenObligationsByUser(ctx context.Context, userID string) ([]domain.RecurringObligation, error)
}

// ObligationRepositoryFacade combines all obligation repository interfaces. Obligation
// state mutation is deliberately absent here: it happens only inside the ledger
// repository's confirm transaction.
type ObligationRepositoryFacade interface {
	ObligationReader
}
