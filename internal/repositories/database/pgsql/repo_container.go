package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ReceiptRepo:    newPgxReceiptRepository(dbPool),
		ObligationRepo: newPgxObligationRepository(dbPool),
		LedgerRepo:     newPgxLedgerRepository(dbPool),
		CategoryRepo:   newPgxCategoryRepository(dbPool),
		UserRepo:       newPgxUserRepository(dbPool),
	}
}
