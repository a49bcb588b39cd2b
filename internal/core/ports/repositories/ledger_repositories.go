package repositories

import (
	"context"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
)

// ConfirmLedgerWrite is the unit of work the ledger repository commits atomically when a
// receipt is confirmed. Entry is required; Artifact and Items depend on the category;
// ObligationID, when set, triggers the fulfillment-state recompute inside the same
// transaction. ReceiptID's status is flipped to confirmed as the final step.
type ConfirmLedgerWrite struct {
	ReceiptID    string
	CategoryName string
	Entry        domain.LedgerEntry
	Artifact     *domain.TransferArtifact
	Items        []domain.LedgerEntryItem
	ObligationID *string
}

// ConfirmLedgerResult reports what the transaction durably created.
type ConfirmLedgerResult struct {
	Entry      domain.LedgerEntry
	Artifact   *domain.TransferArtifact
	Items      []domain.LedgerEntryItem
	Obligation *domain.RecurringObligation // post-update state, when ObligationID was set
}

// LedgerWriter defines the atomic ledger write executed on receipt confirmation.
type LedgerWriter interface {
	// ConfirmLedgerEntry runs the canonical confirm transaction: resolve the system
	// category by name (or fail with apperrors.ErrCategoryMissing), create the transfer
	// artifact / entry / item rows as applicable, recompute the linked obligation's
	// cumulative sum and state under a row lock, and mark the receipt confirmed. Any
	// failure rolls the whole transaction back.
	ConfirmLedgerEntry(ctx context.Context, write ConfirmLedgerWrite) (*ConfirmLedgerResult, error)
}

// LedgerReader defines read operations for ledger entries.
type LedgerReader interface {
	// ListEntriesByUser retrieves the user's ledger entries, newest first.
	ListEntriesByUser(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
