package services

import (
	"context"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/repositories"
)

// LedgerWriterSvc turns an extracted transaction record into the unit of work the ledger
// repository commits. It owns entity shaping only; persistence and atomicity live in the
// repository.
type LedgerWriterSvc interface {
	// BuildConfirmWrite assembles the entry, the category-dependent artifact and item
	// rows, and the optional obligation link for the given receipt.
	BuildConfirmWrite(ctx context.Context, receipt *domain.PendingReceipt, record *domain.ExtractedTransactionRecord, obligationID *string) (*repositories.ConfirmLedgerWrite, error)
}

// ConfirmOutcome is the full result of confirming a receipt: the extracted record, the
// rows the transaction created, and the matcher's advisory candidates.
type ConfirmOutcome struct {
	Record     *domain.ExtractedTransactionRecord
	Entry      domain.LedgerEntry
	Artifact   *domain.TransferArtifact
	Items      []domain.LedgerEntryItem
	Obligation *domain.RecurringObligation
	Candidates []domain.ObligationMatch
}

// ProcessingSvcFacade orchestrates the confirmation flow: load the pending receipt,
// extract the structured record, score obligation candidates, build the ledger write and
// commit it atomically.
type ProcessingSvcFacade interface {
	// ConfirmReceipt processes the receipt under the user-selected category. The
	// override content, when non-empty, replaces the stored upload for extraction.
	ConfirmReceipt(ctx context.Context, userID string, receiptID string, category domain.ReceiptCategory, overrideContent string, obligationID *string) (*ConfirmOutcome, error)

	// ListLedgerEntries returns the user's ledger entries, newest first, capped at limit
	// (a non-positive limit applies the repository default).
	ListLedgerEntries(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error)
}
