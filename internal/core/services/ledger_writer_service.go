package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/juanbartrock/gastos_receipts_backend/internal/apperrors"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portsrepo "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/repositories"
	portssvc "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/services"
)

// ledgerWriterService shapes the entities the confirm transaction persists. All identity
// generation happens here so the repository only writes what it is handed.
type ledgerWriterService struct{}

// NewLedgerWriterService creates a new LedgerWriterService.
func NewLedgerWriterService() portssvc.LedgerWriterSvc {
	return &ledgerWriterService{}
}

var _ portssvc.LedgerWriterSvc = (*ledgerWriterService)(nil)

// BuildConfirmWrite assembles the unit of work for one receipt confirmation: the ledger
// entry, the category-dependent artifact and item rows, and the optional obligation link.
func (s *ledgerWriterService) BuildConfirmWrite(ctx context.Context, receipt *domain.PendingReceipt, record *domain.ExtractedTransactionRecord, obligationID *string) (*portsrepo.ConfirmLedgerWrite, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: extracted record is required", apperrors.ErrValidation)
	}

	categoryName, ok := domain.SystemCategoryNameFor(record.Category)
	if !ok {
		return nil, fmt.Errorf("%w: category %q cannot be confirmed", apperrors.ErrValidation, record.Category)
	}

	amount := record.Amount()
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: extracted amount must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	entryID := uuid.NewString()
	receiptID := receipt.ReceiptID

	entry := domain.LedgerEntry{
		EntryID:         entryID,
		UserID:          receipt.UserID,
		Amount:          amount,
		Concept:         entryConcept(record),
		EntryDate:       entryDate(record, now),
		MovementChannel: domain.ChannelForCategory(record.Category),
		ObligationID:    obligationID,
		ReceiptID:       &receiptID,
		CreatedAt:       now,
	}

	write := &portsrepo.ConfirmLedgerWrite{
		ReceiptID:    receipt.ReceiptID,
		CategoryName: categoryName,
		Entry:        entry,
		ObligationID: obligationID,
	}

	if t := record.Transfer; t != nil {
		write.Artifact = &domain.TransferArtifact{
			ArtifactID:         uuid.NewString(),
			LedgerEntryID:      entryID,
			OriginBank:         t.OriginBank,
			DestinationBank:    t.DestinationBank,
			OriginAccount:      t.OriginAccount,
			DestinationAccount: t.DestinationAccount,
			DestinationName:    t.DestinationName,
			Concept:            t.Concept,
			OperationNumber:    t.OperationNumber,
			CreatedAt:          now,
		}
	}

	if st := record.CardStatement; st != nil {
		items := make([]domain.LedgerEntryItem, 0, len(st.Movements))
		for _, m := range st.Movements {
			items = append(items, domain.LedgerEntryItem{
				ItemID:      uuid.NewString(),
				EntryID:     entryID,
				Description: m.Description,
				Amount:      m.Amount,
				ItemDate:    m.Date,
			})
		}
		write.Items = items
	}

	return write, nil
}

// entryConcept derives the ledger entry concept, defaulting per category when the
// extraction left it empty.
func entryConcept(record *domain.ExtractedTransactionRecord) string {
	if c := record.Concept(); c != "" {
		return c
	}
	switch record.Category {
	case domain.CategoryTransfer:
		return "Transferencia"
	case domain.CategoryUtilityBill:
		return "Pago de servicio"
	case domain.CategoryCardStatement:
		return "Pago de tarjeta"
	default:
		return "Compra"
	}
}

// entryDate parses the extracted document date, falling back to now when it is missing
// or not in YYYY-MM-DD form.
func entryDate(record *domain.ExtractedTransactionRecord, now time.Time) time.Time {
	var raw string
	switch {
	case record.Transfer != nil:
		raw = record.Transfer.Date
	case record.UtilityBill != nil:
		raw = record.UtilityBill.PaymentDate
	case record.CardStatement != nil:
		raw = record.CardStatement.DueDate
	case record.Purchase != nil:
		raw = record.Purchase.Date
	}
	if raw == "" {
		return now
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return now
	}
	return parsed
}
