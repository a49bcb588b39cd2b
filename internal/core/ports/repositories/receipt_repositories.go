package repositories

import (
	"context"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
)

// ReceiptReader defines read operations for pending receipt data.
type ReceiptReader interface {
	// FindReceiptByID retrieves a receipt by its unique identifier.
	FindReceiptByID(ctx context.Context, receiptID string) (*domain.PendingReceipt, error)

	// ListReceiptsByUser retrieves the user's receipts filtered by lifecycle status.
	ListReceiptsByUser(ctx context.Context, userID string, status domain.ReceiptStatus) ([]domain.PendingReceipt, error)
}

// ReceiptWriter defines write operations for pending receipt data.
type ReceiptWriter interface {
	// SaveReceipt persists a newly classified receipt.
	SaveReceipt(ctx context.Context, receipt domain.PendingReceipt) error

	// MarkReceiptDiscarded transitions a pending receipt to discarded. It fails with
	// apperrors.ErrConflict when the receipt already left the pending state.
	MarkReceiptDiscarded(ctx context.Context, receiptID string) error
}

// ReceiptRepositoryFacade combines all receipt repository interfaces.
type ReceiptRepositoryFacade interface {
	ReceiptReader
	ReceiptWriter
}
