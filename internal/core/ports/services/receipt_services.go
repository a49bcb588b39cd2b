package services

import (
	"context"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
)

// IntakeFile is one candidate file handed to the batch coordinator. Content is the
// base64 payload as uploaded, optionally carrying a data URI prefix; the coordinator
// owns decoding and validation.
type IntakeFile struct {
	FileName     string
	Content      string
	DeclaredSize int64
}

// IntakeFailure records why one file of a batch was rejected.
type IntakeFailure struct {
	FileName string
	Reason   string
}

// IntakeResult is the per-batch outcome. One file's failure never aborts the batch.
type IntakeResult struct {
	Successes []domain.PendingReceipt
	Failures  []IntakeFailure
}

// ReceiptSvcFacade covers the pending-receipt lifecycle outside of confirmation: batch
// intake, listing, lookup and discard.
type ReceiptSvcFacade interface {
	// IntakeBatch validates, classifies and persists up to the configured maximum of
	// files, isolating per-file failures.
	IntakeBatch(ctx context.Context, userID string, files []IntakeFile) (*IntakeResult, error)

	// ListReceipts returns the user's receipts, newest first.
	ListReceipts(ctx context.Context, userID string, status *domain.ReceiptStatus) ([]domain.PendingReceipt, error)

	// GetReceipt retrieves one receipt owned by the user.
	GetReceipt(ctx context.Context, userID string, receiptID string) (*domain.PendingReceipt, error)

	// DiscardReceipt marks a pending receipt discarded. A receipt that already left
	// pending yields apperrors.ErrConflict.
	DiscardReceipt(ctx context.Context, userID string, receiptID string) error
}
