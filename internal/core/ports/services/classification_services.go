package services

import (
	"context"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
)

// ClassifierSvc assigns a document to one of the receipt categories. Classification is
// advisory and never fails: the worst case is {unknown, low confidence, fallback}.
type ClassifierSvc interface {
	Classify(ctx context.Context, content []byte, fileName string) domain.Classification
}

// ExtractorSvc produces a category-shaped transaction record from a document image via
// the inference service. PDFs are rejected with apperrors.ErrUnsupportedFormat; a
// response no parser stage can decode surfaces apperrors.ErrUnparsableResponse.
type ExtractorSvc interface {
	Extract(ctx context.Context, category domain.ReceiptCategory, content []byte) (*domain.ExtractedTransactionRecord, error)
}
