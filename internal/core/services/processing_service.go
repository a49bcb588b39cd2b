package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/juanbartrock/gastos_receipts_backend/internal/apperrors"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portsrepo "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/repositories"
	portssvc "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/middleware"
)

// processingService orchestrates receipt confirmation: load the pending receipt, extract
// the structured record, score obligation candidates, and hand the assembled write to
// the ledger repository's atomic confirm transaction.
type processingService struct {
	receiptRepo     portsrepo.ReceiptRepositoryFacade
	obligationRepo  portsrepo.ObligationRepositoryFacade
	categoryRepo    portsrepo.CategoryRepositoryFacade
	ledgerRepo      portsrepo.LedgerRepositoryFacade
	extractorSvc    portssvc.ExtractorSvc
	matcherSvc      portssvc.MatcherSvc
	ledgerWriterSvc portssvc.LedgerWriterSvc
}

// NewProcessingService creates a new ProcessingService.
func NewProcessingService(
	receiptRepo portsrepo.ReceiptRepositoryFacade,
	obligationRepo portsrepo.ObligationRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	extractorSvc portssvc.ExtractorSvc,
	matcherSvc portssvc.MatcherSvc,
	ledgerWriterSvc portssvc.LedgerWriterSvc,
) portssvc.ProcessingSvcFacade {
	return &processingService{
		receiptRepo:     receiptRepo,
		obligationRepo:  obligationRepo,
		categoryRepo:    categoryRepo,
		ledgerRepo:      ledgerRepo,
		extractorSvc:    extractorSvc,
		matcherSvc:      matcherSvc,
		ledgerWriterSvc: ledgerWriterSvc,
	}
}

var _ portssvc.ProcessingSvcFacade = (*processingService)(nil)

// ConfirmReceipt processes a pending receipt under the user-selected category. The
// extraction and matching steps run outside the transaction; everything durable happens
// inside the ledger repository's single confirm transaction.
func (s *processingService) ConfirmReceipt(ctx context.Context, userID string, receiptID string, category domain.ReceiptCategory, overrideContent string, obligationID *string) (*portssvc.ConfirmOutcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load receipt for confirmation: %w", err)
	}
	if receipt.UserID != userID {
		return nil, fmt.Errorf("%w: receipt belongs to another user", apperrors.ErrForbidden)
	}
	if receipt.Status != domain.ReceiptPending {
		return nil, fmt.Errorf("%w: receipt is already %s", apperrors.ErrConflict, receipt.Status)
	}

	// The system category must exist before the cost-bearing extraction call; a missing
	// seed row fails fast instead of after the inference round-trip.
	categoryName, ok := domain.SystemCategoryNameFor(category)
	if !ok {
		return nil, fmt.Errorf("%w: category %q cannot be confirmed", apperrors.ErrValidation, category)
	}
	if _, err := s.categoryRepo.FindCategoryByName(ctx, categoryName); err != nil {
		return nil, fmt.Errorf("failed to resolve system category %s: %w", categoryName, err)
	}

	encoded := receipt.Content
	if overrideContent != "" {
		encoded = overrideContent
	}
	content, err := decodeDocumentContent(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: receipt content is not valid base64", apperrors.ErrValidation)
	}

	record, err := s.extractorSvc.Extract(ctx, category, content)
	if err != nil {
		return nil, err
	}

	// Candidates are advisory; a matcher failure must not block the confirmation.
	candidates, err := s.matcherSvc.MatchObligations(ctx, userID, record.Amount(), record.Concept())
	if err != nil {
		logger.Warn("Obligation matching failed during confirmation",
			slog.String("receipt_id", receiptID),
			slog.String("error", err.Error()))
		candidates = nil
	}

	if obligationID != nil {
		obligation, err := s.obligationRepo.FindObligationByID(ctx, *obligationID)
		if err != nil {
			return nil, fmt.Errorf("failed to load chosen obligation: %w", err)
		}
		if obligation.UserID != userID {
			return nil, fmt.Errorf("%w: obligation belongs to another user", apperrors.ErrForbidden)
		}
	}

	write, err := s.ledgerWriterSvc.BuildConfirmWrite(ctx, receipt, record, obligationID)
	if err != nil {
		return nil, err
	}

	result, err := s.ledgerRepo.ConfirmLedgerEntry(ctx, *write)
	if err != nil {
		return nil, fmt.Errorf("confirm transaction failed: %w", err)
	}

	logger.Info("Receipt confirmed",
		slog.String("receipt_id", receiptID),
		slog.String("entry_id", result.Entry.EntryID),
		slog.String("category", string(category)))

	return &portssvc.ConfirmOutcome{
		Record:     record,
		Entry:      result.Entry,
		Artifact:   result.Artifact,
		Items:      result.Items,
		Obligation: result.Obligation,
		Candidates: candidates,
	}, nil
}

// ListLedgerEntries returns the user's confirmed ledger history.
func (s *processingService) ListLedgerEntries(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	entries, err := s.ledgerRepo.ListEntriesByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}
