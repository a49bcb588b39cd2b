package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/juanbartrock/gastos_receipts_backend/internal/apperrors"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portsrepo "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/repositories"
	portssvc "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/middleware"
	"github.com/juanbartrock/gastos_receipts_backend/internal/platform/config"
	"github.com/juanbartrock/gastos_receipts_backend/internal/utils/retry"
)

// receiptService coordinates batch intake and the pending-receipt lifecycle outside of
// confirmation.
type receiptService struct {
	receiptRepo   portsrepo.ReceiptRepositoryFacade
	classifierSvc portssvc.ClassifierSvc
	cfg           config.IntakeConfig
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(receiptRepo portsrepo.ReceiptRepositoryFacade, classifierSvc portssvc.ClassifierSvc, cfg config.IntakeConfig) portssvc.ReceiptSvcFacade {
	return &receiptService{
		receiptRepo:   receiptRepo,
		classifierSvc: classifierSvc,
		cfg:           cfg,
	}
}

var _ portssvc.ReceiptSvcFacade = (*receiptService)(nil)

// IntakeBatch validates, classifies and persists a batch of uploaded files. One file's
// failure never aborts the batch: invalid files are recorded in the failure list and the
// rest proceed. The batch itself is rejected only when it exceeds the file-count cap.
func (s *receiptService) IntakeBatch(ctx context.Context, userID string, files []portssvc.IntakeFile) (*portssvc.IntakeResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: batch contains no files", apperrors.ErrValidation)
	}
	if len(files) > s.cfg.MaxBatchFiles {
		return nil, fmt.Errorf("%w: batch of %d files exceeds the maximum of %d", apperrors.ErrValidation, len(files), s.cfg.MaxBatchFiles)
	}

	result := &portssvc.IntakeResult{
		Successes: []domain.PendingReceipt{},
		Failures:  []portssvc.IntakeFailure{},
	}

	for _, file := range files {
		receipt, err := s.intakeOne(ctx, userID, file)
		if err != nil {
			logger.Warn("Intake rejected file",
				slog.String("file_name", file.FileName),
				slog.String("error", err.Error()))
			result.Failures = append(result.Failures, portssvc.IntakeFailure{
				FileName: file.FileName,
				Reason:   err.Error(),
			})
			continue
		}
		result.Successes = append(result.Successes, *receipt)
	}

	logger.Info("Batch intake completed",
		slog.Int("total", len(files)),
		slog.Int("successes", len(result.Successes)),
		slog.Int("failures", len(result.Failures)))
	return result, nil
}

// intakeOne validates, classifies and persists a single file.
func (s *receiptService) intakeOne(ctx context.Context, userID string, file portssvc.IntakeFile) (*domain.PendingReceipt, error) {
	if file.FileName == "" {
		return nil, fmt.Errorf("%w: filename is required", apperrors.ErrValidation)
	}
	if file.Content == "" {
		return nil, fmt.Errorf("%w: file content is required", apperrors.ErrValidation)
	}
	if file.DeclaredSize > s.cfg.MaxFileBytes {
		return nil, fmt.Errorf("%w: file exceeds the maximum size of %d bytes", apperrors.ErrValidation, s.cfg.MaxFileBytes)
	}

	content, err := decodeDocumentContent(file.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: file content is not valid base64", apperrors.ErrValidation)
	}
	if int64(len(content)) > s.cfg.MaxFileBytes {
		return nil, fmt.Errorf("%w: file exceeds the maximum size of %d bytes", apperrors.ErrValidation, s.cfg.MaxFileBytes)
	}

	classification := s.classifierSvc.Classify(ctx, content, file.FileName)

	receipt := domain.PendingReceipt{
		ReceiptID:  uuid.NewString(),
		UserID:     userID,
		FileName:   file.FileName,
		Content:    file.Content,
		Category:   classification.Category,
		Confidence: classification.Confidence,
		Metadata:   classificationMetadata(classification),
		Status:     domain.ReceiptPending,
		UploadedAt: time.Now(),
	}

	// Transient datastore contention is absorbed here; the retry budget is policy.
	err = retry.WithBackoff(ctx, retry.Options{
		MaxAttempts: s.cfg.RetryAttempts,
		BaseDelay:   s.cfg.RetryBaseDelay,
		Multiplier:  2.0,
		Logger:      middleware.GetLoggerFromCtx(ctx),
	}, func() error {
		return s.receiptRepo.SaveReceipt(ctx, receipt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist receipt: %w", err)
	}

	return &receipt, nil
}

// ListReceipts returns the user's receipts, optionally filtered by lifecycle status.
func (s *receiptService) ListReceipts(ctx context.Context, userID string, status *domain.ReceiptStatus) ([]domain.PendingReceipt, error) {
	filter := domain.ReceiptStatus("")
	if status != nil {
		filter = *status
	}
	receipts, err := s.receiptRepo.ListReceiptsByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	if receipts == nil {
		receipts = []domain.PendingReceipt{}
	}
	return receipts, nil
}

// GetReceipt retrieves one receipt owned by the user. Another user's receipt surfaces as
// not found rather than forbidden, so receipt identifiers cannot be probed.
func (s *receiptService) GetReceipt(ctx context.Context, userID string, receiptID string) (*domain.PendingReceipt, error) {
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	if receipt.UserID != userID {
		return nil, fmt.Errorf("%w: receipt not found", apperrors.ErrNotFound)
	}
	return receipt, nil
}

// DiscardReceipt marks a pending receipt discarded.
func (s *receiptService) DiscardReceipt(ctx context.Context, userID string, receiptID string) error {
	receipt, err := s.receiptRepo.FindReceiptByID(ctx, receiptID)
	if err != nil {
		return fmt.Errorf("failed to load receipt for discard: %w", err)
	}
	if receipt.UserID != userID {
		return fmt.Errorf("%w: receipt not found", apperrors.ErrNotFound)
	}
	if err := s.receiptRepo.MarkReceiptDiscarded(ctx, receiptID); err != nil {
		return fmt.Errorf("failed to discard receipt: %w", err)
	}
	return nil
}

// classificationMetadata merges the classifier's metadata with its source tag for
// persistence alongside the receipt.
func classificationMetadata(c domain.Classification) map[string]string {
	metadata := map[string]string{"source": string(c.Source)}
	for k, v := range c.Metadata {
		metadata[k] = v
	}
	return metadata
}

// decodeDocumentContent decodes a base64 document payload, tolerating a data URI prefix
// ("data:image/png;base64,....") as produced by browser uploads.
func decodeDocumentContent(encoded string) ([]byte, error) {
	if idx := strings.Index(encoded, ","); idx != -1 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 content: %w", err)
	}
	return content, nil
}
