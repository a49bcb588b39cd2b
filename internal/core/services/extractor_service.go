package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/juanbartrock/gastos_receipts_backend/internal/apperrors"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portssvc "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/inference"
	"github.com/juanbartrock/gastos_receipts_backend/internal/middleware"
	"github.com/juanbartrock/gastos_receipts_backend/internal/platform/config"
	"github.com/juanbartrock/gastos_receipts_backend/internal/utils/filetype"
)

const extractPromptHeader = `Sos un asistente que extrae datos de comprobantes financieros argentinos.
Analizá la imagen y extraé los datos con este esquema exacto. Usá null para los campos
que no puedas leer. Respondé SOLO con el objeto JSON, sin texto adicional ni markdown.
`

var extractSchemas = map[domain.ReceiptCategory]string{
	domain.CategoryTransfer: `{
  "amount": 0,
  "originBank": null,
  "destinationBank": null,
  "originAccount": null,
  "destinationAccount": null,
  "destinationName": null,
  "concept": null,
  "date": "YYYY-MM-DD",
  "operationNumber": null
}`,
	domain.CategoryUtilityBill: `{
  "amount": 0,
  "entity": null,
  "concept": null,
  "paymentDate": "YYYY-MM-DD",
  "invoiceNumber": null,
  "clientNumber": null
}`,
	domain.CategoryCardStatement: `{
  "bank": null,
  "cardNumber": "últimos 4 dígitos solamente",
  "holder": null,
  "dueDate": "YYYY-MM-DD",
  "closingDate": "YYYY-MM-DD",
  "minimumPayment": 0,
  "balance": 0,
  "movements": [{"description": null, "amount": 0, "date": "YYYY-MM-DD"}]
}`,
	domain.CategoryPurchaseReceipt: `{
  "amount": 0,
  "merchant": null,
  "date": "YYYY-MM-DD",
  "paymentMethod": null,
  "ticketNumber": null
}`,
}

// Statement lines that describe the previous cycle rather than new spending. They are
// excluded from the item rows so the ledger never double-counts them.
var excludedMovementPrefixes = []string{
	"saldo anterior",
	"su pago",
	"pago recibido",
}

// extractorService produces a category-shaped transaction record from a document image
// through the inference service. PDFs are rejected: the vision endpoint takes images
// only, and silently skipping a PDF would fabricate an empty record.
type extractorService struct {
	provider portssvc.InferenceProvider
	cfg      config.ExtractorConfig
}

// NewExtractorService creates a new ExtractorService.
func NewExtractorService(provider portssvc.InferenceProvider, cfg config.ExtractorConfig) portssvc.ExtractorSvc {
	return &extractorService{
		provider: provider,
		cfg:      cfg,
	}
}

var _ portssvc.ExtractorSvc = (*extractorService)(nil)

// Extract runs the category-specific extraction prompt against the image and parses the
// response through the tolerant parser. It never guesses: a response with no parseable
// JSON fails with apperrors.ErrUnparsableResponse.
func (s *extractorService) Extract(ctx context.Context, category domain.ReceiptCategory, content []byte) (*domain.ExtractedTransactionRecord, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	schema, ok := extractSchemas[category]
	if !ok {
		return nil, fmt.Errorf("%w: no extraction schema for category %q", apperrors.ErrValidation, category)
	}

	if filetype.Detect(content) == filetype.PDF {
		return nil, fmt.Errorf("%w: structured extraction requires an image, got a PDF", apperrors.ErrUnsupportedFormat)
	}

	prompt := extractPromptHeader + "Esquema:\n" + schema
	raw, err := s.provider.CompleteWithImage(ctx, prompt, content)
	if err != nil {
		return nil, fmt.Errorf("inference extraction call failed: %w", err)
	}

	record := &domain.ExtractedTransactionRecord{Category: category}
	if err := s.parseByCategory(raw, record); err != nil {
		logger.Warn("Extraction response could not be parsed",
			slog.String("category", string(category)),
			slog.String("error", err.Error()))
		return nil, err
	}

	return record, nil
}

func (s *extractorService) parseByCategory(raw string, record *domain.ExtractedTransactionRecord) error {
	switch record.Category {
	case domain.CategoryTransfer:
		var r domain.TransferRecord
		if err := inference.ParseJSONResponse(raw, &r); err != nil {
			return err
		}
		record.Transfer = &r
	case domain.CategoryUtilityBill:
		var r domain.UtilityBillRecord
		if err := inference.ParseJSONResponse(raw, &r); err != nil {
			return err
		}
		record.UtilityBill = &r
	case domain.CategoryCardStatement:
		var r domain.CardStatementRecord
		if err := inference.ParseJSONResponse(raw, &r); err != nil {
			return err
		}
		r.Movements = filterMovements(r.Movements, s.cfg.MaxStatementItems)
		record.CardStatement = &r
	case domain.CategoryPurchaseReceipt:
		var r domain.PurchaseRecord
		if err := inference.ParseJSONResponse(raw, &r); err != nil {
			return err
		}
		record.Purchase = &r
	}
	return nil
}

// filterMovements drops prior-balance and payment-received lines and bounds the list.
func filterMovements(movements []domain.StatementMovement, maxItems int) []domain.StatementMovement {
	filtered := make([]domain.StatementMovement, 0, len(movements))
	for _, m := range movements {
		desc := strings.ToLower(strings.TrimSpace(m.Description))
		excluded := false
		for _, prefix := range excludedMovementPrefixes {
			if strings.HasPrefix(desc, prefix) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		filtered = append(filtered, m)
		if maxItems > 0 && len(filtered) >= maxItems {
			break
		}
	}
	return filtered
}
