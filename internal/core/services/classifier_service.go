package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portssvc "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/inference"
	"github.com/juanbartrock/gastos_receipts_backend/internal/middleware"
	"github.com/juanbartrock/gastos_receipts_backend/internal/platform/config"
	"github.com/juanbartrock/gastos_receipts_backend/internal/utils/filetype"
	"github.com/juanbartrock/gastos_receipts_backend/internal/utils/pdftext"
)

// Keyword groups for filename heuristics. Filenames are produced by Argentine banking
// and utility apps, so the vocabulary is Spanish-first with common English variants.
var (
	utilityProviderKeywords = []string{
		"edesur", "edenor", "metrogas", "naturgy", "aysa", "telecom",
		"movistar", "personal", "claro", "fibertel", "telecentro",
		"factura_servicio", "servicio", "expensas",
	}
	transferKeywords = []string{
		"transferencia", "transf_", "envio_dinero", "envio de dinero",
	}
	bankKeywords = []string{
		"banco", "bbva", "santander", "galicia", "macro", "brubank",
		"uala", "mercadopago", "mercado_pago", "naranja",
	}
	purchaseKeywords = []string{
		"ticket", "compra", "purchase",
	}
	statementKeywords = []string{
		"resumen", "visa", "mastercard", "amex", "tarjeta", "statement",
	}
	paymentKeywords = []string{
		"pago", "factura", "payment", "invoice",
	}
	genericReceiptKeywords = []string{
		"comprobante", "recibo", "receipt",
	}
)

const classifyPromptTemplate = `Sos un asistente que clasifica comprobantes financieros argentinos.
Clasificá el documento en UNA de estas categorías:
- transfer: comprobante de transferencia bancaria
- utility-bill: pago de factura de servicio (luz, gas, agua, teléfono, internet, expensas)
- card-statement: resumen de tarjeta de crédito
- purchase-receipt: ticket o comprobante de compra
- unknown: ninguna de las anteriores

Nombre del archivo: %s
%s
Respondé SOLO con un objeto JSON, sin texto adicional ni markdown:
{"category": "...", "confidence": 0-100, "rationale": "..."}`

// inferenceClassification is the JSON shape the inference service is asked to return.
type inferenceClassification struct {
	Category   string `json:"category"`
	Confidence int    `json:"confidence"`
	Rationale  string `json:"rationale"`
}

// classifierService assigns receipt categories with a layered strategy: cheap filename
// heuristics first, the inference service second, coarse fallback heuristics last.
type classifierService struct {
	provider portssvc.InferenceProvider
	cfg      config.ClassifierConfig
}

// NewClassifierService creates a new ClassifierService.
func NewClassifierService(provider portssvc.InferenceProvider, cfg config.ClassifierConfig) portssvc.ClassifierSvc {
	return &classifierService{
		provider: provider,
		cfg:      cfg,
	}
}

var _ portssvc.ClassifierSvc = (*classifierService)(nil)

// Classify resolves the document category. It never fails: an inference outage degrades
// to fallback heuristics, and the worst case is {unknown, low confidence}.
func (s *classifierService) Classify(ctx context.Context, content []byte, fileName string) domain.Classification {
	logger := middleware.GetLoggerFromCtx(ctx)

	if c, ok := s.classifyByFileName(fileName); ok {
		return c
	}

	c, err := s.classifyByInference(ctx, content, fileName)
	if err == nil {
		return c
	}
	logger.Warn("Inference classification failed, falling back to filename heuristics",
		slog.String("file_name", fileName),
		slog.String("error", err.Error()))

	return s.classifyByFallback(fileName)
}

// classifyByFileName applies the high-confidence keyword tiers against the declared
// filename. First confident match wins.
func (s *classifierService) classifyByFileName(fileName string) (domain.Classification, bool) {
	name := strings.ToLower(fileName)

	if matchAny(name, utilityProviderKeywords) {
		return s.heuristic(domain.CategoryUtilityBill, s.cfg.UtilityKeywordConfidence, "utility provider keyword in filename"), true
	}
	// "pago de transferencia" style names belong to the payment tiers, not here.
	if matchAny(name, transferKeywords) && !strings.Contains(name, "pago") {
		return s.heuristic(domain.CategoryTransfer, s.cfg.TransferKeywordConfidence, "transfer keyword in filename"), true
	}
	if matchAny(name, bankKeywords) && matchAny(name, genericReceiptKeywords) {
		return s.heuristic(domain.CategoryTransfer, s.cfg.BankTransferConfidence, "bank and receipt keywords in filename"), true
	}
	if matchAny(name, purchaseKeywords) {
		return s.heuristic(domain.CategoryPurchaseReceipt, s.cfg.PurchaseKeywordConfidence, "purchase keyword in filename"), true
	}
	if matchAny(name, statementKeywords) {
		return s.heuristic(domain.CategoryCardStatement, s.cfg.StatementKeywordConfidence, "statement keyword in filename"), true
	}

	return domain.Classification{}, false
}

// classifyByInference asks the inference service for a category. PDFs are represented by
// their scraped text layer; images are sent as-is.
func (s *classifierService) classifyByInference(ctx context.Context, content []byte, fileName string) (domain.Classification, error) {
	var raw string
	var err error

	if filetype.Detect(content) == filetype.PDF {
		textContext := ""
		if text := pdftext.Extract(content, s.cfg.PDFTextMaxChars); text != "" {
			textContext = "Texto extraído del documento:\n" + text + "\n"
		}
		prompt := fmt.Sprintf(classifyPromptTemplate, fileName, textContext)
		raw, err = s.provider.Complete(ctx, prompt)
	} else {
		prompt := fmt.Sprintf(classifyPromptTemplate, fileName, "La imagen del documento se adjunta.\n")
		raw, err = s.provider.CompleteWithImage(ctx, prompt, content)
	}
	if err != nil {
		return domain.Classification{}, fmt.Errorf("inference classification call failed: %w", err)
	}

	var result inferenceClassification
	if err := inference.ParseJSONResponse(raw, &result); err != nil {
		return domain.Classification{}, fmt.Errorf("inference classification response: %w", err)
	}

	category := domain.ReceiptCategory(result.Category)
	if !category.IsValid() {
		return domain.Classification{}, fmt.Errorf("inference returned unknown category %q", result.Category)
	}

	confidence := result.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	metadata := map[string]string{}
	if result.Rationale != "" {
		metadata["rationale"] = result.Rationale
	}
	return domain.Classification{
		Category:   category,
		Confidence: confidence,
		Source:     domain.SourceInference,
		Metadata:   metadata,
	}, nil
}

// classifyByFallback applies the coarse last-resort keyword tiers.
func (s *classifierService) classifyByFallback(fileName string) domain.Classification {
	name := strings.ToLower(fileName)

	if matchAny(name, paymentKeywords) {
		return domain.Classification{
			Category:   domain.CategoryUtilityBill,
			Confidence: s.cfg.FallbackPaymentConfidence,
			Source:     domain.SourceFallback,
			Metadata:   map[string]string{"rationale": "payment keyword in filename"},
		}
	}
	if matchAny(name, genericReceiptKeywords) {
		return domain.Classification{
			Category:   domain.CategoryPurchaseReceipt,
			Confidence: s.cfg.FallbackReceiptConfidence,
			Source:     domain.SourceFallback,
			Metadata:   map[string]string{"rationale": "generic receipt keyword in filename"},
		}
	}

	return domain.Classification{
		Category:   domain.CategoryUnknown,
		Confidence: s.cfg.UnknownConfidence,
		Source:     domain.SourceFallback,
	}
}

func (s *classifierService) heuristic(category domain.ReceiptCategory, confidence int, rationale string) domain.Classification {
	return domain.Classification{
		Category:   category,
		Confidence: confidence,
		Source:     domain.SourceHeuristic,
		Metadata:   map[string]string{"rationale": rationale},
	}
}

func matchAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
