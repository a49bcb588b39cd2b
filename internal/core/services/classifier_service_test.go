package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portssvc "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/platform/config"
)

func testClassifierConfig() config.ClassifierConfig {
	return config.ClassifierConfig{
		UtilityKeywordConfidence:   95,
		TransferKeywordConfidence:  85,
		BankTransferConfidence:     80,
		PurchaseKeywordConfidence:  75,
		StatementKeywordConfidence: 80,
		FallbackPaymentConfidence:  60,
		FallbackReceiptConfidence:  50,
		UnknownConfidence:          30,
		PDFTextMaxChars:            4000,
	}
}

type ClassifierServiceTestSuite struct {
	suite.Suite
	mockProvider *MockInferenceProvider
	service      portssvc.ClassifierSvc
}

func (suite *ClassifierServiceTestSuite) SetupTest() {
	suite.mockProvider = new(MockInferenceProvider)
	suite.service = services.NewClassifierService(suite.mockProvider, testClassifierConfig())
}

// --- Filename heuristics ---

func (suite *ClassifierServiceTestSuite) TestClassify_UtilityProviderKeyword() {
	c := suite.service.Classify(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "Factura_Edesur_marzo.jpg")

	suite.Equal(domain.CategoryUtilityBill, c.Category)
	suite.Equal(95, c.Confidence)
	suite.Equal(domain.SourceHeuristic, c.Source)
	suite.mockProvider.AssertNotCalled(suite.T(), "Complete")
	suite.mockProvider.AssertNotCalled(suite.T(), "CompleteWithImage")
}

func (suite *ClassifierServiceTestSuite) TestClassify_TransferKeyword() {
	c := suite.service.Classify(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "transferencia_galicia.jpg")

	suite.Equal(domain.CategoryTransfer, c.Category)
	suite.Equal(85, c.Confidence)
	suite.Equal(domain.SourceHeuristic, c.Source)
}

func (suite *ClassifierServiceTestSuite) TestClassify_TransferKeywordWithPagoIsNotTier2() {
	// "pago" pulls the name out of the transfer tier; with no other heuristic match the
	// classifier consults inference, which here fails, landing in the payment fallback.
	suite.mockProvider.On("CompleteWithImage", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return("", assert.AnError).Once()

	c := suite.service.Classify(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "pago_transferencia.jpg")

	suite.Equal(domain.CategoryUtilityBill, c.Category)
	suite.Equal(60, c.Confidence)
	suite.Equal(domain.SourceFallback, c.Source)
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *ClassifierServiceTestSuite) TestClassify_BankAndReceiptKeywords() {
	c := suite.service.Classify(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "comprobante_banco_galicia.png")

	suite.Equal(domain.CategoryTransfer, c.Category)
	suite.Equal(80, c.Confidence)
	suite.Equal(domain.SourceHeuristic, c.Source)
}

func (suite *ClassifierServiceTestSuite) TestClassify_PurchaseKeyword() {
	c := suite.service.Classify(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "ticket_coto_2026.jpg")

	suite.Equal(domain.CategoryPurchaseReceipt, c.Category)
	suite.Equal(75, c.Confidence)
}

func (suite *ClassifierServiceTestSuite) TestClassify_StatementKeyword() {
	c := suite.service.Classify(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "resumen_visa_abril.jpg")

	suite.Equal(domain.CategoryCardStatement, c.Category)
	suite.Equal(80, c.Confidence)
}

// --- Inference path ---

func (suite *ClassifierServiceTestSuite) TestClassify_InferenceOnImage() {
	content := []byte{0xFF, 0xD8, 0xFF, 0x01}
	suite.mockProvider.On("CompleteWithImage", mock.Anything, mock.AnythingOfType("string"), content).
		Return(`{"category":"card-statement","confidence":88,"rationale":"resumen de tarjeta"}`, nil).Once()

	c := suite.service.Classify(context.Background(), content, "documento.jpg")

	suite.Equal(domain.CategoryCardStatement, c.Category)
	suite.Equal(88, c.Confidence)
	suite.Equal(domain.SourceInference, c.Source)
	suite.Equal("resumen de tarjeta", c.Metadata["rationale"])
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *ClassifierServiceTestSuite) TestClassify_InferenceOnPDFUsesTextPath() {
	content := []byte("%PDF-1.4 (EDESUR S.A. Factura de electricidad) endstream")
	suite.mockProvider.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return len(prompt) > 0
	})).Return(`{"category":"utility-bill","confidence":90,"rationale":"factura"}`, nil).Once()

	c := suite.service.Classify(context.Background(), content, "documento.pdf")

	suite.Equal(domain.CategoryUtilityBill, c.Category)
	suite.Equal(90, c.Confidence)
	suite.Equal(domain.SourceInference, c.Source)
	suite.mockProvider.AssertNotCalled(suite.T(), "CompleteWithImage")
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *ClassifierServiceTestSuite) TestClassify_InferenceConfidenceClamped() {
	content := []byte{0xFF, 0xD8, 0xFF, 0x01}
	suite.mockProvider.On("CompleteWithImage", mock.Anything, mock.AnythingOfType("string"), content).
		Return(`{"category":"transfer","confidence":150,"rationale":"ok"}`, nil).Once()

	c := suite.service.Classify(context.Background(), content, "documento.jpg")

	suite.Equal(domain.CategoryTransfer, c.Category)
	suite.Equal(100, c.Confidence)
}

func (suite *ClassifierServiceTestSuite) TestClassify_InferenceFencedResponse() {
	content := []byte{0xFF, 0xD8, 0xFF, 0x01}
	suite.mockProvider.On("CompleteWithImage", mock.Anything, mock.AnythingOfType("string"), content).
		Return("```json\n{\"category\":\"purchase-receipt\",\"confidence\":70,\"rationale\":\"ticket\"}\n```", nil).Once()

	c := suite.service.Classify(context.Background(), content, "documento.jpg")

	suite.Equal(domain.CategoryPurchaseReceipt, c.Category)
	suite.Equal(domain.SourceInference, c.Source)
}

func (suite *ClassifierServiceTestSuite) TestClassify_InferenceBogusCategoryFallsBack() {
	content := []byte{0xFF, 0xD8, 0xFF, 0x01}
	suite.mockProvider.On("CompleteWithImage", mock.Anything, mock.AnythingOfType("string"), content).
		Return(`{"category":"something-else","confidence":99}`, nil).Once()

	c := suite.service.Classify(context.Background(), content, "documento.jpg")

	suite.Equal(domain.CategoryUnknown, c.Category)
	suite.Equal(30, c.Confidence)
	suite.Equal(domain.SourceFallback, c.Source)
}

// --- Fallback tiers ---

func (suite *ClassifierServiceTestSuite) TestClassify_FallbackGenericReceipt() {
	content := []byte{0xFF, 0xD8, 0xFF, 0x01}
	suite.mockProvider.On("CompleteWithImage", mock.Anything, mock.AnythingOfType("string"), content).
		Return("", assert.AnError).Once()

	c := suite.service.Classify(context.Background(), content, "recibo-operacion.jpg")

	// "recibo" alone lands in the bank tier only with a bank keyword; here it is the
	// coarse generic-receipt fallback.
	suite.Equal(domain.CategoryPurchaseReceipt, c.Category)
	suite.Equal(50, c.Confidence)
	suite.Equal(domain.SourceFallback, c.Source)
}

func (suite *ClassifierServiceTestSuite) TestClassify_UnknownNeverFails() {
	content := []byte{0x00, 0x01, 0x02, 0x03}
	suite.mockProvider.On("CompleteWithImage", mock.Anything, mock.AnythingOfType("string"), content).
		Return("no JSON here at all", nil).Once()

	c := suite.service.Classify(context.Background(), content, "document-xyz.bin")

	suite.Equal(domain.CategoryUnknown, c.Category)
	suite.Equal(30, c.Confidence)
	suite.Equal(domain.SourceFallback, c.Source)
}

func TestClassifierService(t *testing.T) {
	suite.Run(t, new(ClassifierServiceTestSuite))
}
