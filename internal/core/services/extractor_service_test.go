package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/juanbartrock/gastos_receipts_backend/internal/apperrors"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portssvc "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/platform/config"
)

type ExtractorServiceTestSuite struct {
	suite.Suite
	mockProvider *MockInferenceProvider
	service      portssvc.ExtractorSvc
}

func (suite *ExtractorServiceTestSuite) SetupTest() {
	suite.mockProvider = new(MockInferenceProvider)
	suite.service = services.NewExtractorService(suite.mockProvider, config.ExtractorConfig{MaxStatementItems: 3})
}

func (suite *ExtractorServiceTestSuite) TestExtract_RejectsPDF() {
	record, err := suite.service.Extract(context.Background(), domain.CategoryTransfer, []byte("%PDF-1.7 ..."))

	suite.Require().Error(err)
	suite.Nil(record)
	suite.ErrorIs(err, apperrors.ErrUnsupportedFormat)
	suite.mockProvider.AssertNotCalled(suite.T(), "CompleteWithImage")
}

func (suite *ExtractorServiceTestSuite) TestExtract_TransferSuccess() {
	content := []byte{0xFF, 0xD8, 0xFF, 0x01}
	suite.mockProvider.On("CompleteWithImage", mock.Anything, mock.AnythingOfType("string"), content).
		Return(`{"amount": 15000.50, "originBank": "Galicia", "destinationBank": "Santander",
			"originAccount": "0070000000001234567890", "destinationAccount": "alias.pepe",
			"destinationName": "Jose Perez", "concept": "Alquiler", "date": "2026-08-28",
			"operationNumber": "OP-991"}`, nil).Once()

	record, err := suite.service.Extract(context.Background(), domain.CategoryTransfer, content)

	suite.Require().NoError(err)
	suite.Require().NotNil(record.Transfer)
	suite.Equal(domain.CategoryTransfer, record.Category)
	suite.True(record.Transfer.Amount.Equal(decimal.NewFromFloat(15000.50)))
	suite.Equal("Galicia", record.Transfer.OriginBank)
	suite.Equal("Alquiler", record.Transfer.Concept)
	suite.Equal("OP-991", record.Transfer.OperationNumber)
	suite.mockProvider.AssertExpectations(suite.T())
}

func (suite *ExtractorServiceTestSuite) TestExtract_CardStatementFencedResponse() {
	content := []byte{0x89, 0x50, 0x4E, 0x47}
	fenced := "```json\n" + `{"bank": "BBVA", "cardNumber": "4523", "holder": "Juan Perez",
		"dueDate": "2026-09-10", "closingDate": "2026-08-31",
		"minimumPayment": 52000, "balance": 310000.75,
		"movements": [
			{"description": "SALDO ANTERIOR", "amount": 120000, "date": "2026-07-31"},
			{"description": "SU PAGO EN PESOS", "amount": -120000, "date": "2026-08-05"},
			{"description": "Supermercado Dia", "amount": 18000, "date": "2026-08-12"},
			{"description": "YPF", "amount": 30000, "date": "2026-08-15"},
			{"description": "Farmacity", "amount": 9000, "date": "2026-08-18"},
			{"description": "Netflix", "amount": 7000, "date": "2026-08-20"},
			{"description": "Spotify", "amount": 3000, "date": "2026-08-21"}
		]}` + "\n```"
	suite.mockProvider.On("CompleteWithImage", mock.Anything, mock.AnythingOfType("string"), content).
		Return(fenced, nil).Once()

	record, err := suite.service.Extract(context.Background(), domain.CategoryCardStatement, content)

	suite.Require().NoError(err)
	suite.Require().NotNil(record.CardStatement)
	suite.Equal("BBVA", record.CardStatement.Bank)
	// Prior-balance and payment lines are dropped, the rest is bounded to the cap.
	suite.Len(record.CardStatement.Movements, 3)
	suite.Equal("Supermercado Dia", record.CardStatement.Movements[0].Description)
	suite.Equal("YPF", record.CardStatement.Movements[1].Description)
	suite.Equal("Farmacity", record.CardStatement.Movements[2].Description)
}

func (suite *ExtractorServiceTestSuite) TestExtract_UtilityBillBraceScan() {
	content := []byte{0xFF, 0xD8, 0xFF, 0x01}
	suite.mockProvider.On("CompleteWithImage", mock.Anything, mock.AnythingOfType("string"), content).
		Return(`Claro, aquí están los datos: {"amount": 42000, "entity": "Metrogas",
			"concept": "Gas natural", "paymentDate": "2026-08-20",
			"invoiceNumber": "0012-0034", "clientNumber": "778899"} Espero que sirva.`, nil).Once()

	record, err := suite.service.Extract(context.Background(), domain.CategoryUtilityBill, content)

	suite.Require().NoError(err)
	suite.Require().NotNil(record.UtilityBill)
	suite.Equal("Metrogas", record.UtilityBill.Entity)
	suite.True(record.UtilityBill.Amount.Equal(decimal.NewFromInt(42000)))
}

func (suite *ExtractorServiceTestSuite) TestExtract_UnparsableResponse() {
	content := []byte{0xFF, 0xD8, 0xFF, 0x01}
	suite.mockProvider.On("CompleteWithImage", mock.Anything, mock.AnythingOfType("string"), content).
		Return("I could not read the document, sorry.", nil).Once()

	record, err := suite.service.Extract(context.Background(), domain.CategoryPurchaseReceipt, content)

	suite.Require().Error(err)
	suite.Nil(record)
	suite.ErrorIs(err, apperrors.ErrUnparsableResponse)
}

func (suite *ExtractorServiceTestSuite) TestExtract_InferenceErrorSurfaced() {
	content := []byte{0xFF, 0xD8, 0xFF, 0x01}
	suite.mockProvider.On("CompleteWithImage", mock.Anything, mock.AnythingOfType("string"), content).
		Return("", assert.AnError).Once()

	record, err := suite.service.Extract(context.Background(), domain.CategoryTransfer, content)

	suite.Require().Error(err)
	suite.Nil(record)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *ExtractorServiceTestSuite) TestExtract_UnknownCategoryRejected() {
	record, err := suite.service.Extract(context.Background(), domain.CategoryUnknown, []byte{0xFF, 0xD8, 0xFF})

	suite.Require().Error(err)
	suite.Nil(record)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestExtractorService(t *testing.T) {
	suite.Run(t, new(ExtractorServiceTestSuite))
}
