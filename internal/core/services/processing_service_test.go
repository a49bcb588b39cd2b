package services_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/juanbartrock/gastos_receipts_backend/internal/apperrors"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portsrepo "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/repositories"
	portssvc "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/services"
	"github.com/juanbartrock/gastos_receipts_backend/internal/core/services"
)

type ProcessingServiceTestSuite struct {
	suite.Suite
	mockReceiptRepo    *MockReceiptRepository
	mockObligationRepo *MockObligationRepository
	mockCategoryRepo   *MockCategoryRepository
	mockLedgerRepo     *MockLedgerRepository
	mockExtractor      *MockExtractorSvc
	mockMatcher        *MockMatcherSvc
	service            portssvc.ProcessingSvcFacade

	userID  string
	receipt *domain.PendingReceipt
	content []byte
}

func (suite *ProcessingServiceTestSuite) SetupTest() {
	suite.mockReceiptRepo = new(MockReceiptRepository)
	suite.mockObligationRepo = new(MockObligationRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockExtractor = new(MockExtractorSvc)
	suite.mockMatcher = new(MockMatcherSvc)
	suite.service = services.NewProcessingService(
		suite.mockReceiptRepo,
		suite.mockObligationRepo,
		suite.mockCategoryRepo,
		suite.mockLedgerRepo,
		suite.mockExtractor,
		suite.mockMatcher,
		services.NewLedgerWriterService(),
	)

	suite.userID = uuid.NewString()
	suite.content = []byte{0xFF, 0xD8, 0xFF, 0x01}
	suite.receipt = &domain.PendingReceipt{
		ReceiptID: uuid.NewString(),
		UserID:    suite.userID,
		FileName:  "transferencia.jpg",
		Content:   "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(suite.content),
		Category:  domain.CategoryTransfer,
		Status:    domain.ReceiptPending,
	}
}

// expectCategorySeeded arms the category lookup that precedes extraction.
func (suite *ProcessingServiceTestSuite) expectCategorySeeded(ctx context.Context) {
	suite.mockCategoryRepo.On("FindCategoryByName", ctx, domain.CategoryNameTransfers).
		Return(&domain.Category{CategoryID: uuid.NewString(), Name: domain.CategoryNameTransfers}, nil).Once()
}

func (suite *ProcessingServiceTestSuite) transferRecord(amount int64) *domain.ExtractedTransactionRecord {
	return &domain.ExtractedTransactionRecord{
		Category: domain.CategoryTransfer,
		Transfer: &domain.TransferRecord{
			Amount:  decimal.NewFromInt(amount),
			Concept: "Alquiler",
		},
	}
}

func (suite *ProcessingServiceTestSuite) TestConfirm_Success() {
	ctx := context.Background()
	record := suite.transferRecord(500)
	candidates := []domain.ObligationMatch{{
		Obligation: domain.RecurringObligation{ObligationID: uuid.NewString(), UserID: suite.userID},
		Score:      70,
	}}

	suite.mockReceiptRepo.On("FindReceiptByID", ctx, suite.receipt.ReceiptID).Return(suite.receipt, nil).Once()
	suite.expectCategorySeeded(ctx)
	suite.mockExtractor.On("Extract", ctx, domain.CategoryTransfer, suite.content).Return(record, nil).Once()
	suite.mockMatcher.On("MatchObligations", ctx, suite.userID, mock.Anything, "Alquiler").Return(candidates, nil).Once()
	suite.mockLedgerRepo.On("ConfirmLedgerEntry", ctx, mock.MatchedBy(func(w portsrepo.ConfirmLedgerWrite) bool {
		return w.ReceiptID == suite.receipt.ReceiptID &&
			w.CategoryName == domain.CategoryNameTransfers &&
			w.Artifact != nil &&
			w.ObligationID == nil
	})).Return(&portsrepo.ConfirmLedgerResult{
		Entry:    domain.LedgerEntry{EntryID: uuid.NewString(), Amount: decimal.NewFromInt(500)},
		Artifact: &domain.TransferArtifact{ArtifactID: uuid.NewString()},
	}, nil).Once()

	outcome, err := suite.service.ConfirmReceipt(ctx, suite.userID, suite.receipt.ReceiptID, domain.CategoryTransfer, "", nil)

	suite.Require().NoError(err)
	suite.Require().NotNil(outcome)
	suite.Equal(record, outcome.Record)
	suite.NotNil(outcome.Artifact)
	suite.Nil(outcome.Obligation)
	suite.Len(outcome.Candidates, 1)
	suite.mockReceiptRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *ProcessingServiceTestSuite) TestConfirm_WithChosenObligation() {
	ctx := context.Background()
	obligationID := uuid.NewString()
	record := suite.transferRecord(500)

	suite.mockReceiptRepo.On("FindReceiptByID", ctx, suite.receipt.ReceiptID).Return(suite.receipt, nil).Once()
	suite.expectCategorySeeded(ctx)
	suite.mockExtractor.On("Extract", ctx, domain.CategoryTransfer, suite.content).Return(record, nil).Once()
	suite.mockMatcher.On("MatchObligations", ctx, suite.userID, mock.Anything, "Alquiler").
		Return([]domain.ObligationMatch{}, nil).Once()
	suite.mockObligationRepo.On("FindObligationByID", ctx, obligationID).
		Return(&domain.RecurringObligation{ObligationID: obligationID, UserID: suite.userID}, nil).Once()
	suite.mockLedgerRepo.On("ConfirmLedgerEntry", ctx, mock.MatchedBy(func(w portsrepo.ConfirmLedgerWrite) bool {
		return w.ObligationID != nil && *w.ObligationID == obligationID
	})).Return(&portsrepo.ConfirmLedgerResult{
		Entry: domain.LedgerEntry{EntryID: uuid.NewString()},
		Obligation: &domain.RecurringObligation{
			ObligationID: obligationID,
			Status:       domain.ObligationFulfilled,
		},
	}, nil).Once()

	outcome, err := suite.service.ConfirmReceipt(ctx, suite.userID, suite.receipt.ReceiptID, domain.CategoryTransfer, "", &obligationID)

	suite.Require().NoError(err)
	suite.Require().NotNil(outcome.Obligation)
	suite.Equal(domain.ObligationFulfilled, outcome.Obligation.Status)
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *ProcessingServiceTestSuite) TestConfirm_OtherUsersObligationForbidden() {
	ctx := context.Background()
	obligationID := uuid.NewString()
	record := suite.transferRecord(500)

	suite.mockReceiptRepo.On("FindReceiptByID", ctx, suite.receipt.ReceiptID).Return(suite.receipt, nil).Once()
	suite.expectCategorySeeded(ctx)
	suite.mockExtractor.On("Extract", ctx, domain.CategoryTransfer, suite.content).Return(record, nil).Once()
	suite.mockMatcher.On("MatchObligations", ctx, suite.userID, mock.Anything, "Alquiler").
		Return([]domain.ObligationMatch{}, nil).Once()
	suite.mockObligationRepo.On("FindObligationByID", ctx, obligationID).
		Return(&domain.RecurringObligation{ObligationID: obligationID, UserID: uuid.NewString()}, nil).Once()

	outcome, err := suite.service.ConfirmReceipt(ctx, suite.userID, suite.receipt.ReceiptID, domain.CategoryTransfer, "", &obligationID)

	suite.Require().Error(err)
	suite.Nil(outcome)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ConfirmLedgerEntry")
}

func (suite *ProcessingServiceTestSuite) TestConfirm_OtherUsersReceiptForbidden() {
	ctx := context.Background()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, suite.receipt.ReceiptID).Return(suite.receipt, nil).Once()

	outcome, err := suite.service.ConfirmReceipt(ctx, uuid.NewString(), suite.receipt.ReceiptID, domain.CategoryTransfer, "", nil)

	suite.Require().Error(err)
	suite.Nil(outcome)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ProcessingServiceTestSuite) TestConfirm_AlreadyConfirmedConflicts() {
	ctx := context.Background()
	suite.receipt.Status = domain.ReceiptConfirmed
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, suite.receipt.ReceiptID).Return(suite.receipt, nil).Once()

	outcome, err := suite.service.ConfirmReceipt(ctx, suite.userID, suite.receipt.ReceiptID, domain.CategoryTransfer, "", nil)

	suite.Require().Error(err)
	suite.Nil(outcome)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockExtractor.AssertNotCalled(suite.T(), "Extract")
}

func (suite *ProcessingServiceTestSuite) TestConfirm_ExtractionErrorSurfaced() {
	ctx := context.Background()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, suite.receipt.ReceiptID).Return(suite.receipt, nil).Once()
	suite.expectCategorySeeded(ctx)
	suite.mockExtractor.On("Extract", ctx, domain.CategoryTransfer, suite.content).
		Return(nil, apperrors.ErrUnparsableResponse).Once()

	outcome, err := suite.service.ConfirmReceipt(ctx, suite.userID, suite.receipt.ReceiptID, domain.CategoryTransfer, "", nil)

	suite.Require().Error(err)
	suite.Nil(outcome)
	suite.ErrorIs(err, apperrors.ErrUnparsableResponse)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ConfirmLedgerEntry")
}

func (suite *ProcessingServiceTestSuite) TestConfirm_MatcherFailureDoesNotBlock() {
	ctx := context.Background()
	record := suite.transferRecord(500)

	suite.mockReceiptRepo.On("FindReceiptByID", ctx, suite.receipt.ReceiptID).Return(suite.receipt, nil).Once()
	suite.expectCategorySeeded(ctx)
	suite.mockExtractor.On("Extract", ctx, domain.CategoryTransfer, suite.content).Return(record, nil).Once()
	suite.mockMatcher.On("MatchObligations", ctx, suite.userID, mock.Anything, "Alquiler").
		Return(nil, assert.AnError).Once()
	suite.mockLedgerRepo.On("ConfirmLedgerEntry", ctx, mock.AnythingOfType("repositories.ConfirmLedgerWrite")).
		Return(&portsrepo.ConfirmLedgerResult{Entry: domain.LedgerEntry{EntryID: uuid.NewString()}}, nil).Once()

	outcome, err := suite.service.ConfirmReceipt(ctx, suite.userID, suite.receipt.ReceiptID, domain.CategoryTransfer, "", nil)

	suite.Require().NoError(err)
	suite.Empty(outcome.Candidates)
}

func (suite *ProcessingServiceTestSuite) TestConfirm_OverrideContentUsed() {
	ctx := context.Background()
	override := []byte{0x89, 0x50, 0x4E, 0x47}
	record := suite.transferRecord(500)

	suite.mockReceiptRepo.On("FindReceiptByID", ctx, suite.receipt.ReceiptID).Return(suite.receipt, nil).Once()
	suite.expectCategorySeeded(ctx)
	suite.mockExtractor.On("Extract", ctx, domain.CategoryTransfer, override).Return(record, nil).Once()
	suite.mockMatcher.On("MatchObligations", ctx, suite.userID, mock.Anything, "Alquiler").
		Return([]domain.ObligationMatch{}, nil).Once()
	suite.mockLedgerRepo.On("ConfirmLedgerEntry", ctx, mock.AnythingOfType("repositories.ConfirmLedgerWrite")).
		Return(&portsrepo.ConfirmLedgerResult{Entry: domain.LedgerEntry{EntryID: uuid.NewString()}}, nil).Once()

	_, err := suite.service.ConfirmReceipt(ctx, suite.userID, suite.receipt.ReceiptID, domain.CategoryTransfer,
		base64.StdEncoding.EncodeToString(override), nil)

	suite.Require().NoError(err)
	suite.mockExtractor.AssertExpectations(suite.T())
}

func (suite *ProcessingServiceTestSuite) TestConfirm_ReceiptNotFound() {
	ctx := context.Background()
	receiptID := uuid.NewString()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, receiptID).Return(nil, apperrors.ErrNotFound).Once()

	outcome, err := suite.service.ConfirmReceipt(ctx, suite.userID, receiptID, domain.CategoryTransfer, "", nil)

	suite.Require().Error(err)
	suite.Nil(outcome)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ProcessingServiceTestSuite) TestConfirm_MissingSystemCategoryFailsBeforeExtraction() {
	ctx := context.Background()
	suite.mockReceiptRepo.On("FindReceiptByID", ctx, suite.receipt.ReceiptID).Return(suite.receipt, nil).Once()
	suite.mockCategoryRepo.On("FindCategoryByName", ctx, domain.CategoryNameTransfers).
		Return(nil, apperrors.ErrCategoryMissing).Once()

	outcome, err := suite.service.ConfirmReceipt(ctx, suite.userID, suite.receipt.ReceiptID, domain.CategoryTransfer, "", nil)

	suite.Require().Error(err)
	suite.Nil(outcome)
	suite.ErrorIs(err, apperrors.ErrCategoryMissing)
	suite.mockExtractor.AssertNotCalled(suite.T(), "Extract")
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ConfirmLedgerEntry")
}

func TestProcessingService(t *testing.T) {
	suite.Run(t, new(ProcessingServiceTestSuite))
}
