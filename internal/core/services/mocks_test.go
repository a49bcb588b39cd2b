package services_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/juanbartrock/gastos_receipts_backend/internal/core/domain"
	portsrepo "github.com/juanbartrock/gastos_receipts_backend/internal/core/ports/repositories"
)

// --- Mock InferenceProvider ---

type MockInferenceProvider struct {
	mock.Mock
}

func (m *MockInferenceProvider) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockInferenceProvider) CompleteWithImage(ctx context.Context, prompt string, image []byte) (string, error) {
	args := m.Called(ctx, prompt, image)
	return args.String(0), args.Error(1)
}

// --- Mock ReceiptRepository ---

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindReceiptByID(ctx context.Context, receiptID string) (*domain.PendingReceipt, error) {
	args := m.Called(ctx, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingReceipt), args.Error(1)
}

func (m *MockReceiptRepository) ListReceiptsByUser(ctx context.Context, userID string, status domain.ReceiptStatus) ([]domain.PendingReceipt, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingReceipt), args.Error(1)
}

func (m *MockReceiptRepository) SaveReceipt(ctx context.Context, receipt domain.PendingReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) MarkReceiptDiscarded(ctx context.Context, receiptID string) error {
	args := m.Called(ctx, receiptID)
	return args.Error(0)
}

// --- Mock ObligationRepository ---

type MockObligationRepository struct {
	mock.Mock
}

func (m *MockObligationRepository) FindObligationByID(ctx context.Context, obligationID string) (*domain.RecurringObligation, error) {
	args := m.Called(ctx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringObligation), args.Error(1)
}

func (m *MockObligationRepository) ListOpenObligationsByUser(ctx context.Context, userID string) ([]domain.RecurringObligation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringObligation), args.Error(1)
}

// --- Mock CategoryRepository ---

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ConfirmLedgerEntry(ctx context.Context, write portsrepo.ConfirmLedgerWrite) (*portsrepo.ConfirmLedgerResult, error) {
	args := m.Called(ctx, write)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.ConfirmLedgerResult), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByUser(ctx context.Context, userID string, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock ExtractorSvc ---

type MockExtractorSvc struct {
	mock.Mock
}

func (m *MockExtractorSvc) Extract(ctx context.Context, category domain.ReceiptCategory, content []byte) (*domain.ExtractedTransactionRecord, error) {
	args := m.Called(ctx, category, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedTransactionRecord), args.Error(1)
}

// --- Mock MatcherSvc ---

type MockMatcherSvc struct {
	mock.Mock
}

func (m *MockMatcherSvc) MatchObligations(ctx context.Context, userID string, amount decimal.Decimal, concept string) ([]domain.ObligationMatch, error) {
	args := m.Called(ctx, userID, amount, concept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ObligationMatch), args.Error(1)
}

// --- Mock ClassifierSvc ---

type MockClassifierSvc struct {
	mock.Mock
}

func (m *MockClassifierSvc) Classify(ctx context.Context, content []byte, fileName string) domain.Classification {
	args := m.Called(ctx, content, fileName)
	return args.Get(0).(domain.Classification)
}
