package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/orghub/orghub-backend/internal/apperrors"
	"github.com/orghub/orghub-backend/internal/core/domain"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/core/services"
	"github.com/orghub/orghub-backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock FinanceRepository ---
type MockFinanceRepository struct {
	mock.Mock
}

func (m *MockFinanceRepository) CreateTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	args := m.Called(ctx, txn)
	var result *domain.Transaction
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.Transaction)
	}
	return result, args.Error(1)
}

func (m *MockFinanceRepository) AmendTransaction(ctx context.Context, id int64, update domain.TransactionUpdate, updatedBy string, updatedAt time.Time) (*domain.Transaction, error) {
	args := m.Called(ctx, id, update, updatedBy, updatedAt)
	var result *domain.Transaction
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.Transaction)
	}
	return result, args.Error(1)
}

func (m *MockFinanceRepository) RemoveTransaction(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFinanceRepository) FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	var result *domain.Transaction
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.Transaction)
	}
	return result, args.Error(1)
}

func (m *MockFinanceRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit, offset int) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter, limit, offset)
	var result []domain.Transaction
	if args.Get(0) != nil {
		result = args.Get(0).([]domain.Transaction)
	}
	return result, args.Error(1)
}

func (m *MockFinanceRepository) ListLedgerEntries(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockFinanceRepository) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockFinanceRepository) Summarize(ctx context.Context, startDate, endDate *time.Time) (*domain.FinanceSummary, error) {
	args := m.Called(ctx, startDate, endDate)
	var result *domain.FinanceSummary
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.FinanceSummary)
	}
	return result, args.Error(1)
}

// --- Test Suite ---
type FinanceServiceTestSuite struct {
	suite.Suite
	mockRepo *MockFinanceRepository
	service  portssvc.FinanceSvcFacade
}

func (suite *FinanceServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockFinanceRepository)
	suite.service = services.NewFinanceService(suite.mockRepo)
}

func validCreateRequest() dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Title:    "Venue rent",
		Amount:   decimal.NewFromInt(250),
		Category: domain.Expense,
		Date:     time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
	}
}

// --- Append ---

func (suite *FinanceServiceTestSuite) TestAppend_Success() {
	ctx := context.Background()
	req := validCreateRequest()
	saved := &domain.Transaction{
		ID:           17,
		Title:        req.Title,
		Amount:       req.Amount,
		Category:     req.Category,
		Date:         req.Date,
		BalanceAfter: decimal.NewFromInt(-250),
	}

	suite.mockRepo.On("CreateTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Title == req.Title &&
			txn.Amount.Equal(req.Amount) &&
			txn.Category == req.Category &&
			txn.CreatedBy == "admin-1" &&
			txn.LastUpdatedBy == "admin-1"
	})).Return(saved, nil).Once()

	created, err := suite.service.Append(ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(int64(17), created.ID)
	suite.True(created.BalanceAfter.Equal(decimal.NewFromInt(-250)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FinanceServiceTestSuite) TestAppend_RejectsNonPositiveAmount() {
	ctx := context.Background()
	req := validCreateRequest()
	req.Amount = decimal.NewFromInt(-5)

	created, err := suite.service.Append(ctx, req, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything)
}

func (suite *FinanceServiceTestSuite) TestAppend_RejectsZeroAmount() {
	ctx := context.Background()
	req := validCreateRequest()
	req.Amount = decimal.Zero

	_, err := suite.service.Append(ctx, req, "admin-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FinanceServiceTestSuite) TestAppend_RejectsUnknownCategory() {
	ctx := context.Background()
	req := validCreateRequest()
	req.Category = domain.Category("Transfer")

	_, err := suite.service.Append(ctx, req, "admin-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything)
}

func (suite *FinanceServiceTestSuite) TestAppend_RetriesTransientStorageErrors() {
	ctx := context.Background()
	req := validCreateRequest()
	saved := &domain.Transaction{ID: 3, Amount: req.Amount, Category: req.Category}
	transient := apperrors.NewStorageError("serialization failure", nil)

	suite.mockRepo.On("CreateTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
		Return(nil, transient).Twice()
	suite.mockRepo.On("CreateTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
		Return(saved, nil).Once()

	created, err := suite.service.Append(ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(int64(3), created.ID)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "CreateTransaction", 3)
}

func (suite *FinanceServiceTestSuite) TestAppend_GivesUpAfterBoundedRetries() {
	ctx := context.Background()
	req := validCreateRequest()
	transient := apperrors.NewStorageError("deadlock detected", nil)

	suite.mockRepo.On("CreateTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
		Return(nil, transient).Times(3)

	_, err := suite.service.Append(ctx, req, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStorage)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "CreateTransaction", 3)
}

func (suite *FinanceServiceTestSuite) TestAppend_DoesNotRetryPermanentErrors() {
	ctx := context.Background()
	req := validCreateRequest()
	permanent := apperrors.NewAppError(500, "column mismatch", nil)

	suite.mockRepo.On("CreateTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
		Return(nil, permanent).Once()

	_, err := suite.service.Append(ctx, req, "admin-1")

	suite.Require().Error(err)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "CreateTransaction", 1)
}

// --- Amend ---

func (suite *FinanceServiceTestSuite) TestAmend_Success() {
	ctx := context.Background()
	newTitle := "Corrected title"
	req := dto.UpdateTransactionRequest{Title: &newTitle}
	updated := &domain.Transaction{ID: 9, Title: newTitle}

	suite.mockRepo.On("AmendTransaction", ctx, int64(9), mock.AnythingOfType("domain.TransactionUpdate"), "admin-1", mock.AnythingOfType("time.Time")).
		Return(updated, nil).Once()

	result, err := suite.service.Amend(ctx, 9, req, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(newTitle, result.Title)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FinanceServiceTestSuite) TestAmend_RejectsNonPositiveAmount() {
	ctx := context.Background()
	bad := decimal.NewFromInt(0)
	req := dto.UpdateTransactionRequest{Amount: &bad}

	_, err := suite.service.Amend(ctx, 9, req, "admin-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "AmendTransaction",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FinanceServiceTestSuite) TestAmend_PropagatesNotFound() {
	ctx := context.Background()
	req := dto.UpdateTransactionRequest{}

	suite.mockRepo.On("AmendTransaction", ctx, int64(404), mock.AnythingOfType("domain.TransactionUpdate"), "admin-1", mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Amend(ctx, 404, req, "admin-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Remove ---

func (suite *FinanceServiceTestSuite) TestRemove_RetriesThenSucceeds() {
	ctx := context.Background()
	transient := apperrors.NewStorageError("serialization failure", nil)

	suite.mockRepo.On("RemoveTransaction", ctx, int64(5)).Return(transient).Once()
	suite.mockRepo.On("RemoveTransaction", ctx, int64(5)).Return(nil).Once()

	err := suite.service.Remove(ctx, 5)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "RemoveTransaction", 2)
}

// --- History ---

func (suite *FinanceServiceTestSuite) TestHistory_AttachesCurrentBalance() {
	ctx := context.Background()
	token := "next-page"
	entries := []domain.LedgerEntry{
		{
			Transaction: domain.Transaction{
				ID:           2,
				Amount:       decimal.NewFromInt(30),
				Category:     domain.Expense,
				BalanceAfter: decimal.NewFromInt(70),
			},
			BalanceBefore: decimal.NewFromInt(100),
		},
	}

	suite.mockRepo.On("ListLedgerEntries", ctx, mock.AnythingOfType("domain.TransactionFilter"), 20, (*string)(nil)).
		Return(entries, &token, nil).Once()
	suite.mockRepo.On("CurrentBalance", ctx).Return(decimal.NewFromInt(70), nil).Once()

	resp, err := suite.service.History(ctx, dto.HistoryParams{Limit: 20})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Transactions, 1)
	suite.True(resp.Transactions[0].BalanceBefore.Equal(decimal.NewFromInt(100)))
	suite.True(resp.Transactions[0].BalanceAfter.Equal(decimal.NewFromInt(70)))
	suite.True(resp.CurrentBalance.Equal(decimal.NewFromInt(70)))
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(token, *resp.NextToken)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FinanceServiceTestSuite) TestHistory_EmptyLedger() {
	ctx := context.Background()

	suite.mockRepo.On("ListLedgerEntries", ctx, mock.AnythingOfType("domain.TransactionFilter"), 20, (*string)(nil)).
		Return([]domain.LedgerEntry{}, nil, nil).Once()
	suite.mockRepo.On("CurrentBalance", ctx).Return(decimal.Zero, nil).Once()

	resp, err := suite.service.History(ctx, dto.HistoryParams{Limit: 20})

	suite.Require().NoError(err)
	suite.Empty(resp.Transactions)
	suite.True(resp.CurrentBalance.IsZero())
	suite.Nil(resp.NextToken)
}

func TestFinanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FinanceServiceTestSuite))
}
