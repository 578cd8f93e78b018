package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/orghub/orghub-backend/internal/apperrors"
	"github.com/orghub/orghub-backend/internal/core/domain"
	portsrepo "github.com/orghub/orghub-backend/internal/core/ports/repositories"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/dto"
	"github.com/orghub/orghub-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

const (
	maxWriteAttempts  = 3
	writeRetryBackoff = 50 * time.Millisecond
)

// financeService implements the ledger operations on top of the finance
// repository. Writes that fail on a transient storage error are retried a
// bounded number of times; the repository guarantees each attempt either
// lands with the chain intact or leaves the ledger untouched.
type financeService struct {
	repo portsrepo.FinanceRepositoryFacade
}

// NewFinanceService creates the ledger service.
func NewFinanceService(repo portsrepo.FinanceRepositoryFacade) portssvc.FinanceSvcFacade {
	return &financeService{repo: repo}
}

var _ portssvc.FinanceSvcFacade = (*financeService)(nil)

func validateTransactionInput(amount decimal.Decimal, category domain.Category) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.NewAppError(400, "amount must be positive", apperrors.ErrValidation)
	}
	if !category.Valid() {
		return apperrors.NewAppError(400, "category must be Income or Expense", apperrors.ErrValidation)
	}
	return nil
}

// withWriteRetry runs op, retrying on transient storage failures with
// exponential backoff. Non-storage errors are returned immediately.
func withWriteRetry[T any](ctx context.Context, op func() (T, error)) (T, error) {
	var result T
	var err error
	backoff := writeRetryBackoff
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		result, err = op()
		if err == nil || !errors.Is(err, apperrors.ErrStorage) {
			return result, err
		}
		if attempt < maxWriteAttempts {
			logger := middleware.GetLoggerFromCtx(ctx)
			logger.Warn("Transient storage error on ledger write, retrying",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return result, ctx.Err()
			}
			backoff *= 2
		}
	}
	return result, err
}

func (s *financeService) Append(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	if err := validateTransactionInput(req.Amount, req.Category); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
		DocumentURL: req.DocumentURL,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	created, err := withWriteRetry(ctx, func() (*domain.Transaction, error) {
		return s.repo.CreateTransaction(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Ledger entry appended",
		slog.Int64("transaction_id", created.ID),
		slog.String("category", string(created.Category)),
		slog.String("balance_after", created.BalanceAfter.String()))
	return created, nil
}

func (s *financeService) Amend(ctx context.Context, id int64, req dto.UpdateTransactionRequest, updaterUserID string) (*domain.Transaction, error) {
	if req.Amount != nil && req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewAppError(400, "amount must be positive", apperrors.ErrValidation)
	}
	if req.Category != nil && !req.Category.Valid() {
		return nil, apperrors.NewAppError(400, "category must be Income or Expense", apperrors.ErrValidation)
	}

	update := req.ToUpdate()
	updated, err := withWriteRetry(ctx, func() (*domain.Transaction, error) {
		return s.repo.AmendTransaction(ctx, id, update, updaterUserID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Ledger entry amended",
		slog.Int64("transaction_id", updated.ID),
		slog.Bool("chain_recomputed", update.TouchesChain()))
	return updated, nil
}

func (s *financeService) Remove(ctx context.Context, id int64) error {
	_, err := withWriteRetry(ctx, func() (struct{}, error) {
		return struct{}{}, s.repo.RemoveTransaction(ctx, id)
	})
	if err != nil {
		return err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Ledger entry removed", slog.Int64("transaction_id", id))
	return nil
}

func (s *financeService) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	return s.repo.FindTransactionByID(ctx, id)
}

func (s *financeService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	filter := domain.TransactionFilter{
		Category:  params.Category,
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
	}
	return s.repo.ListTransactions(ctx, filter, params.Limit, params.Offset)
}

// History returns a filtered page of the ledger with per-row balance_before
// and attaches the ledger's overall current balance to the response.
func (s *financeService) History(ctx context.Context, params dto.HistoryParams) (*dto.HistoryResponse, error) {
	filter := domain.TransactionFilter{
		Category:  params.Category,
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
	}
	entries, nextToken, err := s.repo.ListLedgerEntries(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}

	balance, err := s.repo.CurrentBalance(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TransactionResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToLedgerEntryResponse(&entries[i])
	}
	return &dto.HistoryResponse{
		Transactions:   responses,
		CurrentBalance: balance,
		NextToken:      nextToken,
	}, nil
}

func (s *financeService) Summary(ctx context.Context, startDate, endDate *time.Time) (*domain.FinanceSummary, error) {
	return s.repo.Summarize(ctx, startDate, endDate)
}

func (s *financeService) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	return s.repo.CurrentBalance(ctx)
}
