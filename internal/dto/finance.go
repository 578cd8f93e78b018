package dto

import (
	"time"

	"github.com/orghub/orghub-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is the payload for POST /finance.
type CreateTransactionRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Category    domain.Category `json:"category" binding:"required,oneof=Income Expense"`
	Date        time.Time       `json:"date" binding:"required"`
	DocumentURL *string         `json:"documentURL"`
}

// UpdateTransactionRequest is the payload for PUT /finance/{id}.
// Only provided fields change.
type UpdateTransactionRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    *domain.Category `json:"category" binding:"omitempty,oneof=Income Expense"`
	Date        *time.Time       `json:"date"`
	DocumentURL *string          `json:"documentURL"`
}

// ToUpdate converts the request into the domain partial-update struct.
func (r UpdateTransactionRequest) ToUpdate() domain.TransactionUpdate {
	return domain.TransactionUpdate{
		Title:       r.Title,
		Description: r.Description,
		Amount:      r.Amount,
		Category:    r.Category,
		Date:        r.Date,
		DocumentURL: r.DocumentURL,
	}
}

// ListTransactionsParams filters the legacy GET /finance listing.
type ListTransactionsParams struct {
	Category  *domain.Category
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// HistoryParams filters GET /finance/history.
type HistoryParams struct {
	Category  *domain.Category
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	NextToken *string
}

// TransactionResponse is the wire form of a single ledger entry.
type TransactionResponse struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Category      domain.Category `json:"category"`
	Date          time.Time       `json:"date"`
	DocumentURL   *string         `json:"documentURL,omitempty"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	CreatedBy     string          `json:"createdBy"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// HistoryResponse is the payload of GET /finance/history.
type HistoryResponse struct {
	Transactions   []TransactionResponse `json:"transactions"`
	CurrentBalance decimal.Decimal       `json:"currentBalance"`
	NextToken      *string               `json:"nextToken,omitempty"`
}

// SummaryResponse is the payload of GET /finance/summary.
type SummaryResponse struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Net          decimal.Decimal `json:"net"`
}

// ToTransactionResponse converts a domain.Transaction. BalanceBefore is
// derived from the stored chain: balance_after minus this entry's signed
// delta.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	delta := t.Amount
	if t.Category == domain.Expense {
		delta = delta.Neg()
	}
	return TransactionResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Amount:        t.Amount,
		Category:      t.Category,
		Date:          t.Date,
		DocumentURL:   t.DocumentURL,
		BalanceBefore: t.BalanceAfter.Sub(delta),
		BalanceAfter:  t.BalanceAfter,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
		LastUpdatedAt: t.LastUpdatedAt,
	}
}

// ToLedgerEntryResponse converts a read-model entry, keeping the
// repository-computed balance_before.
func ToLedgerEntryResponse(e *domain.LedgerEntry) TransactionResponse {
	resp := ToTransactionResponse(&e.Transaction)
	resp.BalanceBefore = e.BalanceBefore
	return resp
}

// ToSummaryResponse converts a domain.FinanceSummary.
func ToSummaryResponse(s *domain.FinanceSummary) SummaryResponse {
	return SummaryResponse{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Net:          s.Net,
	}
}
