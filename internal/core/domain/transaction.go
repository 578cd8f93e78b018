package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a ledger transaction as money in or money out.
type Category string

const (
	Income  Category = "Income"
	Expense Category = "Expense"
)

// Valid reports whether the category is one of the two supported values.
func (c Category) Valid() bool {
	return c == Income || c == Expense
}

// Transaction is a single entry in the organization's financial ledger.
//
// BalanceAfter is derived but persisted: it is the running balance of the
// ledger immediately after this transaction when all transactions are
// ordered by (date asc, id asc). Any write that changes amount, category or
// date of an entry must restore that property for every later entry before
// it is considered durable.
type Transaction struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"` // always positive; sign comes from Category
	Category     Category        `json:"category"`
	Date         time.Time       `json:"date"` // effective date, may be backdated
	DocumentURL  *string         `json:"documentURL,omitempty"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	AuditFields
}

// TransactionUpdate describes a partial update to a ledger entry.
// Only non-nil fields are applied.
type TransactionUpdate struct {
	Title       *string
	Description *string
	Amount      *decimal.Decimal
	Category    *Category
	Date        *time.Time
	DocumentURL *string
}

// TouchesChain reports whether applying the update can change the entry's
// signed delta or its position in the (date, id) ordering, i.e. whether a
// suffix recomputation is required.
func (u TransactionUpdate) TouchesChain() bool {
	return u.Amount != nil || u.Category != nil || u.Date != nil
}

// TransactionFilter narrows ledger reads.
type TransactionFilter struct {
	Category  *Category
	StartDate *time.Time
	EndDate   *time.Time
}

// LedgerEntry is the read model of a Transaction: the stored row plus the
// balance immediately before it in the global (date, id) chain.
type LedgerEntry struct {
	Transaction
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
}

// FinanceSummary aggregates signed amounts within a date window. It is a
// plain sum per category and deliberately independent of BalanceAfter.
type FinanceSummary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Net          decimal.Decimal `json:"net"`
}
