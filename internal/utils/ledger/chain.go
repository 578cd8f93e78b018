// Package ledger holds the pure arithmetic of the running-balance chain.
// The pgsql finance repository uses it to rewrite balance_after for the
// suffix of entries affected by a write; tests use Replay to re-derive the
// whole chain from zero and compare.
package ledger

import (
	"sort"

	"github.com/orghub/orghub-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedDelta returns the amount of a transaction with its category sign
// applied: positive for Income, negative for Expense.
func SignedDelta(t domain.Transaction) decimal.Decimal {
	if t.Category == domain.Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Position identifies a transaction's place in the total ledger ordering.
// Ordering is (date asc, id asc); id breaks ties between same-date entries.
type Position struct {
	Date int64 // unix nanos of the effective date
	ID   int64
}

// PositionOf returns the chain position of a transaction.
func PositionOf(t domain.Transaction) Position {
	return Position{Date: t.Date.UTC().UnixNano(), ID: t.ID}
}

// Before reports whether p strictly precedes q in the chain ordering.
func (p Position) Before(q Position) bool {
	if p.Date != q.Date {
		return p.Date < q.Date
	}
	return p.ID < q.ID
}

// Min returns the earlier of the two positions.
func Min(p, q Position) Position {
	if q.Before(p) {
		return q
	}
	return p
}

// Recompute folds the signed deltas of entries onto prevBalance, setting
// BalanceAfter on every entry in place. Entries must already be sorted in
// chain order. Each balance depends on the previous one, so this is a
// strictly sequential walk.
func Recompute(prevBalance decimal.Decimal, entries []domain.Transaction) {
	running := prevBalance
	for i := range entries {
		running = running.Add(SignedDelta(entries[i]))
		entries[i].BalanceAfter = running
	}
}

// Sort orders entries by (date asc, id asc) in place.
func Sort(entries []domain.Transaction) {
	sort.Slice(entries, func(i, j int) bool {
		return PositionOf(entries[i]).Before(PositionOf(entries[j]))
	})
}

// Replay re-derives BalanceAfter for the full ledger from zero. It sorts a
// copy of the input and returns it; the input is not modified.
func Replay(entries []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(entries))
	copy(out, entries)
	Sort(out)
	Recompute(decimal.Zero, out)
	return out
}
