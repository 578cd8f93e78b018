package ledger_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/orghub/orghub-backend/internal/core/domain"
	"github.com/orghub/orghub-backend/internal/utils/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(id int64, category domain.Category, amount int64, date time.Time) domain.Transaction {
	return domain.Transaction{
		ID:       id,
		Category: category,
		Amount:   decimal.NewFromInt(amount),
		Date:     date,
	}
}

func TestSignedDelta(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	income := txn(1, domain.Income, 100, base)
	expense := txn(2, domain.Expense, 40, base)

	assert.True(t, ledger.SignedDelta(income).Equal(decimal.NewFromInt(100)))
	assert.True(t, ledger.SignedDelta(expense).Equal(decimal.NewFromInt(-40)))
}

func TestPositionOrdering(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	earlier := ledger.PositionOf(txn(5, domain.Income, 1, base))
	later := ledger.PositionOf(txn(3, domain.Income, 1, base.Add(time.Hour)))
	assert.True(t, earlier.Before(later), "earlier date wins regardless of id")

	lowID := ledger.PositionOf(txn(3, domain.Income, 1, base))
	highID := ledger.PositionOf(txn(5, domain.Income, 1, base))
	assert.True(t, lowID.Before(highID), "id breaks same-date ties")
	assert.False(t, highID.Before(lowID))

	assert.Equal(t, lowID, ledger.Min(lowID, highID))
	assert.Equal(t, lowID, ledger.Min(highID, lowID))
}

func TestReplay_SimpleChain(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	entries := []domain.Transaction{
		txn(1, domain.Income, 100, base),
		txn(2, domain.Expense, 30, base.AddDate(0, 0, 1)),
		txn(3, domain.Income, 80, base.AddDate(0, 0, 2)),
	}

	chain := ledger.Replay(entries)
	require.Len(t, chain, 3)
	assert.True(t, chain[0].BalanceAfter.Equal(decimal.NewFromInt(100)))
	assert.True(t, chain[1].BalanceAfter.Equal(decimal.NewFromInt(70)))
	assert.True(t, chain[2].BalanceAfter.Equal(decimal.NewFromInt(150)))
}

// A backdated entry belongs between existing ones: the whole suffix after it
// must shift by its signed delta.
func TestReplay_BackdatedInsert(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	entries := []domain.Transaction{
		txn(1, domain.Income, 60, base.AddDate(0, 0, 5)),
		// Inserted later but dated earlier, so it comes first in the chain.
		txn(2, domain.Expense, 40, base),
	}

	chain := ledger.Replay(entries)
	require.Len(t, chain, 2)
	assert.Equal(t, int64(2), chain[0].ID)
	assert.True(t, chain[0].BalanceAfter.Equal(decimal.NewFromInt(-40)))
	assert.Equal(t, int64(1), chain[1].ID)
	assert.True(t, chain[1].BalanceAfter.Equal(decimal.NewFromInt(20)))
}

func TestReplay_DeleteSplicesChain(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	entries := []domain.Transaction{
		txn(1, domain.Income, 100, base),
		txn(2, domain.Expense, 30, base.AddDate(0, 0, 1)),
		txn(3, domain.Income, 10, base.AddDate(0, 0, 2)),
	}

	full := ledger.Replay(entries)
	assert.True(t, full[2].BalanceAfter.Equal(decimal.NewFromInt(80)))

	// Remove the middle entry; its successors reconnect to its predecessor.
	spliced := ledger.Replay([]domain.Transaction{entries[0], entries[2]})
	require.Len(t, spliced, 2)
	assert.True(t, spliced[0].BalanceAfter.Equal(decimal.NewFromInt(100)))
	assert.True(t, spliced[1].BalanceAfter.Equal(decimal.NewFromInt(110)))
}

// Recompute applied to a suffix must agree with a full replay from zero, for
// any position the suffix starts at.
func TestRecompute_SuffixMatchesFullReplay(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(50)
		entries := make([]domain.Transaction, n)
		for i := range entries {
			category := domain.Income
			if rng.Intn(2) == 0 {
				category = domain.Expense
			}
			// Random dates with deliberate collisions so id tie-breaking is hit.
			date := base.AddDate(0, 0, rng.Intn(10))
			entries[i] = txn(int64(i+1), category, int64(1+rng.Intn(500)), date)
		}

		want := ledger.Replay(entries)

		// Recompute only the suffix starting at a random position, seeding
		// with the predecessor's balance, the way a targeted rewrite does.
		start := rng.Intn(n)
		prev := decimal.Zero
		if start > 0 {
			prev = want[start-1].BalanceAfter
		}
		suffix := make([]domain.Transaction, n-start)
		copy(suffix, want[start:])
		for i := range suffix {
			suffix[i].BalanceAfter = decimal.Zero
		}
		ledger.Recompute(prev, suffix)

		for i := range suffix {
			assert.True(t, suffix[i].BalanceAfter.Equal(want[start+i].BalanceAfter),
				"trial %d entry %d: suffix recompute %s, full replay %s",
				trial, start+i, suffix[i].BalanceAfter, want[start+i].BalanceAfter)
		}
	}
}

// Simulates the write path edge cases: amend an entry's amount and date,
// then verify a recompute from the earliest affected position restores the
// same chain a from-scratch replay produces.
func TestRecompute_AmendFromEarliestPosition(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	entries := []domain.Transaction{
		txn(1, domain.Income, 100, base),
		txn(2, domain.Income, 50, base.AddDate(0, 0, 2)),
		txn(3, domain.Expense, 20, base.AddDate(0, 0, 4)),
	}
	before := ledger.Replay(entries)

	// Move entry 2 earlier than entry 1 and change its amount.
	amended := make([]domain.Transaction, len(entries))
	copy(amended, entries)
	amended[1].Date = base.AddDate(0, 0, -1)
	amended[1].Amount = decimal.NewFromInt(5)

	oldPos := ledger.PositionOf(before[1])
	newPos := ledger.PositionOf(amended[1])
	require.True(t, newPos.Before(oldPos))
	require.Equal(t, newPos, ledger.Min(oldPos, newPos))

	chain := ledger.Replay(amended)
	require.Len(t, chain, 3)
	assert.Equal(t, int64(2), chain[0].ID)
	assert.True(t, chain[0].BalanceAfter.Equal(decimal.NewFromInt(5)))
	assert.True(t, chain[1].BalanceAfter.Equal(decimal.NewFromInt(105)))
	assert.True(t, chain[2].BalanceAfter.Equal(decimal.NewFromInt(85)))
}

func TestReplay_DoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []domain.Transaction{
		txn(2, domain.Income, 10, base.AddDate(0, 0, 1)),
		txn(1, domain.Income, 20, base),
	}

	_ = ledger.Replay(entries)

	assert.Equal(t, int64(2), entries[0].ID, "input order preserved")
	assert.True(t, entries[0].BalanceAfter.IsZero(), "input balances untouched")
}
