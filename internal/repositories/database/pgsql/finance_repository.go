package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orghub/orghub-backend/internal/apperrors"
	"github.com/orghub/orghub-backend/internal/core/domain"
	portsrepo "github.com/orghub/orghub-backend/internal/core/ports/repositories"
	"github.com/orghub/orghub-backend/internal/utils/ledger"
	"github.com/orghub/orghub-backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// ledgerLockKey is the advisory lock key serializing all ledger mutations.
// Every append/amend/remove takes this transaction-scoped lock before
// reading the chain, so two writers can never interleave their
// read-modify-write of the suffix. Readers are unaffected (MVCC).
const ledgerLockKey = 0x0F1A4CE5

const transactionColumns = `id, title, description, amount, category, date, document_url, balance_after, created_at, created_by, last_updated_at, last_updated_by`

// PgxFinanceRepository persists ledger transactions and maintains the
// running-balance chain.
type PgxFinanceRepository struct {
	BaseRepository
}

// NewFinanceRepository creates a repository for ledger data.
func NewFinanceRepository(pool *pgxpool.Pool) portsrepo.FinanceRepositoryFacade {
	return &PgxFinanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FinanceRepositoryFacade = (*PgxFinanceRepository)(nil)

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Amount,
		&t.Category,
		&t.Date,
		&t.DocumentURL,
		&t.BalanceAfter,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// lockLedger takes the ledger-wide advisory lock for the duration of tx.
func (r *PgxFinanceRepository) lockLedger(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ledgerLockKey); err != nil {
		return wrapWriteError("failed to lock ledger", err)
	}
	return nil
}

// recomputeFrom restores the chain invariant for every entry at or after
// the (date, id) position. The predecessor's balance_after seeds the fold;
// each later entry is rewritten in chain order. Must run inside tx while
// holding the ledger lock.
func (r *PgxFinanceRepository) recomputeFrom(ctx context.Context, tx pgx.Tx, date time.Time, id int64) error {
	prevBalance := decimal.Zero
	prevQuery := `
		SELECT balance_after
		FROM finances
		WHERE (date, id) < ($1, $2)
		ORDER BY date DESC, id DESC
		LIMIT 1;
	`
	err := tx.QueryRow(ctx, prevQuery, date, id).Scan(&prevBalance)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return wrapWriteError("failed to read predecessor balance", err)
	}

	suffixQuery := `
		SELECT id, amount, category, date
		FROM finances
		WHERE (date, id) >= ($1, $2)
		ORDER BY date ASC, id ASC;
	`
	rows, err := tx.Query(ctx, suffixQuery, date, id)
	if err != nil {
		return wrapWriteError("failed to read chain suffix", err)
	}
	defer rows.Close()

	var suffix []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.Amount, &t.Category, &t.Date); err != nil {
			return wrapWriteError("failed to scan chain suffix row", err)
		}
		suffix = append(suffix, t)
	}
	if err := rows.Err(); err != nil {
		return wrapWriteError("error iterating chain suffix rows", err)
	}
	rows.Close()

	// Sequential fold: each balance depends on the previous one.
	ledger.Recompute(prevBalance, suffix)

	batch := &pgx.Batch{}
	for _, t := range suffix {
		batch.Queue(`UPDATE finances SET balance_after = $2 WHERE id = $1;`, t.ID, t.BalanceAfter)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return wrapWriteError("failed to rewrite chain suffix balances", err)
	}
	return nil
}

// CreateTransaction inserts a ledger entry at its (date, id) position and
// recomputes balance_after for it and everything after it, atomically.
func (r *PgxFinanceRepository) CreateTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if err := r.lockLedger(ctx, tx); err != nil {
		return nil, err
	}

	insertQuery := `
		INSERT INTO finances (title, description, amount, category, date, document_url, balance_after, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, $10)
		RETURNING id;
	`
	var id int64
	err = tx.QueryRow(ctx, insertQuery,
		txn.Title,
		txn.Description,
		txn.Amount,
		txn.Category,
		txn.Date,
		txn.DocumentURL,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	).Scan(&id)
	if err != nil {
		return nil, wrapWriteError("failed to insert transaction", err)
	}

	if err := r.recomputeFrom(ctx, tx, txn.Date, id); err != nil {
		return nil, err
	}

	created, err := scanTransaction(tx.QueryRow(ctx, `SELECT `+transactionColumns+` FROM finances WHERE id = $1;`, id))
	if err != nil {
		return nil, wrapWriteError("failed to reload created transaction", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return created, nil
}

// AmendTransaction applies the non-nil fields of update to the entry.
// When the update touches amount, category or date, the suffix is
// recomputed from the earliest of the entry's old and new positions, which
// covers both the vacated gap and the new neighborhood.
func (r *PgxFinanceRepository) AmendTransaction(ctx context.Context, id int64, update domain.TransactionUpdate, updatedBy string, updatedAt time.Time) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if err := r.lockLedger(ctx, tx); err != nil {
		return nil, err
	}

	existing, err := scanTransaction(tx.QueryRow(ctx, `SELECT `+transactionColumns+` FROM finances WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, wrapWriteError("failed to find transaction for amend", err)
	}

	oldDate := existing.Date

	// Only provided fields change.
	if update.Title != nil {
		existing.Title = *update.Title
	}
	if update.Description != nil {
		existing.Description = *update.Description
	}
	if update.Amount != nil {
		existing.Amount = *update.Amount
	}
	if update.Category != nil {
		existing.Category = *update.Category
	}
	if update.Date != nil {
		existing.Date = *update.Date
	}
	if update.DocumentURL != nil {
		existing.DocumentURL = update.DocumentURL
	}
	existing.LastUpdatedAt = updatedAt
	existing.LastUpdatedBy = updatedBy

	updateQuery := `
		UPDATE finances
		SET title = $2,
		    description = $3,
		    amount = $4,
		    category = $5,
		    date = $6,
		    document_url = $7,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery,
		existing.ID,
		existing.Title,
		existing.Description,
		existing.Amount,
		existing.Category,
		existing.Date,
		existing.DocumentURL,
		existing.LastUpdatedAt,
		existing.LastUpdatedBy,
	); err != nil {
		return nil, wrapWriteError("failed to update transaction "+strconv.FormatInt(id, 10), err)
	}

	if update.TouchesChain() {
		from := oldDate
		if existing.Date.Before(oldDate) {
			from = existing.Date
		}
		if err := r.recomputeFrom(ctx, tx, from, id); err != nil {
			return nil, err
		}
	}

	amended, err := scanTransaction(tx.QueryRow(ctx, `SELECT `+transactionColumns+` FROM finances WHERE id = $1;`, id))
	if err != nil {
		return nil, wrapWriteError("failed to reload amended transaction", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return amended, nil
}

// RemoveTransaction deletes the entry and splices its successors: their
// balances are recomputed from the vacated position onward.
func (r *PgxFinanceRepository) RemoveTransaction(ctx context.Context, id int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.lockLedger(ctx, tx); err != nil {
		return err
	}

	var date time.Time
	err = tx.QueryRow(ctx, `SELECT date FROM finances WHERE id = $1;`, id).Scan(&date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return wrapWriteError("failed to find transaction for removal", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM finances WHERE id = $1;`, id); err != nil {
		return wrapWriteError("failed to delete transaction "+strconv.FormatInt(id, 10), err)
	}

	if err := r.recomputeFrom(ctx, tx, date, id); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a single ledger entry.
func (r *PgxFinanceRepository) FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	t, err := scanTransaction(r.Pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM finances WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+strconv.FormatInt(id, 10), err)
	}
	return t, nil
}

// appendFilterClauses appends WHERE conditions for the filter to args and
// returns the SQL fragment. Placeholders continue from len(args).
func appendFilterClauses(filter domain.TransactionFilter, args *[]interface{}) string {
	clause := ""
	if filter.Category != nil {
		*args = append(*args, *filter.Category)
		clause += ` AND category = $` + strconv.Itoa(len(*args))
	}
	if filter.StartDate != nil {
		*args = append(*args, *filter.StartDate)
		clause += ` AND date >= $` + strconv.Itoa(len(*args))
	}
	if filter.EndDate != nil {
		*args = append(*args, *filter.EndDate)
		clause += ` AND date <= $` + strconv.Itoa(len(*args))
	}
	return clause
}

// ListTransactions returns a filtered page in (date desc, id desc) order.
func (r *PgxFinanceRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}

	args := []interface{}{}
	query := `SELECT ` + transactionColumns + ` FROM finances WHERE true`
	query += appendFilterClauses(filter, &args)
	args = append(args, limit)
	query += ` ORDER BY date DESC, id DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}
	return transactions, nil
}

// ListLedgerEntries returns a filtered page with balance_before per row.
// balance_before is computed against the global unfiltered chain (a LAG
// window over (date, id) order, evaluated before the filter) so displayed
// balances stay consistent with the stored balance_after snapshots.
func (r *PgxFinanceRepository) ListLedgerEntries(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 10
	}
	fetchLimit := limit + 1

	args := []interface{}{}
	query := `
		SELECT ` + transactionColumns + `, balance_before
		FROM (
			SELECT ` + transactionColumns + `,
			       COALESCE(LAG(balance_after) OVER (ORDER BY date ASC, id ASC), 0) AS balance_before
			FROM finances
		) chained
		WHERE true`
	query += appendFilterClauses(filter, &args)

	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorID, decodeErr := pagination.DecodeCursor(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, cursorDate, cursorID)
		query += ` AND (date, id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY date DESC, id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger history", err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var e domain.LedgerEntry
		err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Description,
			&e.Amount,
			&e.Category,
			&e.Date,
			&e.DocumentURL,
			&e.BalanceAfter,
			&e.CreatedAt,
			&e.CreatedBy,
			&e.LastUpdatedAt,
			&e.LastUpdatedBy,
			&e.BalanceBefore,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger history row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger history rows", err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeCursor(last.Date, last.ID)
		nextTokenVal = &token
		entries = entries[:limit]
	}
	return entries, nextTokenVal, nil
}

// CurrentBalance returns balance_after of the last entry in chain order.
func (r *PgxFinanceRepository) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.Pool.QueryRow(ctx, `SELECT balance_after FROM finances ORDER BY date DESC, id DESC LIMIT 1;`).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, apperrors.NewAppError(500, "failed to read current balance", err)
	}
	return balance, nil
}

// Summarize sums amounts per category within the window. Summaries are
// plain sums over the filtered set; stored balances are not consulted.
func (r *PgxFinanceRepository) Summarize(ctx context.Context, startDate, endDate *time.Time) (*domain.FinanceSummary, error) {
	args := []interface{}{}
	query := `
		SELECT COALESCE(SUM(amount) FILTER (WHERE category = 'Income'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE category = 'Expense'), 0)
		FROM finances
		WHERE true`
	if startDate != nil {
		args = append(args, *startDate)
		query += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if endDate != nil {
		args = append(args, *endDate)
		query += ` AND date <= $` + strconv.Itoa(len(args))
	}
	query += `;`

	var summary domain.FinanceSummary
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&summary.TotalIncome, &summary.TotalExpense); err != nil {
		return nil, apperrors.NewAppError(500, "failed to summarize finances", err)
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpense)
	return &summary, nil
}
