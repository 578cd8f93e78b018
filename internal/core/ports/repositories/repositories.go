package repositories

import (
	"context"
	"time"

	"github.com/orghub/orghub-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FinanceReader defines read operations over the ledger.
type FinanceReader interface {
	// FindTransactionByID retrieves a single ledger entry.
	FindTransactionByID(ctx context.Context, id int64) (*domain.Transaction, error)

	// ListTransactions returns a page of entries matching the filter in
	// (date desc, id desc) order, without balance_before.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter, limit, offset int) ([]domain.Transaction, error)

	// ListLedgerEntries returns a page of entries matching the filter in
	// (date desc, id desc) order. Each entry carries balance_before taken
	// from the global unfiltered chain. A non-nil nextToken continues a
	// previous page; the returned token is nil on the last page.
	ListLedgerEntries(ctx context.Context, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// CurrentBalance returns balance_after of the last entry in chain
	// order, or zero for an empty ledger.
	CurrentBalance(ctx context.Context) (decimal.Decimal, error)

	// Summarize sums amounts per category within the window.
	Summarize(ctx context.Context, startDate, endDate *time.Time) (*domain.FinanceSummary, error)
}

// FinanceWriter defines ledger mutations. Every method restores the chain
// invariant before returning; a failed call leaves the ledger untouched.
type FinanceWriter interface {
	// CreateTransaction persists a new entry at its (date, id) position and
	// recomputes balance_after for it and every later entry.
	CreateTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)

	// AmendTransaction applies the non-nil fields of update to the entry and,
	// if the update touches amount, category or date, recomputes the suffix
	// from the earliest affected position.
	AmendTransaction(ctx context.Context, id int64, update domain.TransactionUpdate, updatedBy string, updatedAt time.Time) (*domain.Transaction, error)

	// RemoveTransaction deletes the entry and recomputes its successors.
	RemoveTransaction(ctx context.Context, id int64) error
}

// FinanceRepositoryFacade combines ledger reads and writes.
type FinanceRepositoryFacade interface {
	FinanceReader
	FinanceWriter
}

// NotificationRepositoryFacade persists the notification inbox.
type NotificationRepositoryFacade interface {
	SaveNotification(ctx context.Context, n domain.Notification) (*domain.Notification, error)
	ListNotificationsByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	// MarkNotificationRead flips is_read for the given notification if it
	// belongs to userID; apperrors.ErrNotFound otherwise.
	MarkNotificationRead(ctx context.Context, id int64, userID string) (*domain.Notification, error)
}

// UserRepositoryFacade persists members.
type UserRepositoryFacade interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	// ListUserIDs returns the IDs of all non-deleted users (fan-out targets).
	ListUserIDs(ctx context.Context) ([]string, error)
	UpdateUser(ctx context.Context, userID string, update domain.UserUpdate, updatedBy string, updatedAt time.Time) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string, deletedBy string, deletedAt time.Time) error
	SaveFCMToken(ctx context.Context, userID string, token string) error
}

// EventRepositoryFacade persists events and attendance.
type EventRepositoryFacade interface {
	SaveEvent(ctx context.Context, event domain.Event) (*domain.Event, error)
	FindEventByID(ctx context.Context, id int64) (*domain.Event, error)
	ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, id int64, update domain.EventUpdate, updatedBy string, updatedAt time.Time) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	SaveAttendance(ctx context.Context, att domain.Attendance) error
	ListAttendanceByEvent(ctx context.Context, eventID int64) ([]domain.Attendance, error)
}

// NewsRepositoryFacade persists news announcements.
type NewsRepositoryFacade interface {
	SaveNews(ctx context.Context, news domain.News) (*domain.News, error)
	FindNewsByID(ctx context.Context, id int64) (*domain.News, error)
	ListNews(ctx context.Context, limit, offset int) ([]domain.News, error)
	UpdateNews(ctx context.Context, id int64, update domain.NewsUpdate, updatedBy string, updatedAt time.Time) (*domain.News, error)
	DeleteNews(ctx context.Context, id int64) error
}

// MinutesRepositoryFacade persists meeting minutes.
type MinutesRepositoryFacade interface {
	SaveMinutes(ctx context.Context, m domain.Minutes) (*domain.Minutes, error)
	FindMinutesByID(ctx context.Context, id int64) (*domain.Minutes, error)
	ListMinutes(ctx context.Context, limit, offset int) ([]domain.Minutes, error)
	UpdateMinutes(ctx context.Context, id int64, update domain.MinutesUpdate, updatedBy string, updatedAt time.Time) (*domain.Minutes, error)
	DeleteMinutes(ctx context.Context, id int64) error
}

// RepositoryProvider bundles all repositories for wiring.
type RepositoryProvider struct {
	FinanceRepo      FinanceRepositoryFacade
	NotificationRepo NotificationRepositoryFacade
	UserRepo         UserRepositoryFacade
	EventRepo        EventRepositoryFacade
	NewsRepo         NewsRepositoryFacade
	MinutesRepo      MinutesRepositoryFacade
}
