package services

import (
	"context"
	"time"

	"github.com/orghub/orghub-backend/internal/core/domain"
	"github.com/orghub/orghub-backend/internal/dto"
	"github.com/shopspring/decimal"
)

// FinanceReaderSvc defines the read side of the ledger. It never mutates.
type FinanceReaderSvc interface {
	GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, error)
	// History returns a page in (date desc, id desc) order with
	// balance_before per row and the ledger's current balance.
	History(ctx context.Context, params dto.HistoryParams) (*dto.HistoryResponse, error)
	Summary(ctx context.Context, startDate, endDate *time.Time) (*domain.FinanceSummary, error)
	CurrentBalance(ctx context.Context) (decimal.Decimal, error)
}

// FinanceWriterSvc defines ledger mutations; each one triggers a
// recomputation of the affected suffix before it is durable.
type FinanceWriterSvc interface {
	Append(ctx context.Context, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)
	Amend(ctx context.Context, id int64, req dto.UpdateTransactionRequest, updaterUserID string) (*domain.Transaction, error)
	Remove(ctx context.Context, id int64) error
}

// FinanceSvcFacade combines ledger reads and writes.
type FinanceSvcFacade interface {
	FinanceReaderSvc
	FinanceWriterSvc
}

// NotificationSvcFacade is the durable inbox plus best-effort live delivery.
type NotificationSvcFacade interface {
	// Notify persists a notification and, if the recipient has an open
	// channel, pushes it there. Push failures are never returned.
	Notify(ctx context.Context, userID, title, content string) (*domain.Notification, error)
	// Broadcast fans Notify out to every member, fire-and-forget.
	Broadcast(ctx context.Context, title, content string)
	ListInbox(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int64, userID string) (*domain.Notification, error)
	// OpenChannel registers a live delivery channel for the user. The
	// returned cancel func deregisters it and must be called on disconnect.
	OpenChannel(userID string) (<-chan domain.Notification, func())
	SaveFCMToken(ctx context.Context, userID, token string) error
}

// UserSvcFacade manages members and credentials.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string, deleterUserID string) error
}

// AuthSvcFacade issues and validates credentials.
type AuthSvcFacade interface {
	Login(ctx context.Context, email, password string) (*dto.LoginResponse, error)
	Register(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
}

// EventSvcFacade manages events and attendance; event creation and
// rescheduling fan out notifications.
type EventSvcFacade interface {
	CreateEvent(ctx context.Context, req dto.CreateEventRequest, creatorUserID string) (*domain.Event, error)
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, id int64, req dto.UpdateEventRequest, updaterUserID string) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	MarkAttendance(ctx context.Context, eventID int64, userID string, status domain.AttendanceStatus) error
	ListAttendance(ctx context.Context, eventID int64) ([]domain.Attendance, error)
}

// NewsSvcFacade manages announcements; publishing fans out notifications.
type NewsSvcFacade interface {
	CreateNews(ctx context.Context, req dto.CreateNewsRequest, creatorUserID string) (*domain.News, error)
	GetNews(ctx context.Context, id int64) (*domain.News, error)
	ListNews(ctx context.Context, limit, offset int) ([]domain.News, error)
	UpdateNews(ctx context.Context, id int64, req dto.UpdateNewsRequest, updaterUserID string) (*domain.News, error)
	DeleteNews(ctx context.Context, id int64) error
}

// MinutesSvcFacade manages meeting minutes; adding minutes fans out
// notifications.
type MinutesSvcFacade interface {
	CreateMinutes(ctx context.Context, req dto.CreateMinutesRequest, creatorUserID string) (*domain.Minutes, error)
	GetMinutes(ctx context.Context, id int64) (*domain.Minutes, error)
	ListMinutes(ctx context.Context, limit, offset int) ([]domain.Minutes, error)
	UpdateMinutes(ctx context.Context, id int64, req dto.UpdateMinutesRequest, updaterUserID string) (*domain.Minutes, error)
	DeleteMinutes(ctx context.Context, id int64) error
}

// ServiceContainer bundles all services for route registration.
type ServiceContainer struct {
	Finance      FinanceSvcFacade
	Notification NotificationSvcFacade
	User         UserSvcFacade
	Auth         AuthSvcFacade
	Event        EventSvcFacade
	News         NewsSvcFacade
	Minutes      MinutesSvcFacade
}
