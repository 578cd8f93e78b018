package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/orghub/orghub-backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository onto the shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		FinanceRepo:      NewFinanceRepository(dbPool),
		NotificationRepo: NewNotificationRepository(dbPool),
		UserRepo:         NewUserRepository(dbPool),
		EventRepo:        NewEventRepository(dbPool),
		NewsRepo:         NewNewsRepository(dbPool),
		MinutesRepo:      NewMinutesRepository(dbPool),
	}
}
