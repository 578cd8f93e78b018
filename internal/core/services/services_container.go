package services

import (
	portsrepo "github.com/orghub/orghub-backend/internal/core/ports/repositories"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/pkg/config"
)

// NewServiceContainer wires every service with its dependencies. The
// notification service comes first since events, news and minutes fan out
// through it.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	relay := NewNotificationRelay()
	container.Notification = NewNotificationService(repos.NotificationRepo, repos.UserRepo, relay)

	container.Finance = NewFinanceService(repos.FinanceRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Auth = NewAuthService(cfg, container.User)
	container.Event = NewEventService(repos.EventRepo, container.Notification)
	container.News = NewNewsService(repos.NewsRepo, container.Notification)
	container.Minutes = NewMinutesService(repos.MinutesRepo, container.Notification)

	return container
}
