package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/orghub/orghub-backend/internal/core/domain"
	portsrepo "github.com/orghub/orghub-backend/internal/core/ports/repositories"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/middleware"
)

// notificationService persists notifications and relays them to connected
// consumers. Persistence is the durable half; the relay is best-effort.
type notificationService struct {
	notificationRepo portsrepo.NotificationRepositoryFacade
	userRepo         portsrepo.UserRepositoryFacade
	relay            *NotificationRelay
}

// NewNotificationService creates the notification service.
func NewNotificationService(notificationRepo portsrepo.NotificationRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, relay *NotificationRelay) portssvc.NotificationSvcFacade {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		relay:            relay,
	}
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

// Notify persists the notification, then pushes it to the recipient's live
// channel if one is open. Push failures are logged and swallowed; the caller
// only sees persistence errors.
func (s *notificationService) Notify(ctx context.Context, userID, title, content string) (*domain.Notification, error) {
	n := domain.Notification{
		Title:     title,
		Content:   content,
		UserID:    userID,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}

	saved, err := s.notificationRepo.SaveNotification(ctx, n)
	if err != nil {
		return nil, err
	}

	if !s.relay.Push(*saved) {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Debug("No live channel for notification, inbox only",
			slog.String("user_id", userID),
			slog.Int64("notification_id", saved.ID))
	}
	return saved, nil
}

// Broadcast delivers the notification to every member. The fan-out runs in
// the background so callers (event creation, news publishing) are not held
// up by it; per-recipient failures are logged and do not stop the loop.
func (s *notificationService) Broadcast(ctx context.Context, title, content string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	go func() {
		bgCtx := middleware.WithLogger(context.Background(), logger)

		userIDs, err := s.userRepo.ListUserIDs(bgCtx)
		if err != nil {
			logger.Error("Broadcast aborted, failed to list recipients", slog.String("error", err.Error()))
			return
		}

		delivered := 0
		for _, userID := range userIDs {
			if _, err := s.Notify(bgCtx, userID, title, content); err != nil {
				logger.Error("Broadcast delivery failed for recipient",
					slog.String("user_id", userID),
					slog.String("error", err.Error()))
				continue
			}
			delivered++
		}
		logger.Info("Broadcast completed",
			slog.String("title", title),
			slog.Int("recipients", len(userIDs)),
			slog.Int("delivered", delivered))
	}()
}

func (s *notificationService) ListInbox(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.notificationRepo.ListNotificationsByUser(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, id int64, userID string) (*domain.Notification, error) {
	return s.notificationRepo.MarkNotificationRead(ctx, id, userID)
}

// OpenChannel registers a live channel for the user and returns it with a
// cancel func that deregisters exactly this channel.
func (s *notificationService) OpenChannel(userID string) (<-chan domain.Notification, func()) {
	ch := s.relay.Register(userID)
	cancel := func() {
		s.relay.Deregister(userID, ch)
	}
	return ch, cancel
}

func (s *notificationService) SaveFCMToken(ctx context.Context, userID, token string) error {
	return s.userRepo.SaveFCMToken(ctx, userID, token)
}
