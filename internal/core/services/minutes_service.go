package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/orghub/orghub-backend/internal/core/domain"
	portsrepo "github.com/orghub/orghub-backend/internal/core/ports/repositories"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/dto"
	"github.com/orghub/orghub-backend/internal/middleware"
)

// minutesService manages meeting minutes. Adding minutes notifies every
// member.
type minutesService struct {
	minutesRepo     portsrepo.MinutesRepositoryFacade
	notificationSvc portssvc.NotificationSvcFacade
}

// NewMinutesService creates the minutes service.
func NewMinutesService(minutesRepo portsrepo.MinutesRepositoryFacade, notificationSvc portssvc.NotificationSvcFacade) portssvc.MinutesSvcFacade {
	return &minutesService{minutesRepo: minutesRepo, notificationSvc: notificationSvc}
}

var _ portssvc.MinutesSvcFacade = (*minutesService)(nil)

func (s *minutesService) CreateMinutes(ctx context.Context, req dto.CreateMinutesRequest, creatorUserID string) (*domain.Minutes, error) {
	now := time.Now().UTC()
	m := domain.Minutes{
		Title:       req.Title,
		Content:     req.Content,
		MeetingDate: req.MeetingDate,
		DocumentURL: req.DocumentURL,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	created, err := s.minutesRepo.SaveMinutes(ctx, m)
	if err != nil {
		return nil, err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Minutes recorded", slog.Int64("minutes_id", created.ID))

	s.notificationSvc.Broadcast(ctx, "Meeting minutes: "+created.Title,
		"Minutes for the meeting on "+created.MeetingDate.Format("Jan 2, 2006")+" are available.")
	return created, nil
}

func (s *minutesService) GetMinutes(ctx context.Context, id int64) (*domain.Minutes, error) {
	return s.minutesRepo.FindMinutesByID(ctx, id)
}

func (s *minutesService) ListMinutes(ctx context.Context, limit, offset int) ([]domain.Minutes, error) {
	return s.minutesRepo.ListMinutes(ctx, limit, offset)
}

func (s *minutesService) UpdateMinutes(ctx context.Context, id int64, req dto.UpdateMinutesRequest, updaterUserID string) (*domain.Minutes, error) {
	return s.minutesRepo.UpdateMinutes(ctx, id, req.ToUpdate(), updaterUserID, time.Now().UTC())
}

func (s *minutesService) DeleteMinutes(ctx context.Context, id int64) error {
	return s.minutesRepo.DeleteMinutes(ctx, id)
}
