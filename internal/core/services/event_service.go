package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/orghub/orghub-backend/internal/apperrors"
	"github.com/orghub/orghub-backend/internal/core/domain"
	portsrepo "github.com/orghub/orghub-backend/internal/core/ports/repositories"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/dto"
	"github.com/orghub/orghub-backend/internal/middleware"
)

// eventService manages events and attendance. Creating or rescheduling an
// event notifies every member.
type eventService struct {
	eventRepo       portsrepo.EventRepositoryFacade
	notificationSvc portssvc.NotificationSvcFacade
}

// NewEventService creates the event service.
func NewEventService(eventRepo portsrepo.EventRepositoryFacade, notificationSvc portssvc.NotificationSvcFacade) portssvc.EventSvcFacade {
	return &eventService{eventRepo: eventRepo, notificationSvc: notificationSvc}
}

var _ portssvc.EventSvcFacade = (*eventService)(nil)

func (s *eventService) CreateEvent(ctx context.Context, req dto.CreateEventRequest, creatorUserID string) (*domain.Event, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.NewAppError(400, "event must end after it starts", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	event := domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		ImageURL:    req.ImageURL,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	created, err := s.eventRepo.SaveEvent(ctx, event)
	if err != nil {
		return nil, err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Event created", slog.Int64("event_id", created.ID))

	s.notificationSvc.Broadcast(ctx, "New event: "+created.Title,
		fmt.Sprintf("%s at %s on %s", created.Title, created.Location, created.StartTime.Format("Jan 2, 2006 15:04")))
	return created, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	return s.eventRepo.FindEventByID(ctx, id)
}

func (s *eventService) ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	return s.eventRepo.ListEvents(ctx, limit, offset)
}

func (s *eventService) UpdateEvent(ctx context.Context, id int64, req dto.UpdateEventRequest, updaterUserID string) (*domain.Event, error) {
	update := req.ToUpdate()
	updated, err := s.eventRepo.UpdateEvent(ctx, id, update, updaterUserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if update.Reschedules() {
		s.notificationSvc.Broadcast(ctx, "Event rescheduled: "+updated.Title,
			fmt.Sprintf("%s now runs %s to %s", updated.Title,
				updated.StartTime.Format("Jan 2, 2006 15:04"),
				updated.EndTime.Format("Jan 2, 2006 15:04")))
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id int64) error {
	return s.eventRepo.DeleteEvent(ctx, id)
}

// MarkAttendance records or overwrites the caller's attendance status for
// the event. The event must exist.
func (s *eventService) MarkAttendance(ctx context.Context, eventID int64, userID string, status domain.AttendanceStatus) error {
	if _, err := s.eventRepo.FindEventByID(ctx, eventID); err != nil {
		return err
	}
	return s.eventRepo.SaveAttendance(ctx, domain.Attendance{
		EventID:  eventID,
		UserID:   userID,
		Status:   status,
		MarkedAt: time.Now().UTC(),
	})
}

func (s *eventService) ListAttendance(ctx context.Context, eventID int64) ([]domain.Attendance, error) {
	if _, err := s.eventRepo.FindEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListAttendanceByEvent(ctx, eventID)
}
