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

// newsService manages announcements. Publishing notifies every member.
type newsService struct {
	newsRepo        portsrepo.NewsRepositoryFacade
	notificationSvc portssvc.NotificationSvcFacade
}

// NewNewsService creates the news service.
func NewNewsService(newsRepo portsrepo.NewsRepositoryFacade, notificationSvc portssvc.NotificationSvcFacade) portssvc.NewsSvcFacade {
	return &newsService{newsRepo: newsRepo, notificationSvc: notificationSvc}
}

var _ portssvc.NewsSvcFacade = (*newsService)(nil)

func (s *newsService) CreateNews(ctx context.Context, req dto.CreateNewsRequest, creatorUserID string) (*domain.News, error) {
	now := time.Now().UTC()
	news := domain.News{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	created, err := s.newsRepo.SaveNews(ctx, news)
	if err != nil {
		return nil, err
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("News published", slog.Int64("news_id", created.ID))

	s.notificationSvc.Broadcast(ctx, "News: "+created.Title, created.Content)
	return created, nil
}

func (s *newsService) GetNews(ctx context.Context, id int64) (*domain.News, error) {
	return s.newsRepo.FindNewsByID(ctx, id)
}

func (s *newsService) ListNews(ctx context.Context, limit, offset int) ([]domain.News, error) {
	return s.newsRepo.ListNews(ctx, limit, offset)
}

func (s *newsService) UpdateNews(ctx context.Context, id int64, req dto.UpdateNewsRequest, updaterUserID string) (*domain.News, error) {
	return s.newsRepo.UpdateNews(ctx, id, req.ToUpdate(), updaterUserID, time.Now().UTC())
}

func (s *newsService) DeleteNews(ctx context.Context, id int64) error {
	return s.newsRepo.DeleteNews(ctx, id)
}
