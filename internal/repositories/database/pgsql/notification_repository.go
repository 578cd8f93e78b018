package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orghub/orghub-backend/internal/apperrors"
	"github.com/orghub/orghub-backend/internal/core/domain"
	portsrepo "github.com/orghub/orghub-backend/internal/core/ports/repositories"
)

// PgxNotificationRepository persists the notification inbox.
type PgxNotificationRepository struct {
	BaseRepository
}

// NewNotificationRepository creates a repository for notification data.
func NewNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

// SaveNotification inserts an inbox row and returns it with its assigned ID.
func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) (*domain.Notification, error) {
	query := `
		INSERT INTO notifications (title, content, user_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	err := r.Pool.QueryRow(ctx, query, n.Title, n.Content, n.UserID, n.IsRead, n.CreatedAt).Scan(&n.ID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert notification", err)
	}
	return &n, nil
}

// ListNotificationsByUser returns the user's inbox, newest first.
func (r *PgxNotificationRepository) ListNotificationsByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	query := `
		SELECT id, title, content, user_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query notifications for user "+userID, err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.UserID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan notification row", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating notification rows", err)
	}
	return notifications, nil
}

// MarkNotificationRead flips is_read for the user's notification. The
// ownership check is part of the UPDATE predicate, so a foreign
// notification is indistinguishable from a missing one.
func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, id int64, userID string) (*domain.Notification, error) {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE id = $1 AND user_id = $2
		RETURNING id, title, content, user_id, is_read, created_at;
	`
	var n domain.Notification
	err := r.Pool.QueryRow(ctx, query, id, userID).Scan(&n.ID, &n.Title, &n.Content, &n.UserID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to mark notification "+strconv.FormatInt(id, 10)+" read", err)
	}
	return &n, nil
}
