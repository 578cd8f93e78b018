package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orghub/orghub-backend/internal/apperrors"
	"github.com/orghub/orghub-backend/internal/core/domain"
	portsrepo "github.com/orghub/orghub-backend/internal/core/ports/repositories"
)

const newsColumns = `id, title, content, image_url, created_at, created_by, last_updated_at, last_updated_by`

// PgxNewsRepository persists news announcements.
type PgxNewsRepository struct {
	BaseRepository
}

// NewNewsRepository creates a repository for news data.
func NewNewsRepository(pool *pgxpool.Pool) portsrepo.NewsRepositoryFacade {
	return &PgxNewsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NewsRepositoryFacade = (*PgxNewsRepository)(nil)

func scanNews(row pgx.Row) (*domain.News, error) {
	var n domain.News
	err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Content,
		&n.ImageURL,
		&n.CreatedAt,
		&n.CreatedBy,
		&n.LastUpdatedAt,
		&n.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// SaveNews inserts an announcement and returns it with its assigned ID.
func (r *PgxNewsRepository) SaveNews(ctx context.Context, news domain.News) (*domain.News, error) {
	query := `
		INSERT INTO news (title, content, image_url, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	err := r.Pool.QueryRow(ctx, query,
		news.Title,
		news.Content,
		news.ImageURL,
		news.CreatedAt,
		news.CreatedBy,
		news.LastUpdatedAt,
		news.LastUpdatedBy,
	).Scan(&news.ID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to save news", err)
	}
	return &news, nil
}

// FindNewsByID retrieves one announcement.
func (r *PgxNewsRepository) FindNewsByID(ctx context.Context, id int64) (*domain.News, error) {
	n, err := scanNews(r.Pool.QueryRow(ctx, `SELECT `+newsColumns+` FROM news WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find news", err)
	}
	return n, nil
}

// ListNews returns announcements, newest first.
func (r *PgxNewsRepository) ListNews(ctx context.Context, limit, offset int) ([]domain.News, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.Pool.Query(ctx, `SELECT `+newsColumns+` FROM news ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2;`, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query news", err)
	}
	defer rows.Close()

	items := []domain.News{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan news row", err)
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating news rows", err)
	}
	return items, nil
}

// UpdateNews applies the non-nil fields of update.
func (r *PgxNewsRepository) UpdateNews(ctx context.Context, id int64, update domain.NewsUpdate, updatedBy string, updatedAt time.Time) (*domain.News, error) {
	existing, err := r.FindNewsByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		existing.Title = *update.Title
	}
	if update.Content != nil {
		existing.Content = *update.Content
	}
	if update.ImageURL != nil {
		existing.ImageURL = update.ImageURL
	}
	existing.LastUpdatedAt = updatedAt
	existing.LastUpdatedBy = updatedBy

	query := `
		UPDATE news
		SET title = $2, content = $3, image_url = $4, last_updated_at = $5, last_updated_by = $6
		WHERE id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		existing.ID,
		existing.Title,
		existing.Content,
		existing.ImageURL,
		existing.LastUpdatedAt,
		existing.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update news", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.NewNotFoundError("news not found for update")
	}
	return existing, nil
}

// DeleteNews removes an announcement.
func (r *PgxNewsRepository) DeleteNews(ctx context.Context, id int64) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM news WHERE id = $1;`, id)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete news", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("news not found for delete")
	}
	return nil
}
