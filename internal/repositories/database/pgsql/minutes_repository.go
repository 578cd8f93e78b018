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

const minutesColumns = `id, title, content, meeting_date, document_url, created_at, created_by, last_updated_at, last_updated_by`

// PgxMinutesRepository persists meeting minutes.
type PgxMinutesRepository struct {
	BaseRepository
}

// NewMinutesRepository creates a repository for meeting minutes.
func NewMinutesRepository(pool *pgxpool.Pool) portsrepo.MinutesRepositoryFacade {
	return &PgxMinutesRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MinutesRepositoryFacade = (*PgxMinutesRepository)(nil)

func scanMinutes(row pgx.Row) (*domain.Minutes, error) {
	var m domain.Minutes
	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Content,
		&m.MeetingDate,
		&m.DocumentURL,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveMinutes inserts a minutes record and returns it with its assigned ID.
func (r *PgxMinutesRepository) SaveMinutes(ctx context.Context, m domain.Minutes) (*domain.Minutes, error) {
	query := `
		INSERT INTO minutes (title, content, meeting_date, document_url, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id;
	`
	err := r.Pool.QueryRow(ctx, query,
		m.Title,
		m.Content,
		m.MeetingDate,
		m.DocumentURL,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&m.ID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to save minutes", err)
	}
	return &m, nil
}

// FindMinutesByID retrieves one minutes record.
func (r *PgxMinutesRepository) FindMinutesByID(ctx context.Context, id int64) (*domain.Minutes, error) {
	m, err := scanMinutes(r.Pool.QueryRow(ctx, `SELECT `+minutesColumns+` FROM minutes WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find minutes", err)
	}
	return m, nil
}

// ListMinutes returns minutes ordered by meeting date, most recent first.
func (r *PgxMinutesRepository) ListMinutes(ctx context.Context, limit, offset int) ([]domain.Minutes, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.Pool.Query(ctx, `SELECT `+minutesColumns+` FROM minutes ORDER BY meeting_date DESC, id DESC LIMIT $1 OFFSET $2;`, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query minutes", err)
	}
	defer rows.Close()

	items := []domain.Minutes{}
	for rows.Next() {
		m, err := scanMinutes(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan minutes row", err)
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating minutes rows", err)
	}
	return items, nil
}

// UpdateMinutes applies the non-nil fields of update.
func (r *PgxMinutesRepository) UpdateMinutes(ctx context.Context, id int64, update domain.MinutesUpdate, updatedBy string, updatedAt time.Time) (*domain.Minutes, error) {
	existing, err := r.FindMinutesByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		existing.Title = *update.Title
	}
	if update.Content != nil {
		existing.Content = *update.Content
	}
	if update.MeetingDate != nil {
		existing.MeetingDate = *update.MeetingDate
	}
	if update.DocumentURL != nil {
		existing.DocumentURL = update.DocumentURL
	}
	existing.LastUpdatedAt = updatedAt
	existing.LastUpdatedBy = updatedBy

	query := `
		UPDATE minutes
		SET title = $2, content = $3, meeting_date = $4, document_url = $5, last_updated_at = $6, last_updated_by = $7
		WHERE id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		existing.ID,
		existing.Title,
		existing.Content,
		existing.MeetingDate,
		existing.DocumentURL,
		existing.LastUpdatedAt,
		existing.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update minutes", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.NewNotFoundError("minutes not found for update")
	}
	return existing, nil
}

// DeleteMinutes removes a minutes record.
func (r *PgxMinutesRepository) DeleteMinutes(ctx context.Context, id int64) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM minutes WHERE id = $1;`, id)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete minutes", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("minutes not found for delete")
	}
	return nil
}
