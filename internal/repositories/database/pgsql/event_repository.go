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

const eventColumns = `id, title, description, location, start_time, end_time, image_url, created_at, created_by, last_updated_at, last_updated_by`

// PgxEventRepository persists events and attendance records.
type PgxEventRepository struct {
	BaseRepository
}

// NewEventRepository creates a repository for event data.
func NewEventRepository(pool *pgxpool.Pool) portsrepo.EventRepositoryFacade {
	return &PgxEventRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EventRepositoryFacade = (*PgxEventRepository)(nil)

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Location,
		&e.StartTime,
		&e.EndTime,
		&e.ImageURL,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// SaveEvent inserts an event and returns it with its assigned ID.
func (r *PgxEventRepository) SaveEvent(ctx context.Context, event domain.Event) (*domain.Event, error) {
	query := `
		INSERT INTO events (title, description, location, start_time, end_time, image_url, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id;
	`
	err := r.Pool.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Location,
		event.StartTime,
		event.EndTime,
		event.ImageURL,
		event.CreatedAt,
		event.CreatedBy,
		event.LastUpdatedAt,
		event.LastUpdatedBy,
	).Scan(&event.ID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to save event", err)
	}
	return &event, nil
}

// FindEventByID retrieves one event.
func (r *PgxEventRepository) FindEventByID(ctx context.Context, id int64) (*domain.Event, error) {
	e, err := scanEvent(r.Pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find event", err)
	}
	return e, nil
}

// ListEvents returns events ordered by start time, soonest first.
func (r *PgxEventRepository) ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.Pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY start_time DESC, id DESC LIMIT $1 OFFSET $2;`, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query events", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan event row", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating event rows", err)
	}
	return events, nil
}

// UpdateEvent applies the non-nil fields of update.
func (r *PgxEventRepository) UpdateEvent(ctx context.Context, id int64, update domain.EventUpdate, updatedBy string, updatedAt time.Time) (*domain.Event, error) {
	existing, err := r.FindEventByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		existing.Title = *update.Title
	}
	if update.Description != nil {
		existing.Description = *update.Description
	}
	if update.Location != nil {
		existing.Location = *update.Location
	}
	if update.StartTime != nil {
		existing.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		existing.EndTime = *update.EndTime
	}
	if update.ImageURL != nil {
		existing.ImageURL = update.ImageURL
	}
	existing.LastUpdatedAt = updatedAt
	existing.LastUpdatedBy = updatedBy

	query := `
		UPDATE events
		SET title = $2, description = $3, location = $4, start_time = $5, end_time = $6, image_url = $7, last_updated_at = $8, last_updated_by = $9
		WHERE id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		existing.ID,
		existing.Title,
		existing.Description,
		existing.Location,
		existing.StartTime,
		existing.EndTime,
		existing.ImageURL,
		existing.LastUpdatedAt,
		existing.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update event", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.NewNotFoundError("event not found for update")
	}
	return existing, nil
}

// DeleteEvent removes an event and its attendance records.
func (r *PgxEventRepository) DeleteEvent(ctx context.Context, id int64) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM events WHERE id = $1;`, id)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete event", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("event not found for delete")
	}
	return nil
}

// SaveAttendance upserts one member's attendance for one event. Marking
// again overwrites the previous status.
func (r *PgxEventRepository) SaveAttendance(ctx context.Context, att domain.Attendance) error {
	query := `
		INSERT INTO event_attendance (event_id, user_id, status, marked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET status = EXCLUDED.status, marked_at = EXCLUDED.marked_at;
	`
	_, err := r.Pool.Exec(ctx, query, att.EventID, att.UserID, att.Status, att.MarkedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save attendance", err)
	}
	return nil
}

// ListAttendanceByEvent returns every attendance record for an event.
func (r *PgxEventRepository) ListAttendanceByEvent(ctx context.Context, eventID int64) ([]domain.Attendance, error) {
	rows, err := r.Pool.Query(ctx, `SELECT event_id, user_id, status, marked_at FROM event_attendance WHERE event_id = $1 ORDER BY marked_at ASC;`, eventID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query attendance", err)
	}
	defer rows.Close()

	records := []domain.Attendance{}
	for rows.Next() {
		var a domain.Attendance
		if err := rows.Scan(&a.EventID, &a.UserID, &a.Status, &a.MarkedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan attendance row", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating attendance rows", err)
	}
	return records, nil
}
