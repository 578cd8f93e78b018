package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orghub/orghub-backend/internal/apperrors"
	"github.com/orghub/orghub-backend/internal/core/domain"
	portsrepo "github.com/orghub/orghub-backend/internal/core/ports/repositories"
)

const userColumns = `user_id, name, email, password_hash, role, phone, position, photo_url, fcm_token, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

// PgxUserRepository persists members.
type PgxUserRepository struct {
	BaseRepository
}

// NewUserRepository creates a repository for user data.
func NewUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.UserID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Phone,
		&u.Position,
		&u.PhotoURL,
		&u.FCMToken,
		&u.CreatedAt,
		&u.CreatedBy,
		&u.LastUpdatedAt,
		&u.LastUpdatedBy,
		&u.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveUser inserts a new member row. Duplicate emails map to ErrDuplicate.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, name, email, password_hash, role, phone, position, photo_url, fcm_token, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		user.UserID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Phone,
		user.Position,
		user.PhotoURL,
		user.FCMToken,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewAppError(409, "user with email "+user.Email+" already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to save user", err)
	}
	return nil
}

// FindUserByID retrieves a non-deleted member.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	u, err := scanUser(r.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1 AND deleted_at IS NULL;`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user by ID "+userID, err)
	}
	return u, nil
}

// FindUserByEmail retrieves a non-deleted member by email.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND deleted_at IS NULL;`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user by email", err)
	}
	return u, nil
}

// ListUsers returns a page of non-deleted members.
func (r *PgxUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL ORDER BY created_at ASC LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user row", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating user rows", err)
	}
	return users, nil
}

// ListUserIDs returns every non-deleted member's ID (notification fan-out).
func (r *PgxUserRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT user_id FROM users WHERE deleted_at IS NULL;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query user IDs", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user ID row", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating user ID rows", err)
	}
	return ids, nil
}

// UpdateUser applies the non-nil fields of update to the member.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, userID string, update domain.UserUpdate, updatedBy string, updatedAt time.Time) (*domain.User, error) {
	existing, err := r.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		existing.Name = *update.Name
	}
	if update.Email != nil {
		existing.Email = *update.Email
	}
	if update.Phone != nil {
		existing.Phone = *update.Phone
	}
	if update.Position != nil {
		existing.Position = *update.Position
	}
	if update.PhotoURL != nil {
		existing.PhotoURL = update.PhotoURL
	}
	if update.Role != nil {
		existing.Role = *update.Role
	}
	existing.LastUpdatedAt = updatedAt
	existing.LastUpdatedBy = updatedBy

	query := `
		UPDATE users
		SET name = $2, email = $3, phone = $4, position = $5, photo_url = $6, role = $7, last_updated_at = $8, last_updated_by = $9
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		existing.UserID,
		existing.Name,
		existing.Email,
		existing.Phone,
		existing.Position,
		existing.PhotoURL,
		existing.Role,
		existing.LastUpdatedAt,
		existing.LastUpdatedBy,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update user "+userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.NewNotFoundError("user " + userID + " not found for update")
	}
	return existing, nil
}

// DeleteUser soft-deletes a member.
func (r *PgxUserRepository) DeleteUser(ctx context.Context, userID string, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE users
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, userID, deletedAt, deletedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete user "+userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + userID + " not found for delete")
	}
	return nil
}

// SaveFCMToken stores the member's push-delivery token.
func (r *PgxUserRepository) SaveFCMToken(ctx context.Context, userID string, token string) error {
	cmdTag, err := r.Pool.Exec(ctx, `UPDATE users SET fcm_token = $2 WHERE user_id = $1 AND deleted_at IS NULL;`, userID, token)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save FCM token for user "+userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user " + userID + " not found for token save")
	}
	return nil
}
