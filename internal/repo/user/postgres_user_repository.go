package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/store"
)

// PostgresUserRepository implements Repository using PostgreSQL as the storage backend.
type PostgresUserRepository struct {
	db store.DBTX
}

var _ Repository = (*PostgresUserRepository)(nil)

// NewPostgresUserRepository creates a Postgres user repository over the given
// transaction or connection.
func NewPostgresUserRepository(db store.DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Get implements Repository.Get using PostgreSQL.
func (r *PostgresUserRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User

	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, first_name, last_name, language_code,
		       daily_goal, notification_enabled, created_at, updated_at
		FROM users WHERE id = $1`,
		id,
	).Scan(
		&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.LanguageCode,
		&u.DailyGoal, &u.NotificationEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = errors.Join(domain.ErrUserNotFound, err)
		}

		return nil, fmt.Errorf("query user: %w", err)
	}

	return &u, nil
}

// Create implements Repository.Create using PostgreSQL.
func (r *PostgresUserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, first_name, last_name, language_code,
		                   daily_goal, notification_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Username, u.FirstName, u.LastName, u.LanguageCode,
		u.DailyGoal, u.NotificationEnabled, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// UpdateDailyGoal implements Repository.UpdateDailyGoal using PostgreSQL.
func (r *PostgresUserRepository) UpdateDailyGoal(
	ctx context.Context, id int64, goal int, updatedAt int64,
) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET daily_goal = $1, updated_at = $2 WHERE id = $3",
		goal, updatedAt, id,
	)
	if err != nil {
		return false, fmt.Errorf("update daily goal: %w", err)
	}

	return rowsAffected(res)
}

// UpdateNotificationEnabled implements Repository.UpdateNotificationEnabled using PostgreSQL.
func (r *PostgresUserRepository) UpdateNotificationEnabled(
	ctx context.Context, id int64, enabled bool, updatedAt int64,
) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET notification_enabled = $1, updated_at = $2 WHERE id = $3",
		enabled, updatedAt, id,
	)
	if err != nil {
		return false, fmt.Errorf("update notification flag: %w", err)
	}

	return rowsAffected(res)
}
