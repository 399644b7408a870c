package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/store"
)

// SQLiteUserRepository implements Repository using SQLite as the storage backend.
type SQLiteUserRepository struct {
	db store.DBTX
}

var _ Repository = (*SQLiteUserRepository)(nil)

// NewSQLiteUserRepository creates a SQLite user repository over the given
// transaction or connection.
func NewSQLiteUserRepository(db store.DBTX) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Get implements Repository.Get using SQLite.
func (r *SQLiteUserRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User

	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, first_name, last_name, language_code,
		       daily_goal, notification_enabled, created_at, updated_at
		FROM users WHERE id = ?`,
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

// Create implements Repository.Create using SQLite.
func (r *SQLiteUserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, first_name, last_name, language_code,
		                   daily_goal, notification_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.FirstName, u.LastName, u.LanguageCode,
		u.DailyGoal, u.NotificationEnabled, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// UpdateDailyGoal implements Repository.UpdateDailyGoal using SQLite.
func (r *SQLiteUserRepository) UpdateDailyGoal(
	ctx context.Context, id int64, goal int, updatedAt int64,
) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET daily_goal = ?, updated_at = ? WHERE id = ?",
		goal, updatedAt, id,
	)
	if err != nil {
		return false, fmt.Errorf("update daily goal: %w", err)
	}

	return rowsAffected(res)
}

// UpdateNotificationEnabled implements Repository.UpdateNotificationEnabled using SQLite.
func (r *SQLiteUserRepository) UpdateNotificationEnabled(
	ctx context.Context, id int64, enabled bool, updatedAt int64,
) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET notification_enabled = ?, updated_at = ? WHERE id = ?",
		enabled, updatedAt, id,
	)
	if err != nil {
		return false, fmt.Errorf("update notification flag: %w", err)
	}

	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return n > 0, nil
}
