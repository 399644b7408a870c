package pomodoro

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/store"
)

// SQLitePomodoroRepository implements Repository using SQLite as the storage backend.
type SQLitePomodoroRepository struct {
	db store.DBTX
}

var _ Repository = (*SQLitePomodoroRepository)(nil)

// NewSQLitePomodoroRepository creates a SQLite session repository over the
// given transaction or connection.
func NewSQLitePomodoroRepository(db store.DBTX) *SQLitePomodoroRepository {
	return &SQLitePomodoroRepository{db: db}
}

// Create implements Repository.Create using SQLite.
func (r *SQLitePomodoroRepository) Create(ctx context.Context, p *domain.Pomodoro) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO pomodoros (user_id, mode, duration, completed, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.UserID, string(p.Mode), p.Duration, p.Completed, p.StartedAt, p.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pomodoro: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	p.ID = id

	return nil
}

// ListCompletedBetween implements Repository.ListCompletedBetween using SQLite.
func (r *SQLitePomodoroRepository) ListCompletedBetween(
	ctx context.Context, userID int64, mode domain.Mode, from, to int64,
) ([]domain.Pomodoro, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, mode, duration, completed, started_at, completed_at
		FROM pomodoros
		WHERE user_id = ? AND mode = ? AND completed_at >= ? AND completed_at < ?
		ORDER BY completed_at`,
		userID, string(mode), from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query pomodoros: %w", err)
	}
	defer rows.Close()

	return scanPomodoros(rows)
}

func scanPomodoros(rows *sql.Rows) ([]domain.Pomodoro, error) {
	var sessions []domain.Pomodoro

	for rows.Next() {
		var (
			p    domain.Pomodoro
			mode string
		)

		if err := rows.Scan(
			&p.ID, &p.UserID, &mode, &p.Duration, &p.Completed, &p.StartedAt, &p.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan pomodoro: %w", err)
		}

		p.Mode = domain.Mode(mode)
		sessions = append(sessions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pomodoros: %w", err)
	}

	return sessions, nil
}
