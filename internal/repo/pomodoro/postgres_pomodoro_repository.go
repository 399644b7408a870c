package pomodoro

import (
	"context"
	"fmt"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/store"
)

// PostgresPomodoroRepository implements Repository using PostgreSQL as the storage backend.
type PostgresPomodoroRepository struct {
	db store.DBTX
}

var _ Repository = (*PostgresPomodoroRepository)(nil)

// NewPostgresPomodoroRepository creates a Postgres session repository over
// the given transaction or connection.
func NewPostgresPomodoroRepository(db store.DBTX) *PostgresPomodoroRepository {
	return &PostgresPomodoroRepository{db: db}
}

// Create implements Repository.Create using PostgreSQL.
func (r *PostgresPomodoroRepository) Create(ctx context.Context, p *domain.Pomodoro) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO pomodoros (user_id, mode, duration, completed, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.UserID, string(p.Mode), p.Duration, p.Completed, p.StartedAt, p.CompletedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert pomodoro: %w", err)
	}

	return nil
}

// ListCompletedBetween implements Repository.ListCompletedBetween using PostgreSQL.
func (r *PostgresPomodoroRepository) ListCompletedBetween(
	ctx context.Context, userID int64, mode domain.Mode, from, to int64,
) ([]domain.Pomodoro, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, mode, duration, completed, started_at, completed_at
		FROM pomodoros
		WHERE user_id = $1 AND mode = $2 AND completed_at >= $3 AND completed_at < $4
		ORDER BY completed_at`,
		userID, string(mode), from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query pomodoros: %w", err)
	}
	defer rows.Close()

	return scanPomodoros(rows)
}
