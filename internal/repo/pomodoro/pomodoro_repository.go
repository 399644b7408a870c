package pomodoro

import (
	"context"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/store"
)

// Repository defines the interface for session persistence. Sessions are
// append-only: there is no update or delete operation. Implementations are
// cheap, transaction-scoped views over a store.DBTX.
type Repository interface {
	// Create inserts a completed session and assigns p.ID.
	Create(ctx context.Context, p *domain.Pomodoro) error

	// ListCompletedBetween returns the user's sessions of the given mode whose
	// completion timestamp falls within [from, to), ordered by completion time.
	ListCompletedBetween(ctx context.Context, userID int64, mode domain.Mode, from, to int64) ([]domain.Pomodoro, error)
}

// NewRepository returns the Repository implementation for the given dialect,
// scoped to the given transaction or connection.
func NewRepository(dialect store.Dialect, tx store.DBTX) Repository {
	if dialect == store.DialectPostgres {
		return NewPostgresPomodoroRepository(tx)
	}

	return NewSQLitePomodoroRepository(tx)
}
