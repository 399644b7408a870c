package user

import (
	"context"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/store"
)

// Repository defines the interface for user data persistence. Implementations
// are cheap, transaction-scoped views over a store.DBTX.
type Repository interface {
	// Get retrieves a user by Telegram ID.
	// Returns an error wrapping domain.ErrUserNotFound if no such user exists.
	Get(ctx context.Context, id int64) (*domain.User, error)

	// Create adds a new user row. The caller owns default values.
	Create(ctx context.Context, u *domain.User) error

	// UpdateDailyGoal sets the user's daily goal.
	// Returns false if no row matched the ID.
	UpdateDailyGoal(ctx context.Context, id int64, goal int, updatedAt int64) (bool, error)

	// UpdateNotificationEnabled toggles the user's notification preference.
	// Returns false if no row matched the ID.
	UpdateNotificationEnabled(ctx context.Context, id int64, enabled bool, updatedAt int64) (bool, error)
}

// NewRepository returns the Repository implementation for the given dialect,
// scoped to the given transaction or connection.
func NewRepository(dialect store.Dialect, tx store.DBTX) Repository {
	if dialect == store.DialectPostgres {
		return NewPostgresUserRepository(tx)
	}

	return NewSQLiteUserRepository(tx)
}
