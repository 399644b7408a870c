package usersvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/infra/logging"
	"github.com/avoronov/pomodoro-backend/internal/repo/user"
	"github.com/avoronov/pomodoro-backend/internal/store"
)

// UserService provides the user registry: lookup, first-contact registration
// and preference updates. Each operation runs in its own transactional scope.
type UserService struct {
	Store *store.Store
	Log   logging.Logger
}

// NewUserService creates a new UserService backed by the given store.
func NewUserService(st *store.Store) *UserService {
	return &UserService{
		Store: st,
		Log:   logging.GetLogger("svc.usersvc.user_service"),
	}
}

// GetOrCreate returns the user with the given Telegram identity, creating it
// with default preferences on first contact. Repeat contacts return the
// stored record unchanged; display fields are not refreshed.
func (s *UserService) GetOrCreate(ctx context.Context, tg domain.TelegramUser) (u *domain.User, err error) {
	log := s.Log.With(logging.Group("user", "id", tg.ID))

	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		u, err = GetOrCreateTx(ctx, user.NewRepository(s.Store.Dialect, tx), tg)

		return err
	})
	if err != nil {
		log.ErrorContext(ctx, "get or create user failed", "error", err)

		return nil, err
	}

	return u, nil
}

// GetOrCreateTx is the transaction-scoped core of GetOrCreate, shared with
// other services composing registration into their own scope.
func GetOrCreateTx(ctx context.Context, repo user.Repository, tg domain.TelegramUser) (*domain.User, error) {
	existing, err := repo.Get(ctx, tg.ID)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	now := time.Now().Unix()
	u := &domain.User{
		ID:                  tg.ID,
		Username:            tg.Username,
		FirstName:           tg.FirstName,
		LastName:            tg.LastName,
		LanguageCode:        tg.LanguageCode,
		DailyGoal:           domain.DefaultDailyGoal,
		NotificationEnabled: true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

// Get returns the user with the given Telegram ID.
// Returns an error wrapping domain.ErrUserNotFound if no such user exists.
func (s *UserService) Get(ctx context.Context, id int64) (u *domain.User, err error) {
	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		u, err = user.NewRepository(s.Store.Dialect, tx).Get(ctx, id)

		return err
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// UpdateDailyGoal sets the user's daily goal.
// Returns domain.ErrInvalidDailyGoal for negative goals and
// domain.ErrUserNotFound if the user does not exist.
func (s *UserService) UpdateDailyGoal(ctx context.Context, id int64, goal int) error {
	if goal < 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidDailyGoal, goal)
	}

	return s.Store.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		found, err := user.NewRepository(s.Store.Dialect, tx).
			UpdateDailyGoal(ctx, id, goal, time.Now().Unix())
		if err != nil {
			return err
		}

		if !found {
			return fmt.Errorf("update daily goal: %w", domain.ErrUserNotFound)
		}

		return nil
	})
}

// UpdateNotificationEnabled toggles the user's notification preference.
// Returns domain.ErrUserNotFound if the user does not exist.
func (s *UserService) UpdateNotificationEnabled(ctx context.Context, id int64, enabled bool) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		found, err := user.NewRepository(s.Store.Dialect, tx).
			UpdateNotificationEnabled(ctx, id, enabled, time.Now().Unix())
		if err != nil {
			return err
		}

		if !found {
			return fmt.Errorf("update notification flag: %w", domain.ErrUserNotFound)
		}

		return nil
	})
}
