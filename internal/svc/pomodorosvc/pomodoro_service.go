package pomodorosvc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/infra/logging"
	"github.com/avoronov/pomodoro-backend/internal/repo/pomodoro"
	"github.com/avoronov/pomodoro-backend/internal/repo/user"
	"github.com/avoronov/pomodoro-backend/internal/store"
	"github.com/avoronov/pomodoro-backend/internal/svc/usersvc"
)

const weekDays = 7

// PomodoroService records completed sessions and derives daily and weekly
// statistics from them. Aggregates are always computed on demand, never
// stored. Each exported operation runs in exactly one transactional scope.
type PomodoroService struct {
	Store *store.Store
	Log   logging.Logger
}

// NewPomodoroService creates a new PomodoroService backed by the given store.
func NewPomodoroService(st *store.Store) *PomodoroService {
	return &PomodoroService{
		Store: st,
		Log:   logging.GetLogger("svc.pomodorosvc.pomodoro_service"),
	}
}

// CompleteResult is the outcome of recording a completed session.
type CompleteResult struct {
	Pomodoro *domain.Pomodoro
	User     *domain.User
	Goal     domain.GoalStatus
}

// Record persists one completed interval for the given user. The completion
// timestamp is set to the current time and the session is marked completed.
// The user must already exist; recording does not verify the reference.
func (s *PomodoroService) Record(
	ctx context.Context, userID int64, mode domain.Mode, duration int, startedAt time.Time,
) (p *domain.Pomodoro, err error) {
	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		p, err = record(ctx, pomodoro.NewRepository(s.Store.Dialect, tx), userID, mode, duration, startedAt)

		return err
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

func record(
	ctx context.Context, repo pomodoro.Repository,
	userID int64, mode domain.Mode, duration int, startedAt time.Time,
) (*domain.Pomodoro, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}

	if duration <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidDuration, duration)
	}

	p := &domain.Pomodoro{
		UserID:      userID,
		Mode:        mode,
		Duration:    duration,
		Completed:   true,
		StartedAt:   startedAt.Unix(),
		CompletedAt: time.Now().Unix(),
	}

	if err := repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("record pomodoro: %w", err)
	}

	return p, nil
}

// TodayStats returns the summary of the current local calendar day:
// work-mode sessions whose completion falls in [midnight, next midnight).
func (s *PomodoroService) TodayStats(ctx context.Context, userID int64) (stats domain.TodayStats, err error) {
	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		stats, err = todayStats(ctx, pomodoro.NewRepository(s.Store.Dialect, tx), userID, time.Now())

		return err
	})

	return stats, err
}

func todayStats(
	ctx context.Context, repo pomodoro.Repository, userID int64, now time.Time,
) (domain.TodayStats, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	sessions, err := repo.ListCompletedBetween(ctx, userID, domain.ModeWork, dayStart.Unix(), dayEnd.Unix())
	if err != nil {
		return domain.TodayStats{}, fmt.Errorf("list today sessions: %w", err)
	}

	stats := domain.TodayStats{
		Date:               dayStart.Format(time.DateOnly),
		PomodorosCompleted: len(sessions),
		TotalWorkMinutes:   0,
		Sessions:           make([]domain.SessionDetail, 0, len(sessions)),
	}

	for _, p := range sessions {
		stats.TotalWorkMinutes += p.Duration
		stats.Sessions = append(stats.Sessions, domain.SessionDetail{
			Mode:        p.Mode,
			Duration:    p.Duration,
			CompletedAt: time.Unix(p.CompletedAt, 0).Format(time.RFC3339),
		})
	}

	return stats, nil
}

// WeekStats returns the trailing-seven-day summary of work-mode sessions.
// The average divides by seven regardless of how sessions are distributed.
func (s *PomodoroService) WeekStats(ctx context.Context, userID int64) (stats domain.WeekStats, err error) {
	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		stats, err = weekStats(ctx, pomodoro.NewRepository(s.Store.Dialect, tx), userID, time.Now())

		return err
	})

	return stats, err
}

func weekStats(
	ctx context.Context, repo pomodoro.Repository, userID int64, now time.Time,
) (domain.WeekStats, error) {
	from := now.AddDate(0, 0, -weekDays).Unix()
	to := now.Unix() + 1 // window upper bound includes the current second

	sessions, err := repo.ListCompletedBetween(ctx, userID, domain.ModeWork, from, to)
	if err != nil {
		return domain.WeekStats{}, fmt.Errorf("list week sessions: %w", err)
	}

	stats := domain.WeekStats{
		Period:         "last_7_days",
		TotalPomodoros: len(sessions),
		TotalMinutes:   0,
		AveragePerDay:  math.Round(float64(len(sessions))/weekDays*10) / 10,
	}

	for _, p := range sessions {
		stats.TotalMinutes += p.Duration
	}

	return stats, nil
}

// CheckDailyGoal evaluates the user's daily goal against today's completed
// work sessions. An unknown user yields a zero status rather than an error.
// A goal of zero is trivially satisfied.
func (s *PomodoroService) CheckDailyGoal(ctx context.Context, userID int64) (goal domain.GoalStatus, err error) {
	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		goal, err = checkDailyGoal(
			ctx,
			user.NewRepository(s.Store.Dialect, tx),
			pomodoro.NewRepository(s.Store.Dialect, tx),
			userID,
			time.Now(),
		)

		return err
	})

	return goal, err
}

func checkDailyGoal(
	ctx context.Context, users user.Repository, sessions pomodoro.Repository,
	userID int64, now time.Time,
) (domain.GoalStatus, error) {
	u, err := users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.GoalStatus{}, nil
		}

		return domain.GoalStatus{}, err
	}

	stats, err := todayStats(ctx, sessions, userID, now)
	if err != nil {
		return domain.GoalStatus{}, err
	}

	return domain.GoalStatus{
		Reached:   stats.PomodorosCompleted >= u.DailyGoal,
		Completed: stats.PomodorosCompleted,
		Goal:      u.DailyGoal,
	}, nil
}

// CompleteSession is the composition behind the complete-session endpoint:
// within one transaction it registers the user on first contact, records the
// session and evaluates today's goal. Notification delivery is the caller's
// concern and happens after the transaction commits.
func (s *PomodoroService) CompleteSession(
	ctx context.Context, tg domain.TelegramUser, mode domain.Mode, duration int, startedAt time.Time,
) (res CompleteResult, err error) {
	log := s.Log.With(logging.Group("session",
		"user_id", tg.ID,
		"mode", string(mode),
		"duration", duration,
	))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "complete session failed", "error", err)
		} else {
			log.DebugContext(ctx, "session completed", logging.Group("goal",
				"completed", res.Goal.Completed,
				"goal", res.Goal.Goal,
				"reached", res.Goal.Reached,
			))
		}
	}()

	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		var (
			users    = user.NewRepository(s.Store.Dialect, tx)
			sessions = pomodoro.NewRepository(s.Store.Dialect, tx)
		)

		u, err := usersvc.GetOrCreateTx(ctx, users, tg)
		if err != nil {
			return err
		}

		p, err := record(ctx, sessions, u.ID, mode, duration, startedAt)
		if err != nil {
			return err
		}

		stats, err := todayStats(ctx, sessions, u.ID, time.Now())
		if err != nil {
			return err
		}

		res = CompleteResult{
			Pomodoro: p,
			User:     u,
			Goal: domain.GoalStatus{
				Reached:   stats.PomodorosCompleted >= u.DailyGoal,
				Completed: stats.PomodorosCompleted,
				Goal:      u.DailyGoal,
			},
		}

		return nil
	})
	if err != nil {
		return CompleteResult{}, err
	}

	return res, nil
}

// Overview bundles what the stats surfaces need from one transactional scope.
type Overview struct {
	User  *domain.User
	Today domain.TodayStats
	Week  domain.WeekStats
	Goal  domain.GoalStatus
}

// TodayOverview returns today's stats and goal status for an existing user.
// Returns an error wrapping domain.ErrUserNotFound for unknown users.
func (s *PomodoroService) TodayOverview(ctx context.Context, userID int64) (ov Overview, err error) {
	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		var (
			users    = user.NewRepository(s.Store.Dialect, tx)
			sessions = pomodoro.NewRepository(s.Store.Dialect, tx)
			now      = time.Now()
		)

		u, err := users.Get(ctx, userID)
		if err != nil {
			return err
		}

		stats, err := todayStats(ctx, sessions, userID, now)
		if err != nil {
			return err
		}

		ov = Overview{
			User:  u,
			Today: stats,
			Goal: domain.GoalStatus{
				Reached:   stats.PomodorosCompleted >= u.DailyGoal,
				Completed: stats.PomodorosCompleted,
				Goal:      u.DailyGoal,
			},
		}

		return nil
	})
	if err != nil {
		return Overview{}, err
	}

	return ov, nil
}

// StatsSummary is the bot-facing aggregation: it registers the user on first
// contact and returns today's and the trailing week's stats in one scope.
func (s *PomodoroService) StatsSummary(ctx context.Context, tg domain.TelegramUser) (ov Overview, err error) {
	err = s.Store.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		var (
			users    = user.NewRepository(s.Store.Dialect, tx)
			sessions = pomodoro.NewRepository(s.Store.Dialect, tx)
			now      = time.Now()
		)

		u, err := usersvc.GetOrCreateTx(ctx, users, tg)
		if err != nil {
			return err
		}

		today, err := todayStats(ctx, sessions, u.ID, now)
		if err != nil {
			return err
		}

		week, err := weekStats(ctx, sessions, u.ID, now)
		if err != nil {
			return err
		}

		ov = Overview{
			User:  u,
			Today: today,
			Week:  week,
			Goal: domain.GoalStatus{
				Reached:   today.PomodorosCompleted >= u.DailyGoal,
				Completed: today.PomodorosCompleted,
				Goal:      u.DailyGoal,
			},
		}

		return nil
	})
	if err != nil {
		return Overview{}, err
	}

	return ov, nil
}
