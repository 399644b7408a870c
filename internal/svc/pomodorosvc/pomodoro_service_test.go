package pomodorosvc_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/repo/pomodoro"
	"github.com/avoronov/pomodoro-backend/internal/store"
	"github.com/avoronov/pomodoro-backend/internal/store/storetest"
	"github.com/avoronov/pomodoro-backend/internal/svc/pomodorosvc"
	"github.com/avoronov/pomodoro-backend/internal/svc/usersvc"
)

func newServices(t *testing.T) (*pomodorosvc.PomodoroService, *usersvc.UserService, *store.Store) {
	t.Helper()

	st := storetest.NewStore(t)

	return pomodorosvc.NewPomodoroService(st), usersvc.NewUserService(st), st
}

func alice() domain.TelegramUser {
	return domain.TelegramUser{ID: 42, Username: "alice", FirstName: "Alice"}
}

// insertAt writes a completed session with a chosen completion timestamp,
// bypassing the service so window edges can be probed exactly.
func insertAt(t *testing.T, st *store.Store, mode domain.Mode, duration int, completedAt int64) {
	t.Helper()

	repo := pomodoro.NewRepository(st.Dialect, st.DB)
	require.NoError(t, repo.Create(context.Background(), &domain.Pomodoro{
		UserID:      42,
		Mode:        mode,
		Duration:    duration,
		Completed:   true,
		StartedAt:   completedAt - int64(duration)*60,
		CompletedAt: completedAt,
	}))
}

func localMidnight() time.Time {
	now := time.Now()

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func TestCompleteSession_ReachesDailyGoal(t *testing.T) {
	t.Parallel()

	svc, _, _ := newServices(t)
	ctx := context.Background()

	var last pomodorosvc.CompleteResult

	for range 8 {
		res, err := svc.CompleteSession(ctx, alice(), domain.ModeWork, 25, time.Now().Add(-25*time.Minute))
		require.NoError(t, err)

		last = res
	}

	assert.Equal(t, 8, last.Goal.Completed)
	assert.Equal(t, 8, last.Goal.Goal)
	assert.True(t, last.Goal.Reached)

	stats, err := svc.TodayStats(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 8, stats.PomodorosCompleted)
	assert.Equal(t, 200, stats.TotalWorkMinutes)
	assert.Len(t, stats.Sessions, 8)

	goal, err := svc.CheckDailyGoal(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalStatus{Reached: true, Completed: 8, Goal: 8}, goal)
}

func TestCompleteSession_RegistersUnknownUser(t *testing.T) {
	t.Parallel()

	svc, users, _ := newServices(t)
	ctx := context.Background()

	res, err := svc.CompleteSession(ctx, alice(), domain.ModeWork, 25, time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(42), res.User.ID)
	assert.Equal(t, domain.DefaultDailyGoal, res.User.DailyGoal)
	assert.Positive(t, res.Pomodoro.ID)

	u, err := users.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestCompleteSession_RollsBackRegistrationOnFailure(t *testing.T) {
	t.Parallel()

	svc, users, _ := newServices(t)
	ctx := context.Background()

	_, err := svc.CompleteSession(ctx, alice(), "nap", 25, time.Now())
	require.ErrorIs(t, err, domain.ErrInvalidMode)

	_, err = users.Get(ctx, 42)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCompleteSession_BreaksDoNotCount(t *testing.T) {
	t.Parallel()

	svc, _, _ := newServices(t)
	ctx := context.Background()

	_, err := svc.CompleteSession(ctx, alice(), domain.ModeShortBreak, 5, time.Now())
	require.NoError(t, err)

	_, err = svc.CompleteSession(ctx, alice(), domain.ModeLongBreak, 15, time.Now())
	require.NoError(t, err)

	stats, err := svc.TodayStats(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, stats.PomodorosCompleted)
	assert.Zero(t, stats.TotalWorkMinutes)
}

func TestRecord_Validation(t *testing.T) {
	t.Parallel()

	svc, users, _ := newServices(t)
	ctx := context.Background()

	_, err := users.GetOrCreate(ctx, alice())
	require.NoError(t, err)

	_, err = svc.Record(ctx, 42, "nap", 25, time.Now())
	require.ErrorIs(t, err, domain.ErrInvalidMode)

	_, err = svc.Record(ctx, 42, domain.ModeWork, 0, time.Now())
	require.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, err = svc.Record(ctx, 42, domain.ModeWork, -5, time.Now())
	require.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestTodayStats_WindowEdges(t *testing.T) {
	t.Parallel()

	svc, users, st := newServices(t)
	ctx := context.Background()

	_, err := users.GetOrCreate(ctx, alice())
	require.NoError(t, err)

	midnight := localMidnight().Unix()

	insertAt(t, st, domain.ModeWork, 25, midnight)   // first second of today
	insertAt(t, st, domain.ModeWork, 25, midnight-1) // yesterday

	stats, err := svc.TodayStats(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.PomodorosCompleted)
	assert.Equal(t, 25, stats.TotalWorkMinutes)
	assert.Equal(t, localMidnight().Format(time.DateOnly), stats.Date)
}

func TestWeekStats_Average(t *testing.T) {
	t.Parallel()

	svc, users, st := newServices(t)
	ctx := context.Background()

	_, err := users.GetOrCreate(ctx, alice())
	require.NoError(t, err)

	now := time.Now().Unix()

	insertAt(t, st, domain.ModeWork, 25, now)
	insertAt(t, st, domain.ModeWork, 25, now-3600)
	insertAt(t, st, domain.ModeWork, 30, now-2*24*3600)
	insertAt(t, st, domain.ModeWork, 25, now-8*24*3600) // beyond the window

	stats, err := svc.WeekStats(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, "last_7_days", stats.Period)
	assert.Equal(t, 3, stats.TotalPomodoros)
	assert.Equal(t, 80, stats.TotalMinutes)
	assert.InDelta(t, 0.4, stats.AveragePerDay, 0.001)
}

func TestCheckDailyGoal_UnknownUser(t *testing.T) {
	t.Parallel()

	svc, _, _ := newServices(t)

	goal, err := svc.CheckDailyGoal(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalStatus{}, goal)
}

func TestCheckDailyGoal_ZeroGoal(t *testing.T) {
	t.Parallel()

	svc, users, _ := newServices(t)
	ctx := context.Background()

	_, err := users.GetOrCreate(ctx, alice())
	require.NoError(t, err)
	require.NoError(t, users.UpdateDailyGoal(ctx, 42, 0))

	goal, err := svc.CheckDailyGoal(ctx, 42)
	require.NoError(t, err)

	assert.True(t, goal.Reached)
	assert.Zero(t, goal.Completed)
	assert.Zero(t, goal.Goal)
}

func TestTodayOverview_UnknownUser(t *testing.T) {
	t.Parallel()

	svc, _, _ := newServices(t)

	_, err := svc.TodayOverview(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestStatsSummary_RegistersUser(t *testing.T) {
	t.Parallel()

	svc, users, _ := newServices(t)
	ctx := context.Background()

	ov, err := svc.StatsSummary(ctx, alice())
	require.NoError(t, err)

	assert.Equal(t, int64(42), ov.User.ID)
	assert.Zero(t, ov.Today.PomodorosCompleted)
	assert.Zero(t, ov.Week.TotalPomodoros)
	assert.Equal(t, domain.DefaultDailyGoal, ov.Goal.Goal)
	assert.False(t, ov.Goal.Reached)

	_, err = users.Get(ctx, 42)
	require.NoError(t, err)
}
