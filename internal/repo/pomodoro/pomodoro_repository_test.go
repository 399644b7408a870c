package pomodoro_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/repo/pomodoro"
	"github.com/avoronov/pomodoro-backend/internal/repo/user"
	"github.com/avoronov/pomodoro-backend/internal/store/storetest"
)

func newRepo(t *testing.T) pomodoro.Repository {
	t.Helper()

	st := storetest.NewStore(t)

	u := &domain.User{
		ID:                  42,
		DailyGoal:           8,
		NotificationEnabled: true,
	}
	require.NoError(t, user.NewRepository(st.Dialect, st.DB).Create(context.Background(), u))

	return pomodoro.NewRepository(st.Dialect, st.DB)
}

func insert(t *testing.T, repo pomodoro.Repository, mode domain.Mode, duration int, completedAt int64) *domain.Pomodoro {
	t.Helper()

	p := &domain.Pomodoro{
		UserID:      42,
		Mode:        mode,
		Duration:    duration,
		Completed:   true,
		StartedAt:   completedAt - int64(duration)*60,
		CompletedAt: completedAt,
	}
	require.NoError(t, repo.Create(context.Background(), p))

	return p
}

func TestRepository_CreateAssignsID(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)

	first := insert(t, repo, domain.ModeWork, 25, 1000)
	second := insert(t, repo, domain.ModeWork, 25, 2000)

	assert.Positive(t, first.ID)
	assert.Greater(t, second.ID, first.ID)
}

func TestRepository_ListCompletedBetween_Window(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	ctx := context.Background()

	insert(t, repo, domain.ModeWork, 25, 999)  // before window
	atFrom := insert(t, repo, domain.ModeWork, 25, 1000)
	inside := insert(t, repo, domain.ModeWork, 25, 1500)
	insert(t, repo, domain.ModeWork, 25, 2000) // at upper bound, excluded

	got, err := repo.ListCompletedBetween(ctx, 42, domain.ModeWork, 1000, 2000)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, atFrom.ID, got[0].ID)
	assert.Equal(t, inside.ID, got[1].ID)
}

func TestRepository_ListCompletedBetween_ModeFilter(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	ctx := context.Background()

	insert(t, repo, domain.ModeWork, 25, 1000)
	insert(t, repo, domain.ModeShortBreak, 5, 1100)
	insert(t, repo, domain.ModeLongBreak, 15, 1200)

	got, err := repo.ListCompletedBetween(ctx, 42, domain.ModeWork, 0, 2000)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, domain.ModeWork, got[0].Mode)
}

func TestRepository_ListCompletedBetween_OrderedByCompletion(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	ctx := context.Background()

	insert(t, repo, domain.ModeWork, 25, 3000)
	insert(t, repo, domain.ModeWork, 25, 1000)
	insert(t, repo, domain.ModeWork, 25, 2000)

	got, err := repo.ListCompletedBetween(ctx, 42, domain.ModeWork, 0, 4000)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, int64(1000), got[0].CompletedAt)
	assert.Equal(t, int64(2000), got[1].CompletedAt)
	assert.Equal(t, int64(3000), got[2].CompletedAt)
}

func TestRepository_ListCompletedBetween_OtherUser(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	ctx := context.Background()

	insert(t, repo, domain.ModeWork, 25, 1000)

	got, err := repo.ListCompletedBetween(ctx, 7, domain.ModeWork, 0, 2000)
	require.NoError(t, err)
	assert.Empty(t, got)
}
