package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/pomodoro-backend/internal/domain"
	"github.com/avoronov/pomodoro-backend/internal/repo/user"
	"github.com/avoronov/pomodoro-backend/internal/store/storetest"
)

func newRepo(t *testing.T) user.Repository {
	t.Helper()

	st := storetest.NewStore(t)

	return user.NewRepository(st.Dialect, st.DB)
}

func testUser(id int64) *domain.User {
	return &domain.User{
		ID:                  id,
		Username:            "alice",
		FirstName:           "Alice",
		LastName:            "Smith",
		LanguageCode:        "en",
		DailyGoal:           8,
		NotificationEnabled: true,
		CreatedAt:           1700000000,
		UpdatedAt:           1700000000,
	}
}

func TestRepository_GetUnknown(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)

	_, err := repo.Get(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	ctx := context.Background()

	want := testUser(42)
	require.NoError(t, repo.Create(ctx, want))

	got, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRepository_UpdateDailyGoal(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser(42)))

	found, err := repo.UpdateDailyGoal(ctx, 42, 12, 1700000100)
	require.NoError(t, err)
	assert.True(t, found)

	got, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 12, got.DailyGoal)
	assert.Equal(t, int64(1700000100), got.UpdatedAt)
}

func TestRepository_UpdateDailyGoalUnknown(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)

	found, err := repo.UpdateDailyGoal(context.Background(), 42, 12, 1700000100)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepository_UpdateNotificationEnabled(t *testing.T) {
	t.Parallel()

	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser(42)))

	found, err := repo.UpdateNotificationEnabled(ctx, 42, false, 1700000100)
	require.NoError(t, err)
	assert.True(t, found)

	got, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, got.NotificationEnabled)

	found, err = repo.UpdateNotificationEnabled(ctx, 7, false, 1700000100)
	require.NoError(t, err)
	assert.False(t, found)
}
