package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/pomodoro-backend/internal/store"
	"github.com/avoronov/pomodoro-backend/internal/store/storetest"
)

var errBoom = errors.New("boom")

func TestOpen_InMemory(t *testing.T) {
	t.Parallel()

	st := storetest.NewStore(t)

	assert.Equal(t, store.DialectSQLite, st.Dialect)

	var n int
	require.NoError(t, st.DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	assert.Zero(t, n)
}

func TestWithinTx_Commit(t *testing.T) {
	t.Parallel()

	st := storetest.NewStore(t)
	ctx := context.Background()

	err := st.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, username, first_name, last_name, language_code,
			                   daily_goal, notification_enabled, created_at, updated_at)
			VALUES (1, 'alice', '', '', '', 8, 1, 0, 0)`)

		return err
	})
	require.NoError(t, err)

	var n int
	require.NoError(t, st.DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	t.Parallel()

	st := storetest.NewStore(t)
	ctx := context.Background()

	err := st.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, username, first_name, last_name, language_code,
			                   daily_goal, notification_enabled, created_at, updated_at)
			VALUES (1, 'alice', '', '', '', 8, 1, 0, 0)`)
		require.NoError(t, err)

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	var n int
	require.NoError(t, st.DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	assert.Zero(t, n)
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	t.Parallel()

	st := storetest.NewStore(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = st.WithinTx(ctx, func(ctx context.Context, tx store.DBTX) error {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO users (id, username, first_name, last_name, language_code,
				                   daily_goal, notification_enabled, created_at, updated_at)
				VALUES (1, 'alice', '', '', '', 8, 1, 0, 0)`)
			require.NoError(t, err)

			panic("tx panic")
		})
	})

	var n int
	require.NoError(t, st.DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_CascadeDelete(t *testing.T) {
	t.Parallel()

	st := storetest.NewStore(t)

	_, err := st.DB.Exec(`
		INSERT INTO users (id, username, first_name, last_name, language_code,
		                   daily_goal, notification_enabled, created_at, updated_at)
		VALUES (1, 'alice', '', '', '', 8, 1, 0, 0)`)
	require.NoError(t, err)

	_, err = st.DB.Exec(`
		INSERT INTO pomodoros (user_id, mode, duration, completed, started_at, completed_at)
		VALUES (1, 'work', 25, 1, 0, 0)`)
	require.NoError(t, err)

	_, err = st.DB.Exec("DELETE FROM users WHERE id = 1")
	require.NoError(t, err)

	var n int
	require.NoError(t, st.DB.QueryRow("SELECT COUNT(*) FROM pomodoros").Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_RejectsUnknownMode(t *testing.T) {
	t.Parallel()

	st := storetest.NewStore(t)

	_, err := st.DB.Exec(`
		INSERT INTO users (id, username, first_name, last_name, language_code,
		                   daily_goal, notification_enabled, created_at, updated_at)
		VALUES (1, 'alice', '', '', '', 8, 1, 0, 0)`)
	require.NoError(t, err)

	_, err = st.DB.Exec(`
		INSERT INTO pomodoros (user_id, mode, duration, completed, started_at, completed_at)
		VALUES (1, 'nap', 25, 1, 0, 0)`)
	assert.Error(t, err)
}
