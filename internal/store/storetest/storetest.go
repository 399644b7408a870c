// Package storetest provides store fixtures for tests.
package storetest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avoronov/pomodoro-backend/internal/store"
)

// NewStore opens a migrated in-memory SQLite store that is closed when the
// test finishes.
func NewStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(store.Config{DatabaseURL: ":memory:"})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = st.Close()
	})

	return st
}
