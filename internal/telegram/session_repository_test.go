package telegram

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-shopping-planner/internal/database"
)

func newSessionRepo(t *testing.T) *SessionRepository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSessionRepository(db.SQL)
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := newSessionRepo(t)

	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	data := SessionContextData{ListID: "l1", ListName: "Week 10", RemovedRecipes: []string{"pancakes"}}

	t.Run("create and load", func(t *testing.T) {
		id, err := repo.Create(ctx, "42", SessionSyncDecision, StateAwaitDecision, data, 30*time.Minute)
		require.NoError(t, err)
		assert.NotZero(t, id)

		s, err := repo.GetActive(ctx, "42")
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, id, s.ID)
		assert.Equal(t, SessionSyncDecision, s.SessionType)
		assert.Equal(t, StateAwaitDecision, s.State)

		got, err := s.GetContextData()
		require.NoError(t, err)
		assert.Equal(t, data, got)

		none, err := repo.GetActive(ctx, "7")
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("a new session replaces the old one", func(t *testing.T) {
		other := SessionContextData{ListID: "l2", ListName: "Later"}
		id, err := repo.Create(ctx, "42", SessionSyncDecision, StateAwaitDecision, other, 30*time.Minute)
		require.NoError(t, err)

		s, err := repo.GetActive(ctx, "42")
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, id, s.ID)

		got, err := s.GetContextData()
		require.NoError(t, err)
		assert.Equal(t, "l2", got.ListID)
	})

	t.Run("update", func(t *testing.T) {
		s, err := repo.GetActive(ctx, "42")
		require.NoError(t, err)
		require.NoError(t, repo.Update(ctx, s.ID, "done", data))

		s, err = repo.GetActive(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, "done", s.State)
	})

	t.Run("expiry and cleanup", func(t *testing.T) {
		_, err := repo.Create(ctx, "7", SessionSyncDecision, StateAwaitDecision, data, time.Minute)
		require.NoError(t, err)

		now = now.Add(5 * time.Minute)

		s, err := repo.GetActive(ctx, "7")
		require.NoError(t, err)
		assert.Nil(t, s, "expired sessions are not active")

		n, err := repo.CleanupExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		s, err = repo.GetActive(ctx, "42")
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("delete", func(t *testing.T) {
		s, err := repo.GetActive(ctx, "42")
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, s.ID))

		s, err = repo.GetActive(ctx, "42")
		require.NoError(t, err)
		assert.Nil(t, s)
	})
}
