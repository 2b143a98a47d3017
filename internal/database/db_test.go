package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "shopping.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range []string{"recipes", "catalog_ingredients", "meal_plan_entries", "shopping_lists", "shopping_list_items", "list_sync_state", "execution_metrics", "sessions"} {
		var name string
		err := db.SQL.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, RunMigrations(dbPath))
	})
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	db, err := NewDB(filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	count := func() int {
		var n int
		require.NoError(t, db.SQL.QueryRow(`SELECT COUNT(*) FROM recipes`).Scan(&n))
		return n
	}

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := WithTx(ctx, db.SQL, func(tx *sql.Tx) error {
			if _, err := tx.Exec(`INSERT INTO recipes (id, data, updated_at) VALUES ('r1', '{}', ?)`, Now()); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.Equal(t, 0, count())
	})

	t.Run("commit on success", func(t *testing.T) {
		err := WithTx(ctx, db.SQL, func(tx *sql.Tx) error {
			_, err := tx.Exec(`INSERT INTO recipes (id, data, updated_at) VALUES ('r1', '{}', ?)`, Now())
			return err
		})
		require.NoError(t, err)
		require.Equal(t, 1, count())
	})
}
