package planner

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-shopping-planner/internal/calendar"
	"meal-shopping-planner/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	d, err := database.NewDB(filepath.Join(t.TempDir(), "plan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.Parse(s)
	require.NoError(t, err)
	return d
}

func week(t *testing.T) calendar.Range {
	return calendar.NewRange(day(t, "2024-03-04"), day(t, "2024-03-10"))
}

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(newTestDB(t).SQL)

	a, err := repo.Add(ctx, day(t, "2024-03-05"), "soup")
	require.NoError(t, err)
	_, err = repo.Add(ctx, day(t, "2024-03-04"), "pasta")
	require.NoError(t, err)
	_, err = repo.Add(ctx, day(t, "2024-03-11"), "tacos")
	require.NoError(t, err)

	t.Run("entries in range are ordered by day", func(t *testing.T) {
		entries, err := repo.EntriesInRange(ctx, week(t))
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "pasta", entries[0].RecipeID)
		assert.Equal(t, "soup", entries[1].RecipeID)
		assert.Equal(t, day(t, "2024-03-05"), entries[1].Date)
	})

	t.Run("same recipe twice on one day is rejected", func(t *testing.T) {
		_, err := repo.Add(ctx, day(t, "2024-03-05"), "soup")
		require.Error(t, err)
	})

	t.Run("delete returns the removed entry", func(t *testing.T) {
		removed, err := repo.Delete(ctx, a.ID)
		require.NoError(t, err)
		require.NotNil(t, removed)
		assert.Equal(t, "soup", removed.RecipeID)

		again, err := repo.Delete(ctx, a.ID)
		require.NoError(t, err)
		assert.Nil(t, again)
	})

	t.Run("delete in range", func(t *testing.T) {
		n, err := repo.DeleteInRange(ctx, week(t))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		rest, err := repo.EntriesInRange(ctx, calendar.NewRange(day(t, "2024-03-01"), day(t, "2024-03-31")))
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, "tacos", rest[0].RecipeID)
	})
}

func TestPopulateFill(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	repo := NewPlanRepository(d.SQL)
	pop := NewPopulator(d.SQL)

	// Five of seven days are already planned; Wednesday and Saturday are free.
	for _, s := range []string{"2024-03-04", "2024-03-05", "2024-03-07", "2024-03-08", "2024-03-10"} {
		_, err := repo.Add(ctx, day(t, s), "existing")
		require.NoError(t, err)
	}

	res, err := pop.Populate(ctx, PopulateRequest{
		RecipeIDs: []string{"r1", "r2", "r3"},
		Range:     week(t),
		Mode:      ModeFill,
	})
	require.NoError(t, err)

	require.Len(t, res.Created, 2)
	assert.Equal(t, "r1", res.Created[0].RecipeID)
	assert.Equal(t, day(t, "2024-03-06"), res.Created[0].Date)
	assert.Equal(t, "r2", res.Created[1].RecipeID)
	assert.Equal(t, day(t, "2024-03-09"), res.Created[1].Date)
	assert.Equal(t, []string{"r3"}, res.Discarded)
	assert.Empty(t, res.Removed)
	assert.Equal(t, []time.Time{day(t, "2024-03-06"), day(t, "2024-03-09")}, res.ChangedDays())

	entries, err := repo.EntriesInRange(ctx, week(t))
	require.NoError(t, err)
	assert.Len(t, entries, 7)
}

func TestPopulateFillSlotRespect(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		filled  int
		recipes int
	}{
		{"more recipes than slots", 4, 6},
		{"fewer recipes than slots", 1, 2},
		{"no empty slots", 7, 3},
		{"empty plan", 0, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDB(t)
			repo := NewPlanRepository(d.SQL)
			days := week(t).Days()
			for i := 0; i < tt.filled; i++ {
				_, err := repo.Add(ctx, days[i], "existing")
				require.NoError(t, err)
			}
			var ids []string
			for i := 0; i < tt.recipes; i++ {
				ids = append(ids, "r"+string(rune('a'+i)))
			}

			res, err := NewPopulator(d.SQL).Populate(ctx, PopulateRequest{RecipeIDs: ids, Range: week(t), Mode: ModeFill})
			require.NoError(t, err)
			assert.Len(t, res.Created, min(tt.recipes, 7-tt.filled))
			assert.Len(t, res.Discarded, tt.recipes-len(res.Created))
		})
	}
}

func TestPopulateReplace(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	repo := NewPlanRepository(d.SQL)
	pop := NewPopulator(d.SQL)

	for _, s := range []string{"2024-03-04", "2024-03-08", "2024-03-12"} {
		_, err := repo.Add(ctx, day(t, s), "old")
		require.NoError(t, err)
	}

	t.Run("clears the range and places from the first day", func(t *testing.T) {
		res, err := pop.Populate(ctx, PopulateRequest{
			RecipeIDs: []string{"a", "b", "c"},
			Range:     week(t),
			Mode:      ModeReplace,
		})
		require.NoError(t, err)
		assert.Len(t, res.Removed, 2)
		require.Len(t, res.Created, 3)
		for i, e := range res.Created {
			assert.Equal(t, calendar.AddDays(week(t).Start, i), e.Date)
		}
		assert.Equal(t, []time.Time{day(t, "2024-03-04"), day(t, "2024-03-05"), day(t, "2024-03-06"), day(t, "2024-03-08")}, res.ChangedDays())

		entries, err := repo.EntriesInRange(ctx, week(t))
		require.NoError(t, err)
		assert.Len(t, entries, 3)

		outside, err := repo.EntriesInRange(ctx, calendar.NewRange(day(t, "2024-03-12"), day(t, "2024-03-12")))
		require.NoError(t, err)
		assert.Len(t, outside, 1)
	})

	t.Run("recipes past the end of the range are discarded", func(t *testing.T) {
		rng := calendar.NewRange(day(t, "2024-03-04"), day(t, "2024-03-05"))
		res, err := pop.Populate(ctx, PopulateRequest{
			RecipeIDs: []string{"a", "b", "c", "d"},
			Range:     rng,
			Mode:      ModeReplace,
		})
		require.NoError(t, err)
		assert.Len(t, res.Created, 2)
		assert.Equal(t, []string{"c", "d"}, res.Discarded)
	})
}

func TestPopulateIsAtomic(t *testing.T) {
	ctx := context.Background()
	d := newTestDB(t)
	repo := NewPlanRepository(d.SQL)
	_, err := repo.Add(ctx, day(t, "2024-03-04"), "keep-me")
	require.NoError(t, err)

	pop := NewPopulator(d.SQL)
	pop.newID = func() string { return "duplicate" }

	_, err = pop.Populate(ctx, PopulateRequest{
		RecipeIDs: []string{"a", "b"},
		Range:     week(t),
		Mode:      ModeReplace,
	})
	require.Error(t, err)

	entries, err := repo.EntriesInRange(ctx, week(t))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep-me", entries[0].RecipeID)
}

func TestPopulateValidation(t *testing.T) {
	ctx := context.Background()
	pop := NewPopulator(newTestDB(t).SQL)

	_, err := pop.Populate(ctx, PopulateRequest{RecipeIDs: []string{"a"}, Range: week(t), Mode: "shuffle"})
	require.ErrorIs(t, err, ErrInvalidMode)

	_, err = pop.Populate(ctx, PopulateRequest{
		RecipeIDs: []string{"a"},
		Range:     calendar.Range{Start: day(t, "2024-03-10"), End: day(t, "2024-03-04")},
		Mode:      ModeFill,
	})
	require.Error(t, err)

	m, err := ParseMode("replace")
	require.NoError(t, err)
	assert.Equal(t, ModeReplace, m)
	_, err = ParseMode("bogus")
	require.ErrorIs(t, err, ErrInvalidMode)
}
