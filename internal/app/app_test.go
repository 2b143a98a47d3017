package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-shopping-planner/internal/calendar"
	"meal-shopping-planner/internal/config"
	"meal-shopping-planner/internal/database"
	"meal-shopping-planner/internal/metrics"
	"meal-shopping-planner/internal/planner"
	"meal-shopping-planner/internal/shopping"
)

const catalogYAML = `ingredients:
  - name: milk
    category: dairy
    default_unit: dl
  - name: flour
    category: pantry
    default_unit: dl
  - name: egg
    category: dairy
    default_unit: pcs
    aliases: [eggs]
`

const recipesJSON = `[
  {"id": "pancakes", "name": "Pancakes", "servings": 4, "ingredients": [
    {"name": "milk", "quantity": 5, "unit": "dl"},
    {"name": "flour", "quantity": 3, "unit": "dl"}
  ]},
  {"id": "omelette", "name": "Omelette", "servings": 2, "ingredients": [
    {"name": "eggs", "quantity": 3, "unit": "pcs"},
    {"name": "salt"}
  ]},
  {"id": "", "name": "No id", "ingredients": []}
]`

func newTestApp(t *testing.T) *App {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	db, err := database.NewDB(filepath.Join(dir, "db", "shopping.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := NewApp(&config.Config{
		DefaultStrategy:         shopping.IncludeAll,
		RecommendSplitThreshold: shopping.DefaultRecommendThreshold,
	}, db)

	catalogPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(catalogYAML), 0644))
	n, err := a.ImportCatalog(ctx, catalogPath)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	recipesPath := filepath.Join(dir, "recipes.json")
	require.NoError(t, os.WriteFile(recipesPath, []byte(recipesJSON), 0644))
	n, err = a.ImportRecipes(ctx, recipesPath)
	require.NoError(t, err)
	require.Equal(t, 2, n, "the recipe without an id is skipped")

	return a
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.Parse(s)
	require.NoError(t, err)
	return d
}

func week(t *testing.T) calendar.Range {
	t.Helper()
	rng, err := calendar.ParseRange("2024-03-04", "2024-03-10")
	require.NoError(t, err)
	return rng
}

func TestScheduleAndSync(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	_, err := a.Schedule(ctx, day(t, "2024-03-04"), "lasagne")
	require.ErrorIs(t, err, ErrRecipeNotFound)

	pancakes, err := a.Schedule(ctx, day(t, "2024-03-04"), "pancakes")
	require.NoError(t, err)

	lists, err := a.GenerateLists(ctx, shopping.GenerateRequest{Name: "Week 10", Range: week(t)})
	require.NoError(t, err)
	require.Len(t, lists, 1)
	listID := lists[0].ID
	assert.Equal(t, shopping.IncludeAll, lists[0].Strategy)

	overview, err := a.Lists(ctx, shopping.StatusActive)
	require.NoError(t, err)
	require.Len(t, overview, 1)
	assert.False(t, overview[0].NeedsSync)

	_, err = a.Schedule(ctx, day(t, "2024-03-05"), "omelette")
	require.NoError(t, err)

	detail, err := a.ShowList(ctx, listID)
	require.NoError(t, err)
	assert.True(t, detail.NeedsSync, "scheduling inside the list range flags it")

	_, err = a.Schedule(ctx, day(t, "2024-03-20"), "omelette")
	require.NoError(t, err)

	report, items, err := a.Sync(ctx, listID)
	require.NoError(t, err)
	assert.Equal(t, []string{"omelette"}, report.Added)
	assert.Len(t, items, 4)

	detail, err = a.ShowList(ctx, listID)
	require.NoError(t, err)
	assert.False(t, detail.NeedsSync)

	t.Run("removing a recipe with purchases needs a decision", func(t *testing.T) {
		var milkID string
		for _, it := range detail.Items {
			if it.Name == "milk" {
				milkID = it.ID
			}
		}
		require.NotEmpty(t, milkID)
		item, err := a.CheckItem(ctx, milkID, true)
		require.NoError(t, err)
		assert.True(t, item.Checked)

		_, err = a.Unschedule(ctx, pancakes.ID)
		require.NoError(t, err)

		_, _, err = a.Sync(ctx, listID)
		require.ErrorIs(t, err, shopping.ErrDecisionRequired)

		items, err := a.Reconcile(ctx, listID, true)
		require.NoError(t, err)
		var names []string
		for _, it := range items {
			names = append(names, it.Name)
		}
		assert.Contains(t, names, "milk")
		assert.NotContains(t, names, "flour")
	})

	t.Run("metrics", func(t *testing.T) {
		activity, err := a.DailyActivity(1)
		require.NoError(t, err)
		ops := map[string]int{}
		for _, d := range activity {
			ops[d.Operation] += d.Runs
		}
		assert.Equal(t, 1, ops[metrics.OpGenerate])
		assert.Equal(t, 2, ops[metrics.OpReconcile])
	})

	t.Run("unknown entry", func(t *testing.T) {
		_, err := a.Unschedule(ctx, "missing")
		require.ErrorIs(t, err, ErrEntryNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, a.DeleteList(ctx, listID))
		_, err := a.ShowList(ctx, listID)
		require.ErrorIs(t, err, shopping.ErrListNotFound)
	})
}

func TestPopulate(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	_, err := a.Populate(ctx, planner.PopulateRequest{
		RecipeIDs: []string{"pancakes", "lasagne"},
		Range:     week(t),
		Mode:      planner.ModeFill,
	})
	require.ErrorIs(t, err, ErrRecipeNotFound)

	lists, err := a.GenerateLists(ctx, shopping.GenerateRequest{Name: "Week 10", Range: week(t)})
	require.NoError(t, err)

	res, err := a.Populate(ctx, planner.PopulateRequest{
		RecipeIDs: []string{"pancakes", "omelette"},
		Range:     week(t),
		Mode:      planner.ModeFill,
	})
	require.NoError(t, err)
	assert.Len(t, res.Created, 2)

	entries, err := a.Plan(ctx, week(t))
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	detail, err := a.ShowList(ctx, lists[0].ID)
	require.NoError(t, err)
	assert.True(t, detail.NeedsSync)

	strategy, warnings, err := a.Recommend(ctx, week(t))
	require.NoError(t, err)
	assert.Equal(t, shopping.IncludeAll, strategy)
	assert.Zero(t, warnings)
}

func TestListStatus(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	lists, err := a.GenerateLists(ctx, shopping.GenerateRequest{Name: "Empty week", Range: week(t)})
	require.NoError(t, err)

	require.NoError(t, a.SetListStatus(ctx, lists[0].ID, shopping.StatusCompleted))
	active, err := a.Lists(ctx, shopping.StatusActive)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := a.Lists(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	n, err := a.CleanupMetrics(30)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStatsAndEdits(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	st, err := a.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Recipes: 2, CatalogEntries: 3}, st)

	recipes, err := a.Recipes(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 2)

	require.NoError(t, a.RemoveCatalogEntry(ctx, "Flour"))
	st, err = a.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.CatalogEntries)

	_, err = a.Schedule(ctx, day(t, "2024-03-04"), "pancakes")
	require.NoError(t, err)
	lists, err := a.GenerateLists(ctx, shopping.GenerateRequest{Name: "Week 10", Range: week(t)})
	require.NoError(t, err)

	detail, err := a.ShowList(ctx, lists[0].ID)
	require.NoError(t, err)
	require.NotEmpty(t, detail.Items)

	half := 0.5
	item, err := a.SetItemQuantity(ctx, detail.Items[0].ID, &half, "Liters")
	require.NoError(t, err)
	assert.Equal(t, "0.5 l", item.QuantityString())

	_, err = a.SetItemQuantity(ctx, "missing", nil, "")
	require.ErrorIs(t, err, shopping.ErrItemNotFound)

	_, err = a.Schedule(ctx, day(t, "2024-03-05"), "omelette")
	require.NoError(t, err)
	st, err = a.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.ListsNeedingSync)
}
