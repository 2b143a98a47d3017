package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-shopping-planner/internal/database"
	"meal-shopping-planner/internal/units"
)

var testEntries = []Ingredient{
	{Name: "Milk", Category: "Dairy", DefaultUnit: "dl", Aliases: []string{"whole milk", "mjölk"}},
	{Name: "salmon", Category: Fish, DefaultUnit: "g", ShelfLifeDays: 2, Freezable: true, Aliases: []string{"fresh salmon"}},
	{Name: "crème fraîche", Category: Dairy, DefaultUnit: "dl"},
	{Name: "salt", Category: Spices},
}

func TestKey(t *testing.T) {
	assert.Equal(t, "creme fraiche", Key("  Crème   Fraîche "))
	assert.Equal(t, "mjolk", Key("MJÖLK"))
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(testEntries)

	t.Run("exact name is case and accent insensitive", func(t *testing.T) {
		ing, ok, err := m.Lookup(ctx, "CREME FRAICHE")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "crème fraîche", ing.Name)
	})

	t.Run("alias", func(t *testing.T) {
		ing, ok, err := m.Lookup(ctx, "mjolk")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "milk", ing.Name)
		assert.Equal(t, units.Unit("dl"), ing.DefaultUnit)
		assert.Equal(t, Dairy, ing.Category)
	})

	t.Run("miss is not an error", func(t *testing.T) {
		_, ok, err := m.Lookup(ctx, "dragon fruit")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("entries sorted by name", func(t *testing.T) {
		all, err := m.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "crème fraîche", all[0].Name)
		assert.Equal(t, "salt", all[3].Name)
	})

	t.Run("later duplicate wins", func(t *testing.T) {
		m := NewMemory([]Ingredient{{Name: "egg", Category: Dairy}, {Name: "Egg", Category: "pantry"}})
		assert.Equal(t, 1, m.Len())
		ing, _ := m.Find("egg")
		assert.Equal(t, Pantry, ing.Category)
	})
}

func TestShelfLife(t *testing.T) {
	tests := []struct {
		name      string
		ing       Ingredient
		wantDays  int
		wantFreez bool
		wantKnown bool
	}{
		{"own shelf life", Ingredient{Category: Dairy, ShelfLifeDays: 10}, 10, false, true},
		{"category default", Ingredient{Category: Fish}, 2, true, true},
		{"category is case insensitive", Ingredient{Category: " Produce "}, 5, false, true},
		{"other has no signal", Ingredient{Category: Other}, 0, false, false},
		{"unknown category", Ingredient{Category: "snacks"}, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sl, ok := tt.ing.ShelfLife()
			assert.Equal(t, tt.wantKnown, ok)
			assert.Equal(t, tt.wantDays, sl.Days)
			assert.Equal(t, tt.wantFreez, sl.Freezable)
		})
	}
}

func TestParseYAML(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		doc := `
ingredients:
  - name: Milk
    category: dairy
    default_unit: deciliters
    aliases: [whole milk]
  - name: salmon
    category: fish
    shelf_life_days: 2
    freezable: true
  - name: basil
`
		entries, err := ParseYAML(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "milk", entries[0].Name)
		assert.Equal(t, units.Unit("dl"), entries[0].DefaultUnit)
		assert.True(t, entries[1].Freezable)
		assert.Equal(t, Other, entries[2].Category)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := ParseYAML(strings.NewReader("ingredients:\n  - category: dairy\n"))
		require.Error(t, err)
	})

	t.Run("negative shelf life", func(t *testing.T) {
		_, err := ParseYAML(strings.NewReader("ingredients:\n  - name: milk\n    shelf_life_days: -1\n"))
		require.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ParseYAML(strings.NewReader("ingredients: [:"))
		require.Error(t, err)
	})
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	d, err := database.NewDB(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	repo := NewRepository(d.SQL)

	require.NoError(t, repo.Upsert(ctx, testEntries))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	t.Run("lookup by name", func(t *testing.T) {
		ing, ok, err := repo.Lookup(ctx, "Salmon")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2, ing.ShelfLifeDays)
		assert.Equal(t, []string{"fresh salmon"}, ing.Aliases)
	})

	t.Run("lookup by alias", func(t *testing.T) {
		ing, ok, err := repo.Lookup(ctx, "whole milk")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "milk", ing.Name)
	})

	t.Run("upsert replaces", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, []Ingredient{{Name: "salt", Category: Pantry}}))
		ing, err := repo.Get(ctx, "salt")
		require.NoError(t, err)
		require.NotNil(t, ing)
		assert.Equal(t, Pantry, ing.Category)
	})

	t.Run("snapshot matches memory", func(t *testing.T) {
		snap, err := Snapshot(ctx, repo)
		require.NoError(t, err)
		assert.Equal(t, 4, snap.Len())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "salt"))
		ing, err := repo.Get(ctx, "salt")
		require.NoError(t, err)
		assert.Nil(t, ing)
	})
}
