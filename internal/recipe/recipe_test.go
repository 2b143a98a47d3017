package recipe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"meal-shopping-planner/internal/database"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	d, err := database.NewDB(filepath.Join(t.TempDir(), "recipes.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return NewRepository(d.SQL)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	pancakes := Recipe{
		ID:       "pancakes",
		Name:     "Pancakes",
		Servings: 4,
		Ingredients: []Line{
			{Name: "milk", Quantity: Amount(6), Unit: "dl"},
			{Name: "salt"},
			{Name: "butter", Quantity: Amount(2), Unit: "tbsp", Group: "for frying"},
		},
		UpdatedAt: "2024-01-01T00:00:00Z",
	}

	t.Run("Save and Get", func(t *testing.T) {
		if err := repo.Save(ctx, pancakes); err != nil {
			t.Fatalf("Failed to save recipe: %v", err)
		}
		got, err := repo.Get(ctx, "pancakes")
		if err != nil {
			t.Fatalf("Failed to get recipe: %v", err)
		}
		if got == nil {
			t.Fatal("Expected recipe, got nil")
		}
		if len(got.Ingredients) != 3 {
			t.Errorf("Expected 3 ingredients, got %d", len(got.Ingredients))
		}
		if got.Ingredients[1].Quantity != nil {
			t.Errorf("Expected salt to stay without quantity")
		}
	})

	t.Run("Get not found", func(t *testing.T) {
		got, err := repo.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != nil {
			t.Errorf("Expected nil recipe, got %+v", got)
		}
	})

	t.Run("Save updates existing", func(t *testing.T) {
		updated := pancakes
		updated.Servings = 6
		if err := repo.Save(ctx, updated); err != nil {
			t.Fatalf("Failed to save recipe: %v", err)
		}
		count, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("Failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 recipe, got %d", count)
		}
	})

	t.Run("GetByIDs", func(t *testing.T) {
		if err := repo.Save(ctx, Recipe{ID: "soup", Name: "Soup"}); err != nil {
			t.Fatalf("Failed to save recipe: %v", err)
		}
		got, err := repo.GetByIDs(ctx, []string{"soup", "pancakes", "unknown"})
		if err != nil {
			t.Fatalf("Failed to get recipes: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Expected 2 recipes, got %d", len(got))
		}
		if got["pancakes"].Servings != 6 {
			t.Errorf("Expected updated servings 6, got %d", got["pancakes"].Servings)
		}
	})
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()

	t.Run("Array", func(t *testing.T) {
		path := filepath.Join(dir, "many.json")
		content := `[{"id": "a", "name": "A", "ingredients": [{"name": "egg", "quantity": 2}]}, {"id": "b", "name": "B"}]`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		recipes, err := LoadJSON(path)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(recipes) != 2 {
			t.Fatalf("Expected 2 recipes, got %d", len(recipes))
		}
		if *recipes[0].Ingredients[0].Quantity != 2 {
			t.Errorf("Expected quantity 2, got %v", *recipes[0].Ingredients[0].Quantity)
		}
	})

	t.Run("Single", func(t *testing.T) {
		path := filepath.Join(dir, "one.json")
		if err := os.WriteFile(path, []byte(`{"id": "c", "name": "C"}`), 0644); err != nil {
			t.Fatal(err)
		}
		recipes, err := LoadJSON(path)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(recipes) != 1 || recipes[0].ID != "c" {
			t.Errorf("Expected recipe c, got %+v", recipes)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte(`not json`), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadJSON(path); err == nil {
			t.Error("Expected an error for invalid JSON, got nil")
		}
	})
}

func TestGroups(t *testing.T) {
	r := Recipe{Ingredients: []Line{
		{Name: "a", Group: "for the sauce"},
		{Name: "b"},
		{Name: "c", Group: "for the sauce"},
		{Name: "d", Group: "topping"},
	}}
	groups := r.Groups()
	if len(groups) != 2 || groups[0] != "for the sauce" || groups[1] != "topping" {
		t.Errorf("Unexpected groups: %v", groups)
	}
}
