package app

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"meal-shopping-planner/internal/catalog"
	"meal-shopping-planner/internal/recipe"
)

var validate = validator.New()

// ImportCatalog loads a YAML catalog seed file and upserts every entry.
func (a *App) ImportCatalog(ctx context.Context, path string) (int, error) {
	entries, err := catalog.LoadYAML(path)
	if err != nil {
		return 0, err
	}
	if err := a.catalogRepo.Upsert(ctx, entries); err != nil {
		return 0, fmt.Errorf("failed to import catalog: %w", err)
	}
	log.Printf("Imported %d catalog entries from %s", len(entries), path)
	return len(entries), nil
}

// ImportRecipes loads recipes from a JSON file and saves the valid ones.
// Invalid recipes are logged and skipped.
func (a *App) ImportRecipes(ctx context.Context, path string) (int, error) {
	recipes, err := recipe.LoadJSON(path)
	if err != nil {
		return 0, err
	}

	saved := 0
	for _, rec := range recipes {
		if err := validate.Struct(rec); err != nil {
			log.Printf("Skipping invalid recipe '%s': %v", rec.ID, err)
			continue
		}
		if err := a.recipeRepo.Save(ctx, rec); err != nil {
			log.Printf("Failed to save recipe '%s': %v", rec.Name, err)
			continue
		}
		saved++
	}
	log.Printf("Imported %d of %d recipes from %s", saved, len(recipes), path)
	return saved, nil
}
