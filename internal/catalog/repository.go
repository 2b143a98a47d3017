package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	catalogdb "meal-shopping-planner/internal/catalog/catalog_db"
	"meal-shopping-planner/internal/database"
	"meal-shopping-planner/internal/units"
)

// Repository is the sqlite-backed catalog.
type Repository struct {
	queries *catalogdb.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: catalogdb.New(d),
		db:      d,
	}
}

// Upsert stores entries in one transaction.
func (r *Repository) Upsert(ctx context.Context, entries []Ingredient) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		q := r.queries.WithTx(tx)
		for _, e := range entries {
			e = normalize(e)
			if e.Name == "" {
				return fmt.Errorf("failed to upsert ingredient: name is empty")
			}
			aliases, err := json.Marshal(nonNil(e.Aliases))
			if err != nil {
				return fmt.Errorf("failed to marshal aliases for %s: %w", e.Name, err)
			}
			if err := q.UpsertCatalogIngredient(ctx, catalogdb.UpsertCatalogIngredientParams{
				Name:          e.Name,
				Category:      e.Category,
				DefaultUnit:   string(e.DefaultUnit),
				ShelfLifeDays: int64(e.ShelfLifeDays),
				Freezable:     e.Freezable,
				Aliases:       string(aliases),
			}); err != nil {
				return fmt.Errorf("failed to upsert ingredient %s: %w", e.Name, err)
			}
		}
		return nil
	})
}

// Get returns the entry stored under the exact canonical name, or nil.
func (r *Repository) Get(ctx context.Context, name string) (*Ingredient, error) {
	row, err := r.queries.GetCatalogIngredient(ctx, normalize(Ingredient{Name: name}).Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	ing, err := fromRow(row)
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

// Lookup resolves name by canonical name first, then by alias.
func (r *Repository) Lookup(ctx context.Context, name string) (Ingredient, bool, error) {
	ing, err := r.Get(ctx, name)
	if err != nil {
		return Ingredient{}, false, err
	}
	if ing != nil {
		return *ing, true, nil
	}
	all, err := r.All(ctx)
	if err != nil {
		return Ingredient{}, false, err
	}
	found, ok := NewMemory(all).Find(name)
	return found, ok, nil
}

// All returns every entry sorted by name.
func (r *Repository) All(ctx context.Context) ([]Ingredient, error) {
	rows, err := r.queries.ListCatalogIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	out := make([]Ingredient, 0, len(rows))
	for _, row := range rows {
		ing, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}

// Count returns the number of catalog entries.
func (r *Repository) Count(ctx context.Context) (int, error) {
	n, err := r.queries.CountCatalogIngredients(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}
	return int(n), nil
}

// Delete removes an entry by canonical name.
func (r *Repository) Delete(ctx context.Context, name string) error {
	if err := r.queries.DeleteCatalogIngredient(ctx, normalize(Ingredient{Name: name}).Name); err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	return nil
}

func fromRow(row catalogdb.CatalogIngredient) (Ingredient, error) {
	var aliases []string
	if err := json.Unmarshal([]byte(row.Aliases), &aliases); err != nil {
		return Ingredient{}, fmt.Errorf("failed to unmarshal aliases for %s: %w", row.Name, err)
	}
	return Ingredient{
		Name:          row.Name,
		Category:      row.Category,
		DefaultUnit:   units.Unit(row.DefaultUnit),
		ShelfLifeDays: int(row.ShelfLifeDays),
		Freezable:     row.Freezable,
		Aliases:       aliases,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
