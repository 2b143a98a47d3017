package planner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"meal-shopping-planner/internal/calendar"
	"meal-shopping-planner/internal/planner/plan_db"
)

// PlanRepository is a database-backed repository for meal-plan entries.
type PlanRepository struct {
	queries *plan_db.Queries
	db      *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{
		queries: plan_db.New(d),
		db:      d,
	}
}

// WithTx returns a repository whose queries run inside tx.
func (r *PlanRepository) WithTx(tx *sql.Tx) *PlanRepository {
	return &PlanRepository{
		queries: r.queries.WithTx(tx),
		db:      r.db,
	}
}

// Add schedules a recipe on a day.
func (r *PlanRepository) Add(ctx context.Context, date time.Time, recipeID string) (Entry, error) {
	return r.insert(ctx, uuid.NewString(), date, recipeID)
}

func (r *PlanRepository) insert(ctx context.Context, id string, date time.Time, recipeID string) (Entry, error) {
	entry := Entry{
		ID:        id,
		Date:      calendar.Day(date),
		RecipeID:  recipeID,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	err := r.queries.InsertMealPlanEntry(ctx, plan_db.InsertMealPlanEntryParams{
		ID:        entry.ID,
		PlanDate:  calendar.Format(entry.Date),
		RecipeID:  entry.RecipeID,
		CreatedAt: entry.CreatedAt,
	})
	if err != nil {
		return Entry{}, fmt.Errorf("failed to schedule recipe %s on %s: %w", recipeID, calendar.Format(date), err)
	}
	return entry, nil
}

// Get retrieves an entry by ID, or nil when it does not exist.
func (r *PlanRepository) Get(ctx context.Context, id string) (*Entry, error) {
	row, err := r.queries.GetMealPlanEntry(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal plan entry: %w", err)
	}
	entry, err := fromRow(row)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes an entry and returns it, or nil when it did not exist.
func (r *PlanRepository) Delete(ctx context.Context, id string) (*Entry, error) {
	entry, err := r.Get(ctx, id)
	if err != nil || entry == nil {
		return nil, err
	}
	if err := r.queries.DeleteMealPlanEntry(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete meal plan entry: %w", err)
	}
	return entry, nil
}

// EntriesInRange lists entries whose day falls in rng, ordered by day then recipe.
func (r *PlanRepository) EntriesInRange(ctx context.Context, rng calendar.Range) ([]Entry, error) {
	rows, err := r.queries.ListMealPlanEntriesInRange(ctx, plan_db.ListMealPlanEntriesInRangeParams{
		StartDate: calendar.Format(rng.Start),
		EndDate:   calendar.Format(rng.End),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plan entries for %s: %w", rng, err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// DeleteInRange removes every entry in rng and returns how many were removed.
func (r *PlanRepository) DeleteInRange(ctx context.Context, rng calendar.Range) (int64, error) {
	n, err := r.queries.DeleteMealPlanEntriesInRange(ctx, plan_db.DeleteMealPlanEntriesInRangeParams{
		StartDate: calendar.Format(rng.Start),
		EndDate:   calendar.Format(rng.End),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear meal plan for %s: %w", rng, err)
	}
	return n, nil
}

func fromRow(row plan_db.MealPlanEntry) (Entry, error) {
	date, err := calendar.Parse(row.PlanDate)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to parse date of entry %s: %w", row.ID, err)
	}
	return Entry{
		ID:        row.ID,
		Date:      date,
		RecipeID:  row.RecipeID,
		CreatedAt: row.CreatedAt,
	}, nil
}
