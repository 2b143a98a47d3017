package planner

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"meal-shopping-planner/internal/calendar"
	"meal-shopping-planner/internal/database"
)

// PopulateRequest places an ordered batch of recipes onto the days of a range.
type PopulateRequest struct {
	RecipeIDs []string
	Range     calendar.Range
	Mode      Mode
}

// Result reports what a populate run changed.
type Result struct {
	Created   []Entry
	Removed   []Entry
	Discarded []string
}

// ChangedDays lists every day whose entries changed, in chronological order.
func (r Result) ChangedDays() []time.Time {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, set := range [][]Entry{r.Removed, r.Created} {
		for _, e := range set {
			d := calendar.Day(e.Date)
			if !seen[d] {
				seen[d] = true
				days = append(days, d)
			}
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Populator assigns recipes to meal-plan days.
type Populator struct {
	db    *sql.DB
	plans *PlanRepository
	newID func() string
}

// NewPopulator creates a Populator.
func NewPopulator(d *sql.DB) *Populator {
	return &Populator{
		db:    d,
		plans: NewPlanRepository(d),
		newID: uuid.NewString,
	}
}

// Populate runs in a single transaction: either every change lands or none does.
//
// In fill mode recipes go to empty days in chronological order and the ones
// left over are discarded. In replace mode the range is cleared and recipes are
// placed on consecutive days from the start; recipes past the end are discarded.
func (p *Populator) Populate(ctx context.Context, req PopulateRequest) (Result, error) {
	if req.Mode != ModeFill && req.Mode != ModeReplace {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}
	rng := calendar.NewRange(req.Range.Start, req.Range.End)
	if err := rng.Validate(); err != nil {
		return Result{}, fmt.Errorf("failed to populate: %w", err)
	}

	var res Result
	err := database.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		plans := p.plans.WithTx(tx)

		existing, err := plans.EntriesInRange(ctx, rng)
		if err != nil {
			return err
		}

		var slots []time.Time
		switch req.Mode {
		case ModeReplace:
			if _, err := plans.DeleteInRange(ctx, rng); err != nil {
				return err
			}
			res.Removed = existing
			slots = rng.Days()
		case ModeFill:
			taken := make(map[time.Time]bool, len(existing))
			for _, e := range existing {
				taken[calendar.Day(e.Date)] = true
			}
			for _, d := range rng.Days() {
				if !taken[d] {
					slots = append(slots, d)
				}
			}
		}

		for i, recipeID := range req.RecipeIDs {
			if i >= len(slots) {
				res.Discarded = append(res.Discarded, req.RecipeIDs[i:]...)
				break
			}
			entry, err := plans.insert(ctx, p.newID(), slots[i], recipeID)
			if err != nil {
				return err
			}
			res.Created = append(res.Created, entry)
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to populate %s in %s mode: %w", rng, req.Mode, err)
	}

	if len(res.Discarded) > 0 {
		log.Printf("Populate %s (%s): %d recipe(s) did not fit and were discarded", rng, req.Mode, len(res.Discarded))
	}
	return res, nil
}
