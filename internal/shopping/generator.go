package shopping

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"meal-shopping-planner/internal/aggregate"
	"meal-shopping-planner/internal/calendar"
	"meal-shopping-planner/internal/catalog"
	"meal-shopping-planner/internal/planner"
	"meal-shopping-planner/internal/recipe"
)

// PlanReader reads meal-plan entries.
type PlanReader interface {
	EntriesInRange(ctx context.Context, rng calendar.Range) ([]planner.Entry, error)
}

// RecipeReader reads recipes by id.
type RecipeReader interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]recipe.Recipe, error)
}

// SignatureRecorder remembers the plan a list was materialized from.
type SignatureRecorder interface {
	Record(ctx context.Context, listID string, entries []planner.Entry) error
}

// GenerateRequest asks for new lists over a plan range.
type GenerateRequest struct {
	Name       string         `validate:"required,max=120"`
	Range      calendar.Range `validate:"-"`
	Strategy   Strategy       `validate:"required,oneof=include_all exclude_perishables split_lists custom"`
	Categories []string       `validate:"required_if=Strategy custom,dive,required"`
	Split      SplitOptions
}

var validate = validator.New()

// Validate checks the request fields and its date range.
func (req GenerateRequest) Validate() error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid generate request: %w", err)
	}
	if err := req.Range.Validate(); err != nil {
		return fmt.Errorf("invalid generate request: %w", err)
	}
	return nil
}

// Computation is the output of one aggregation pass.
type Computation struct {
	Drafts  []Draft
	Entries []planner.Entry
	Items   []aggregate.Aggregated
}

// Generator builds shopping lists from the meal plan.
type Generator struct {
	plans   PlanReader
	recipes RecipeReader
	catalog catalog.Catalog
	lists   *Repository
	sync    SignatureRecorder
}

// NewGenerator creates a Generator.
func NewGenerator(plans PlanReader, recipes RecipeReader, cat catalog.Catalog, lists *Repository, sync SignatureRecorder) *Generator {
	return &Generator{
		plans:   plans,
		recipes: recipes,
		catalog: cat,
		lists:   lists,
		sync:    sync,
	}
}

// Aggregate reads the plan and recipes for rng and sums their ingredients.
func (g *Generator) Aggregate(ctx context.Context, rng calendar.Range) ([]aggregate.Aggregated, []planner.Entry, error) {
	entries, err := g.plans.EntriesInRange(ctx, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read meal plan: %w", err)
	}

	ids := make([]string, 0, len(entries))
	seen := make(map[string]bool)
	for _, e := range entries {
		if !seen[e.RecipeID] {
			seen[e.RecipeID] = true
			ids = append(ids, e.RecipeID)
		}
	}

	recipes := map[string]recipe.Recipe{}
	if len(ids) > 0 {
		recipes, err = g.recipes.GetByIDs(ctx, ids)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read recipes: %w", err)
		}
	}

	snapshot, err := catalog.Snapshot(ctx, g.catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ingredient catalog: %w", err)
	}

	occurrences := make([]aggregate.Occurrence, 0, len(entries))
	for _, e := range entries {
		rec, ok := recipes[e.RecipeID]
		if !ok {
			log.Printf("Warning: recipe %s scheduled on %s not found, skipping", e.RecipeID, calendar.Format(e.Date))
			continue
		}
		occurrences = append(occurrences, aggregate.Occurrence{Date: e.Date, Recipe: rec})
	}

	return aggregate.New(snapshot).Aggregate(occurrences), entries, nil
}

// Compute runs aggregation, classification and partitioning without persisting.
func (g *Generator) Compute(ctx context.Context, req GenerateRequest) (Computation, error) {
	if err := req.Validate(); err != nil {
		return Computation{}, err
	}
	rng := calendar.NewRange(req.Range.Start, req.Range.End)

	items, entries, err := g.Aggregate(ctx, rng)
	if err != nil {
		return Computation{}, err
	}

	drafts, err := Partition(items, PartitionRequest{
		Name:       req.Name,
		Plan:       rng,
		Strategy:   req.Strategy,
		Categories: req.Categories,
		Split:      req.Split,
	})
	if err != nil {
		return Computation{}, fmt.Errorf("failed to partition items: %w", err)
	}
	return Computation{Drafts: drafts, Entries: entries, Items: items}, nil
}

// Generate computes and persists new lists in one transaction, then records
// the plan signature each list was built from.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) ([]List, error) {
	comp, err := g.Compute(ctx, req)
	if err != nil {
		return nil, err
	}

	lists, err := g.lists.CreateWithItems(ctx, comp.Drafts)
	if err != nil {
		return nil, fmt.Errorf("failed to save shopping lists: %w", err)
	}

	for _, l := range lists {
		if err := g.sync.Record(ctx, l.ID, comp.Entries); err != nil {
			log.Printf("Warning: failed to record plan signature for list %s: %v", l.ID, err)
		}
	}
	return lists, nil
}

// RequestFor rebuilds the request a list was generated with.
func RequestFor(l List) GenerateRequest {
	return GenerateRequest{
		Name:       baseName(l),
		Range:      l.PlanRange(),
		Strategy:   l.Strategy,
		Categories: l.Categories,
		Split:      SplitOptions{WindowDays: l.WindowDays},
	}
}

// ComputeForList recomputes the items that belong on an existing list today.
func (g *Generator) ComputeForList(ctx context.Context, l List) ([]Item, []planner.Entry, error) {
	comp, err := g.Compute(ctx, RequestFor(l))
	if err != nil {
		return nil, nil, err
	}

	var items []Item
	for _, d := range comp.Drafts {
		if l.Part == PartNone || l.Part == "" || d.List.Part == l.Part {
			items = append(items, d.Items...)
		}
	}
	return items, comp.Entries, nil
}

// Recommend suggests a strategy for rng based on how many items would be
// bought too early.
func (g *Generator) Recommend(ctx context.Context, rng calendar.Range, threshold int) (Strategy, int, error) {
	items, _, err := g.Aggregate(ctx, rng)
	if err != nil {
		return "", 0, err
	}
	s, warnings := Recommend(items, rng.Start, threshold)
	return s, warnings, nil
}
