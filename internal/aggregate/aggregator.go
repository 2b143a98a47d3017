// Package aggregate turns scheduled recipes into per-ingredient totals and
// classifies them by freshness.
package aggregate

import (
	"sort"
	"time"

	"meal-shopping-planner/internal/calendar"
	"meal-shopping-planner/internal/catalog"
	"meal-shopping-planner/internal/recipe"
	"meal-shopping-planner/internal/units"
)

// Occurrence is one recipe scheduled on one day.
type Occurrence struct {
	Date   time.Time
	Recipe recipe.Recipe
}

// Use is the amount of an aggregated item needed on one day, in the
// item's representative unit.
type Use struct {
	Date  time.Time
	Value float64
}

// Aggregated is one row per (canonical name, unit class).
type Aggregated struct {
	Name         string
	Category     string
	Quantity     Quantity
	UnitClass    units.Class
	Recipes      []string
	Dates        []time.Time
	Uses         []Use
	Known        bool
	ShelfLife    catalog.ShelfLife
	HasShelfLife bool
}

// Unit returns the representative unit, or "" for to-taste rows.
func (a Aggregated) Unit() units.Unit {
	if m, ok := a.Quantity.(Measured); ok {
		return m.Unit
	}
	return ""
}

// FirstUse returns the earliest use date.
func (a Aggregated) FirstUse() time.Time {
	if len(a.Dates) == 0 {
		return time.Time{}
	}
	return a.Dates[0]
}

type groupKey struct {
	name  string
	class units.Class
}

type group struct {
	res     Resolved
	class   units.Class
	total   *Measured
	recipes map[string]bool
	dates   map[time.Time]bool
	uses    map[time.Time]float64
}

// Aggregator sums resolved ingredient lines across occurrences.
type Aggregator struct {
	cat *catalog.Memory
}

// New creates an Aggregator over a catalog snapshot.
func New(cat *catalog.Memory) *Aggregator {
	return &Aggregator{cat: cat}
}

// Aggregate produces one row per canonical name and unit class. The output is
// sorted by category, name and unit class, and does not depend on input order.
func (a *Aggregator) Aggregate(occurrences []Occurrence) []Aggregated {
	occs := make([]Occurrence, len(occurrences))
	copy(occs, occurrences)
	sort.SliceStable(occs, func(i, j int) bool {
		di, dj := calendar.Day(occs[i].Date), calendar.Day(occs[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return occs[i].Recipe.ID < occs[j].Recipe.ID
	})

	resolver := NewResolver(a.cat)
	groups := make(map[groupKey]*group)
	var order []groupKey

	for _, occ := range occs {
		day := calendar.Day(occ.Date)
		for _, line := range occ.Recipe.Ingredients {
			res := resolver.Resolve(line)
			if res.Name == "" {
				continue
			}

			class := units.None
			m, measured := res.Quantity.(Measured)
			if measured {
				class = units.ClassOf(m.Unit)
			}

			key := groupKey{name: res.Name, class: class}
			g, ok := groups[key]
			if !ok {
				g = &group{
					res:     res,
					class:   class,
					recipes: make(map[string]bool),
					dates:   make(map[time.Time]bool),
					uses:    make(map[time.Time]float64),
				}
				groups[key] = g
				order = append(order, key)
			}
			g.recipes[occ.Recipe.ID] = true
			g.dates[day] = true

			if !measured {
				continue
			}
			if g.total == nil {
				g.total = &Measured{Value: 0, Unit: representativeUnit(res, class, m.Unit)}
			}
			conv, err := m.In(g.total.Unit)
			if err != nil {
				// Same class always converts; unknown classes only hold one unit.
				continue
			}
			g.total.Value += conv.Value
			g.uses[day] += conv.Value
		}
	}

	out := make([]Aggregated, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key].build())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].UnitClass < out[j].UnitClass
	})
	return out
}

// representativeUnit picks the catalog default unit when it belongs to the
// partition's class, else the class base unit.
func representativeUnit(res Resolved, class units.Class, lineUnit units.Unit) units.Unit {
	if res.Known && res.Ingredient.DefaultUnit != "" && units.ClassOf(res.Ingredient.DefaultUnit) == class {
		return res.Ingredient.DefaultUnit
	}
	if base := units.Base(class); base != "" {
		return base
	}
	return lineUnit
}

func (g *group) build() Aggregated {
	agg := Aggregated{
		Name:      g.res.Name,
		Category:  g.res.Category,
		UnitClass: g.class,
		Known:     g.res.Known,
	}
	if g.res.Known {
		agg.ShelfLife, agg.HasShelfLife = g.res.Ingredient.ShelfLife()
	} else {
		agg.ShelfLife, agg.HasShelfLife = catalog.CategoryShelfLife(g.res.Category)
	}

	if g.total != nil {
		agg.Quantity = *g.total
	} else {
		agg.Quantity = ToTaste{}
	}

	for id := range g.recipes {
		agg.Recipes = append(agg.Recipes, id)
	}
	sort.Strings(agg.Recipes)

	for d := range g.dates {
		agg.Dates = append(agg.Dates, d)
	}
	sort.Slice(agg.Dates, func(i, j int) bool { return agg.Dates[i].Before(agg.Dates[j]) })

	for _, d := range agg.Dates {
		if v, ok := g.uses[d]; ok {
			agg.Uses = append(agg.Uses, Use{Date: d, Value: v})
		}
	}
	return agg
}
