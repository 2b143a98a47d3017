package aggregate

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"meal-shopping-planner/internal/catalog"
	"meal-shopping-planner/internal/recipe"
	"meal-shopping-planner/internal/units"
)

// qualifiers are stripped from the start of a name, in folded form.
var qualifiers = []string{
	"approximately ",
	"approx. ",
	"approx ",
	"about ",
	"circa ",
	"cirka ",
	"ungefar ",
	"ca. ",
	"ca ",
	"a few ",
}

// Resolved is one recipe line mapped onto a canonical identity.
type Resolved struct {
	Name       string
	Category   string
	Quantity   Quantity
	Known      bool
	Ingredient catalog.Ingredient
}

type match struct {
	ing catalog.Ingredient
	ok  bool
}

// Resolver maps raw ingredient names onto catalog entries. A resolver is
// meant for one aggregation pass and is not safe for concurrent use.
type Resolver struct {
	cat   *catalog.Memory
	terms []term
	memo  map[string]match
}

type term struct {
	key string
	ing catalog.Ingredient
}

// NewResolver builds a resolver over a catalog snapshot.
func NewResolver(cat *catalog.Memory) *Resolver {
	if cat == nil {
		cat = catalog.NewMemory(nil)
	}
	var terms []term
	for _, ing := range cat.Entries() {
		terms = append(terms, term{key: catalog.Key(ing.Name), ing: ing})
		for _, a := range ing.Aliases {
			terms = append(terms, term{key: catalog.Key(a), ing: ing})
		}
	}
	// Longest first so "red onion" wins over "onion".
	sort.SliceStable(terms, func(i, j int) bool {
		if len(terms[i].key) != len(terms[j].key) {
			return len(terms[i].key) > len(terms[j].key)
		}
		return terms[i].key < terms[j].key
	})
	return &Resolver{cat: cat, terms: terms, memo: make(map[string]match)}
}

// NormalizeName lowercases, trims, folds diacritics and strips leading
// qualifiers like "about" or "ca.".
func NormalizeName(raw string) string {
	s := catalog.Key(raw)
	for {
		stripped := false
		for _, q := range qualifiers {
			if strings.HasPrefix(s, q) {
				s = strings.TrimSpace(strings.TrimPrefix(s, q))
				stripped = true
			}
		}
		if !stripped {
			return s
		}
	}
}

// Resolve maps a recipe line to its canonical name, category and quantity.
// A catalog miss is not an error: the normalized name stands for itself.
func (r *Resolver) Resolve(line recipe.Line) Resolved {
	name := NormalizeName(line.Name)
	m := r.lookup(name)

	res := Resolved{Name: name, Category: catalog.Other, Known: m.ok}
	if m.ok {
		res.Name = m.ing.Name
		res.Category = m.ing.Category
		res.Ingredient = m.ing
	}

	if line.Quantity == nil {
		res.Quantity = ToTaste{}
		return res
	}

	unit := units.Normalize(line.Unit)
	if unit == "" {
		unit = units.Unit("pcs")
		if m.ok && m.ing.DefaultUnit != "" {
			unit = m.ing.DefaultUnit
		}
	}
	res.Quantity = Measured{Value: *line.Quantity, Unit: unit}
	return res
}

func (r *Resolver) lookup(name string) match {
	if m, ok := r.memo[name]; ok {
		return m
	}
	m := r.find(name)
	r.memo[name] = m
	return m
}

func (r *Resolver) find(name string) match {
	if name == "" {
		return match{}
	}
	if ing, ok := r.cat.Find(name); ok {
		return match{ing: ing, ok: true}
	}
	for _, t := range r.terms {
		if containsWord(name, t.key) {
			return match{ing: t.ing, ok: true}
		}
	}

	limit := fuzzyLimit(name)
	if limit == 0 {
		return match{}
	}
	best, bestDist := match{}, limit+1
	for _, t := range r.terms {
		d := levenshtein.ComputeDistance(name, t.key)
		if d < bestDist {
			best, bestDist = match{ing: t.ing, ok: true}, d
		}
	}
	return best
}

// fuzzyLimit is the largest edit distance accepted for a name.
func fuzzyLimit(name string) int {
	n := utf8.RuneCountInString(name)
	switch {
	case n >= 9:
		return 2
	case n >= 5:
		return 1
	default:
		return 0
	}
}

// containsWord reports whether term occurs in s on word boundaries.
func containsWord(s, term string) bool {
	if term == "" {
		return false
	}
	for i := 0; i+len(term) <= len(s); {
		idx := strings.Index(s[i:], term)
		if idx < 0 {
			return false
		}
		start := i + idx
		end := start + len(term)
		if (start == 0 || s[start-1] == ' ') && (end == len(s) || s[end] == ' ') {
			return true
		}
		i = start + 1
	}
	return false
}
