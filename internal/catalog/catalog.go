package catalog

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"meal-shopping-planner/internal/units"
)

// Categories known to the category defaults table.
const (
	Fish    = "fish"
	Meat    = "meat"
	Poultry = "poultry"
	Dairy   = "dairy"
	Produce = "produce"
	Herbs   = "herbs"
	Bakery  = "bakery"
	Deli    = "deli"
	Frozen  = "frozen"
	Pantry  = "pantry"
	Spices  = "spices"
	Other   = "other"
)

// Ingredient is a canonical ingredient entry. ShelfLifeDays of zero means the
// entry defers to its category's default.
type Ingredient struct {
	Name          string     `yaml:"name" validate:"required"`
	Category      string     `yaml:"category"`
	DefaultUnit   units.Unit `yaml:"default_unit"`
	ShelfLifeDays int        `yaml:"shelf_life_days" validate:"gte=0"`
	Freezable     bool       `yaml:"freezable"`
	Aliases       []string   `yaml:"aliases"`
}

// ShelfLife describes how long a category keeps and whether it freezes well.
type ShelfLife struct {
	Days      int
	Freezable bool
}

// CategoryDefaults is used when an ingredient entry has no shelf life of its own.
// Categories absent from the table (including "other") have no shelf-life signal.
var CategoryDefaults = map[string]ShelfLife{
	Fish:    {Days: 2, Freezable: true},
	Meat:    {Days: 3, Freezable: true},
	Poultry: {Days: 2, Freezable: true},
	Dairy:   {Days: 7, Freezable: false},
	Produce: {Days: 5, Freezable: false},
	Herbs:   {Days: 4, Freezable: false},
	Bakery:  {Days: 3, Freezable: true},
	Deli:    {Days: 5, Freezable: false},
	Frozen:  {Days: 90, Freezable: true},
	Pantry:  {Days: 365, Freezable: false},
	Spices:  {Days: 730, Freezable: false},
}

// ShelfLife resolves the entry's shelf life, falling back to the category table.
func (i Ingredient) ShelfLife() (ShelfLife, bool) {
	if i.ShelfLifeDays > 0 {
		return ShelfLife{Days: i.ShelfLifeDays, Freezable: i.Freezable}, true
	}
	return CategoryShelfLife(i.Category)
}

// CategoryShelfLife looks up the default shelf life of a category.
func CategoryShelfLife(category string) (ShelfLife, bool) {
	sl, ok := CategoryDefaults[strings.ToLower(strings.TrimSpace(category))]
	return sl, ok
}

// Catalog is the read-only ingredient lookup. A miss is reported as
// (zero, false, nil); errors are reserved for collaborator failures.
type Catalog interface {
	Lookup(ctx context.Context, name string) (Ingredient, bool, error)
	All(ctx context.Context) ([]Ingredient, error)
}

var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Key folds a name into the form used for matching: lowercase, trimmed,
// single-spaced and without diacritics.
func Key(name string) string {
	s := strings.ToLower(strings.Join(strings.Fields(name), " "))
	folded, _, err := transform.String(folder, s)
	if err != nil {
		return s
	}
	return folded
}

// normalize cleans an entry before it is indexed or stored.
func normalize(ing Ingredient) Ingredient {
	ing.Name = strings.ToLower(strings.Join(strings.Fields(ing.Name), " "))
	ing.Category = strings.ToLower(strings.TrimSpace(ing.Category))
	if ing.Category == "" {
		ing.Category = Other
	}
	ing.DefaultUnit = units.Normalize(string(ing.DefaultUnit))

	var aliases []string
	seen := map[string]bool{}
	for _, a := range ing.Aliases {
		a = strings.ToLower(strings.Join(strings.Fields(a), " "))
		if a == "" || a == ing.Name || seen[a] {
			continue
		}
		seen[a] = true
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	ing.Aliases = aliases
	return ing
}

// Memory is an in-memory catalog index. It serves as the snapshot an
// aggregation pass resolves against.
type Memory struct {
	entries []Ingredient
	byKey   map[string]int
	byAlias map[string]int
}

// NewMemory builds an index from entries. Later duplicates replace earlier ones.
func NewMemory(entries []Ingredient) *Memory {
	m := &Memory{
		byKey:   make(map[string]int),
		byAlias: make(map[string]int),
	}
	for _, e := range entries {
		e = normalize(e)
		if e.Name == "" {
			continue
		}
		if idx, ok := m.byKey[Key(e.Name)]; ok {
			m.entries[idx] = e
			continue
		}
		m.byKey[Key(e.Name)] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	sort.Slice(m.entries, func(i, j int) bool { return m.entries[i].Name < m.entries[j].Name })
	for i, e := range m.entries {
		m.byKey[Key(e.Name)] = i
	}
	for i, e := range m.entries {
		for _, a := range e.Aliases {
			k := Key(a)
			if _, taken := m.byKey[k]; taken {
				continue
			}
			if _, taken := m.byAlias[k]; !taken {
				m.byAlias[k] = i
			}
		}
	}
	return m
}

// Lookup matches a name against canonical names, then aliases.
func (m *Memory) Lookup(_ context.Context, name string) (Ingredient, bool, error) {
	ing, ok := m.Find(name)
	return ing, ok, nil
}

// Find is Lookup without the context and error plumbing.
func (m *Memory) Find(name string) (Ingredient, bool) {
	k := Key(name)
	if idx, ok := m.byKey[k]; ok {
		return m.entries[idx], true
	}
	if idx, ok := m.byAlias[k]; ok {
		return m.entries[idx], true
	}
	return Ingredient{}, false
}

// All returns every entry sorted by name.
func (m *Memory) All(_ context.Context) ([]Ingredient, error) {
	return m.Entries(), nil
}

// Entries returns a copy of the indexed entries sorted by name.
func (m *Memory) Entries() []Ingredient {
	out := make([]Ingredient, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	return len(m.entries)
}

// Snapshot loads every entry of c into a Memory index.
func Snapshot(ctx context.Context, c Catalog) (*Memory, error) {
	if m, ok := c.(*Memory); ok {
		return m, nil
	}
	entries, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	return NewMemory(entries), nil
}
