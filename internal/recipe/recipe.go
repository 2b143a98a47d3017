package recipe

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Line is a single structured ingredient line of a recipe.
// A nil Quantity means the line is "to taste" and carries no amount.
type Line struct {
	Name     string   `json:"name" validate:"required"`
	Quantity *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Unit     string   `json:"unit,omitempty"`
	Group    string   `json:"group,omitempty"`
}

// Recipe is the read-only view of a recipe used while building shopping lists.
type Recipe struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Servings    int    `json:"servings" validate:"gte=0"`
	Ingredients []Line `json:"ingredients" validate:"dive"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// Amount returns a pointer to q, handy when building lines in code.
func Amount(q float64) *float64 {
	return &q
}

// Groups returns the distinct group labels in ingredient order.
func (r Recipe) Groups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, l := range r.Ingredients {
		g := strings.TrimSpace(l.Group)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		groups = append(groups, g)
	}
	return groups
}

// LoadJSON reads one recipe, or an array of recipes, from a JSON file.
func LoadJSON(path string) ([]Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var recipes []Recipe
		if err := json.Unmarshal(data, &recipes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipes: %w", err)
		}
		return recipes, nil
	}

	var rec Recipe
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	return []Recipe{rec}, nil
}
