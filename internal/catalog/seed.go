package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// seedFile is the layout of a catalog seed file:
//
//	ingredients:
//	  - name: milk
//	    category: dairy
//	    default_unit: dl
//	    aliases: [whole milk, mjölk]
type seedFile struct {
	Ingredients []Ingredient `yaml:"ingredients" validate:"dive"`
}

var validate = validator.New()

// LoadYAML reads a catalog seed file from disk.
func LoadYAML(path string) ([]Ingredient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return ParseYAML(f)
}

// ParseYAML decodes and validates a catalog seed document.
func ParseYAML(r io.Reader) ([]Ingredient, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if err := validate.Struct(seed); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	out := make([]Ingredient, 0, len(seed.Ingredients))
	for _, ing := range seed.Ingredients {
		out = append(out, normalize(ing))
	}
	return out, nil
}
