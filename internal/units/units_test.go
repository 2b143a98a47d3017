package units

import (
	"errors"
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := map[string]Unit{
		"Grams":       "g",
		" dl. ":       "dl",
		"Tablespoons": "tbsp",
		"msk":         "tbsp",
		"st":          "pcs",
		"fl  oz":      "fl oz",
		"":            "",
		"Can":         "can",
	}
	for raw, want := range cases {
		if got := Normalize(raw); got != want {
			t.Errorf("Normalize(%q): expected %q, got %q", raw, want, got)
		}
	}
}

func TestConvert(t *testing.T) {
	t.Run("Volume", func(t *testing.T) {
		got, err := Convert(2, "dl", "ml")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got != 200 {
			t.Errorf("Expected 200 ml, got %v", got)
		}
	})

	t.Run("Mass", func(t *testing.T) {
		got, err := Convert(1500, "g", "kg")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if math.Abs(got-1.5) > 1e-9 {
			t.Errorf("Expected 1.5 kg, got %v", got)
		}
	})

	t.Run("Incompatible classes", func(t *testing.T) {
		_, err := Convert(1, "g", "ml")
		if !errors.Is(err, ErrIncompatible) {
			t.Errorf("Expected ErrIncompatible, got %v", err)
		}
	})

	t.Run("Unknown units only match themselves", func(t *testing.T) {
		if _, err := Convert(1, "can", "pcs"); !errors.Is(err, ErrIncompatible) {
			t.Errorf("Expected ErrIncompatible, got %v", err)
		}
		got, err := Convert(3, "can", "can")
		if err != nil || got != 3 {
			t.Errorf("Expected 3 can, got %v (%v)", got, err)
		}
	})
}

func TestClassOf(t *testing.T) {
	if ClassOf("kg") != Mass {
		t.Errorf("Expected kg to be mass")
	}
	if ClassOf("") != None {
		t.Errorf("Expected empty unit to be none")
	}
	if ClassOf("bunch") == ClassOf("can") {
		t.Errorf("Expected distinct unknown units to have distinct classes")
	}
}
