package units

import (
	"errors"
	"fmt"
	"strings"
)

// Unit is a canonical unit symbol such as "g", "dl" or "pcs".
// The empty unit means the line carried no unit at all.
type Unit string

// Class is a measurement class. Quantities only convert within one class.
type Class string

const (
	Mass   Class = "mass"
	Volume Class = "volume"
	Count  Class = "count"
	None   Class = "none"
)

// ErrIncompatible is returned when two units do not share a measurement class.
var ErrIncompatible = errors.New("incompatible units")

type conversion struct {
	class  Class
	factor float64 // multiply by factor to get the class base unit
}

var table = map[Unit]conversion{
	"mg": {Mass, 0.001},
	"g":  {Mass, 1},
	"kg": {Mass, 1000},
	"oz": {Mass, 28.349523125},
	"lb": {Mass, 453.59237},

	"ml":    {Volume, 1},
	"krm":   {Volume, 1},
	"tsp":   {Volume, 5},
	"tbsp":  {Volume, 15},
	"cl":    {Volume, 10},
	"dl":    {Volume, 100},
	"l":     {Volume, 1000},
	"cup":   {Volume, 240},
	"fl oz": {Volume, 29.5735295625},

	"pcs": {Count, 1},
}

var bases = map[Class]Unit{
	Mass:   "g",
	Volume: "ml",
	Count:  "pcs",
}

var aliases = map[string]Unit{
	"milligram": "mg", "milligrams": "mg",
	"gram": "g", "grams": "g", "gr": "g", "grm": "g",
	"kilo": "kg", "kilos": "kg", "kilogram": "kg", "kilograms": "kg",
	"ounce": "oz", "ounces": "oz",
	"pound": "lb", "pounds": "lb", "lbs": "lb",

	"milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml",
	"centiliter": "cl", "centiliters": "cl", "centilitre": "cl",
	"deciliter": "dl", "deciliters": "dl", "decilitre": "dl",
	"liter": "l", "liters": "l", "litre": "l", "litres": "l", "ltr": "l",
	"teaspoon": "tsp", "teaspoons": "tsp", "tsk": "tsp",
	"tablespoon": "tbsp", "tablespoons": "tbsp", "msk": "tbsp", "tbs": "tbsp", "tbl": "tbsp",
	"kryddmått": "krm", "pinch": "krm",
	"cups": "cup",
	"fluid ounce": "fl oz", "fluid ounces": "fl oz", "floz": "fl oz", "fl.oz": "fl oz",

	"st": "pcs", "stk": "pcs", "pc": "pcs", "piece": "pcs", "pieces": "pcs",
	"whole": "pcs", "x": "pcs",
}

// Normalize maps a raw unit string to its canonical symbol. Units outside the
// conversion table come back lowercased and trimmed so that identical unknown
// units still aggregate with each other.
func Normalize(raw string) Unit {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, ".")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	if _, ok := table[Unit(s)]; ok {
		return Unit(s)
	}
	if u, ok := aliases[s]; ok {
		return u
	}
	return Unit(s)
}

// ClassOf returns the measurement class of u. Units missing from the table
// get a class of their own, so they only ever match themselves.
func ClassOf(u Unit) Class {
	if u == "" {
		return None
	}
	if c, ok := table[u]; ok {
		return c.class
	}
	return Class("unknown:" + string(u))
}

// Known reports whether u is part of the conversion table.
func Known(u Unit) bool {
	_, ok := table[u]
	return ok
}

// Base returns the representative base unit of a class, or "" for classes
// without one.
func Base(c Class) Unit {
	return bases[c]
}

// Convert converts q from one unit to another within the same class.
func Convert(q float64, from, to Unit) (float64, error) {
	if from == to {
		return q, nil
	}
	f, okFrom := table[from]
	t, okTo := table[to]
	if !okFrom || !okTo || f.class != t.class {
		return 0, fmt.Errorf("convert %s to %s: %w", from, to, ErrIncompatible)
	}
	return q * f.factor / t.factor, nil
}

// Compatible reports whether quantities in a and b can be summed.
func Compatible(a, b Unit) bool {
	return ClassOf(a) == ClassOf(b)
}
