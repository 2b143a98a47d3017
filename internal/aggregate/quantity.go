package aggregate

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"meal-shopping-planner/internal/units"
)

// Quantity is either a Measured amount or ToTaste. Only Measured values add up.
type Quantity interface {
	fmt.Stringer
	isQuantity()
}

// Measured is an amount in a concrete unit.
type Measured struct {
	Value float64
	Unit  units.Unit
}

// ToTaste marks a line without an amount. It is never summed.
type ToTaste struct{}

func (Measured) isQuantity() {}
func (ToTaste) isQuantity()  {}

// In converts m into unit u.
func (m Measured) In(u units.Unit) (Measured, error) {
	v, err := units.Convert(m.Value, m.Unit, u)
	if err != nil {
		return Measured{}, err
	}
	return Measured{Value: v, Unit: u}, nil
}

// Add sums o into m, keeping m's unit. Incompatible units are an error.
func (m Measured) Add(o Measured) (Measured, error) {
	conv, err := o.In(m.Unit)
	if err != nil {
		return Measured{}, err
	}
	return Measured{Value: m.Value + conv.Value, Unit: m.Unit}, nil
}

func (m Measured) String() string {
	v := FormatValue(m.Value)
	if m.Unit == "" {
		return v
	}
	return v + " " + string(m.Unit)
}

func (ToTaste) String() string {
	return "to taste"
}

// FormatValue renders a quantity with at most two decimals and no trailing zeros.
func FormatValue(v float64) string {
	return humanize.FtoaWithDigits(v, 2)
}

// Value returns the numeric amount of q, or nil for ToTaste.
func Value(q Quantity) *float64 {
	if m, ok := q.(Measured); ok {
		v := m.Value
		return &v
	}
	return nil
}
