package shopping

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"meal-shopping-planner/internal/aggregate"
	"meal-shopping-planner/internal/calendar"
	"meal-shopping-planner/internal/units"
)

var (
	// ErrListNotFound is returned when a shopping list does not exist.
	ErrListNotFound = errors.New("shopping list not found")
	// ErrItemNotFound is returned when a shopping list item does not exist.
	ErrItemNotFound = errors.New("shopping list item not found")
	// ErrUnknownStrategy is returned for a strategy name outside the supported set.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Status is the lifecycle state of a list.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusCompleted, StatusArchived:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown list status %q", s)
}

// SplitMode tells whether a list was generated alone or as half of a split.
type SplitMode string

const (
	SplitSingle SplitMode = "single"
	SplitSplit  SplitMode = "split"
)

// Strategy controls which items end up on which list.
type Strategy string

const (
	IncludeAll         Strategy = "include_all"
	ExcludePerishables Strategy = "exclude_perishables"
	SplitLists         Strategy = "split_lists"
	Custom             Strategy = "custom"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case IncludeAll, ExcludePerishables, SplitLists, Custom:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Part identifies which half of a split a list is.
type Part string

const (
	PartNone  Part = "none"
	PartNear  Part = "near"
	PartLater Part = "later"
)

// Warning describes one item bought well ahead of its first use.
type Warning struct {
	Ingredient   string           `json:"ingredient"`
	Status       aggregate.Status `json:"status"`
	DaysUntilUse int              `json:"days_until_use"`
}

// List is a persisted shopping list. Start is the shopping date the list is
// classified against; PlanStart..End is the meal-plan range it was built from.
type List struct {
	ID         string
	Name       string
	Start      time.Time
	End        time.Time
	PlanStart  time.Time
	Status     Status
	SplitMode  SplitMode
	Strategy   Strategy
	Categories []string
	Part       Part
	WindowDays int
	Warnings   []Warning
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PlanRange is the meal-plan range the list draws its items from.
func (l List) PlanRange() calendar.Range {
	return calendar.NewRange(l.PlanStart, l.End)
}

// Range is the list's own date range.
func (l List) Range() calendar.Range {
	return calendar.NewRange(l.Start, l.End)
}

// SplitInfo suggests buying part of an item now and the rest closer to use.
type SplitInfo struct {
	BuyNowQty    float64   `json:"buy_now_qty"`
	BuyLaterQty  float64   `json:"buy_later_qty"`
	BuyLaterDate time.Time `json:"buy_later_date"`
}

// Item is one line on a shopping list. A nil Quantity means "to taste".
type Item struct {
	ID               string
	ListID           string
	Name             string
	Quantity         *float64
	Unit             units.Unit
	Category         string
	Checked          bool
	Recipes          []string
	Dates            []time.Time
	FreshnessStatus  aggregate.Status
	FreshnessWarning bool
	Split            *SplitInfo
	Position         int
}

// ItemKey identifies an item across regenerations of the same list.
type ItemKey struct {
	Name string
	Unit units.Unit
}

// KeyOf builds the merge key for a name and unit.
func KeyOf(name string, unit units.Unit) ItemKey {
	return ItemKey{
		Name: strings.ToLower(strings.TrimSpace(name)),
		Unit: unit,
	}
}

// Key returns the item's merge key.
func (i Item) Key() ItemKey {
	return KeyOf(i.Name, i.Unit)
}

// QuantityString renders the item amount for display.
func (i Item) QuantityString() string {
	if i.Quantity == nil {
		return aggregate.ToTaste{}.String()
	}
	return aggregate.Measured{Value: *i.Quantity, Unit: i.Unit}.String()
}
