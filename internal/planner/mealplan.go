package planner

import (
	"errors"
	"time"
)

// Entry is one recipe scheduled on one calendar day.
type Entry struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	RecipeID  string    `json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Mode selects how the populator treats days that already hold a meal.
type Mode string

const (
	// ModeFill only assigns recipes to empty days.
	ModeFill Mode = "fill"
	// ModeReplace clears the range before assigning recipes from its first day.
	ModeReplace Mode = "replace"
)

// ErrInvalidMode is returned for a populate mode other than fill or replace.
var ErrInvalidMode = errors.New("invalid populate mode")

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFill, ModeReplace:
		return Mode(s), nil
	default:
		return "", ErrInvalidMode
	}
}
