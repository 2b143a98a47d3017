package calendar

import (
	"testing"
	"time"
)

func TestRange(t *testing.T) {
	r, err := ParseRange("2024-03-01", "2024-03-07")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	t.Run("Len", func(t *testing.T) {
		if r.Len() != 7 {
			t.Errorf("Expected 7 days, got %d", r.Len())
		}
	})

	t.Run("Contains both ends", func(t *testing.T) {
		if !r.Contains(time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)) {
			t.Error("Expected start day to be contained")
		}
		if !r.Contains(time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)) {
			t.Error("Expected end day to be contained")
		}
		if r.Contains(time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)) {
			t.Error("Expected day after end to be excluded")
		}
	})

	t.Run("Days", func(t *testing.T) {
		days := r.Days()
		if len(days) != 7 {
			t.Fatalf("Expected 7 days, got %d", len(days))
		}
		if Format(days[6]) != "2024-03-07" {
			t.Errorf("Expected last day 2024-03-07, got %s", Format(days[6]))
		}
	})

	t.Run("Reversed", func(t *testing.T) {
		if _, err := ParseRange("2024-03-07", "2024-03-01"); err == nil {
			t.Error("Expected an error for a reversed range, got nil")
		}
	})

	t.Run("Overlaps", func(t *testing.T) {
		other, _ := ParseRange("2024-03-07", "2024-03-10")
		if !r.Overlaps(other) {
			t.Error("Expected ranges sharing one day to overlap")
		}
		later, _ := ParseRange("2024-03-08", "2024-03-10")
		if r.Overlaps(later) {
			t.Error("Expected disjoint ranges not to overlap")
		}
	})
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 6, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}
	if got := DaysBetween(b, a); got != -5 {
		t.Errorf("Expected -5, got %d", got)
	}
}
