package calendar

import (
	"fmt"
	"time"
)

// Layout is the date format used for every persisted calendar day.
const Layout = "2006-01-02"

// Day truncates t to midnight UTC of the same calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse reads a YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Format renders a day as YYYY-MM-DD.
func Format(t time.Time) string {
	return Day(t).Format(Layout)
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// AddDays shifts a day by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// Range is an inclusive range of calendar days.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewRange builds a range from two days, normalizing both ends.
func NewRange(start, end time.Time) Range {
	return Range{Start: Day(start), End: Day(end)}
}

// ParseRange parses two YYYY-MM-DD dates into a validated range.
func ParseRange(from, to string) (Range, error) {
	start, err := Parse(from)
	if err != nil {
		return Range{}, err
	}
	end, err := Parse(to)
	if err != nil {
		return Range{}, err
	}
	r := NewRange(start, end)
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate reports whether the range is usable.
func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("date range requires both start and end")
	}
	if Day(r.End).Before(Day(r.Start)) {
		return fmt.Errorf("date range end %s is before start %s", Format(r.End), Format(r.Start))
	}
	return nil
}

// Contains reports whether day t falls inside the range, both ends included.
func (r Range) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Len returns the number of days in the range.
func (r Range) Len() int {
	if Day(r.End).Before(Day(r.Start)) {
		return 0
	}
	return DaysBetween(r.Start, r.End) + 1
}

// Days lists every day of the range in chronological order.
func (r Range) Days() []time.Time {
	n := r.Len()
	days := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, AddDays(r.Start, i))
	}
	return days
}

// Overlaps reports whether two ranges share at least one day.
func (r Range) Overlaps(o Range) bool {
	return !Day(r.End).Before(Day(o.Start)) && !Day(o.End).Before(Day(r.Start))
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", Format(r.Start), Format(r.End))
}
