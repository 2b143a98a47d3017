package shopping

import (
	"fmt"
	"strings"
	"time"

	"meal-shopping-planner/internal/aggregate"
	"meal-shopping-planner/internal/calendar"
)

// DefaultRecommendThreshold is the number of warnings above which splitting
// is recommended.
const DefaultRecommendThreshold = 2

// SplitOptions sets the near-term cutoff for split_lists. Zero means each
// item's own shelf life decides; a positive value is a fixed window in days.
type SplitOptions struct {
	WindowDays int `validate:"gte=0"`
}

// PartitionRequest describes the lists to build from one plan range.
type PartitionRequest struct {
	Name       string
	Plan       calendar.Range
	Strategy   Strategy
	Categories []string
	Split      SplitOptions
}

// Draft is a list and its items before persistence.
type Draft struct {
	List  List
	Items []Item
}

type classified struct {
	agg       aggregate.Aggregated
	freshness aggregate.Freshness
}

// Partition classifies items against the plan start and applies the strategy.
// split_lists always yields a near and a later draft, either of which may be empty.
func Partition(items []aggregate.Aggregated, req PartitionRequest) ([]Draft, error) {
	plan := calendar.NewRange(req.Plan.Start, req.Plan.End)
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	all := classify(items, plan.Start)

	base := List{
		Name:      req.Name,
		Start:     plan.Start,
		End:       plan.End,
		PlanStart: plan.Start,
		Status:    StatusActive,
		SplitMode: SplitSingle,
		Strategy:  req.Strategy,
		Part:      PartNone,
	}

	switch req.Strategy {
	case IncludeAll:
		return []Draft{buildDraft(base, all)}, nil

	case ExcludePerishables:
		var keep []classified
		for _, c := range all {
			if !c.freshness.Warning {
				keep = append(keep, c)
			}
		}
		return []Draft{buildDraft(base, keep)}, nil

	case Custom:
		allowed := make(map[string]bool)
		for _, cat := range req.Categories {
			if cat = strings.ToLower(strings.TrimSpace(cat)); cat != "" {
				allowed[cat] = true
				base.Categories = append(base.Categories, cat)
			}
		}
		if len(allowed) == 0 {
			return nil, fmt.Errorf("custom strategy requires at least one category")
		}
		var keep []classified
		for _, c := range all {
			if allowed[c.agg.Category] {
				keep = append(keep, c)
			}
		}
		return []Draft{buildDraft(base, keep)}, nil

	case SplitLists:
		return splitDrafts(base, all, req.Split), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, req.Strategy)
}

// Name suffixes of the two halves of a split.
const (
	nearSuffix  = " (now)"
	laterSuffix = " (later)"
)

// baseName strips the split suffix a list's part added to its name.
func baseName(l List) string {
	switch l.Part {
	case PartNear:
		return strings.TrimSuffix(l.Name, nearSuffix)
	case PartLater:
		return strings.TrimSuffix(l.Name, laterSuffix)
	}
	return l.Name
}

func splitDrafts(base List, all []classified, opts SplitOptions) []Draft {
	var near, later []classified
	for _, c := range all {
		if isNearTerm(c, opts) {
			near = append(near, c)
		} else {
			later = append(later, c)
		}
	}

	laterStart := laterListStart(base, later, opts)

	nearList := base
	nearList.Name = base.Name + nearSuffix
	nearList.SplitMode = SplitSplit
	nearList.Part = PartNear
	nearList.WindowDays = opts.WindowDays

	laterList := nearList
	laterList.Name = base.Name + laterSuffix
	laterList.Part = PartLater
	laterList.Start = laterStart

	var reclassified []classified
	for _, c := range later {
		reclassified = append(reclassified, classified{agg: c.agg, freshness: aggregate.Classify(c.agg, laterStart)})
	}

	return []Draft{buildDraft(nearList, near), buildDraft(laterList, reclassified)}
}

// isNearTerm reports whether an item bought at the plan start is still fresh
// on its first use.
func isNearTerm(c classified, opts SplitOptions) bool {
	if opts.WindowDays > 0 {
		return c.freshness.DaysUntilUse <= opts.WindowDays
	}
	if !c.agg.HasShelfLife {
		return true
	}
	return c.freshness.DaysUntilUse <= c.agg.ShelfLife.Days
}

// laterListStart is the earliest day a later item can be bought and still be
// fresh on first use. With a fixed window it is the first day past the window.
func laterListStart(base List, later []classified, opts SplitOptions) time.Time {
	if opts.WindowDays > 0 {
		return clampDay(calendar.AddDays(base.Start, opts.WindowDays+1), base.Start, base.End)
	}
	var start time.Time
	for _, c := range later {
		d := calendar.AddDays(c.agg.FirstUse(), -c.agg.ShelfLife.Days)
		if start.IsZero() || d.Before(start) {
			start = d
		}
	}
	if start.IsZero() {
		start = calendar.AddDays(base.Start, 1)
	}
	return clampDay(start, base.Start, base.End)
}

func clampDay(d, lo, hi time.Time) time.Time {
	if d.Before(lo) {
		return lo
	}
	if d.After(hi) {
		return hi
	}
	return d
}

func classify(items []aggregate.Aggregated, start time.Time) []classified {
	out := make([]classified, 0, len(items))
	for _, it := range items {
		out = append(out, classified{agg: it, freshness: aggregate.Classify(it, start)})
	}
	return out
}

func buildDraft(list List, items []classified) Draft {
	d := Draft{List: list}
	for i, c := range items {
		item := toItem(c, list.Start)
		item.Position = i
		d.Items = append(d.Items, item)
		if c.freshness.Warning {
			d.List.Warnings = append(d.List.Warnings, Warning{
				Ingredient:   c.agg.Name,
				Status:       c.freshness.Status,
				DaysUntilUse: c.freshness.DaysUntilUse,
			})
		}
	}
	return d
}

func toItem(c classified, listStart time.Time) Item {
	item := Item{
		Name:             c.agg.Name,
		Quantity:         aggregate.Value(c.agg.Quantity),
		Unit:             c.agg.Unit(),
		Category:         c.agg.Category,
		Recipes:          append([]string(nil), c.agg.Recipes...),
		Dates:            append([]time.Time(nil), c.agg.Dates...),
		FreshnessStatus:  c.freshness.Status,
		FreshnessWarning: c.freshness.Warning,
	}
	if !c.freshness.Warning {
		if s, ok := aggregate.SplitPurchase(c.agg, listStart); ok {
			item.Split = &SplitInfo{
				BuyNowQty:    s.BuyNow,
				BuyLaterQty:  s.BuyLater,
				BuyLaterDate: s.BuyLaterDate,
			}
		}
	}
	return item
}

// Recommend suggests split_lists when more than threshold items would be
// bought too early, else include_all.
func Recommend(items []aggregate.Aggregated, listStart time.Time, threshold int) (Strategy, int) {
	warnings := 0
	for _, it := range items {
		if aggregate.Classify(it, listStart).Warning {
			warnings++
		}
	}
	if warnings > threshold {
		return SplitLists, warnings
	}
	return IncludeAll, warnings
}
