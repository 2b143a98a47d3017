package aggregate

import (
	"time"

	"meal-shopping-planner/internal/calendar"
)

// Status is the purchase-timing verdict for an item.
type Status string

const (
	StatusOK       Status = "ok"
	StatusFreeze   Status = "freeze"
	StatusBuyLater Status = "buy_later"
)

// Freshness is the classification of one aggregated item against a list start.
type Freshness struct {
	Status       Status
	Warning      bool
	DaysUntilUse int
}

// Classify compares the first use of item against its shelf life counted from
// listStart. Items without a shelf-life signal are always ok.
func Classify(item Aggregated, listStart time.Time) Freshness {
	f := Freshness{Status: StatusOK}
	if len(item.Dates) == 0 {
		return f
	}
	f.DaysUntilUse = calendar.DaysBetween(listStart, item.FirstUse())
	if !item.HasShelfLife {
		return f
	}
	if f.DaysUntilUse > item.ShelfLife.Days {
		f.Warning = true
		if item.ShelfLife.Freezable {
			f.Status = StatusFreeze
		} else {
			f.Status = StatusBuyLater
		}
	}
	return f
}

// Split is a suggestion to buy part of an item now and the rest later.
type Split struct {
	BuyNow       float64
	BuyLater     float64
	BuyLaterDate time.Time
}

// SplitPurchase suggests splitting a measured item whose first use is inside
// its shelf window but whose later uses fall outside it. The later purchase is
// dated so it is still fresh on the first use it covers.
func SplitPurchase(item Aggregated, listStart time.Time) (Split, bool) {
	if !item.HasShelfLife || len(item.Uses) == 0 {
		return Split{}, false
	}
	if _, ok := item.Quantity.(Measured); !ok {
		return Split{}, false
	}

	var s Split
	var firstOutside time.Time
	for _, u := range item.Uses {
		if calendar.DaysBetween(listStart, u.Date) <= item.ShelfLife.Days {
			s.BuyNow += u.Value
			continue
		}
		if firstOutside.IsZero() {
			firstOutside = u.Date
		}
		s.BuyLater += u.Value
	}
	if s.BuyNow == 0 || s.BuyLater == 0 {
		return Split{}, false
	}
	s.BuyLaterDate = calendar.AddDays(firstOutside, -item.ShelfLife.Days)
	return s, true
}
