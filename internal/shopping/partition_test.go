package shopping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-shopping-planner/internal/aggregate"
	"meal-shopping-planner/internal/calendar"
	"meal-shopping-planner/internal/catalog"
	"meal-shopping-planner/internal/units"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.Parse(s)
	require.NoError(t, err)
	return d
}

// item builds an aggregated row used on the given days, one unit per day.
func item(name, category string, shelf *catalog.ShelfLife, days ...time.Time) aggregate.Aggregated {
	agg := aggregate.Aggregated{
		Name:      name,
		Category:  category,
		Quantity:  aggregate.Measured{Value: float64(len(days)), Unit: "pcs"},
		UnitClass: units.Count,
		Recipes:   []string{"r-" + name},
		Dates:     days,
	}
	for _, d := range days {
		agg.Uses = append(agg.Uses, aggregate.Use{Date: d, Value: 1})
	}
	if shelf != nil {
		agg.ShelfLife = *shelf
		agg.HasShelfLife = true
	}
	return agg
}

func shelf(days int, freezable bool) *catalog.ShelfLife {
	return &catalog.ShelfLife{Days: days, Freezable: freezable}
}

func names(items []Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func testItems(t *testing.T) []aggregate.Aggregated {
	return []aggregate.Aggregated{
		item("milk", catalog.Dairy, shelf(7, false), day(t, "2024-03-02")),
		item("salmon", catalog.Fish, shelf(2, true), day(t, "2024-03-06")),
		item("basil", catalog.Herbs, shelf(4, false), day(t, "2024-03-07")),
		item("salt", catalog.Spices, shelf(730, false), day(t, "2024-03-07")),
		item("durian", catalog.Other, nil, day(t, "2024-03-10")),
		item("chicken", catalog.Poultry, shelf(2, true), day(t, "2024-03-05")),
	}
}

func plan(t *testing.T) calendar.Range {
	return calendar.NewRange(day(t, "2024-03-01"), day(t, "2024-03-10"))
}

func TestPartitionIncludeAll(t *testing.T) {
	drafts, err := Partition(testItems(t), PartitionRequest{Name: "Week", Plan: plan(t), Strategy: IncludeAll})
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	d := drafts[0]
	assert.Len(t, d.Items, 6)
	assert.Equal(t, SplitSingle, d.List.SplitMode)
	assert.Equal(t, PartNone, d.List.Part)
	assert.Equal(t, StatusActive, d.List.Status)
	assert.Equal(t, plan(t).Start, d.List.PlanStart)
	assert.Equal(t, []Warning{
		{Ingredient: "salmon", Status: aggregate.StatusFreeze, DaysUntilUse: 5},
		{Ingredient: "basil", Status: aggregate.StatusBuyLater, DaysUntilUse: 6},
		{Ingredient: "chicken", Status: aggregate.StatusFreeze, DaysUntilUse: 4},
	}, d.List.Warnings)
	for i, it := range d.Items {
		assert.Equal(t, i, it.Position)
	}
}

func TestPartitionExcludePerishables(t *testing.T) {
	drafts, err := Partition(testItems(t), PartitionRequest{Name: "Week", Plan: plan(t), Strategy: ExcludePerishables})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, []string{"milk", "salt", "durian"}, names(drafts[0].Items))
	assert.Empty(t, drafts[0].List.Warnings)
}

func TestPartitionCustom(t *testing.T) {
	drafts, err := Partition(testItems(t), PartitionRequest{
		Name:       "Fresh counter",
		Plan:       plan(t),
		Strategy:   Custom,
		Categories: []string{" Fish", "poultry"},
	})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, []string{"salmon", "chicken"}, names(drafts[0].Items))
	assert.Equal(t, []string{"fish", "poultry"}, drafts[0].List.Categories)

	_, err = Partition(testItems(t), PartitionRequest{Name: "x", Plan: plan(t), Strategy: Custom})
	require.Error(t, err)
}

func TestPartitionSplitPerItemWindow(t *testing.T) {
	drafts, err := Partition(testItems(t), PartitionRequest{Name: "Week", Plan: plan(t), Strategy: SplitLists})
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	near, later := drafts[0], drafts[1]
	assert.Equal(t, PartNear, near.List.Part)
	assert.Equal(t, PartLater, later.List.Part)
	assert.Equal(t, SplitSplit, near.List.SplitMode)
	assert.Equal(t, SplitSplit, later.List.SplitMode)

	assert.Equal(t, []string{"milk", "salt", "durian"}, names(near.Items))
	assert.Equal(t, []string{"salmon", "basil", "chicken"}, names(later.Items))

	// chicken is first used on the 5th with two days of shelf life.
	assert.Equal(t, day(t, "2024-03-03"), later.List.Start)
	assert.Equal(t, plan(t).End, later.List.End)
	assert.Equal(t, plan(t).Start, later.List.PlanStart)

	// Reclassified against the later start, only salmon is still early.
	assert.Equal(t, []Warning{
		{Ingredient: "salmon", Status: aggregate.StatusFreeze, DaysUntilUse: 3},
	}, later.List.Warnings)
	assert.Empty(t, near.List.Warnings)
}

func TestPartitionSplitFixedWindow(t *testing.T) {
	drafts, err := Partition(testItems(t), PartitionRequest{
		Name:     "Week",
		Plan:     plan(t),
		Strategy: SplitLists,
		Split:    SplitOptions{WindowDays: 4},
	})
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, []string{"milk", "chicken"}, names(drafts[0].Items))
	assert.Equal(t, []string{"salmon", "basil", "salt", "durian"}, names(drafts[1].Items))
	assert.Equal(t, day(t, "2024-03-06"), drafts[1].List.Start)
	assert.Equal(t, 4, drafts[1].List.WindowDays)
}

func TestPartitionSplitCompleteness(t *testing.T) {
	items := testItems(t)
	for window := 0; window <= 12; window++ {
		drafts, err := Partition(items, PartitionRequest{
			Name:     "Week",
			Plan:     plan(t),
			Strategy: SplitLists,
			Split:    SplitOptions{WindowDays: window},
		})
		require.NoError(t, err)
		require.Len(t, drafts, 2)

		seen := make(map[string]int)
		for _, d := range drafts {
			for _, it := range d.Items {
				seen[it.Name]++
			}
		}
		assert.Len(t, seen, len(items), "window %d", window)
		for name, n := range seen {
			assert.Equal(t, 1, n, "window %d: %s appears %d times", window, name, n)
		}
	}
}

func TestPartitionSplitInfo(t *testing.T) {
	salmon := item("salmon", catalog.Fish, shelf(2, true), day(t, "2024-03-02"), day(t, "2024-03-06"))
	drafts, err := Partition([]aggregate.Aggregated{salmon}, PartitionRequest{Name: "Week", Plan: plan(t), Strategy: IncludeAll})
	require.NoError(t, err)
	require.Len(t, drafts[0].Items, 1)

	split := drafts[0].Items[0].Split
	require.NotNil(t, split)
	assert.Equal(t, 1.0, split.BuyNowQty)
	assert.Equal(t, 1.0, split.BuyLaterQty)
	assert.Equal(t, day(t, "2024-03-04"), split.BuyLaterDate)
}

func TestPartitionToTaste(t *testing.T) {
	pepper := aggregate.Aggregated{
		Name:      "pepper",
		Category:  catalog.Spices,
		Quantity:  aggregate.ToTaste{},
		UnitClass: units.None,
		Dates:     []time.Time{day(t, "2024-03-02")},
	}
	drafts, err := Partition([]aggregate.Aggregated{pepper}, PartitionRequest{Name: "Week", Plan: plan(t), Strategy: IncludeAll})
	require.NoError(t, err)
	it := drafts[0].Items[0]
	assert.Nil(t, it.Quantity)
	assert.Equal(t, units.Unit(""), it.Unit)
	assert.Equal(t, "to taste", it.QuantityString())
}

func TestPartitionUnknownStrategy(t *testing.T) {
	_, err := Partition(testItems(t), PartitionRequest{Name: "Week", Plan: plan(t), Strategy: "random"})
	require.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestRecommend(t *testing.T) {
	s, warnings := Recommend(testItems(t), plan(t).Start, DefaultRecommendThreshold)
	assert.Equal(t, SplitLists, s)
	assert.Equal(t, 3, warnings)

	s, warnings = Recommend(testItems(t)[:2], plan(t).Start, DefaultRecommendThreshold)
	assert.Equal(t, IncludeAll, s)
	assert.Equal(t, 1, warnings)
}
