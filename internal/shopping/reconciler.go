package shopping

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/moby/locker"
)

// ErrDecisionRequired is returned by Sync when a recipe that left the plan
// had purchased items; the caller must choose whether to keep them.
var ErrDecisionRequired = errors.New("purchased items belong to removed recipes")

// RemovedRecipe is a recipe that no longer contributes to a list.
type RemovedRecipe struct {
	RecipeID     string
	CheckedItems []string
}

// ConflictReport compares the recipes behind a list's items with the
// recipes the current plan would put on it.
type ConflictReport struct {
	ListID       string
	Removed      []RemovedRecipe
	RemovedClean []string
	Added        []string
}

// NeedsDecision reports whether a removed recipe had purchased items.
func (c ConflictReport) NeedsDecision() bool {
	return len(c.Removed) > 0
}

// Empty reports whether the list's recipes are unchanged.
func (c ConflictReport) Empty() bool {
	return len(c.Removed) == 0 && len(c.RemovedClean) == 0 && len(c.Added) == 0
}

// Reconciler merges a recomputed item set into an existing list.
type Reconciler struct {
	lists *Repository
	gen   *Generator
	sync  SignatureRecorder
	locks *locker.Locker
}

// NewReconciler creates a Reconciler.
func NewReconciler(lists *Repository, gen *Generator, sync SignatureRecorder) *Reconciler {
	return &Reconciler{
		lists: lists,
		gen:   gen,
		sync:  sync,
		locks: locker.New(),
	}
}

// Merge combines the persisted items of a list with a fresh computation.
//
// A fresh item whose (name, unit) matches a current item takes over that
// item's id and, when keepPurchased is set, its checked flag; its quantity is
// the larger of the two. With keepPurchased, checked items that match nothing
// fresh are kept at the end of the list as standalone leftovers: no recipe
// contributes to them any more.
func Merge(current, fresh []Item, keepPurchased bool) []Item {
	byKey := make(map[ItemKey]int, len(current))
	for i, it := range current {
		if _, dup := byKey[it.Key()]; !dup {
			byKey[it.Key()] = i
		}
	}
	used := make([]bool, len(current))

	merged := make([]Item, 0, len(fresh))
	for _, f := range fresh {
		item := f
		item.ID = ""
		item.Checked = false
		if idx, ok := byKey[f.Key()]; ok {
			cur := current[idx]
			item.ID = cur.ID
			if keepPurchased {
				item.Checked = cur.Checked
			}
			item.Quantity = larger(f.Quantity, cur.Quantity)
			used[idx] = true
			delete(byKey, f.Key())
		}
		merged = append(merged, item)
	}

	if keepPurchased {
		for i, cur := range current {
			if !used[i] && cur.Checked {
				cur.Recipes = nil
				merged = append(merged, cur)
			}
		}
	}

	for i := range merged {
		merged[i].Position = i
	}
	return merged
}

func larger(a, b *float64) *float64 {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *b > *a:
		v := *b
		return &v
	default:
		v := *a
		return &v
	}
}

// Reconcile recomputes a list from the current plan and commits the merged
// item set in one transaction, then clears the list's needs-sync flag. The
// flag update runs after the commit; if it fails the list stays flagged and
// the next sync rewrites the same items.
func (r *Reconciler) Reconcile(ctx context.Context, listID string, keepPurchased bool) ([]Item, error) {
	r.locks.Lock(listID)
	defer r.locks.Unlock(listID)
	return r.reconcile(ctx, listID, keepPurchased)
}

func (r *Reconciler) reconcile(ctx context.Context, listID string, keepPurchased bool) ([]Item, error) {
	list, err := r.lists.Get(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrListNotFound
	}

	fresh, entries, err := r.gen.ComputeForList(ctx, *list)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute list %s: %w", listID, err)
	}
	current, err := r.lists.Items(ctx, listID)
	if err != nil {
		return nil, err
	}

	merged := Merge(current, fresh, keepPurchased)
	stored, err := r.lists.ReplaceItems(ctx, listID, merged)
	if err != nil {
		return nil, fmt.Errorf("failed to replace items of list %s: %w", listID, err)
	}

	if err := r.sync.Record(ctx, listID, entries); err != nil {
		log.Printf("Warning: failed to record plan signature for list %s: %v", listID, err)
	}
	log.Printf("Reconciled list %s: %d item(s), keep purchased=%t", listID, len(stored), keepPurchased)
	return stored, nil
}

// Conflicts diffs the recipes behind the persisted items against the recipes
// a fresh computation would use.
func (r *Reconciler) Conflicts(ctx context.Context, listID string) (ConflictReport, error) {
	list, err := r.lists.Get(ctx, listID)
	if err != nil {
		return ConflictReport{}, err
	}
	if list == nil {
		return ConflictReport{}, ErrListNotFound
	}
	current, err := r.lists.Items(ctx, listID)
	if err != nil {
		return ConflictReport{}, err
	}
	fresh, _, err := r.gen.ComputeForList(ctx, *list)
	if err != nil {
		return ConflictReport{}, fmt.Errorf("failed to recompute list %s: %w", listID, err)
	}
	return diffRecipes(listID, current, fresh), nil
}

func diffRecipes(listID string, current, fresh []Item) ConflictReport {
	before := make(map[string][]Item)
	for _, it := range current {
		for _, id := range it.Recipes {
			before[id] = append(before[id], it)
		}
	}
	after := make(map[string]bool)
	for _, it := range fresh {
		for _, id := range it.Recipes {
			after[id] = true
		}
	}

	report := ConflictReport{ListID: listID}
	for id, items := range before {
		if after[id] {
			continue
		}
		var checked []string
		for _, it := range items {
			if it.Checked {
				checked = append(checked, it.Name)
			}
		}
		if len(checked) > 0 {
			sort.Strings(checked)
			report.Removed = append(report.Removed, RemovedRecipe{RecipeID: id, CheckedItems: checked})
		} else {
			report.RemovedClean = append(report.RemovedClean, id)
		}
	}
	for id := range after {
		if _, ok := before[id]; !ok {
			report.Added = append(report.Added, id)
		}
	}

	sort.Slice(report.Removed, func(i, j int) bool { return report.Removed[i].RecipeID < report.Removed[j].RecipeID })
	sort.Strings(report.RemovedClean)
	sort.Strings(report.Added)
	return report
}

// Sync reconciles keeping purchases, unless a removed recipe had purchased
// items. Then it returns the report with ErrDecisionRequired and changes nothing.
func (r *Reconciler) Sync(ctx context.Context, listID string) (ConflictReport, []Item, error) {
	r.locks.Lock(listID)
	defer r.locks.Unlock(listID)

	report, err := r.Conflicts(ctx, listID)
	if err != nil {
		return ConflictReport{}, nil, err
	}
	if report.NeedsDecision() {
		return report, nil, ErrDecisionRequired
	}
	items, err := r.reconcile(ctx, listID, true)
	if err != nil {
		return report, nil, err
	}
	return report, items, nil
}
