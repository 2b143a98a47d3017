// Package plansync flags shopping lists whose meal plan changed after the
// list was last built.
package plansync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"meal-shopping-planner/internal/calendar"
	"meal-shopping-planner/internal/planner"
)

// Target is a list the detector watches and the plan range it was built from.
type Target struct {
	ListID string
	Range  calendar.Range
}

// Lists finds the active lists whose plan range overlaps rng.
type Lists interface {
	SyncTargets(ctx context.Context, rng calendar.Range) ([]Target, error)
}

// Plans reads meal-plan entries.
type Plans interface {
	EntriesInRange(ctx context.Context, rng calendar.Range) ([]planner.Entry, error)
}

// Verdict is the outcome of one observation.
type Verdict string

const (
	// VerdictRecorded means the list had no signature yet; nothing is flagged.
	VerdictRecorded Verdict = "recorded"
	VerdictInSync   Verdict = "in_sync"
	VerdictDrifted  Verdict = "drifted"
)

// Observation reports what the detector concluded for one list.
type Observation struct {
	ListID    string
	Verdict   Verdict
	NeedsSync bool
	Signature string
}

// Signature is the SHA-256 of the entries' day and recipe pairs, sorted by
// day and then recipe id. Entry ids and creation times do not contribute.
func Signature(entries []planner.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, calendar.Format(e.Date)+"|"+e.RecipeID)
	}
	sort.Strings(lines)

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Detector compares each list's current plan signature against the one it
// was last built from. It never touches list items.
type Detector struct {
	store Store
	plans Plans
	lists Lists
	group singleflight.Group
	now   func() time.Time
}

// NewDetector creates a Detector.
func NewDetector(store Store, plans Plans, lists Lists) *Detector {
	return &Detector{
		store: store,
		plans: plans,
		lists: lists,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// Observe recomputes the signature of one list. Concurrent observations of
// the same list share a single computation.
func (d *Detector) Observe(ctx context.Context, t Target) (Observation, error) {
	v, err, _ := d.group.Do(t.ListID, func() (interface{}, error) {
		return d.observe(ctx, t)
	})
	if err != nil {
		return Observation{}, err
	}
	return v.(Observation), nil
}

func (d *Detector) observe(ctx context.Context, t Target) (Observation, error) {
	entries, err := d.plans.EntriesInRange(ctx, t.Range)
	if err != nil {
		return Observation{}, fmt.Errorf("failed to read plan for list %s: %w", t.ListID, err)
	}
	current := Signature(entries)

	prior, err := d.store.Get(ctx, t.ListID)
	if err != nil {
		return Observation{}, err
	}

	obs := Observation{ListID: t.ListID, Signature: current}
	next := State{Signature: current, CheckedAt: d.now()}

	switch {
	case prior == nil:
		obs.Verdict = VerdictRecorded
	case prior.Signature == current:
		obs.Verdict = VerdictInSync
	default:
		// The stored signature stays the one last materialized, so reverting
		// the plan change clears the flag again.
		obs.Verdict = VerdictDrifted
		obs.NeedsSync = true
		next.Signature = prior.Signature
		next.NeedsSync = true
	}

	if err := d.store.Put(ctx, t.ListID, next); err != nil {
		return Observation{}, err
	}
	if obs.NeedsSync && !prior.NeedsSync {
		log.Printf("List %s needs sync: meal plan for %s changed", t.ListID, t.Range)
	}
	return obs, nil
}

// OnPlanChanged observes every active list whose plan range contains one of
// the changed days.
func (d *Detector) OnPlanChanged(ctx context.Context, days []time.Time) ([]Observation, error) {
	if len(days) == 0 {
		return nil, nil
	}
	lo, hi := calendar.Day(days[0]), calendar.Day(days[0])
	for _, day := range days[1:] {
		day = calendar.Day(day)
		if day.Before(lo) {
			lo = day
		}
		if day.After(hi) {
			hi = day
		}
	}

	targets, err := d.lists.SyncTargets(ctx, calendar.NewRange(lo, hi))
	if err != nil {
		return nil, err
	}

	var out []Observation
	for _, t := range targets {
		if !containsAny(t.Range, days) {
			continue
		}
		obs, err := d.Observe(ctx, t)
		if err != nil {
			return out, err
		}
		out = append(out, obs)
	}
	return out, nil
}

// Record stores entries as the materialized signature of a list and clears
// its flag. Call it after a list is generated or reconciled.
func (d *Detector) Record(ctx context.Context, listID string, entries []planner.Entry) error {
	return d.store.Put(ctx, listID, State{
		Signature: Signature(entries),
		CheckedAt: d.now(),
	})
}

// NeedsSync reports whether a list is flagged.
func (d *Detector) NeedsSync(ctx context.Context, listID string) (bool, error) {
	s, err := d.store.Get(ctx, listID)
	if err != nil || s == nil {
		return false, err
	}
	return s.NeedsSync, nil
}

// Forget drops the state of a deleted list.
func (d *Detector) Forget(ctx context.Context, listID string) error {
	return d.store.Delete(ctx, listID)
}

func containsAny(rng calendar.Range, days []time.Time) bool {
	for _, day := range days {
		if rng.Contains(day) {
			return true
		}
	}
	return false
}
