package plansync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	syncdb "meal-shopping-planner/internal/plansync/sync_db"
)

// State is what the detector remembers about one list.
type State struct {
	Signature string
	NeedsSync bool
	CheckedAt time.Time
}

// Store keeps detector state keyed by list id. Get returns nil for an unknown list.
type Store interface {
	Get(ctx context.Context, listID string) (*State, error)
	Put(ctx context.Context, listID string, s State) error
	Delete(ctx context.Context, listID string) error
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.Mutex
	states map[string]State
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{states: make(map[string]State)}
}

func (m *Memory) Get(_ context.Context, listID string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[listID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *Memory) Put(_ context.Context, listID string, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[listID] = s
	return nil
}

func (m *Memory) Delete(_ context.Context, listID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, listID)
	return nil
}

// Repository is the sqlite-backed Store.
type Repository struct {
	queries *syncdb.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: syncdb.New(d),
		db:      d,
	}
}

func (r *Repository) Get(ctx context.Context, listID string) (*State, error) {
	row, err := r.queries.GetListSyncState(ctx, listID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}
	return &State{
		Signature: row.Signature,
		NeedsSync: row.NeedsSync,
		CheckedAt: row.CheckedAt,
	}, nil
}

func (r *Repository) Put(ctx context.Context, listID string, s State) error {
	err := r.queries.UpsertListSyncState(ctx, syncdb.UpsertListSyncStateParams{
		ListID:    listID,
		Signature: s.Signature,
		NeedsSync: s.NeedsSync,
		CheckedAt: s.CheckedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save sync state: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, listID string) error {
	if err := r.queries.DeleteListSyncState(ctx, listID); err != nil {
		return fmt.Errorf("failed to delete sync state: %w", err)
	}
	return nil
}

// CountNeedingSync returns how many lists are flagged.
func (r *Repository) CountNeedingSync(ctx context.Context) (int, error) {
	n, err := r.queries.CountListsNeedingSync(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count lists needing sync: %w", err)
	}
	return int(n), nil
}
