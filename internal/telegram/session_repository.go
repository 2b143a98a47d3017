package telegram

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	sessiondb "meal-shopping-planner/internal/telegram/session_db"
)

// Session types and states used by the bot.
const (
	SessionSyncDecision = "sync_decision"
	StateAwaitDecision  = "awaiting_decision"
)

// Session represents an active user session (e.g., awaiting a keep/discard decision)
type Session struct {
	ID          int64
	UserID      string
	SessionType string
	State       string
	ContextData string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// SessionContextData holds structured data stored in the context_data JSON field
type SessionContextData struct {
	ListID         string   `json:"list_id"`
	ListName       string   `json:"list_name"`
	RemovedRecipes []string `json:"removed_recipes,omitempty"`
}

// SessionRepository provides access to session persistence operations
type SessionRepository struct {
	queries *sessiondb.Queries
	db      *sql.DB
	now     func() time.Time
}

// NewSessionRepository creates a new SessionRepository instance
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{
		queries: sessiondb.New(db),
		db:      db,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create replaces the user's sessions with a new one and returns its ID
func (sr *SessionRepository) Create(ctx context.Context, userID, sessionType, state string, contextData SessionContextData, ttl time.Duration) (int64, error) {
	jsonData, err := json.Marshal(contextData)
	if err != nil {
		return 0, err
	}

	if err := sr.queries.DeleteUserSessions(ctx, userID); err != nil {
		return 0, err
	}

	now := sr.now()
	return sr.queries.CreateSession(ctx, sessiondb.CreateSessionParams{
		UserID:      userID,
		SessionType: sessionType,
		State:       state,
		ContextData: string(jsonData),
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	})
}

// GetActive retrieves the most recent active session for a user (non-expired)
func (sr *SessionRepository) GetActive(ctx context.Context, userID string) (*Session, error) {
	row, err := sr.queries.GetActiveSession(ctx, sessiondb.GetActiveSessionParams{
		UserID:    userID,
		ExpiresAt: sr.now(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &Session{
		ID:          row.ID,
		UserID:      row.UserID,
		SessionType: row.SessionType,
		State:       row.State,
		ContextData: row.ContextData,
		ExpiresAt:   row.ExpiresAt,
		CreatedAt:   row.CreatedAt,
	}, nil
}

// GetContextData unmarshals the context_data JSON field
func (s *Session) GetContextData() (SessionContextData, error) {
	var data SessionContextData
	err := json.Unmarshal([]byte(s.ContextData), &data)
	return data, err
}

// Update updates the state and context_data for a session
func (sr *SessionRepository) Update(ctx context.Context, sessionID int64, state string, contextData SessionContextData) error {
	jsonData, err := json.Marshal(contextData)
	if err != nil {
		return err
	}

	return sr.queries.UpdateSession(ctx, sessiondb.UpdateSessionParams{
		State:       state,
		ContextData: string(jsonData),
		ID:          sessionID,
	})
}

// Delete removes a session
func (sr *SessionRepository) Delete(ctx context.Context, sessionID int64) error {
	return sr.queries.DeleteSession(ctx, sessionID)
}

// CleanupExpired removes all expired sessions and returns how many there were
func (sr *SessionRepository) CleanupExpired(ctx context.Context) (int64, error) {
	return sr.queries.CleanupExpiredSessions(ctx, sr.now())
}
