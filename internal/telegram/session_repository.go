package telegram

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"food-storefront/internal/customize"
	sessiondb "food-storefront/internal/telegram/session_db"
)

// Session types. A user has at most one live session of each type.
const (
	SessionDraft  = "draft"
	SessionSearch = "search"
)

// Session states.
const (
	StateCustomizing   = "customizing"
	StateAwaitingQuery = "awaiting_query"
)

// Session is a short-lived piece of conversation state, such as an item being
// customized across several button presses.
type Session struct {
	ID          int64
	UserID      string
	SessionType string
	State       string
	ContextData string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// SessionContextData holds structured data stored in the context_data JSON field.
type SessionContextData struct {
	Draft     *customize.State `json:"draft,omitempty"`
	MessageID int              `json:"message_id,omitempty"`
}

// GetContextData unmarshals the context_data JSON field.
func (s *Session) GetContextData() (SessionContextData, error) {
	var data SessionContextData
	err := json.Unmarshal([]byte(s.ContextData), &data)
	return data, err
}

// SessionRepository provides access to session persistence operations.
type SessionRepository struct {
	queries *sessiondb.Queries
	db      *sql.DB
	ttl     time.Duration
}

// NewSessionRepository creates a new SessionRepository whose sessions live for ttl
// after their last update.
func NewSessionRepository(db *sql.DB, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		queries: sessiondb.New(db),
		db:      db,
		ttl:     ttl,
	}
}

// Start replaces any live session of the same type for the user and returns the new ID.
func (sr *SessionRepository) Start(ctx context.Context, userID, sessionType, state string, contextData SessionContextData) (int64, error) {
	jsonData, err := json.Marshal(contextData)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal session data: %w", err)
	}

	tx, err := sr.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := sr.queries.WithTx(tx)
	if err := q.DeleteUserSessions(ctx, sessiondb.DeleteUserSessionsParams{UserID: userID, SessionType: sessionType}); err != nil {
		return 0, fmt.Errorf("failed to drop previous sessions: %w", err)
	}

	now := time.Now().UTC()
	id, err := q.CreateSession(ctx, sessiondb.CreateSessionParams{
		UserID:      userID,
		SessionType: sessionType,
		State:       state,
		ContextData: string(jsonData),
		ExpiresAt:   now.Add(sr.ttl),
		CreatedAt:   now,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit session: %w", err)
	}
	return id, nil
}

// GetActive retrieves the most recent unexpired session of the given type.
// It returns nil if there is none.
func (sr *SessionRepository) GetActive(ctx context.Context, userID, sessionType string, now time.Time) (*Session, error) {
	row, err := sr.queries.GetActiveSession(ctx, sessiondb.GetActiveSessionParams{
		UserID:      userID,
		SessionType: sessionType,
		ExpiresAt:   now.UTC(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
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

// Update stores new state and context data and pushes the expiry out by the TTL.
func (sr *SessionRepository) Update(ctx context.Context, sessionID int64, state string, contextData SessionContextData) error {
	jsonData, err := json.Marshal(contextData)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	return sr.queries.UpdateSession(ctx, sessiondb.UpdateSessionParams{
		State:       state,
		ContextData: string(jsonData),
		ExpiresAt:   time.Now().UTC().Add(sr.ttl),
		ID:          sessionID,
	})
}

// Delete removes a session.
func (sr *SessionRepository) Delete(ctx context.Context, sessionID int64) error {
	return sr.queries.DeleteSession(ctx, sessionID)
}

// End removes every session of the given type for the user.
func (sr *SessionRepository) End(ctx context.Context, userID, sessionType string) error {
	return sr.queries.DeleteUserSessions(ctx, sessiondb.DeleteUserSessionsParams{
		UserID:      userID,
		SessionType: sessionType,
	})
}

// CleanupExpired removes all expired sessions.
func (sr *SessionRepository) CleanupExpired(ctx context.Context) error {
	return sr.queries.CleanupExpiredSessions(ctx, time.Now().UTC())
}
