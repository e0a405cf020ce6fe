package telegram

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"food-storefront/internal/customize"
	"food-storefront/internal/database"

	"go.uber.org/zap"
)

func setupTestSessions(t *testing.T, ttl time.Duration) *SessionRepository {
	t.Helper()
	d, err := database.NewDB(filepath.Join(t.TempDir(), "sessions.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return NewSessionRepository(d.SQL, ttl)
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := setupTestSessions(t, time.Hour)

	data := SessionContextData{
		Draft:     &customize.State{ItemID: 2, Selections: map[string]string{"Size": "Large"}, Quantity: 3},
		MessageID: 99,
	}

	t.Run("StartAndGet", func(t *testing.T) {
		id, err := repo.Start(ctx, "u1", SessionDraft, StateCustomizing, data)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		s, err := repo.GetActive(ctx, "u1", SessionDraft, time.Now())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if s == nil || s.ID != id || s.State != StateCustomizing {
			t.Fatalf("Expected session %d, got %+v", id, s)
		}
		got, err := s.GetContextData()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got.Draft == nil || got.Draft.ItemID != 2 || got.Draft.Quantity != 3 || got.MessageID != 99 {
			t.Errorf("Context data did not round-trip: %+v", got)
		}

		other, err := repo.GetActive(ctx, "u1", SessionSearch, time.Now())
		if err != nil || other != nil {
			t.Errorf("Expected no search session, got %+v (err %v)", other, err)
		}
	})

	t.Run("StartReplacesPrevious", func(t *testing.T) {
		first, _ := repo.GetActive(ctx, "u1", SessionDraft, time.Now())
		id, err := repo.Start(ctx, "u1", SessionDraft, StateCustomizing, SessionContextData{})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if first != nil && id == first.ID {
			t.Error("Expected a fresh session id")
		}
		s, _ := repo.GetActive(ctx, "u1", SessionDraft, time.Now())
		if s == nil || s.ID != id {
			t.Errorf("Expected session %d to be active, got %+v", id, s)
		}
	})

	t.Run("Update", func(t *testing.T) {
		s, _ := repo.GetActive(ctx, "u1", SessionDraft, time.Now())
		if err := repo.Update(ctx, s.ID, StateCustomizing, data); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		updated, _ := repo.GetActive(ctx, "u1", SessionDraft, time.Now())
		got, _ := updated.GetContextData()
		if got.Draft == nil || got.Draft.Selections["Size"] != "Large" {
			t.Errorf("Expected updated draft, got %+v", got)
		}
	})

	t.Run("Expiry", func(t *testing.T) {
		s, err := repo.GetActive(ctx, "u1", SessionDraft, time.Now().Add(2*time.Hour))
		if err != nil || s != nil {
			t.Errorf("Expected session to be expired, got %+v (err %v)", s, err)
		}
	})

	t.Run("End", func(t *testing.T) {
		if err := repo.End(ctx, "u1", SessionDraft); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		s, _ := repo.GetActive(ctx, "u1", SessionDraft, time.Now())
		if s != nil {
			t.Errorf("Expected no session after End, got %+v", s)
		}
	})
}

func TestSessionCleanupExpired(t *testing.T) {
	ctx := context.Background()
	repo := setupTestSessions(t, -time.Minute)

	if _, err := repo.Start(ctx, "u1", SessionSearch, StateAwaitingQuery, SessionContextData{}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if s, _ := repo.GetActive(ctx, "u1", SessionSearch, time.Now()); s != nil {
		t.Errorf("Expected an already expired session to be inactive, got %+v", s)
	}
	if err := repo.CleanupExpired(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}
