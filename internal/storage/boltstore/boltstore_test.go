package boltstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/pokersplit/internal/models"
	"github.com/mmynk/pokersplit/internal/storage"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "sessions.bolt"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("PutSession generates ID and description", func(t *testing.T) {
		session := &models.Session{
			Players: []models.SessionPlayer{
				{Name: "Alice", BuyIn: 2000, CashOut: 3500, Net: 1500},
				{Name: "Bob", BuyIn: 2000, CashOut: 500, Net: -1500},
			},
		}
		if err := store.PutSession(ctx, session); err != nil {
			t.Fatalf("PutSession failed: %v", err)
		}
		if session.SessionID == "" {
			t.Error("Expected session ID to be generated")
		}
		if session.Description != "Poker night with Alice, Bob" {
			t.Errorf("Description = %q", session.Description)
		}
	})

	t.Run("GetSession round-trips amounts and date", func(t *testing.T) {
		original := &models.Session{
			SessionID:   "get-1",
			Date:        time.Date(2024, 3, 1, 21, 30, 0, 0, time.UTC),
			Description: "Friday game",
			Players: []models.SessionPlayer{
				{Name: "Charlie", BuyIn: 5005, CashOut: 1250, Net: -3755},
				{Name: "Diana", BuyIn: 5000, CashOut: 8755, Net: 3755},
			},
		}
		if err := store.PutSession(ctx, original); err != nil {
			t.Fatalf("PutSession failed: %v", err)
		}

		got, err := store.GetSession(ctx, "get-1")
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if !got.Date.Equal(original.Date) {
			t.Errorf("Date = %v, want %v", got.Date, original.Date)
		}
		if len(got.Players) != 2 {
			t.Fatalf("Players count = %d, want 2", len(got.Players))
		}
		for i, want := range original.Players {
			if got.Players[i] != want {
				t.Errorf("Players[%d] = %+v, want %+v", i, got.Players[i], want)
			}
		}
	})

	t.Run("GetSession returns ErrSessionNotFound", func(t *testing.T) {
		if _, err := store.GetSession(ctx, "missing"); !errors.Is(err, storage.ErrSessionNotFound) {
			t.Errorf("err = %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("DeleteSession", func(t *testing.T) {
		if err := store.DeleteSession(ctx, "get-1"); err != nil {
			t.Fatalf("DeleteSession failed: %v", err)
		}
		if err := store.DeleteSession(ctx, "get-1"); !errors.Is(err, storage.ErrSessionNotFound) {
			t.Errorf("second DeleteSession: err = %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := store.GetAllSessions(cancelled); !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestBoltGetAllSessionsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for id, date := range map[string]time.Time{
		"old":    time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
		"newest": time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		"middle": time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	} {
		session := &models.Session{SessionID: id, Date: date, Players: []models.SessionPlayer{{Name: id}}}
		if err := store.PutSession(ctx, session); err != nil {
			t.Fatalf("PutSession(%s) failed: %v", id, err)
		}
	}

	all, err := store.GetAllSessions(ctx)
	if err != nil {
		t.Fatalf("GetAllSessions failed: %v", err)
	}
	want := []string{"newest", "middle", "old"}
	if len(all) != len(want) {
		t.Fatalf("got %d sessions, want %d", len(all), len(want))
	}
	for i, id := range want {
		if all[i].SessionID != id {
			t.Errorf("sessions[%d] = %s, want %s", i, all[i].SessionID, id)
		}
	}
}
