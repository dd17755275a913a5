// Package storage provides abstractions for persistent session storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/pokersplit/internal/models"
)

// ErrSessionNotFound is returned when a session id is not in the store.
var ErrSessionNotFound = errors.New("session not found")

// Store defines the interface for session storage operations.
// This abstraction allows swapping storage backends (SQLite, Bolt, ...)
// without changing the service layer.
type Store interface {
	// PutSession inserts the session or replaces the one with the same ID.
	// An empty SessionID, Date or Description is filled in before writing.
	PutSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves one session by ID.
	// Returns ErrSessionNotFound if there is no such session.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// GetAllSessions returns every stored session, newest first.
	GetAllSessions(ctx context.Context) ([]*models.Session, error)

	// DeleteSession removes a session by ID.
	// Returns ErrSessionNotFound if there is no such session.
	DeleteSession(ctx context.Context, sessionID string) error

	// Close releases any resources held by the store.
	Close() error
}

// NewSessionID returns a unique session id: the save time followed by a
// random suffix. Nothing may rely on its structure beyond uniqueness.
func NewSessionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return now.UTC().Format(time.RFC3339Nano) + "_" + suffix
}

// Prepare fills in the generated fields of a session about to be written.
func Prepare(session *models.Session, now time.Time) {
	if session.SessionID == "" {
		session.SessionID = NewSessionID(now)
	}
	if session.Date.IsZero() {
		session.Date = now
	}
	if session.Description == "" {
		session.Description = generateDescription(session.Players, session.Date)
	}
}

// generateDescription creates an auto-generated description from the players.
func generateDescription(players []models.SessionPlayer, date time.Time) string {
	var names []string
	for _, p := range players {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("Poker night - %s", date.Format("Jan 2, 2006"))
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Poker night with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Poker night with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}
