// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/pokersplit/internal/models"
	"github.com/mmynk/pokersplit/internal/money"
	"github.com/mmynk/pokersplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// PutSession inserts or replaces a session and its players in one transaction.
func (s *SQLiteStore) PutSession(ctx context.Context, session *models.Session) error {
	storage.Prepare(session, s.now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, date, date_nanos, description) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET date = excluded.date, date_nanos = excluded.date_nanos, description = excluded.description`,
		session.SessionID, session.Date.Unix(), session.Date.Nanosecond(), session.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	// Replace the player rows wholesale; a put is a full replace.
	if _, err := tx.ExecContext(ctx, "DELETE FROM session_players WHERE session_id = ?", session.SessionID); err != nil {
		return fmt.Errorf("failed to clear session players: %w", err)
	}

	for i, p := range session.Players {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO session_players (session_id, position, name, buy_in, cash_out, net)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			session.SessionID, i, p.Name, p.BuyIn.Minor(), p.CashOut.Minor(), p.Net.Minor(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert session player: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID, including all players.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	var sec, nsec int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, date, date_nanos, description FROM sessions WHERE id = ?",
		sessionID,
	).Scan(&session.SessionID, &sec, &nsec, &session.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	session.Date = time.Unix(sec, nsec).UTC()

	players, err := s.players(ctx, "WHERE session_id = ?", sessionID)
	if err != nil {
		return nil, err
	}
	session.Players = players[sessionID]

	return session, nil
}

// GetAllSessions returns every session, newest first.
func (s *SQLiteStore) GetAllSessions(ctx context.Context) ([]*models.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, date_nanos, description FROM sessions ORDER BY date DESC, date_nanos DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.Session{}
	for rows.Next() {
		session := &models.Session{}
		var sec, nsec int64
		if err := rows.Scan(&session.SessionID, &sec, &nsec, &session.Description); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		session.Date = time.Unix(sec, nsec).UTC()
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	players, err := s.players(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, session := range sessions {
		session.Players = players[session.SessionID]
	}

	return sessions, nil
}

// players loads player rows grouped by session id, in their saved order.
func (s *SQLiteStore) players(ctx context.Context, where string, args ...any) (map[string][]models.SessionPlayer, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT session_id, name, buy_in, cash_out, net FROM session_players "+where+" ORDER BY session_id, position",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get session players: %w", err)
	}
	defer rows.Close()

	bySession := make(map[string][]models.SessionPlayer)
	for rows.Next() {
		var sessionID string
		var p models.SessionPlayer
		var buyIn, cashOut, net int64
		if err := rows.Scan(&sessionID, &p.Name, &buyIn, &cashOut, &net); err != nil {
			return nil, fmt.Errorf("failed to scan session player: %w", err)
		}
		p.BuyIn, p.CashOut, p.Net = money.FromMinor(buyIn), money.FromMinor(cashOut), money.FromMinor(net)
		bySession[sessionID] = append(bySession[sessionID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session players: %w", err)
	}

	return bySession, nil
}

// DeleteSession removes a session and its players.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM session_players WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session players: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
