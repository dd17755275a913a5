// Package boltstore provides a BoltDB-backed implementation of the storage.Store interface.
//
// Sessions are kept as JSON documents in a single bucket keyed by session ID.
package boltstore

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/boltdb/bolt"
	"github.com/bytedance/sonic"

	"github.com/mmynk/pokersplit/internal/models"
	"github.com/mmynk/pokersplit/internal/storage"
)

const sessionsBucket = "sessions"

// Ensure BoltStore implements storage.Store
var _ storage.Store = (*BoltStore)(nil)

// BoltStore implements storage.Store using a BoltDB file.
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

// New opens (or creates) the BoltDB file at dbPath.
func New(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// A second process holding the file lock fails fast instead of hanging.
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltStore{db: db, now: time.Now}, nil
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// PutSession inserts or replaces a session.
func (s *BoltStore) PutSession(ctx context.Context, session *models.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	storage.Prepare(session, s.now())

	data, err := sonic.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionsBucket)).Put([]byte(session.SessionID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to put session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *BoltStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var session *models.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(sessionsBucket)).Get([]byte(sessionID))
		if data == nil {
			return fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
		}
		// data is only valid inside the transaction; decoding copies it out.
		var err error
		session, err = decode(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetAllSessions returns every session, newest first.
func (s *BoltStore) GetAllSessions(ctx context.Context) ([]*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sessions := []*models.Session{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionsBucket)).ForEach(func(k, v []byte) error {
			session, err := decode(v)
			if err != nil {
				return fmt.Errorf("session %s: %w", k, err)
			}
			sessions = append(sessions, session)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	slices.SortFunc(sessions, func(a, b *models.Session) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.SessionID, a.SessionID)
	})
	return sessions, nil
}

// DeleteSession removes a session.
func (s *BoltStore) DeleteSession(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sessionsBucket))
		if bucket.Get([]byte(sessionID)) == nil {
			return fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
		}
		if err := bucket.Delete([]byte(sessionID)); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	})
}

func decode(data []byte) (*models.Session, error) {
	var session models.Session
	if err := sonic.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}
