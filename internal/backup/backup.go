// Package backup reads and writes the portable JSON backup document:
//
//	{ "meta": {...}, "sessions": [Session, ...] }
//
// Files written by earlier versions of the app carry different meta keys and
// sometimes omit per-player nets; both are accepted.
package backup

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"

	"github.com/mmynk/pokersplit/internal/models"
)

// ErrNoSessions is returned when a document has no sessions array.
var ErrNoSessions = errors.New("backup has no sessions array")

// AppName identifies documents written by this module.
const AppName = "pokersplit"

// Meta describes where and when a backup was made. It is informational only.
type Meta struct {
	App        string    `json:"app,omitempty"`
	Version    string    `json:"version,omitempty"`
	ExportedAt time.Time `json:"exportedAt"`
	Count      int       `json:"count"`
}

// Document is the top-level backup shape.
type Document struct {
	Meta     *Meta             `json:"meta,omitempty"`
	Sessions []*models.Session `json:"sessions"`
}

// Encode writes sessions as an indented backup document. Count in meta is
// always set from len(sessions).
func Encode(w io.Writer, sessions []*models.Session, meta Meta) error {
	if sessions == nil {
		sessions = []*models.Session{}
	}
	meta.Count = len(sessions)
	if meta.App == "" {
		meta.App = AppName
	}

	data, err := sonic.ConfigStd.MarshalIndent(Document{Meta: &meta, Sessions: sessions}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// Decode reads a backup document. Unknown fields are ignored.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	var raw struct {
		Meta     *Meta              `json:"meta"`
		Sessions *[]*models.Session `json:"sessions"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse backup: %w", err)
	}
	if raw.Sessions == nil {
		return nil, ErrNoSessions
	}

	sessions := make([]*models.Session, 0, len(*raw.Sessions))
	for _, s := range *raw.Sessions {
		if s != nil {
			sessions = append(sessions, s)
		}
	}
	return &Document{Meta: raw.Meta, Sessions: sessions}, nil
}

// FileName is the conventional download name for a backup taken at t.
func FileName(t time.Time) string {
	return "poker_backup_" + t.Format(time.DateOnly) + ".json"
}
