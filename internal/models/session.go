package models

import (
	"encoding/json"
	"time"

	"github.com/mmynk/pokersplit/internal/money"
)

// Session is one saved poker night.
//
// The JSON shape matches the backup files written by earlier versions of the
// app, so those files import unchanged.
type Session struct {
	// SessionID is unique across the store. Putting a session with an existing
	// ID replaces it.
	SessionID string `json:"sessionId"`

	Date time.Time `json:"date"`

	Description string `json:"desc"`

	Players []SessionPlayer `json:"players"`
}

// SessionPlayer is one player's raw record within a session.
type SessionPlayer struct {
	Name    string       `json:"name"`
	BuyIn   money.Amount `json:"buyin"`
	CashOut money.Amount `json:"end"`
	Net     money.Amount `json:"net"`
}

// UnmarshalJSON also reads the description from the "description" key used by
// some older backups.
func (s *Session) UnmarshalJSON(data []byte) error {
	type plain Session
	var raw struct {
		plain
		LegacyDescription string `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Session(raw.plain)
	if s.Description == "" {
		s.Description = raw.LegacyDescription
	}
	return nil
}

// UnmarshalJSON derives Net from the raw figures when a record has none.
func (p *SessionPlayer) UnmarshalJSON(data []byte) error {
	type plain SessionPlayer
	var raw struct {
		plain
		Net *money.Amount `json:"net"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = SessionPlayer(raw.plain)
	if raw.Net != nil {
		p.Net = *raw.Net
	} else {
		p.Net = p.CashOut - p.BuyIn
	}
	return nil
}

// Stake is the total bought in during the session.
func (s *Session) Stake() money.Amount {
	var total money.Amount
	for _, p := range s.Players {
		total += p.BuyIn
	}
	return total
}

// Player returns the record for name, if that name played.
func (s *Session) Player(name string) (SessionPlayer, bool) {
	for _, p := range s.Players {
		if p.Name == name {
			return p, true
		}
	}
	return SessionPlayer{}, false
}
