// Package service binds the pure calculator to a session store. It is the
// only layer that logs, records metrics or touches persistence.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/pokersplit/internal/backup"
	"github.com/mmynk/pokersplit/internal/calculator"
	"github.com/mmynk/pokersplit/internal/metrics"
	"github.com/mmynk/pokersplit/internal/models"
	"github.com/mmynk/pokersplit/internal/money"
	"github.com/mmynk/pokersplit/internal/storage"
)

// Version is stamped into backups. Overridden at build time with -ldflags.
var Version = "dev"

var (
	// ErrInvalidInput marks request errors the caller can fix.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoPlayers is returned when saving a session with no player rows.
	ErrNoPlayers = errors.New("session has no players")
)

// Options are the defaults applied when a request leaves a setting empty.
type Options struct {
	Rounding    money.Step
	Strategy    models.Strategy
	AutoBalance bool
	Currency    string

	// Picker chooses the auto-balance entry; nil picks at random.
	Picker calculator.Picker
}

// LedgerService runs calculations and manages saved sessions.
type LedgerService struct {
	store storage.Store
	opts  Options
	now   func() time.Time
}

// NewLedgerService creates a LedgerService with the given storage backend.
func NewLedgerService(store storage.Store, opts Options) *LedgerService {
	if opts.Rounding == 0 {
		opts.Rounding = money.Cent
	}
	if opts.Strategy == "" {
		opts.Strategy = models.StrategyLargestFirst
	}
	if opts.Currency == "" {
		opts.Currency = "EUR"
	}
	return &LedgerService{store: store, opts: opts, now: time.Now}
}

// Currency is the display currency code.
func (s *LedgerService) Currency() string { return s.opts.Currency }

// CalculateRequest is one calculator screen. Empty settings use the service defaults.
type CalculateRequest struct {
	Entries     []models.ParticipantEntry `json:"entries"`
	Rounding    string                    `json:"rounding,omitempty"`
	Strategy    string                    `json:"strategy,omitempty"`
	AutoBalance *bool                     `json:"autoBalance,omitempty"`
}

// Calculation is the normalized table plus its settlement.
type Calculation struct {
	Entries    []models.NormalizedEntry `json:"entries"`
	Total      money.Amount             `json:"total"`
	Adjusted   int                      `json:"adjusted"`
	Settlement models.SettlementResult  `json:"settlement"`
	Rounding   string                   `json:"rounding"`
	Strategy   models.Strategy          `json:"strategy"`
}

// Calculate normalizes the entries and settles them. Malformed amounts count
// as zero; only unknown settings are rejected.
func (s *LedgerService) Calculate(ctx context.Context, req CalculateRequest) (*Calculation, error) {
	step := s.opts.Rounding
	if req.Rounding != "" {
		var err error
		if step, err = money.ParseStep(req.Rounding); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	strategy := s.opts.Strategy
	if req.Strategy != "" {
		var err error
		if strategy, err = models.ParseStrategy(req.Strategy); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	autoBalance := s.opts.AutoBalance
	if req.AutoBalance != nil {
		autoBalance = *req.AutoBalance
	}

	norm := calculator.Normalize(req.Entries, step, autoBalance, s.opts.Picker)
	result := calculator.Settle(norm.Entries, step, strategy)

	metrics.Settlements.WithLabelValues(string(strategy)).Inc()
	metrics.TransfersPerSettlement.Observe(float64(len(result.Transfers)))
	if norm.Adjusted >= 0 {
		metrics.AutoBalanceAdjustments.Inc()
	}
	if !result.Balanced() {
		metrics.UnbalancedSettlements.Inc()
	}

	slog.DebugContext(ctx, "Settlement calculated",
		"entries", len(norm.Entries),
		"strategy", strategy,
		"rounding", step,
		"transfers", len(result.Transfers),
		"residual", result.Residual,
		"adjusted", norm.Adjusted,
	)

	return &Calculation{
		Entries:    norm.Entries,
		Total:      norm.Total,
		Adjusted:   norm.Adjusted,
		Settlement: result,
		Rounding:   step.String(),
		Strategy:   strategy,
	}, nil
}

// SaveRequest is a calculation to persist. Empty SessionID, Date or
// Description are generated by the store.
type SaveRequest struct {
	CalculateRequest
	SessionID   string    `json:"sessionId,omitempty"`
	Date        time.Time `json:"date,omitzero"`
	Description string    `json:"desc,omitempty"`
}

// SaveSession calculates and stores the session. Rows with no name and no
// amounts are dropped; a row with amounts but no name is saved as "Player N".
func (s *LedgerService) SaveSession(ctx context.Context, req SaveRequest) (*models.Session, *Calculation, error) {
	calc, err := s.Calculate(ctx, req.CalculateRequest)
	if err != nil {
		return nil, nil, err
	}

	session := &models.Session{
		SessionID:   req.SessionID,
		Date:        req.Date,
		Description: strings.TrimSpace(req.Description),
		Players:     sessionPlayers(calc.Entries),
	}
	if len(session.Players) == 0 {
		return nil, nil, ErrNoPlayers
	}

	if err := s.store.PutSession(ctx, session); err != nil {
		metrics.StoreErrors.WithLabelValues("put").Inc()
		slog.ErrorContext(ctx, "Failed to save session", "error", err)
		return nil, nil, err
	}
	metrics.SessionsSaved.Inc()

	slog.InfoContext(ctx, "Session saved",
		"session_id", session.SessionID,
		"players", len(session.Players),
		"balanced", calc.Settlement.Balanced(),
	)
	return session, calc, nil
}

func sessionPlayers(entries []models.NormalizedEntry) []models.SessionPlayer {
	players := make([]models.SessionPlayer, 0, len(entries))
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" && e.BuyIn.IsZero() && e.CashOut.IsZero() {
			continue
		}
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		players = append(players, models.SessionPlayer{
			Name:    name,
			BuyIn:   e.BuyIn,
			CashOut: e.CashOut,
			Net:     e.Net,
		})
	}
	return players
}

// GetSession returns one saved session.
func (s *LedgerService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		metrics.StoreErrors.WithLabelValues("get").Inc()
	}
	return session, err
}

// ListSessions returns every saved session, newest first.
func (s *LedgerService) ListSessions(ctx context.Context) ([]*models.Session, error) {
	sessions, err := s.store.GetAllSessions(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		slog.ErrorContext(ctx, "Failed to list sessions", "error", err)
		return nil, err
	}
	return sessions, nil
}

// DeleteSession removes a saved session.
func (s *LedgerService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		if !errors.Is(err, storage.ErrSessionNotFound) {
			metrics.StoreErrors.WithLabelValues("delete").Inc()
			slog.ErrorContext(ctx, "Failed to delete session", "session_id", sessionID, "error", err)
		}
		return err
	}
	slog.InfoContext(ctx, "Session deleted", "session_id", sessionID)
	return nil
}

// Stats aggregates the whole session history.
func (s *LedgerService) Stats(ctx context.Context) (calculator.Report, error) {
	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return calculator.Report{}, err
	}
	return calculator.Aggregate(sessions), nil
}

// PlayerTrend is the running total of one player across the history.
func (s *LedgerService) PlayerTrend(ctx context.Context, name string) ([]calculator.TrendPoint, error) {
	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	return calculator.PlayerTrend(sessions, name), nil
}

// Share renders a calculation as chat-friendly text.
func (s *LedgerService) Share(ctx context.Context, req SaveRequest) (string, error) {
	calc, err := s.Calculate(ctx, req.CalculateRequest)
	if err != nil {
		return "", err
	}
	date := req.Date
	if date.IsZero() {
		date = s.now()
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		desc = "Poker night"
	}
	return calculator.ShareText(desc, date, calc.Entries, calc.Settlement, s.opts.Currency), nil
}

// ImportResult counts sessions written by Import.
type ImportResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// Import upserts every session in a backup document. A session whose ID is
// already stored replaces it.
func (s *LedgerService) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var result ImportResult

	doc, err := backup.Decode(r)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	existing, err := s.ListSessions(ctx)
	if err != nil {
		return result, err
	}
	known := make(map[string]bool, len(existing))
	for _, session := range existing {
		known[session.SessionID] = true
	}

	for _, session := range doc.Sessions {
		wasKnown := session.SessionID != "" && known[session.SessionID]
		if err := s.store.PutSession(ctx, session); err != nil {
			metrics.StoreErrors.WithLabelValues("put").Inc()
			slog.ErrorContext(ctx, "Import aborted", "session_id", session.SessionID, "error", err)
			return result, fmt.Errorf("failed to import session %s: %w", session.SessionID, err)
		}
		known[session.SessionID] = true
		if wasKnown {
			result.Updated++
			metrics.SessionsImported.WithLabelValues("updated").Inc()
		} else {
			result.Added++
			metrics.SessionsImported.WithLabelValues("added").Inc()
		}
	}

	slog.InfoContext(ctx, "Backup imported", "added", result.Added, "updated", result.Updated)
	return result, nil
}

// Export writes every saved session as a backup document.
func (s *LedgerService) Export(ctx context.Context, w io.Writer) error {
	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return err
	}
	meta := backup.Meta{Version: Version, ExportedAt: s.now().UTC()}
	if err := backup.Encode(w, sessions, meta); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Backup exported", "sessions", len(sessions))
	return nil
}
