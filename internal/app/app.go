// Package app wires configuration to a store and a ledger service. The
// server and the CLI share it so both open the same database the same way.
package app

import (
	"fmt"
	"log/slog"

	"github.com/mmynk/pokersplit/internal/config"
	"github.com/mmynk/pokersplit/internal/service"
	"github.com/mmynk/pokersplit/internal/storage"
	"github.com/mmynk/pokersplit/internal/storage/boltstore"
	"github.com/mmynk/pokersplit/internal/storage/sqlite"
)

// OpenStore opens the backend named by cfg.StoreBackend at cfg.DBPath.
func OpenStore(cfg *config.Config) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		store, err = sqlite.New(cfg.DBPath)
	case config.BackendBolt:
		store, err = boltstore.New(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("Storage initialized", "backend", cfg.StoreBackend, "database", cfg.DBPath)
	return store, nil
}

// NewService builds a LedgerService with the configured defaults.
func NewService(cfg *config.Config, store storage.Store) *service.LedgerService {
	return service.NewLedgerService(store, service.Options{
		Rounding:    cfg.Rounding,
		Strategy:    cfg.Strategy,
		AutoBalance: cfg.AutoBalance,
		Currency:    cfg.Currency,
	})
}
