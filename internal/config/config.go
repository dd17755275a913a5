// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mmynk/pokersplit/internal/money"
	"github.com/mmynk/pokersplit/internal/models"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Config holds everything the server and CLI need to start.
type Config struct {
	DBPath       string
	StoreBackend string
	HTTPAddr     string
	LogLevel     string

	// Currency is an ISO 4217 code used for display only.
	Currency    string
	Rounding    money.Step
	Strategy    models.Strategy
	AutoBalance bool
}

// Load reads .env files (missing files are skipped), then the environment.
// Variables already set in the environment win over .env values.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		DBPath:       getEnv("DB_PATH", "./data/sessions.db"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite)),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Currency:     strings.ToUpper(getEnv("CURRENCY", "EUR")),
	}

	var err error
	if cfg.Rounding, err = money.ParseStep(getEnv("ROUNDING", "0.01")); err != nil {
		return nil, fmt.Errorf("invalid ROUNDING: %w", err)
	}
	if cfg.Strategy, err = models.ParseStrategy(getEnv("STRATEGY", string(models.StrategyLargestFirst))); err != nil {
		return nil, fmt.Errorf("invalid STRATEGY: %w", err)
	}
	if cfg.AutoBalance, err = strconv.ParseBool(getEnv("AUTO_BALANCE", "true")); err != nil {
		return nil, fmt.Errorf("invalid AUTO_BALANCE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendSQLite, BackendBolt:
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q: want %s or %s", c.StoreBackend, BackendSQLite, BackendBolt)
	}
	if c.DBPath == "" {
		return errors.New("DB_PATH must not be empty")
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("invalid CURRENCY %q: want an ISO 4217 code", c.Currency)
	}
	if c.Rounding <= 0 {
		return fmt.Errorf("invalid rounding step %d", c.Rounding)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
