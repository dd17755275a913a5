package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/pokersplit/internal/app"
	"github.com/mmynk/pokersplit/internal/config"
	"github.com/mmynk/pokersplit/internal/server"
	"github.com/mmynk/pokersplit/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	store, err := app.OpenStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.StoreBackend, "database", cfg.DBPath)

	svc := app.NewService(cfg, store)

	// Wrap with h2c so HTTP/2 clients work without TLS
	handler := h2c.NewHandler(server.New(svc).Handler(), &http2.Server{})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server starting",
			"address", cfg.HTTPAddr,
			"currency", cfg.Currency,
			"rounding", cfg.Rounding,
			"strategy", cfg.Strategy,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Failed to stop server", "error", err)
		return
	}
	slog.Info("Server stopped gracefully")
}
