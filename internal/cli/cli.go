// Package cli implements the pokersplit subcommands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"

	"github.com/mmynk/pokersplit/internal/app"
	"github.com/mmynk/pokersplit/internal/config"
	"github.com/mmynk/pokersplit/internal/service"
	"github.com/mmynk/pokersplit/internal/storage"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&settleCmd{}, "calculator")
	c.Register(&settleCmd{save: true}, "calculator")

	c.Register(&sessionsCmd{}, "history")
	c.Register(&deleteCmd{}, "history")
	c.Register(&statsCmd{}, "history")

	c.Register(&exportCmd{}, "backup")
	c.Register(&importCmd{}, "backup")
}

var (
	dbPath  = flag.String("db", "", "Path to the session database (overrides DB_PATH)")
	backend = flag.String("backend", "", "Store backend, sqlite or bolt (overrides STORE_BACKEND)")
	rawOut  = flag.Bool("raw", false, "Print plain markdown even on a terminal")
)

// stdout and stdin are swapped out by tests.
var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *backend != "" {
		cfg.StoreBackend = *backend
	}
	return cfg, cfg.Validate()
}

// openService opens the configured store. The caller must close the store.
func openService() (*service.LedgerService, storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := app.OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return app.NewService(cfg, store), store, nil
}

// printMarkdown renders md for the terminal, or writes it as-is when output
// is redirected.
func printMarkdown(md string) {
	if *rawOut || !isTerminal(stdout) {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}

// withService opens the store, runs fn and closes the store.
func withService(ctx context.Context, fn func(ctx context.Context, svc *service.LedgerService) error) subcommands.ExitStatus {
	svc, store, err := openService()
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	if err := fn(ctx, svc); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
