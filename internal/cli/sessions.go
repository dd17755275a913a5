package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/mmynk/pokersplit/internal/service"
)

type sessionsCmd struct {
	limit int
}

func (*sessionsCmd) Name() string     { return "sessions" }
func (*sessionsCmd) Synopsis() string { return "list saved sessions, newest first" }
func (*sessionsCmd) Usage() string {
	return `pokersplit sessions [-n <count>]

  Lists saved sessions with their players and results.
`
}

func (c *sessionsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 0, "Show at most n sessions (0 shows all).")
}

func (c *sessionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withService(ctx, func(ctx context.Context, svc *service.LedgerService) error {
		sessions, err := svc.ListSessions(ctx)
		if err != nil {
			return err
		}
		if c.limit > 0 && len(sessions) > c.limit {
			sessions = sessions[:c.limit]
		}
		printMarkdown(sessionsMarkdown(sessions, svc.Currency()))
		return nil
	})
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete saved sessions by ID" }
func (*deleteCmd) Usage() string {
	return `pokersplit delete <session-id>...
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withService(ctx, func(ctx context.Context, svc *service.LedgerService) error {
		for _, id := range f.Args() {
			if err := svc.DeleteSession(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Deleted %s\n", id)
		}
		return nil
	})
}
