package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/mmynk/pokersplit/internal/service"
)

type statsCmd struct {
	player string
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "show the leaderboard and records over all sessions" }
func (*statsCmd) Usage() string {
	return `pokersplit stats [-player <name>]

  Without -player, prints the leaderboard and the all-time records.
  With -player, prints that player's running total session by session.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.player, "player", "", "Show the running total for one player.")
}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withService(ctx, func(ctx context.Context, svc *service.LedgerService) error {
		if c.player != "" {
			points, err := svc.PlayerTrend(ctx, c.player)
			if err != nil {
				return err
			}
			printMarkdown(trendMarkdown(c.player, points, svc.Currency()))
			return nil
		}

		report, err := svc.Stats(ctx)
		if err != nil {
			return err
		}
		printMarkdown(statsMarkdown(report, svc.Currency()))
		return nil
	})
}
