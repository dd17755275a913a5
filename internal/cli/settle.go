package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/mmynk/pokersplit/internal/calculator"
	"github.com/mmynk/pokersplit/internal/models"
	"github.com/mmynk/pokersplit/internal/service"
)

// settleCmd reads a roster and settles it. With save set it is the "save"
// command and also stores the session.
type settleCmd struct {
	save bool

	file          string
	rounding      string
	strategy      string
	noAutoBalance bool
	share         bool
	desc          string
	date          string
	id            string
}

func (c *settleCmd) Name() string {
	if c.save {
		return "save"
	}
	return "settle"
}

func (c *settleCmd) Synopsis() string {
	if c.save {
		return "settle a roster and store it as a session"
	}
	return "compute who pays whom from a roster of buy-ins and cash-outs"
}

func (c *settleCmd) Usage() string {
	return fmt.Sprintf(`pokersplit %s [-f <file>] [-rounding 0.01|0.05|1] [-strategy largest|order|proportional]

  Reads one player per line from the file (or stdin):

    name; buy-in; cash-out

  Fields may be separated by ';', ',', '|' or a tab, so amounts must use
  '.' as the decimal separator. A missing cash-out counts as zero.
`, c.Name())
}

func (c *settleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "-", "Roster file; - reads stdin.")
	f.StringVar(&c.rounding, "rounding", "", "Rounding step (0.01, 0.05 or 1). Defaults to ROUNDING.")
	f.StringVar(&c.strategy, "strategy", "", "Settlement strategy (largest, order, proportional). Defaults to STRATEGY.")
	f.BoolVar(&c.noAutoBalance, "no-auto-balance", false, "Leave rounding remainders unabsorbed.")
	f.BoolVar(&c.share, "share", false, "Print the chat-friendly share text instead of a table.")
	if c.save {
		f.StringVar(&c.desc, "desc", "", "Session description. Generated from the player names when empty.")
		f.StringVar(&c.date, "date", "", "Session date (YYYY-MM-DD). Defaults to now.")
		f.StringVar(&c.id, "id", "", "Session ID; reusing an ID replaces that session.")
	}
}

func (c *settleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	entries, err := readRoster(c.file)
	if err != nil {
		return fail(err)
	}

	req := service.SaveRequest{
		CalculateRequest: service.CalculateRequest{
			Entries:  entries,
			Rounding: c.rounding,
			Strategy: c.strategy,
		},
		SessionID:   c.id,
		Description: c.desc,
	}
	if c.noAutoBalance {
		off := false
		req.AutoBalance = &off
	}
	if c.date != "" {
		if req.Date, err = time.Parse(time.DateOnly, c.date); err != nil {
			return fail(fmt.Errorf("invalid -date: %w", err))
		}
	}

	return withService(ctx, func(ctx context.Context, svc *service.LedgerService) error {
		if c.share {
			text, err := svc.Share(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(stdout, text)
			return nil
		}

		if !c.save {
			calc, err := svc.Calculate(ctx, req.CalculateRequest)
			if err != nil {
				return err
			}
			printMarkdown(settlementMarkdown(calc, svc.Currency()))
			return nil
		}

		session, calc, err := svc.SaveSession(ctx, req)
		if err != nil {
			return err
		}
		printMarkdown(settlementMarkdown(calc, svc.Currency()))
		fmt.Fprintf(stdout, "\nSaved session %s (%s)\n", session.SessionID, session.Description)
		return nil
	})
}

func readRoster(file string) ([]models.ParticipantEntry, error) {
	var r io.Reader = stdin
	if file != "-" && file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open roster: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	entries := calculator.ParseRoster(string(data))
	if len(entries) == 0 {
		return nil, fmt.Errorf("roster has no players")
	}
	return entries, nil
}
