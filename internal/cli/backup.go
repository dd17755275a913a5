package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/mmynk/pokersplit/internal/backup"
	"github.com/mmynk/pokersplit/internal/service"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write every session to a JSON backup file" }
func (*exportCmd) Usage() string {
	return `pokersplit export [-o <file>]

  Writes poker_backup_YYYY-MM-DD.json in the current directory unless -o is
  given. Use -o - to write to stdout.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file; - writes to stdout.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withService(ctx, func(ctx context.Context, svc *service.LedgerService) error {
		if c.output == "-" {
			return svc.Export(ctx, stdout)
		}

		name := c.output
		if name == "" {
			name = backup.FileName(time.Now())
		}
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create backup file: %w", err)
		}
		if err := svc.Export(ctx, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close backup file: %w", err)
		}
		fmt.Fprintf(stdout, "Backup written to %s\n", name)
		return nil
	})
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "merge sessions from JSON backup files" }
func (*importCmd) Usage() string {
	return `pokersplit import <file>...

  Sessions whose ID already exists are replaced; new ones are added.
  Use - to read a backup from stdin.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withService(ctx, func(ctx context.Context, svc *service.LedgerService) error {
		for _, name := range f.Args() {
			if err := importFile(ctx, svc, name); err != nil {
				return err
			}
		}
		return nil
	})
}

func importFile(ctx context.Context, svc *service.LedgerService, name string) error {
	var r io.Reader = stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open backup: %w", err)
		}
		defer f.Close()
		r = f
	}

	result, err := svc.Import(ctx, r)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	fmt.Fprintf(stdout, "%s: %d new, %d updated\n", name, result.Added, result.Updated)
	return nil
}
