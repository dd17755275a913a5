// Command pokersplit settles poker nights and keeps their history from the
// command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/mmynk/pokersplit/internal/cli"
	"github.com/mmynk/pokersplit/pkg/logging"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander)

	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()
	logging.Setup(*logLevel)

	os.Exit(int(commander.Execute(context.Background())))
}
