// Package cli implements the hell-bot admin command tree. It is the
// command-layer adapter around the economy core: it parses arguments,
// opens the store and calls one engine operation per invocation. It
// performs no permission checks of its own; whoever can reach the admin
// binary is trusted, the same way the bot's dispatcher hands the core
// pre-authorized identities.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/GrigorijsPerec/hell-bot/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DBPath  string
	Verbose bool
}

// NewRootCommand creates the root command for the hell-bot admin CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "hell-bot",
		Short:        "hell-bot - community economy and moderation backend",
		Long:         "Admin tooling for the hell-bot economy core: balances, fines, identity links, parties and the spreadsheet export.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "bot.db", "path to the sqlite database")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewBalanceCommand(opts))
	cmd.AddCommand(NewFineCommand(opts))
	cmd.AddCommand(NewLinkCommand(opts))
	cmd.AddCommand(NewPartyCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// openStore opens the sqlite database named by the global --db flag.
// Callers own the returned store and must close it.
func openStore(opts *RootOptions) (*store.Store, error) {
	return store.Open(opts.DBPath)
}
