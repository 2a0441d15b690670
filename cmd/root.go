package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cardrom",
	Short: "Tool for inspecting and editing card game data images",
	Long: `Cardrom is a command-line tool for reading and editing the card, deck and pack
records of a fixed-layout game data image. Edited records are written back with
their text and list data relocated as needed, and the lookup tables derived
from them rebuilt.

The image layout defaults to the known release and can be overridden in the
[layout] section of the config file (XDG_CONFIG_HOME/cardrom/config.toml).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log record relocations and table rebuilds")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
