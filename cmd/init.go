package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arcanaland/cardrom/internal/config"
	"github.com/arcanaland/cardrom/internal/labels"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the config file and label directory",
	Long: `Init writes the default config file if it does not exist yet and creates the
label directory with empty label lists. Fill a list with one label per line to
show and accept names instead of raw numbers for that field.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Config file initialized at:", config.GetConfigFilePath())

		dir := cfg.LabelsDir
		if dir == "" {
			dir = config.GetDefaultLabelsDir()
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating label directory: %w", err)
		}
		for _, name := range []string{
			labels.RacesFile,
			labels.AttributesFile,
			labels.TypesFile,
			labels.SpellRacesFile,
			labels.ArtworkFile,
		} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				continue
			}
			if err := os.WriteFile(path, nil, 0644); err != nil {
				return fmt.Errorf("error creating %s: %w", name, err)
			}
		}
		fmt.Fprintln(out, "Label directory initialized at:", dir)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
