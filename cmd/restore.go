package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/cardrom/internal/backup"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [image]",
	Short: "Restore an image from its last backup",
	Long: `Restore replaces an image with the compressed copy written next to it
(` + "`<image>" + backup.Suffix + "`" + `) before it was last overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := backup.Restore(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", args[0], backup.Path(args[0]))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(restoreCmd)
}
