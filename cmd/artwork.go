package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/cardrom/internal/rom"
)

var artworkCmd = &cobra.Command{
	Use:   "artwork",
	Short: "Inspect and edit artwork label slots",
}

var artworkListCmd = &cobra.Command{
	Use:   "ls [image]",
	Short: "List the artwork slots of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openImage(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(s.Artworks()) == 0 {
			fmt.Fprintln(out, "No artwork table configured for this layout.")
			return nil
		}
		for _, a := range s.Artworks() {
			fmt.Fprintf(out, "%5d  %-24s %s\n", a.Index, s.FormatLabel(a.Subject), s.FormatLabel(a.Variant))
		}
		return nil
	},
}

var artworkSetCmd = editCommand(rom.KindArtwork,
	func(s *rom.Session) int { return len(s.Artworks()) },
	"subject, variant (label or none)")

func init() {
	RootCmd.AddCommand(artworkCmd)
	artworkCmd.AddCommand(artworkListCmd)
	artworkCmd.AddCommand(artworkSetCmd)
}
