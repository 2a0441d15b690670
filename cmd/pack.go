package cmd

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardrom/internal/rom"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Inspect and edit booster packs",
}

var packListCmd = &cobra.Command{
	Use:   "ls [image]",
	Short: "List the packs of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openImage(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(s.Packs()) == 0 {
			fmt.Fprintln(out, "No packs configured for this layout.")
			return nil
		}
		for _, p := range s.Packs() {
			fmt.Fprintf(out, "%5d  cost %-5d %d per pack, %d cards\n", p.Index, p.Cost, p.PerPack, p.Total())
		}
		return nil
	},
}

var packShowCmd = &cobra.Command{
	Use:   "show [image] [pack_index]",
	Short: "Display the header and contents of a pack",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openImage(args[0])
		if err != nil {
			return err
		}
		idx, err := parseIndex(args[1], len(s.Packs()), rom.KindPack)
		if err != nil {
			return err
		}
		p := s.Pack(idx)
		out := cmd.OutOrStdout()
		const pad = 9

		fmt.Fprintln(out)
		fmt.Fprintln(out, colorize.New(colorize.Bold).Sprintf("Pack %d", p.Index))
		field(out, "Cost", pad, "%d", p.Cost)
		field(out, "Per pack", pad, "%d", p.PerPack)
		field(out, "Opaque", pad, "%d %d", p.Opaque[0], p.Opaque[1])
		field(out, "Padding", pad, "%d", p.Padding)
		field(out, "Stored", pad, "%s", hexSpan(p.Blob.Offset, p.Blob.Span))

		ids := make([]uint16, len(p.Contents))
		for i, e := range p.Contents {
			ids[i] = e.ID
		}
		fmt.Fprintln(out, colorize.CyanString("\nContents (%d):", p.Total()))
		for i, line := range idList(s, ids) {
			fmt.Fprintf(out, "  [%d] %s\n", p.Contents[i].Category, line)
		}
		fmt.Fprintln(out)
		return nil
	},
}

var packSetCmd = editCommand(rom.KindPack,
	func(s *rom.Session) int { return len(s.Packs()) },
	"contents (comma separated id:category pairs), cost, per_pack, opaque.0, opaque.1, padding")

func init() {
	RootCmd.AddCommand(packCmd)
	packCmd.AddCommand(packListCmd)
	packCmd.AddCommand(packShowCmd)
	packCmd.AddCommand(packSetCmd)
}
