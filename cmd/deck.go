package cmd

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardrom/internal/rom"
)

// deckCmd represents the deck command group
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Inspect and edit deck lists",
	Long:  `Commands for the preset deck lists stored in the image.`,
}

var deckListCmd = &cobra.Command{
	Use:   "ls [image]",
	Short: "List the decks of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openImage(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(s.Decks()) == 0 {
			fmt.Fprintln(out, "No decks configured for this layout.")
			return nil
		}
		for _, d := range s.Decks() {
			fmt.Fprintf(out, "%5d  main %-3d extra %-3d at %s\n",
				d.Index, len(d.Main), len(d.Extra), hexSpan(d.Blob.Offset, d.Blob.Span))
		}
		return nil
	},
}

var deckShowCmd = &cobra.Command{
	Use:   "show [image] [deck_index]",
	Short: "Display the contents of a deck",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openImage(args[0])
		if err != nil {
			return err
		}
		idx, err := parseIndex(args[1], len(s.Decks()), rom.KindDeck)
		if err != nil {
			return err
		}
		d := s.Deck(idx)
		out := cmd.OutOrStdout()

		fmt.Fprintln(out)
		fmt.Fprintln(out, colorize.New(colorize.Bold).Sprintf("Deck %d", d.Index))
		field(out, "Header", 8, "%d %d %d %d", d.Header[0], d.Header[1], d.Header[2], d.Header[3])
		field(out, "Stored", 8, "%s", hexSpan(d.Blob.Offset, d.Blob.Span))

		fmt.Fprintln(out, colorize.CyanString("\nMain deck (%d):", len(d.Main)))
		for _, line := range idList(s, d.Main) {
			fmt.Fprintln(out, "  "+line)
		}
		fmt.Fprintln(out, colorize.CyanString("\nExtra deck (%d):", len(d.Extra)))
		for _, line := range idList(s, d.Extra) {
			fmt.Fprintln(out, "  "+line)
		}
		fmt.Fprintln(out)
		return nil
	},
}

var deckSetCmd = editCommand(rom.KindDeck,
	func(s *rom.Session) int { return len(s.Decks()) },
	"main, extra (comma separated card identifiers), header.0 to header.3")

func init() {
	RootCmd.AddCommand(deckCmd)
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckShowCmd)
	deckCmd.AddCommand(deckSetCmd)
}
