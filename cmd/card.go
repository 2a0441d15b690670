package cmd

import (
	"fmt"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardrom/internal/rom"
)

// cardCmd represents the card command group
var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Inspect and edit card records",
}

var cardListCmd = &cobra.Command{
	Use:   "ls [image]",
	Short: "List the cards of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openImage(args[0])
		if err != nil {
			return err
		}
		filter, _ := cmd.Flags().GetString("filter")
		filter = strings.ToLower(filter)

		out := cmd.OutOrStdout()
		shown := 0
		for _, c := range s.Cards() {
			if filter != "" && !strings.Contains(strings.ToLower(c.Name.Value), filter) {
				continue
			}
			fmt.Fprintf(out, "%5d  %s  %s  %s\n",
				c.Index,
				colorize.HiBlackString("#%-5d", c.Stats.ID),
				rom.FormatPassword(c.Password),
				colorize.HiWhiteString("%s", c.Name.Value))
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "No cards found.")
		}
		return nil
	},
}

var cardShowCmd = &cobra.Command{
	Use:   "show [image] [card_index]",
	Short: "Display every field of a card",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openImage(args[0])
		if err != nil {
			return err
		}
		idx, err := parseIndex(args[1], len(s.Cards()), rom.KindCard)
		if err != nil {
			return err
		}
		displayCard(cmd, s, s.Card(idx))
		return nil
	},
}

var cardLookupCmd = &cobra.Command{
	Use:   "lookup [image] [password]",
	Short: "Find the card a password unlocks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openImage(args[0])
		if err != nil {
			return err
		}
		pw, err := rom.ParsePassword(args[1])
		if err != nil {
			return err
		}
		id, ok := s.LookupPassword(pw)
		if !ok {
			return fmt.Errorf("no card uses password %s", rom.FormatPassword(pw))
		}
		c, err := s.Resolve(id)
		if err != nil {
			return fmt.Errorf("password %s: %w", rom.FormatPassword(pw), err)
		}
		displayCard(cmd, s, c)
		return nil
	},
}

var cardSetCmd = editCommand(rom.KindCard,
	func(s *rom.Session) int { return len(s.Cards()) },
	"name, desc, link (card index or none), password, price, "+
		strings.Join(rom.StatFieldNames(), ", ")+
		", and secondary.<stat> for cards with a secondary stat row")

func displayCard(cmd *cobra.Command, s *rom.Session, c *rom.Card) {
	out := cmd.OutOrStdout()
	const pad = 10

	header := fmt.Sprintf("%s  #%d", c.Name.Value, c.Index)
	fmt.Fprintln(out)
	fmt.Fprintln(out, colorize.New(colorize.Bold).Sprint(header))
	fmt.Fprintln(out, strings.Repeat("─", len([]rune(stripAnsi(header)))))

	field(out, "ID", pad, "%d", c.Stats.ID)
	if c.Link == s.Layout().NoCard {
		field(out, "Link", pad, "none")
	} else {
		field(out, "Link", pad, "card %d", c.Link)
	}
	field(out, "Password", pad, "%s", rom.FormatPassword(c.Password))
	field(out, "Price", pad, "%d", c.Price)
	for _, name := range rom.StatFieldNames() {
		if name == "id" {
			continue
		}
		field(out, name, pad, "%s", s.FormatStat(&c.Stats, name))
	}

	if c.Secondary != nil {
		fmt.Fprintln(out)
		fmt.Fprintln(out, colorize.CyanString("Secondary stats (row %d):", c.SecondaryRow))
		for _, name := range rom.StatFieldNames() {
			field(out, "  "+name, pad+2, "%s", s.FormatStat(c.Secondary, name))
		}
	}

	if verbose {
		field(out, "Name at", pad, "%s", hexSpan(c.Name.Addr, c.Name.Slot))
		field(out, "Desc at", pad, "%s", hexSpan(c.Desc.Addr, c.Desc.Slot))
	}

	if c.Desc.Value != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, colorize.CyanString("Description:"))
		for _, line := range wrapText(c.Desc.Value, termWidth()-4) {
			fmt.Fprintln(out, "  "+line)
		}
	}
	fmt.Fprintln(out)
}

func init() {
	RootCmd.AddCommand(cardCmd)
	cardCmd.AddCommand(cardListCmd)
	cardCmd.AddCommand(cardShowCmd)
	cardCmd.AddCommand(cardLookupCmd)
	cardCmd.AddCommand(cardSetCmd)

	cardListCmd.Flags().StringP("filter", "f", "", "Only list cards whose name contains this text")
}
