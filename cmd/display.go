package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	colorize "github.com/fatih/color"
	"golang.org/x/term"

	"github.com/arcanaland/cardrom/internal/rom"
)

// termWidth returns the width of stdout, or 80 when it is not a terminal.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// field prints one "Label: value" line with the label padded to pad.
func field(w io.Writer, label string, pad int, format string, args ...any) {
	fmt.Fprintln(w, colorize.CyanString("%-*s", pad, label+":")+" "+colorize.HiWhiteString(format, args...))
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	var result []string
	var currentLine string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			result = append(result, "")
			continue
		}
		currentLine = ""
		for _, word := range words {
			if len(currentLine) == 0 {
				currentLine = word
			} else if len(currentLine)+1+len(word) <= width {
				currentLine += " " + word
			} else {
				result = append(result, currentLine)
				currentLine = word
			}
		}
		result = append(result, currentLine)
	}
	return result
}

// stripAnsi removes ANSI escape sequences from a string
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}

// idList renders identifiers, resolving each to a card name when possible.
func idList(s *rom.Session, ids []uint16) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if c, err := s.Resolve(id); err == nil {
			out[i] = fmt.Sprintf("%d %s", id, c.Name.Value)
		} else {
			out[i] = fmt.Sprintf("%d %s", id, colorize.YellowString("(no card)"))
		}
	}
	return out
}

func hexSpan(addr, size int) string {
	if addr < 0 {
		return "unplaced"
	}
	return fmt.Sprintf("0x%X (%d bytes)", addr, size)
}
