// Package labels maps categorical stat codes to display names.
package labels

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind formats and parses one categorical field.
type Kind interface {
	Format(v uint16) string
	Parse(s string) (uint16, error)
}

// Raw is the kind used when no label list is available: plain integers.
type Raw struct{}

func (Raw) Format(v uint16) string { return strconv.Itoa(int(v)) }

func (Raw) Parse(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 16)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return uint16(v), nil
}

// Enum resolves codes through a label list. Codes past the end of the list
// are shown as numbers, and numbers are always accepted.
type Enum struct {
	Labels []string
}

func (e Enum) Format(v uint16) string {
	if int(v) < len(e.Labels) {
		return e.Labels[v]
	}
	return strconv.Itoa(int(v))
}

func (e Enum) Parse(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	for i, l := range e.Labels {
		if strings.EqualFold(l, s) {
			return uint16(i), nil
		}
	}
	return Raw{}.Parse(s)
}

// Set holds the kind of every labelled field.
type Set struct {
	Races      Kind
	Attributes Kind
	Types      Kind
	SpellRaces Kind
	Artwork    Kind
}

// RawSet returns a Set with every field raw.
func RawSet() Set {
	return Set{Races: Raw{}, Attributes: Raw{}, Types: Raw{}, SpellRaces: Raw{}, Artwork: Raw{}}
}

// Label list file names inside a labels directory.
const (
	RacesFile      = "races.txt"
	AttributesFile = "attributes.txt"
	TypesFile      = "types.txt"
	SpellRacesFile = "spell_trap_races.txt"
	ArtworkFile    = "artwork.txt"
)

// Load reads the label lists in dir. A missing file leaves that field raw;
// an unreadable one is an error.
func Load(dir string) (Set, error) {
	set := RawSet()
	if dir == "" {
		return set, nil
	}
	for _, f := range []struct {
		name string
		dst  *Kind
	}{
		{RacesFile, &set.Races},
		{AttributesFile, &set.Attributes},
		{TypesFile, &set.Types},
		{SpellRacesFile, &set.SpellRaces},
		{ArtworkFile, &set.Artwork},
	} {
		lines, err := readLines(filepath.Join(dir, f.name))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return set, fmt.Errorf("error reading label file %s: %w", f.name, err)
		}
		if len(lines) > 0 {
			*f.dst = Enum{Labels: lines}
		}
	}
	return set, nil
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var out []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}
