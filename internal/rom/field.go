package rom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arcanaland/cardrom/internal/labels"
)

// statField describes one halfword of the stat struct.
type statField struct {
	name string
	get  func(*Stats) *uint16
	kind func(labels.Set) labels.Kind
}

func raw(labels.Set) labels.Kind { return labels.Raw{} }

var statFields = []statField{
	{"id", func(s *Stats) *uint16 { return &s.ID }, raw},
	{"artwork", func(s *Stats) *uint16 { return &s.Artwork }, raw},
	{"flags", func(s *Stats) *uint16 { return &s.Flags }, raw},
	{"atk", func(s *Stats) *uint16 { return &s.Attack }, raw},
	{"def", func(s *Stats) *uint16 { return &s.Defense }, raw},
	{"level", func(s *Stats) *uint16 { return &s.Level }, raw},
	{"race", func(s *Stats) *uint16 { return &s.Race }, func(k labels.Set) labels.Kind { return k.Races }},
	{"attribute", func(s *Stats) *uint16 { return &s.Attribute }, func(k labels.Set) labels.Kind { return k.Attributes }},
	{"type", func(s *Stats) *uint16 { return &s.Kind }, func(k labels.Set) labels.Kind { return k.Types }},
	{"spell_race", func(s *Stats) *uint16 { return &s.SpellRace }, func(k labels.Set) labels.Kind { return k.SpellRaces }},
	{"padding", func(s *Stats) *uint16 { return &s.Padding }, raw},
}

func lookupStat(name string) (statField, bool) {
	for _, f := range statFields {
		if f.name == name {
			return f, true
		}
	}
	return statField{}, false
}

// StatFieldNames lists the stat fields accepted by SetField, in struct order.
func StatFieldNames() []string {
	out := make([]string, len(statFields))
	for i, f := range statFields {
		out[i] = f.name
	}
	return out
}

// FormatStat renders a stat field with the session's label kinds.
func (s *Session) FormatStat(st *Stats, field string) string {
	f, ok := lookupStat(field)
	if !ok {
		return ""
	}
	return kindOrRaw(f.kind(s.kinds)).Format(*f.get(st))
}

func kindOrRaw(k labels.Kind) labels.Kind {
	if k == nil {
		return labels.Raw{}
	}
	return k
}

// SetField parses value and assigns it to the named field of the referenced
// record. The change stays in memory until Save.
func (s *Session) SetField(ref RecordRef, field, value string) error {
	switch ref.Kind {
	case KindCard:
		c := s.Card(ref.Index)
		if c == nil {
			return fmt.Errorf("%s: no such record", ref)
		}
		return s.setCardField(c, field, value)
	case KindArtwork:
		a := s.Artwork(ref.Index)
		if a == nil {
			return fmt.Errorf("%s: no such record", ref)
		}
		return s.setArtworkField(a, field, value)
	case KindDeck:
		d := s.Deck(ref.Index)
		if d == nil {
			return fmt.Errorf("%s: no such record", ref)
		}
		return setDeckField(d, field, value)
	case KindPack:
		p := s.Pack(ref.Index)
		if p == nil {
			return fmt.Errorf("%s: no such record", ref)
		}
		return setPackField(p, field, value)
	}
	return fmt.Errorf("%s: unknown record kind", ref)
}

func (s *Session) setCardField(c *Card, field, value string) error {
	switch field {
	case "name":
		c.SetName(value)
		return nil
	case "desc", "description":
		c.SetDesc(value)
		return nil
	case "link":
		if value == "none" {
			c.Link = s.layout.NoCard
			return nil
		}
		v, err := parseU16(field, value)
		if err != nil {
			return err
		}
		c.Link = v
		return nil
	case "password":
		v, err := ParsePassword(value)
		if err != nil {
			return err
		}
		c.Password = v
		return nil
	case "price":
		v, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			return &EncodingError{Field: field, Value: value}
		}
		c.Price = uint32(v)
		return nil
	}

	target := &c.Stats
	name := field
	if rest, ok := strings.CutPrefix(field, "secondary."); ok {
		if c.Secondary == nil {
			return fmt.Errorf("card %d has no secondary stats", c.Index)
		}
		target, name = c.Secondary, rest
	}
	f, ok := lookupStat(name)
	if !ok {
		return fmt.Errorf("unknown card field %q", field)
	}
	v, err := kindOrRaw(f.kind(s.kinds)).Parse(value)
	if err != nil {
		return &EncodingError{Field: field, Value: value}
	}
	*f.get(target) = v
	if target == &c.Stats && name == "id" {
		// follow the identifier table entry of the new identifier
		c.Link, _ = s.layout.lookupID(s.img, v)
	}
	return nil
}

func (s *Session) setArtworkField(a *Artwork, field, value string) error {
	var dst *uint16
	switch field {
	case "subject":
		dst = &a.Subject
	case "variant":
		dst = &a.Variant
	default:
		return fmt.Errorf("unknown artwork field %q", field)
	}
	if value == "none" {
		*dst = s.layout.NoLabel
		return nil
	}
	v, err := kindOrRaw(s.kinds.Artwork).Parse(value)
	if err != nil {
		return &EncodingError{Field: field, Value: value}
	}
	*dst = v
	return nil
}

// FormatLabel renders an artwork label reference.
func (s *Session) FormatLabel(v uint16) string {
	if v == s.layout.NoLabel {
		return "none"
	}
	return kindOrRaw(s.kinds.Artwork).Format(v)
}

func setDeckField(d *Deck, field, value string) error {
	switch field {
	case "main", "extra":
		ids, err := ParseIDList(value)
		if err != nil {
			return err
		}
		if field == "main" {
			d.Main = ids
		} else {
			d.Extra = ids
		}
		return nil
	}
	if rest, ok := strings.CutPrefix(field, "header."); ok {
		i, err := strconv.Atoi(rest)
		if err != nil || i < 0 || i >= len(d.Header) {
			return fmt.Errorf("unknown deck field %q", field)
		}
		v, err := parseU16(field, value)
		if err != nil {
			return err
		}
		d.Header[i] = v
		return nil
	}
	return fmt.Errorf("unknown deck field %q", field)
}

func setPackField(p *Pack, field, value string) error {
	if field == "contents" {
		entries, err := ParsePackContents(value)
		if err != nil {
			return err
		}
		p.Contents = entries
		return nil
	}
	var dst *uint16
	switch field {
	case "cost":
		dst = &p.Cost
	case "per_pack":
		dst = &p.PerPack
	case "opaque.0":
		dst = &p.Opaque[0]
	case "opaque.1":
		dst = &p.Opaque[1]
	case "padding":
		dst = &p.Padding
	default:
		return fmt.Errorf("unknown pack field %q", field)
	}
	v, err := parseU16(field, value)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func parseU16(field, value string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(value), 0, 16)
	if err != nil {
		return 0, &EncodingError{Field: field, Value: value}
	}
	return uint16(v), nil
}

// ParseIDList parses a comma separated list of identifiers. An empty string
// is an empty list.
func ParseIDList(value string) ([]uint16, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return []uint16{}, nil
	}
	parts := strings.Split(value, ",")
	out := make([]uint16, len(parts))
	for i, p := range parts {
		v, err := parseU16("identifier", p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ParsePackContents parses "id:category" pairs separated by commas.
func ParsePackContents(value string) ([]PackEntry, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return []PackEntry{}, nil
	}
	parts := strings.Split(value, ",")
	out := make([]PackEntry, len(parts))
	for i, p := range parts {
		id, cat, ok := strings.Cut(p, ":")
		if !ok {
			return nil, &EncodingError{Field: "pack entry", Value: p}
		}
		idv, err := parseU16("identifier", id)
		if err != nil {
			return nil, err
		}
		catv, err := parseU16("category", cat)
		if err != nil {
			return nil, err
		}
		out[i] = PackEntry{ID: idv, Category: catv}
	}
	return out, nil
}
