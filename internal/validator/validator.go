package validator

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/arcanaland/cardrom/internal/rom"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

type Validator struct {
	Session *rom.Session
	Results ValidationResults
}

func NewValidator(s *rom.Session) *Validator {
	return &Validator{
		Session: s,
		Results: ValidationResults{},
	}
}

func (v *Validator) Validate() (ValidationResults, error) {
	if v.Session == nil {
		return v.Results, fmt.Errorf("no image loaded")
	}

	v.validateText()
	v.validateIdentifiers()
	v.validatePasswords()
	v.validateBlobs()
	v.validateDeckContents()
	if err := v.validateRoundTrip(); err != nil {
		return v.Results, err
	}

	return v.Results, nil
}

func (v *Validator) errorf(format string, args ...any) {
	v.Results.Errors = append(v.Results.Errors, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...any) {
	v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf(format, args...))
}

// validateText checks every text slot lies inside the text arena
func (v *Validator) validateText() {
	l := v.Session.Layout()
	for _, c := range v.Session.Cards() {
		for _, t := range []struct {
			field string
			text  rom.Text
		}{{"name", c.Name}, {"description", c.Desc}} {
			if t.text.Addr < l.TextBase || t.text.Addr+t.text.Slot > l.TextLimit {
				v.errorf("card %d %s at 0x%X (%d bytes) is outside the text arena", c.Index, t.field, t.text.Addr, t.text.Slot)
			}
		}
		if c.Name.Value == "" {
			v.warnf("card %d has an empty name", c.Index)
		}
	}
}

// validateIdentifiers checks identifiers fall inside the identifier table and
// links point at real cards
func (v *Validator) validateIdentifiers() {
	l := v.Session.Layout()
	n := len(v.Session.Cards())
	unlinked := []string{}
	for _, c := range v.Session.Cards() {
		pos := int(c.Stats.ID) - l.IDBase
		if l.IDTableCount > 0 && (pos < 0 || pos >= l.IDTableCount) {
			v.errorf("card %d identifier %d is outside the identifier table", c.Index, c.Stats.ID)
			continue
		}
		switch {
		case c.Link == l.NoCard:
			unlinked = append(unlinked, fmt.Sprint(c.Index))
		case int(c.Link) >= n:
			v.errorf("card %d links to card %d, past the last card %d", c.Index, c.Link, n-1)
		}
	}
	if len(unlinked) > 0 {
		v.warnf("cards without an identifier link: %s", strings.Join(unlinked, ", "))
	}
}

// validatePasswords reports passwords shared by several cards
func (v *Validator) validatePasswords() {
	owners := map[uint32][]int{}
	for _, c := range v.Session.Cards() {
		if c.Password > rom.MaxPassword {
			v.errorf("card %d password %d has more than 8 digits", c.Index, c.Password)
			continue
		}
		if c.Password != 0 {
			owners[c.Password] = append(owners[c.Password], c.Index)
		}
	}
	for _, c := range v.Session.Cards() {
		idx := owners[c.Password]
		if len(idx) > 1 && idx[0] == c.Index {
			v.warnf("password %s is shared by cards %v; only card %d is reachable by password",
				rom.FormatPassword(c.Password), idx, idx[0])
		}
	}
}

// validateBlobs checks deck and pack blobs are aligned and inside the blob arena
func (v *Validator) validateBlobs() {
	l := v.Session.Layout()
	check := func(ref rom.RecordRef, b rom.Blob) {
		if b.Offset < 0 {
			return
		}
		if b.Offset < l.BlobArenaStart || b.Offset+b.Span > l.BlobArenaEnd {
			v.warnf("%s blob at 0x%X is outside the blob arena; it will not be reused", ref, b.Offset)
		}
		if l.BlobAlign > 1 && b.Offset%l.BlobAlign != 0 {
			v.warnf("%s blob at 0x%X is not %d-byte aligned", ref, b.Offset, l.BlobAlign)
		}
	}
	for _, d := range v.Session.Decks() {
		check(rom.RecordRef{Kind: rom.KindDeck, Index: d.Index}, d.Blob)
	}
	for _, p := range v.Session.Packs() {
		check(rom.RecordRef{Kind: rom.KindPack, Index: p.Index}, p.Blob)
	}
}

// validateDeckContents reports deck and pack entries that resolve to no card
func (v *Validator) validateDeckContents() {
	missing := func(ids []uint16) []string {
		out := []string{}
		for _, id := range ids {
			if _, err := v.Session.Resolve(id); err != nil {
				out = append(out, fmt.Sprint(id))
			}
		}
		return out
	}
	for _, d := range v.Session.Decks() {
		ids := append(append([]uint16{}, d.Main...), d.Extra...)
		if m := missing(ids); len(m) > 0 {
			v.warnf("deck %d lists identifiers without a card: %s", d.Index, strings.Join(m, ", "))
		}
	}
	for _, p := range v.Session.Packs() {
		ids := make([]uint16, len(p.Contents))
		for i, e := range p.Contents {
			ids[i] = e.ID
		}
		if m := missing(ids); len(m) > 0 {
			v.warnf("pack %d lists identifiers without a card: %s", p.Index, strings.Join(m, ", "))
		}
	}
}

// validateRoundTrip saves a fresh load of the committed image and compares
// the result with the image itself
func (v *Validator) validateRoundTrip() error {
	img := v.Session.Bytes()
	fresh, err := rom.Load(img, rom.WithLayout(v.Session.Layout()))
	if err != nil {
		return fmt.Errorf("error reloading image: %w", err)
	}
	out, err := fresh.Save()
	if err != nil {
		var aerr *rom.AllocationError
		if errors.As(err, &aerr) {
			v.errorf("unmodified save needs to relocate: %v", err)
			return nil
		}
		v.errorf("unmodified save failed: %v", err)
		return nil
	}
	if !bytes.Equal(img, out) {
		first := 0
		for first < len(img) && img[first] == out[first] {
			first++
		}
		v.errorf("unmodified save is not byte-identical; first difference at 0x%X", first)
	}
	return nil
}
