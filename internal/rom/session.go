// Package rom loads a fixed-layout game image into editable records and
// writes them back, relocating text and blobs when they outgrow their slots.
package rom

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/arcanaland/cardrom/internal/labels"
)

// Session owns one image and the records parsed from it. It is not safe for
// concurrent use.
type Session struct {
	layout Layout
	kinds  labels.Set
	log    *slog.Logger

	img      []byte
	text     textArena
	blobs    blobArena
	cards    []*Card
	artworks []*Artwork
	decks    []*Deck
	packs    []*Pack

	// secondary maps secondary stat rows to the card index they belong to.
	secondary map[int]int
}

// Option configures a Session.
type Option func(*Session)

// WithLayout sets the image layout. DefaultLayout is used otherwise.
func WithLayout(l Layout) Option {
	return func(s *Session) { s.layout = l }
}

// WithLabels sets the label kinds used by SetField and Format.
func WithLabels(k labels.Set) Option {
	return func(s *Session) { s.kinds = k }
}

// WithLogger sets the logger for relocation events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Load parses data into a new session. The session keeps its own copy of data.
func Load(data []byte, opts ...Option) (*Session, error) {
	s := &Session{
		layout: DefaultLayout(),
		kinds:  labels.RawSet(),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.img = append([]byte(nil), data...)
	s.text = textArena{base: s.layout.TextBase, limit: s.layout.TextLimit, log: s.log}
	s.blobs = blobArena{
		start:  s.layout.BlobArenaStart,
		end:    s.layout.BlobArenaEnd,
		align:  s.layout.BlobAlign,
		device: s.layout.DeviceBase,
		log:    s.log,
	}

	if err := s.parse(); err != nil {
		return nil, err
	}
	s.log.Info("loaded image",
		slog.Int("size", len(s.img)),
		slog.Int("cards", len(s.cards)),
		slog.Int("decks", len(s.decks)),
		slog.Int("packs", len(s.packs)))
	return s, nil
}

func (s *Session) parse() error {
	l := s.layout
	names, descs := l.textTables()
	for _, t := range []table{
		names, descs, l.statsTable(), l.secondaryTable(), l.idTable(), l.infoTable(),
		l.passwordTable(), l.rankTable(), l.artworkTable(), l.deckTable(), l.packTable(),
	} {
		if err := t.check(s.img); err != nil {
			return err
		}
	}
	if !l.statsTable().present() && l.NumCards > 0 {
		return &ParseError{Table: "stats", Reason: "stats table not configured"}
	}

	stats, info := l.statsTable(), l.infoTable()
	s.cards = make([]*Card, l.NumCards)
	for i := range s.cards {
		name, err := s.text.load(s.img, names, i)
		if err != nil {
			return err
		}
		desc, err := s.text.load(s.img, descs, i)
		if err != nil {
			return err
		}
		c := &Card{
			Index: i,
			Name:  name,
			Desc:  desc,
			Stats: readStats(stats, s.img, i),
		}
		c.Link, _ = l.lookupID(s.img, c.Stats.ID)
		if info.present() {
			var pw [4]byte
			copy(pw[:], info.bytes(s.img, i, 0, 4))
			c.Password = DecodePassword(pw)
			c.Price = info.u32(s.img, i, 4)
		}
		s.cards[i] = c
	}
	s.secondary = l.bindSecondary(s.img, s.cards)

	art := l.artworkTable()
	if art.present() {
		s.artworks = make([]*Artwork, art.Count)
		for i := range s.artworks {
			s.artworks[i] = &Artwork{
				Index:   i,
				Subject: art.u16(s.img, i, 0),
				Variant: art.u16(s.img, i, 2),
			}
		}
	}

	if l.deckTable().present() {
		s.decks = make([]*Deck, l.NumDecks)
		for i := range s.decks {
			d, err := s.parseDeck(s.img, i)
			if err != nil {
				return err
			}
			s.decks[i] = d
		}
	}
	if l.packTable().present() {
		s.packs = make([]*Pack, l.NumPacks)
		for i := range s.packs {
			p, err := s.parsePack(s.img, i)
			if err != nil {
				return err
			}
			s.packs[i] = p
		}
	}
	return nil
}

// Layout returns the layout the session was loaded with.
func (s *Session) Layout() Layout { return s.layout }

// Labels returns the label kinds of the session.
func (s *Session) Labels() labels.Set { return s.kinds }

// Bytes returns a copy of the committed image.
func (s *Session) Bytes() []byte {
	return append([]byte(nil), s.img...)
}

// Cards returns the card records in index order.
func (s *Session) Cards() []*Card { return s.cards }

// Artworks returns the artwork records in index order.
func (s *Session) Artworks() []*Artwork { return s.artworks }

// Decks returns the deck records in index order.
func (s *Session) Decks() []*Deck { return s.decks }

// Packs returns the pack records in index order.
func (s *Session) Packs() []*Pack { return s.packs }

// Card returns the card at index, or nil.
func (s *Session) Card(index int) *Card {
	if index < 0 || index >= len(s.cards) {
		return nil
	}
	return s.cards[index]
}

// Artwork returns the artwork at index, or nil.
func (s *Session) Artwork(index int) *Artwork {
	if index < 0 || index >= len(s.artworks) {
		return nil
	}
	return s.artworks[index]
}

// Deck returns the deck at index, or nil.
func (s *Session) Deck(index int) *Deck {
	if index < 0 || index >= len(s.decks) {
		return nil
	}
	return s.decks[index]
}

// Pack returns the pack at index, or nil.
func (s *Session) Pack(index int) *Pack {
	if index < 0 || index >= len(s.packs) {
		return nil
	}
	return s.packs[index]
}

// Resolve returns the card an identifier maps to in the committed image.
func (s *Session) Resolve(id uint16) (*Card, error) {
	idx, ok := s.layout.lookupID(s.img, id)
	if !ok {
		return nil, ErrNoCard
	}
	c := s.Card(int(idx))
	if c == nil {
		return nil, fmt.Errorf("identifier %d: card index %d out of range: %w", id, idx, ErrNoCard)
	}
	return c, nil
}

// SecondaryRows returns the secondary stat binding: row -> card index.
func (s *Session) SecondaryRows() map[int]int {
	out := make(map[int]int, len(s.secondary))
	for k, v := range s.secondary {
		out[k] = v
	}
	return out
}

// Save writes every record into a private copy of the image, rebuilds the
// derived tables and commits the copy. On error nothing is committed.
func (s *Session) Save() ([]byte, error) {
	img := append([]byte(nil), s.img...)
	cards := cloneCards(s.cards)
	decks := cloneDecks(s.decks)
	packs := clonePacks(s.packs)
	l := s.layout

	for _, c := range cards {
		ref := RecordRef{Kind: KindCard, Index: c.Index}
		if err := s.text.write(img, &c.Name, ref, "name"); err != nil {
			return nil, &SaveError{Ref: ref, Err: err}
		}
		if err := s.text.write(img, &c.Desc, ref, "description"); err != nil {
			return nil, &SaveError{Ref: ref, Err: err}
		}
	}

	stats, info, sec := l.statsTable(), l.infoTable(), l.secondaryTable()
	for _, c := range cards {
		ref := RecordRef{Kind: KindCard, Index: c.Index}
		pw, err := EncodePassword(c.Password)
		if err != nil {
			return nil, &SaveError{Ref: ref, Err: err}
		}
		writeStats(stats, img, c.Index, c.Stats)
		if c.Secondary != nil {
			writeStats(sec, img, c.SecondaryRow, *c.Secondary)
		}
		if info.present() {
			info.putBytes(img, c.Index, 0, pw[:])
			info.putU32(img, c.Index, 4, c.Price)
		}
	}

	art := l.artworkTable()
	for _, a := range s.artworks {
		art.putU16(img, a.Index, 0, a.Subject)
		art.putU16(img, a.Index, 2, a.Variant)
	}

	for _, d := range decks {
		ref := RecordRef{Kind: KindDeck, Index: d.Index}
		enc, err := d.encode()
		if err != nil {
			return nil, &SaveError{Ref: ref, Err: err}
		}
		if err := s.blobs.write(img, &d.Blob, enc, ref); err != nil {
			return nil, &SaveError{Ref: ref, Err: err}
		}
	}
	for _, p := range packs {
		ref := RecordRef{Kind: KindPack, Index: p.Index}
		enc, err := p.encode()
		if err != nil {
			return nil, &SaveError{Ref: ref, Err: err}
		}
		if err := s.blobs.write(img, &p.Blob, enc, ref); err != nil {
			return nil, &SaveError{Ref: ref, Err: err}
		}
		s.writePackHeader(img, p)
	}

	l.writeIDTable(img, cards)
	l.writePasswordTable(img, cards)
	l.writeRanks(img, cards)

	// commit placements and the image together
	for i, c := range cards {
		s.cards[i].Name.Addr, s.cards[i].Name.Slot = c.Name.Addr, c.Name.Slot
		s.cards[i].Desc.Addr, s.cards[i].Desc.Slot = c.Desc.Addr, c.Desc.Slot
	}
	for i, d := range decks {
		s.decks[i].Blob = d.Blob
	}
	for i, p := range packs {
		s.packs[i].Blob = p.Blob
	}
	s.img = img
	s.rebind()

	s.log.Info("saved image", slog.Int("size", len(img)))
	return append([]byte(nil), img...), nil
}

// rebind rebuilds the secondary stat relation against the committed image.
func (s *Session) rebind() {
	for _, c := range s.cards {
		c.Secondary = nil
		c.SecondaryRow = 0
	}
	s.secondary = s.layout.bindSecondary(s.img, s.cards)
}

func cloneCards(in []*Card) []*Card {
	out := make([]*Card, len(in))
	for i, c := range in {
		cc := *c
		out[i] = &cc
	}
	return out
}

func cloneDecks(in []*Deck) []*Deck {
	out := make([]*Deck, len(in))
	for i, d := range in {
		dd := *d
		out[i] = &dd
	}
	return out
}

func clonePacks(in []*Pack) []*Pack {
	out := make([]*Pack, len(in))
	for i, p := range in {
		pp := *p
		out[i] = &pp
	}
	return out
}
