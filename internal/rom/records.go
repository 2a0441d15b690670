package rom

import "fmt"

// RecordKind names the record families held by a session.
type RecordKind int

const (
	KindCard RecordKind = iota
	KindArtwork
	KindDeck
	KindPack
)

func (k RecordKind) String() string {
	switch k {
	case KindCard:
		return "card"
	case KindArtwork:
		return "artwork"
	case KindDeck:
		return "deck"
	case KindPack:
		return "pack"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// RecordRef addresses one record of a session.
type RecordRef struct {
	Kind  RecordKind
	Index int
}

func (r RecordRef) String() string {
	return fmt.Sprintf("%s %d", r.Kind, r.Index)
}

// Text is a relocatable string: its value plus the slot it currently occupies.
type Text struct {
	Value string
	Addr  int // absolute file offset of the first byte
	Slot  int // bytes reserved, terminator included
	ptr   int // offset of the relative pointer cell
}

// Card is one entry of the card tables.
type Card struct {
	Index int
	Name  Text
	Desc  Text
	Stats Stats

	// Secondary is set when a secondary stat row resolves to this card.
	Secondary    *Stats
	SecondaryRow int

	// Link is the card index stored in the identifier table for Stats.ID.
	// It equals the layout's NoCard sentinel when the identifier has no card.
	Link uint16

	Password uint32
	Price    uint32
}

// SetName replaces the card name.
func (c *Card) SetName(s string) { c.Name.Value = s }

// SetDesc replaces the card description.
func (c *Card) SetDesc(s string) { c.Desc.Value = s }

// Artwork holds two label references for one artwork slot.
type Artwork struct {
	Index   int
	Subject uint16
	Variant uint16
}

// Blob is a relocatable span inside the 0xFF arena.
type Blob struct {
	Offset int // file offset of the first byte, -1 when unplaced
	Span   int // bytes reserved at Offset
	ptr    int // offset of the absolute pointer cell
}

// Deck is a deck list stored in the blob arena.
type Deck struct {
	Index  int
	Blob   Blob
	Header [4]uint16
	Main   []uint16
	Extra  []uint16
}

// Size returns the encoded size of the deck.
func (d *Deck) Size() int {
	return 8 + 2 + 2*len(d.Main) + 2 + 2*len(d.Extra) + 2
}

// PackEntry is one (identifier, category) pair of a pack.
type PackEntry struct {
	ID       uint16
	Category uint16
}

// Pack is a pack header plus its contents blob.
type Pack struct {
	Index    int
	Cost     uint16
	PerPack  uint16
	Opaque   [2]uint16
	Padding  uint16
	Blob     Blob
	Contents []PackEntry
}

// Total is the amount stored in the pack header.
func (p *Pack) Total() int { return len(p.Contents) }

// Size returns the encoded size of the pack contents.
func (p *Pack) Size() int { return 4 * len(p.Contents) }
