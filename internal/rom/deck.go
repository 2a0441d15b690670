package rom

import (
	"bytes"
	"encoding/binary"
)

// blobReader reads little-endian halfwords from the image and records the
// first overrun.
type blobReader struct {
	img []byte
	pos int
	bad bool
}

func (r *blobReader) u16() uint16 {
	if r.bad || r.pos < 0 || r.pos+2 > len(r.img) {
		r.bad = true
		return 0
	}
	v := binary.LittleEndian.Uint16(r.img[r.pos:])
	r.pos += 2
	return v
}

func (r *blobReader) list(n int) []uint16 {
	if r.pos+2*n > len(r.img) {
		r.bad = true
		return nil
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = r.u16()
	}
	return out
}

func (s *Session) parseDeck(img []byte, index int) (*Deck, error) {
	t := s.layout.deckTable()
	ptr := t.row(index)
	off, ok := s.blobs.resolve(img, ptr)
	if !ok {
		return nil, &ParseError{Table: t.Name, Index: index, Offset: ptr, Reason: "pointer outside image"}
	}

	r := &blobReader{img: img, pos: off}
	d := &Deck{Index: index}
	for i := range d.Header {
		d.Header[i] = r.u16()
	}
	d.Main = r.list(int(r.u16()))
	d.Extra = r.list(int(r.u16()))
	r.u16() // terminator
	if r.bad {
		return nil, &ParseError{Table: "deck", Index: index, Offset: off}
	}
	d.Blob = Blob{Offset: off, Span: r.pos - off, ptr: ptr}
	return d, nil
}

// encode serializes the deck: header, main group, extra group, zero halfword.
func (d *Deck) encode() ([]byte, error) {
	if len(d.Main) > 0xFFFF || len(d.Extra) > 0xFFFF {
		return nil, &EncodingError{Field: "deck size", Value: "too many cards"}
	}
	var buf bytes.Buffer
	buf.Grow(d.Size())
	putU16s(&buf, d.Header[:]...)
	putU16s(&buf, uint16(len(d.Main)))
	putU16s(&buf, d.Main...)
	putU16s(&buf, uint16(len(d.Extra)))
	putU16s(&buf, d.Extra...)
	putU16s(&buf, 0)
	return buf.Bytes(), nil
}
