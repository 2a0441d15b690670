package rom

import (
	"bytes"
	"strconv"
)

// Pack header row offsets.
const (
	packCost    = 0x0
	packPerPack = 0x2
	packTotal   = 0x4
	packOpaque  = 0x6
	packPadding = 0xA
	packPtr     = 0xC
)

func (s *Session) parsePack(img []byte, index int) (*Pack, error) {
	t := s.layout.packTable()
	p := &Pack{
		Index:   index,
		Cost:    t.u16(img, index, packCost),
		PerPack: t.u16(img, index, packPerPack),
		Opaque:  [2]uint16{t.u16(img, index, packOpaque), t.u16(img, index, packOpaque+2)},
		Padding: t.u16(img, index, packPadding),
	}
	total := int(t.u16(img, index, packTotal))
	ptr := t.row(index) + packPtr

	off, ok := s.blobs.resolve(img, ptr)
	if !ok {
		if total == 0 {
			p.Blob = Blob{Offset: -1, ptr: ptr}
			return p, nil
		}
		return nil, &ParseError{Table: t.Name, Index: index, Offset: ptr, Reason: "contents pointer outside image"}
	}

	r := &blobReader{img: img, pos: off}
	p.Contents = make([]PackEntry, total)
	for i := range p.Contents {
		p.Contents[i] = PackEntry{ID: r.u16(), Category: r.u16()}
	}
	if r.bad {
		return nil, &ParseError{Table: "pack contents", Index: index, Offset: off}
	}
	p.Blob = Blob{Offset: off, Span: 4 * total, ptr: ptr}
	return p, nil
}

func (p *Pack) encode() ([]byte, error) {
	if len(p.Contents) > 0xFFFF {
		return nil, &EncodingError{Field: "pack total", Value: strconv.Itoa(len(p.Contents))}
	}
	var buf bytes.Buffer
	buf.Grow(p.Size())
	for _, e := range p.Contents {
		putU16s(&buf, e.ID, e.Category)
	}
	return buf.Bytes(), nil
}

func (s *Session) writePackHeader(img []byte, p *Pack) {
	t := s.layout.packTable()
	t.putU16(img, p.Index, packCost, p.Cost)
	t.putU16(img, p.Index, packPerPack, p.PerPack)
	t.putU16(img, p.Index, packTotal, uint16(p.Total()))
	t.putU16(img, p.Index, packOpaque, p.Opaque[0])
	t.putU16(img, p.Index, packOpaque+2, p.Opaque[1])
	t.putU16(img, p.Index, packPadding, p.Padding)
}
