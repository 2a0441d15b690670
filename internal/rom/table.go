package rom

import "encoding/binary"

// table is a fixed-stride array of records at a known base address.
type table struct {
	Name   string
	Base   int
	Stride int
	Count  int
}

func (t table) present() bool {
	return t.Base > 0 && t.Count > 0 && t.Stride > 0
}

func (t table) row(index int) int {
	return t.Base + index*t.Stride
}

// fits reports whether width bytes at field offset of row index lie inside
// both the table and the image.
func (t table) fits(img []byte, index, field, width int) bool {
	if index < 0 || index >= t.Count || field < 0 || field+width > t.Stride {
		return false
	}
	off := t.row(index) + field
	return off >= 0 && off+width <= len(img)
}

// check returns a ParseError when any row of the table extends past img.
func (t table) check(img []byte) error {
	if !t.present() {
		return nil
	}
	last := t.Count - 1
	if end := t.row(last) + t.Stride; end > len(img) {
		// report the first row that does not fit
		first := (len(img) - t.Base) / t.Stride
		if first < 0 {
			first = 0
		}
		return &ParseError{Table: t.Name, Index: first, Offset: t.row(first)}
	}
	return nil
}

func (t table) u16(img []byte, index, field int) uint16 {
	if !t.fits(img, index, field, 2) {
		return 0
	}
	off := t.row(index) + field
	return binary.LittleEndian.Uint16(img[off:])
}

func (t table) u32(img []byte, index, field int) uint32 {
	if !t.fits(img, index, field, 4) {
		return 0
	}
	off := t.row(index) + field
	return binary.LittleEndian.Uint32(img[off:])
}

func (t table) bytes(img []byte, index, field, n int) []byte {
	if !t.fits(img, index, field, n) {
		return nil
	}
	off := t.row(index) + field
	return img[off : off+n]
}

// Writes outside the table are dropped: tables never grow.

func (t table) putU16(img []byte, index, field int, v uint16) {
	if !t.fits(img, index, field, 2) {
		return
	}
	binary.LittleEndian.PutUint16(img[t.row(index)+field:], v)
}

func (t table) putU32(img []byte, index, field int, v uint32) {
	if !t.fits(img, index, field, 4) {
		return
	}
	binary.LittleEndian.PutUint32(img[t.row(index)+field:], v)
}

func (t table) putBytes(img []byte, index, field int, b []byte) {
	if !t.fits(img, index, field, len(b)) {
		return
	}
	copy(img[t.row(index)+field:], b)
}

// Stats is the fixed-width stat struct shared by the primary and secondary
// stat tables.
type Stats struct {
	ID        uint16
	Artwork   uint16
	Flags     uint16
	Attack    uint16
	Defense   uint16
	Level     uint16
	Race      uint16
	Attribute uint16
	Kind      uint16
	SpellRace uint16
	Padding   uint16
}

func (s *Stats) fields() []*uint16 {
	return []*uint16{
		&s.ID, &s.Artwork, &s.Flags, &s.Attack, &s.Defense, &s.Level,
		&s.Race, &s.Attribute, &s.Kind, &s.SpellRace, &s.Padding,
	}
}

func readStats(t table, img []byte, index int) Stats {
	var s Stats
	for i, f := range s.fields() {
		*f = t.u16(img, index, i*2)
	}
	return s
}

func writeStats(t table, img []byte, index int, s Stats) {
	for i, f := range s.fields() {
		t.putU16(img, index, i*2, *f)
	}
}
