package rom

import (
	"encoding/binary"
	"log/slog"

	"golang.org/x/text/encoding/charmap"
)

// Text lives in a zero-filled arena. Pointer cells hold offsets relative to
// the arena base.

var textCharset = charmap.ISO8859_1

// encodeText maps s onto the single-byte charset. Runes outside the charset,
// and NUL, become '?'.
func encodeText(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := textCharset.EncodeRune(r)
		if !ok || b == 0 {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

func decodeText(b []byte) string {
	rs := make([]rune, len(b))
	for i, c := range b {
		rs[i] = textCharset.DecodeByte(c)
	}
	return string(rs)
}

type textArena struct {
	base  int
	limit int
	log   *slog.Logger
}

func (a textArena) end(img []byte) int {
	return min(a.limit, len(img))
}

// read loads the NUL-terminated string at addr. The string stops at the
// arena limit when no terminator is found.
func (a textArena) read(img []byte, addr int) ([]byte, bool) {
	end := a.end(img)
	if addr < a.base || addr >= end {
		return nil, false
	}
	pos := addr
	for pos < end && img[pos] != 0 {
		pos++
	}
	return img[addr:pos], true
}

// load parses the text referenced by the pointer cell of row index in t.
func (a textArena) load(img []byte, t table, index int) (Text, error) {
	ptr := t.row(index)
	rel := int(t.u32(img, index, 0))
	addr := a.base + rel
	raw, ok := a.read(img, addr)
	if !ok {
		return Text{}, &ParseError{Table: t.Name, Index: index, Offset: ptr, Reason: "text address outside arena"}
	}
	return Text{
		Value: decodeText(raw),
		Addr:  addr,
		Slot:  len(raw) + 1,
		ptr:   ptr,
	}, nil
}

// findFree returns the first address after the start of a zero run of at
// least size bytes, or -1. The returned address is run start + 1: the first
// zero of the run is left as a separator.
func (a textArena) findFree(img []byte, size int) int {
	if size <= 0 {
		return -1
	}
	end := a.end(img)
	runStart, runLen := -1, 0
	for addr := a.base; addr < end; addr++ {
		if img[addr] != 0 {
			runStart, runLen = -1, 0
			continue
		}
		if runStart < 0 {
			runStart = addr
		}
		runLen++
		if runLen >= size {
			return runStart + 1
		}
	}
	return -1
}

// write stores t.Value into img, relocating it when it no longer fits its
// slot. t is updated with the new placement.
func (a textArena) write(img []byte, t *Text, ref RecordRef, field string) error {
	enc := encodeText(t.Value)
	needed := len(enc) + 1

	addr := t.Addr
	inPlace := needed <= t.Slot && addr >= 0 && addr < len(img)
	if !inPlace {
		addr = a.findFree(img, needed)
		if addr < 0 {
			return &AllocationError{Kind: ref.Kind, Index: ref.Index, Field: field, Needed: needed}
		}
	}
	if addr < 0 || addr+needed > len(img) {
		return &BoundsError{Kind: ref.Kind, Index: ref.Index, Offset: addr, Length: needed, Size: len(img)}
	}

	if inPlace {
		copy(img[addr:], enc)
		img[addr+len(enc)] = 0
		// clear the unused tail of the slot, never beyond it
		tail := min(addr+t.Slot, len(img))
		clear(img[addr+needed : max(tail, addr+needed)])
		// the cleared tail is free space now
		t.Slot = needed
		return nil
	}

	clear(img[addr : addr+needed])
	if t.Addr >= 0 && t.Addr < len(img) {
		clear(img[t.Addr:min(t.Addr+t.Slot, len(img))])
	}
	copy(img[addr:], enc)
	img[addr+len(enc)] = 0

	if t.ptr >= 0 && t.ptr+ptrSize <= len(img) {
		binary.LittleEndian.PutUint32(img[t.ptr:], uint32(addr-a.base))
	}
	if a.log != nil {
		a.log.Debug("relocated text",
			slog.String("record", ref.String()),
			slog.String("field", field),
			slog.Int("from", t.Addr),
			slog.Int("to", addr),
			slog.Int("size", needed))
	}
	t.Addr = addr
	t.Slot = needed
	return nil
}
