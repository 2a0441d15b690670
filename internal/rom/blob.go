package rom

import (
	"bytes"
	"encoding/binary"
	"log/slog"
)

// blobFree marks unused bytes of the blob arena.
const blobFree = 0xFF

// blobArena is the 0xFF-filled region holding deck lists and pack contents.
// Pointer cells hold absolute device addresses.
type blobArena struct {
	start  int
	end    int
	align  int
	device uint32
	log    *slog.Logger
}

func (a blobArena) present() bool {
	return a.end > a.start
}

// resolve converts the absolute pointer stored at ptr into a file offset.
func (a blobArena) resolve(img []byte, ptr int) (int, bool) {
	if ptr < 0 || ptr+ptrSize > len(img) {
		return -1, false
	}
	abs := binary.LittleEndian.Uint32(img[ptr:])
	if abs < a.device {
		return -1, false
	}
	off := int(abs - a.device)
	if off >= len(img) {
		return -1, false
	}
	return off, true
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// findWindow tests aligned candidates for a window of size bytes that is
// entirely free. Free gaps smaller than size, or starting off alignment, are
// never merged with their neighbours.
func (a blobArena) findWindow(img []byte, size int) int {
	end := min(a.end, len(img))
	step := max(a.align, 1)
	for addr := alignUp(a.start, a.align); addr+size <= end; addr += step {
		if allFree(img[addr : addr+size]) {
			return addr
		}
	}
	return -1
}

func allFree(b []byte) bool {
	for _, c := range b {
		if c != blobFree {
			return false
		}
	}
	return true
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}

// write stores enc for the blob, in place when it fits the current span.
func (a blobArena) write(img []byte, b *Blob, enc []byte, ref RecordRef) error {
	valid := b.Offset >= 0 && b.Offset+b.Span <= len(img)
	if valid && len(enc) <= b.Span {
		copy(img[b.Offset:], enc)
		fill(img[b.Offset+len(enc):b.Offset+b.Span], blobFree)
		return nil
	}
	if len(enc) == 0 {
		return nil
	}

	addr := a.findWindow(img, len(enc))
	if addr < 0 {
		return &AllocationError{Kind: ref.Kind, Index: ref.Index, Field: "blob", Needed: len(enc)}
	}
	if addr+len(enc) > len(img) {
		return &BoundsError{Kind: ref.Kind, Index: ref.Index, Offset: addr, Length: len(enc), Size: len(img)}
	}
	if valid {
		fill(img[b.Offset:b.Offset+b.Span], blobFree)
	}
	copy(img[addr:], enc)
	if b.ptr >= 0 && b.ptr+ptrSize <= len(img) {
		binary.LittleEndian.PutUint32(img[b.ptr:], uint32(addr)+a.device)
	}
	if a.log != nil {
		a.log.Debug("relocated blob",
			slog.String("record", ref.String()),
			slog.Int("from", b.Offset),
			slog.Int("to", addr),
			slog.Int("size", len(enc)))
	}
	b.Offset = addr
	b.Span = len(enc)
	return nil
}

func putU16s(buf *bytes.Buffer, vs ...uint16) {
	var tmp [2]byte
	for _, v := range vs {
		binary.LittleEndian.PutUint16(tmp[:], v)
		buf.Write(tmp[:])
	}
}
