package rom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFindFree(t *testing.T) {
	tests := []struct {
		name string
		img  []byte
		size int
		want int
	}{
		{"empty arena", make([]byte, 8), 3, 1},
		{"skips short run", []byte{'a', 0, 0, 'b', 0, 0, 0, 0}, 3, 5},
		{"exact run at end", []byte{'a', 'b', 'c', 'd', 'e', 0, 0, 0}, 3, 6},
		{"no run", []byte{'a', 0, 'b', 0, 'c', 0, 'd', 0}, 2, -1},
		{"zero size", make([]byte, 8), 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := textArena{base: 0, limit: len(tt.img)}
			assert.Equal(t, tt.want, a.findFree(tt.img, tt.size))
		})
	}
}

func TestTextFindFreeHonoursLimit(t *testing.T) {
	img := []byte{'a', 'b', 0, 0, 0, 0, 0, 0}
	a := textArena{base: 0, limit: 4}
	assert.Equal(t, -1, a.findFree(img, 3))
	assert.Equal(t, 3, a.findFree(img, 2))
}

func TestTextWriteBoundsError(t *testing.T) {
	img := make([]byte, 8)
	a := textArena{base: 0, limit: 8}
	txt := &Text{Value: "1234567", Addr: -1}

	err := a.write(img, txt, RecordRef{Kind: KindCard, Index: 3}, "name")
	var berr *BoundsError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 3, berr.Index)
	assert.Equal(t, 1, berr.Offset)
	assert.Equal(t, 8, berr.Length)
	assert.Equal(t, make([]byte, 8), img)
}

func TestTextCharset(t *testing.T) {
	assert.Equal(t, []byte("Dark Magician"), encodeText("Dark Magician"))
	assert.Equal(t, []byte{'C', 0xE9, '?', '?'}, encodeText("Cé\x00☃"))
	raw := []byte{'A', 0x80, 0xFF}
	assert.Equal(t, raw, encodeText(decodeText(raw)))
}

func TestBlobFindWindowMissesSmallAndMisalignedGaps(t *testing.T) {
	img := make([]byte, 40)
	fill(img, blobFree)
	// used: 0..5 and 12..13; a six byte gap at 6..11 starts off alignment
	for _, i := range []int{0, 1, 2, 3, 4, 5, 12, 13} {
		img[i] = 0
	}
	a := blobArena{start: 0, end: len(img), align: 4}
	assert.Equal(t, 16, a.findWindow(img, 6))
	assert.Equal(t, 8, a.findWindow(img, 4))
	assert.Equal(t, -1, a.findWindow(img, 25))
}

func TestBlobFindWindowAlignsStart(t *testing.T) {
	img := make([]byte, 32)
	fill(img, blobFree)
	a := blobArena{start: 5, end: len(img), align: 4}
	assert.Equal(t, 8, a.findWindow(img, 4))
}

func TestBlobWritePadsShrinkage(t *testing.T) {
	img := make([]byte, 16)
	fill(img, blobFree)
	copy(img[4:], []byte{1, 2, 3, 4, 5, 6})
	a := blobArena{start: 0, end: 16, align: 4}
	b := &Blob{Offset: 4, Span: 6, ptr: -1}

	require.NoError(t, a.write(img, b, []byte{9, 9}, RecordRef{Kind: KindDeck}))
	assert.Equal(t, []byte{9, 9, 0xFF, 0xFF, 0xFF, 0xFF}, img[4:10])
	assert.Equal(t, 6, b.Span)
}

func TestTableWritesOutsideAreDropped(t *testing.T) {
	img := make([]byte, 8)
	tb := table{Name: "t", Base: 2, Stride: 2, Count: 2}
	tb.putU16(img, 2, 0, 0xBEEF)
	tb.putU16(img, -1, 0, 0xBEEF)
	tb.putU32(img, 1, 0, 0xDEADBEEF)
	assert.Equal(t, make([]byte, 8), img)

	tb.putU16(img, 1, 0, 0x1234)
	assert.Equal(t, uint16(0x1234), tb.u16(img, 1, 0))
}

func TestTableCheck(t *testing.T) {
	img := make([]byte, 10)
	assert.NoError(t, table{Name: "ok", Base: 2, Stride: 4, Count: 2}.check(img))
	assert.NoError(t, table{Name: "absent"}.check(img))

	err := table{Name: "long", Base: 2, Stride: 4, Count: 3}.check(img)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "long", perr.Table)
	assert.Equal(t, 2, perr.Index)
}
