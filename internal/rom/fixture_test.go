package rom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testImageSize = 0x1000

func testLayout() Layout {
	return Layout{
		NumCards:           8,
		NamePtrBase:        0x000,
		DescPtrBase:        0x020,
		StatsBase:          0x040,
		StatsStride:        statsSize,
		IDTableBase:        0x100,
		IDBase:             100,
		IDTableCount:       16,
		NoCard:             0xFFFF,
		InfoBase:           0x120,
		InfoStride:         8,
		PasswordTableBase:  0x160,
		PasswordTableCount: 8,
		RankBase:           0x1A0,
		RankExcludeStart:   6,
		RankExcludeEnd:     8,
		ArtworkBase:        0x1B0,
		ArtworkCount:       4,
		NoLabel:            0xFFFF,
		SecondaryBase:      0x1C0,
		SecondaryCount:     2,
		DeckPtrBase:        0x200,
		NumDecks:           2,
		PackBase:           0x210,
		NumPacks:           1,
		TextBase:           0x400,
		TextLimit:          0x600,
		BlobArenaStart:     0x800,
		BlobArenaEnd:       0x900,
		BlobAlign:          4,
		DeviceBase:         0x08000000,
	}
}

type fixtureCard struct {
	name     string
	desc     string
	id       uint16
	password uint32
}

var fixtureCards = []fixtureCard{
	{"Blue Dragon", "A legendary dragon.", 100, 89631139},
	{"Alpha", "First.", 101, 12345678},
	{"Dragon", "Breathes fire.", 102, 0},
	{"Alpha", "Second.", 103, 12345678},
	{"Zed", "Last.", 104, 5},
	{"Dragon", "Another one.", 105, 44},
	{"Token", "", 106, 0},
	{"Aardvark", "Digs.", 107, 0},
}

// Blob placements in the fixture image.
const (
	deck0Offset = 0x800 // 22 bytes
	deck1Offset = 0x818 // 18 bytes
	pack0Offset = 0x82C // 12 bytes
	blobEnd     = 0x838
)

type fixture struct {
	layout  Layout
	img     []byte
	textEnd int // first byte after the last terminator
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	l := testLayout()
	img := make([]byte, testImageSize)
	fill(img[l.BlobArenaStart:l.BlobArenaEnd], blobFree)

	names, descs := l.textTables()
	pos := l.TextBase
	putText := func(tb table, i int, s string) {
		tb.putU32(img, i, 0, uint32(pos-l.TextBase))
		copy(img[pos:], s)
		pos += len(s) + 1
	}

	for i := 0; i < l.IDTableCount; i++ {
		l.idTable().putU16(img, i, 0, l.NoCard)
	}

	cards := make([]*Card, len(fixtureCards))
	for i, fc := range fixtureCards {
		putText(names, i, fc.name)
		putText(descs, i, fc.desc)
		st := Stats{ID: fc.id, Artwork: uint16(i), Attack: uint16(100 * i), Defense: 50, Level: uint16(i + 1)}
		writeStats(l.statsTable(), img, i, st)

		pw, err := EncodePassword(fc.password)
		require.NoError(t, err)
		l.infoTable().putBytes(img, i, 0, pw[:])
		l.infoTable().putU32(img, i, 4, uint32(1000+i))

		cards[i] = &Card{Index: i, Name: Text{Value: fc.name}, Stats: st, Link: uint16(i), Password: fc.password}
	}
	l.writeIDTable(img, cards)
	l.writePasswordTable(img, cards)
	l.writeRanks(img, cards)

	sec := l.secondaryTable()
	writeStats(sec, img, 0, Stats{ID: 102, Attack: 999})
	writeStats(sec, img, 1, Stats{ID: 102, Attack: 111})

	art := l.artworkTable()
	for i := 0; i < l.ArtworkCount; i++ {
		art.putU16(img, i, 0, uint16(i))
		art.putU16(img, i, 2, l.NoLabel)
	}

	putBlob := func(ptr, off int, enc []byte) {
		copy(img[off:], enc)
		table{Base: ptr, Stride: 4, Count: 1}.putU32(img, 0, 0, uint32(off)+l.DeviceBase)
	}
	d0 := &Deck{Header: [4]uint16{1, 2, 3, 4}, Main: []uint16{100, 101, 102}, Extra: []uint16{105}}
	d1 := &Deck{Main: []uint16{103, 104}, Extra: []uint16{}}
	enc0, err := d0.encode()
	require.NoError(t, err)
	enc1, err := d1.encode()
	require.NoError(t, err)
	putBlob(l.DeckPtrBase, deck0Offset, enc0)
	putBlob(l.DeckPtrBase+4, deck1Offset, enc1)

	p := &Pack{
		Cost:     300,
		PerPack:  5,
		Opaque:   [2]uint16{7, 8},
		Contents: []PackEntry{{100, 0}, {101, 1}, {102, 2}},
	}
	encP, err := p.encode()
	require.NoError(t, err)
	putBlob(l.PackBase+packPtr, pack0Offset, encP)
	s := &Session{layout: l}
	s.writePackHeader(img, p)

	return fixture{layout: l, img: img, textEnd: pos}
}

func (f fixture) load(t *testing.T) *Session {
	t.Helper()
	s, err := Load(f.img, WithLayout(f.layout))
	require.NoError(t, err)
	return s
}
