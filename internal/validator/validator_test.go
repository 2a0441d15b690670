package validator

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/cardrom/internal/rom"
)

func testLayout() rom.Layout {
	return rom.Layout{
		NumCards:     2,
		NamePtrBase:  0x00,
		DescPtrBase:  0x08,
		StatsBase:    0x10,
		StatsStride:  0x16,
		IDTableBase:  0x40,
		IDBase:       10,
		IDTableCount: 4,
		NoCard:       0xFFFF,
		InfoBase:     0x48,
		InfoStride:   8,
		TextBase:     0x80,
		TextLimit:    0x100,
		BlobAlign:    4,
		DeviceBase:   0x08000000,
		NoLabel:      0xFFFF,
	}
}

// buildImage lays out two cards, "Alpha" (id 10) and "Beta" (id 11).
func buildImage(pw0, pw1 [4]byte) []byte {
	img := make([]byte, 0x100)
	le := binary.LittleEndian
	texts := []struct {
		ptr int
		s   string
	}{{0x00, "Alpha"}, {0x08, ""}, {0x04, "Beta"}, {0x0C, "x"}}
	pos := 0x80
	for _, t := range texts {
		le.PutUint32(img[t.ptr:], uint32(pos-0x80))
		copy(img[pos:], t.s)
		pos += len(t.s) + 1
	}
	le.PutUint16(img[0x10:], 10)
	le.PutUint16(img[0x10+0x16:], 11)
	for i := 0; i < 4; i++ {
		le.PutUint16(img[0x40+2*i:], 0xFFFF)
	}
	le.PutUint16(img[0x40:], 0)
	le.PutUint16(img[0x42:], 1)
	copy(img[0x48:], pw0[:])
	copy(img[0x50:], pw1[:])
	return img
}

func load(t *testing.T, img []byte) *rom.Session {
	t.Helper()
	s, err := rom.Load(img, rom.WithLayout(testLayout()))
	require.NoError(t, err)
	return s
}

func TestValidateCleanImage(t *testing.T) {
	img := buildImage([4]byte{0x34, 0x12}, [4]byte{0x78, 0x56})
	results, err := NewValidator(load(t, img)).Validate()
	require.NoError(t, err)
	assert.Empty(t, results.Errors)
	assert.Empty(t, results.Warnings)
}

func TestValidateSharedPassword(t *testing.T) {
	img := buildImage([4]byte{0x34, 0x12}, [4]byte{0x34, 0x12})
	results, err := NewValidator(load(t, img)).Validate()
	require.NoError(t, err)
	assert.Empty(t, results.Errors)
	require.Len(t, results.Warnings, 1)
	assert.Contains(t, results.Warnings[0], "00001234")
}

func TestValidateLinks(t *testing.T) {
	img := buildImage([4]byte{}, [4]byte{})
	binary.LittleEndian.PutUint16(img[0x42:], 7)
	results, err := NewValidator(load(t, img)).Validate()
	require.NoError(t, err)
	require.Len(t, results.Errors, 1)
	assert.Contains(t, results.Errors[0], "links to card 7")

	img = buildImage([4]byte{}, [4]byte{})
	binary.LittleEndian.PutUint16(img[0x40:], 0xFFFF)
	results, err = NewValidator(load(t, img)).Validate()
	require.NoError(t, err)
	assert.Empty(t, results.Errors)
	require.Len(t, results.Warnings, 1)
	assert.Contains(t, results.Warnings[0], "without an identifier link: 0")
}

func TestValidateIdentifierOutsideTable(t *testing.T) {
	img := buildImage([4]byte{}, [4]byte{})
	binary.LittleEndian.PutUint16(img[0x10+0x16:], 99)
	results, err := NewValidator(load(t, img)).Validate()
	require.NoError(t, err)
	require.Len(t, results.Errors, 1)
	assert.Contains(t, results.Errors[0], "identifier 99")
}

func TestValidateNoSession(t *testing.T) {
	_, err := NewValidator(nil).Validate()
	assert.Error(t, err)
}
