package palette

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPalette has a grey bank followed by a red bank.
func testPalette() color.Palette {
	cp := make(color.Palette, 2*BankSize)
	for i := 0; i < BankSize; i++ {
		v := uint8(i * 17)
		cp[i] = color.RGBA{v, v, v, 255}
		cp[BankSize+i] = color.RGBA{255, v, v, 255}
	}
	return cp
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func twoTiles() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	fillRect(img, image.Rect(0, 0, 8, 8), color.RGBA{255, 0, 0, 255})
	fillRect(img, image.Rect(8, 0, 16, 8), color.RGBA{136, 136, 136, 255})
	return img
}

func TestQuantizePicksBankPerTile(t *testing.T) {
	out, err := Quantize(twoTiles(), FromColorPalette(testPalette()), nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(16), out.ColorIndexAt(3, 3))
	assert.Equal(t, uint8(8), out.ColorIndexAt(12, 5))
	assert.Len(t, out.Palette, 32)
}

func TestQuantizeAvoidsForbiddenIndices(t *testing.T) {
	out, err := Quantize(twoTiles(), FromColorPalette(testPalette()), []IndexRange{{From: 16, To: 16}, {From: 8, To: 8}})
	require.NoError(t, err)
	assert.Equal(t, uint8(17), out.ColorIndexAt(0, 0))
	idx := out.ColorIndexAt(8, 0)
	assert.Contains(t, []uint8{7, 9}, idx)
}

func TestQuantizeRejects(t *testing.T) {
	_, err := Quantize(image.NewRGBA(image.Rect(0, 0, 10, 8)), FromColorPalette(testPalette()), nil)
	assert.ErrorIs(t, err, ErrTileAlignment)

	_, err = Quantize(twoTiles(), FromColorPalette(testPalette()[:4]), nil)
	assert.Error(t, err)

	_, err = Quantize(twoTiles(), FromColorPalette(testPalette()), []IndexRange{{From: 0, To: 31}})
	assert.Error(t, err)
}

func TestFitTilesRoundsUp(t *testing.T) {
	out := FitTiles(twoTiles(), 20, 9)
	assert.Equal(t, 24, out.Bounds().Dx())
	assert.Equal(t, 16, out.Bounds().Dy())
}

func pairedTiles() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, 16, 8), testPalette())
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			if x < 8 {
				img.SetColorIndex(x, y, 20)
			} else {
				img.SetColorIndex(x, y, 3)
			}
		}
	}
	return img
}

func TestMapBin(t *testing.T) {
	in := []byte{0x01, 0x02, 0x03, 0x34}
	out, err := MapBin(pairedTiles(), in)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x12, 0x03, 0x04}, out)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x34}, in, "input is not modified")

	_, err = MapBin(pairedTiles(), []byte{0, 0})
	assert.Error(t, err)
}

func TestAnalyzeAndReindex(t *testing.T) {
	img := pairedTiles()
	usage := Analyze(img)
	require.Len(t, usage, 2)
	assert.Equal(t, Usage{Index: 3, Bank: 0, InBank: 3, Color: testPalette()[3], Count: 32}, usage[0])
	assert.Equal(t, 1, usage[1].Bank)
	assert.Equal(t, 4, usage[1].InBank)

	re := Reindex(img)
	assert.Equal(t, uint8(4), re.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(3), re.ColorIndexAt(15, 7))
	assert.Equal(t, uint8(20), img.ColorIndexAt(0, 0))
}

func TestPacked4(t *testing.T) {
	w, h := 16, 8
	pix := make([]uint8, w*h)
	for i := range pix {
		pix[i] = uint8(i % 16)
	}
	enc, err := Packed4{}.Encode(pix, w, h)
	require.NoError(t, err)
	require.Len(t, enc, w*h/2)
	assert.Equal(t, byte(0x10), enc[0])
	// the second row of the first tile starts at byte 4 with pixels 16, 17
	assert.Equal(t, byte(0x10), enc[4])
	// the second tile starts after 32 bytes with pixels 8, 9
	assert.Equal(t, byte(0x98), enc[32])

	dec, err := Packed4{}.Decode(enc, w, h)
	require.NoError(t, err)
	assert.Equal(t, pix, dec)

	pix[5] = 16
	_, err = Packed4{}.Encode(pix, w, h)
	assert.Error(t, err)
	_, err = Packed4{}.Decode(enc[:10], w, h)
	assert.Error(t, err)
}

func TestLoadPalette(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, pairedTiles()))

	pal, err := LoadPalette(bytes.NewReader(buf.Bytes()), 32)
	require.NoError(t, err)
	require.Len(t, pal, 32)
	assert.Equal(t, 2, pal.Banks())
	r, g, b := pal[16].RGB255()
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})

	_, err = LoadPalette(bytes.NewReader(buf.Bytes()), 64)
	assert.Error(t, err)

	buf.Reset()
	require.NoError(t, png.Encode(&buf, twoTiles()))
	_, err = LoadPalette(&buf, 16)
	assert.ErrorIs(t, err, ErrNotPaletted)
}

func TestImageToAnsi(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	fillRect(img, img.Bounds(), color.RGBA{255, 0, 0, 255})

	out := ImageToAnsi(img, 1, 1, true)
	assert.True(t, strings.HasPrefix(out, "\x1b[38;2;255;0;0m\x1b[48;2;255;0;0m▀"))
	assert.Equal(t, "▀\n", ImageToAnsi(img, 1, 1, false))
}
