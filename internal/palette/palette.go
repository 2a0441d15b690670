// Package palette converts images to and from the banked, indexed formats
// used by the game: 16-colour banks selected per 8x8 tile, packed 4bpp pixel
// data and tilemap palette bytes.
package palette

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// BankSize is the number of colours in one palette bank.
	BankSize = 16
	// TileSize is the edge of a tile in pixels.
	TileSize = 8
)

var (
	// ErrNotPaletted is returned when an indexed image is required.
	ErrNotPaletted = errors.New("palette: image is not paletted")
	// ErrTileAlignment is returned when an image is not a whole number of tiles.
	ErrTileAlignment = errors.New("palette: image size is not a multiple of 8")
)

// Palette is an ordered list of colours, grouped in banks of BankSize.
type Palette []colorful.Color

// Banks returns the number of complete banks.
func (p Palette) Banks() int { return len(p) / BankSize }

// ColorPalette converts p for use in an image.Paletted.
func (p Palette) ColorPalette() color.Palette {
	out := make(color.Palette, len(p))
	for i, c := range p {
		r, g, b := c.RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 0xFF}
	}
	return out
}

// FromColorPalette converts an image palette.
func FromColorPalette(cp color.Palette) Palette {
	out := make(Palette, len(cp))
	for i, c := range cp {
		out[i], _ = colorful.MakeColor(opaque(c))
	}
	return out
}

// opaque drops alpha so fully transparent entries still carry their colour.
func opaque(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: 0xFFFF}
}

// LoadPalette reads the first n colours of a paletted PNG.
func LoadPalette(r io.Reader, n int) (Palette, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding palette image: %w", err)
	}
	pi, ok := img.(*image.Paletted)
	if !ok {
		return nil, ErrNotPaletted
	}
	if len(pi.Palette) < n {
		return nil, fmt.Errorf("palette image has %d colours, need %d", len(pi.Palette), n)
	}
	return FromColorPalette(pi.Palette[:n]), nil
}

func checkTiles(b image.Rectangle) error {
	if b.Dx()%TileSize != 0 || b.Dy()%TileSize != 0 {
		return fmt.Errorf("%w: %dx%d", ErrTileAlignment, b.Dx(), b.Dy())
	}
	return nil
}
