package palette

import (
	"fmt"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// IndexRange is an inclusive range of palette indices.
type IndexRange struct {
	From, To int
}

func (r IndexRange) contains(i int) bool { return i >= r.From && i <= r.To }

// Quantize maps img onto pal. Each 8x8 tile uses the single bank with the
// least total squared RGB error; indices inside a forbidden range are never
// emitted.
func Quantize(img image.Image, pal Palette, forbidden []IndexRange) (*image.Paletted, error) {
	b := img.Bounds()
	if err := checkTiles(b); err != nil {
		return nil, err
	}
	banks := pal.Banks()
	if banks == 0 {
		return nil, fmt.Errorf("palette has %d colours, need at least %d", len(pal), BankSize)
	}
	allowed := make([]bool, banks*BankSize)
	usable := 0
	for i := range allowed {
		allowed[i] = true
		for _, r := range forbidden {
			if r.contains(i) {
				allowed[i] = false
				break
			}
		}
		if allowed[i] {
			usable++
		}
	}
	if usable == 0 {
		return nil, fmt.Errorf("every palette index is forbidden")
	}

	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), pal[:banks*BankSize].ColorPalette())
	tile := make([]colorful.Color, TileSize*TileSize)
	choice := make([]uint8, len(tile))
	best := make([]uint8, len(tile))

	for ty := 0; ty < b.Dy(); ty += TileSize {
		for tx := 0; tx < b.Dx(); tx += TileSize {
			for y := 0; y < TileSize; y++ {
				for x := 0; x < TileSize; x++ {
					tile[y*TileSize+x], _ = colorful.MakeColor(opaque(img.At(b.Min.X+tx+x, b.Min.Y+ty+y)))
				}
			}

			bestErr := math.Inf(1)
			for bank := 0; bank < banks; bank++ {
				total, ok := fitBank(tile, pal, allowed, bank, choice)
				if ok && total < bestErr {
					bestErr = total
					copy(best, choice)
				}
			}

			for y := 0; y < TileSize; y++ {
				for x := 0; x < TileSize; x++ {
					out.SetColorIndex(tx+x, ty+y, best[y*TileSize+x])
				}
			}
		}
	}
	return out, nil
}

// fitBank maps every pixel of tile to its nearest allowed colour of bank.
func fitBank(tile []colorful.Color, pal Palette, allowed []bool, bank int, choice []uint8) (float64, bool) {
	total := 0.0
	for i, c := range tile {
		nearest, dist := -1, math.Inf(1)
		for j := bank * BankSize; j < (bank+1)*BankSize; j++ {
			if !allowed[j] {
				continue
			}
			d := c.DistanceRgb(pal[j])
			if d*d < dist {
				nearest, dist = j, d*d
			}
		}
		if nearest < 0 {
			return 0, false
		}
		choice[i] = uint8(nearest)
		total += dist
	}
	return total, true
}

// FitTiles scales img to w x h, rounding each side up to whole tiles.
func FitTiles(img image.Image, w, h int) image.Image {
	w = (w + TileSize - 1) / TileSize * TileSize
	h = (h + TileSize - 1) / TileSize * TileSize
	return resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
}
