package palette

import (
	"fmt"
	"image"
	"image/color"
	"sort"
)

// MapBin sets the palette bank of every tilemap entry from the first pixel
// of its tile. bin holds two bytes per tile; the bank goes in the high
// nibble of the second byte and the low nibble is kept.
func MapBin(img *image.Paletted, bin []byte) ([]byte, error) {
	b := img.Bounds()
	if err := checkTiles(b); err != nil {
		return nil, err
	}
	tilesX, tilesY := b.Dx()/TileSize, b.Dy()/TileSize
	if need := 2 * tilesX * tilesY; len(bin) < need {
		return nil, fmt.Errorf("tilemap has %d bytes, need at least %d for %d tiles", len(bin), need, tilesX*tilesY)
	}

	out := append([]byte(nil), bin...)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			idx := img.ColorIndexAt(b.Min.X+tx*TileSize, b.Min.Y+ty*TileSize)
			bank := byte(idx/BankSize) & 0x0F
			pos := 2*(ty*tilesX+tx) + 1
			out[pos] = bank<<4 | out[pos]&0x0F
		}
	}
	return out, nil
}

// Usage describes how often one palette index appears.
type Usage struct {
	Index  int
	Bank   int
	InBank int
	Color  color.Color
	Count  int
}

// Analyze counts the used indices of img in ascending index order.
func Analyze(img *image.Paletted) []Usage {
	counts := map[uint8]int{}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			counts[img.ColorIndexAt(x, y)]++
		}
	}
	out := make([]Usage, 0, len(counts))
	for idx, n := range counts {
		u := Usage{Index: int(idx), Bank: int(idx) / BankSize, InBank: int(idx) % BankSize, Count: n}
		if int(idx) < len(img.Palette) {
			u.Color = img.Palette[idx]
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Reindex collapses every bank onto indices 0-15. The palette is kept, so
// the result only looks right once a single bank is applied.
func Reindex(img *image.Paletted) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(b, img.Palette)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetColorIndex(x, y, img.ColorIndexAt(x, y)%BankSize)
		}
	}
	return out
}
