package palette

import "fmt"

// Codec converts between one palette index per pixel and a packed pixel
// format.
type Codec interface {
	Encode(pix []uint8, w, h int) ([]byte, error)
	Decode(data []byte, w, h int) ([]uint8, error)
}

// Packed4 stores two 4-bit indices per byte, left pixel in the low nibble,
// rows laid out tile by tile.
type Packed4 struct{}

var _ Codec = Packed4{}

func (Packed4) Encode(pix []uint8, w, h int) ([]byte, error) {
	if w%TileSize != 0 || h%TileSize != 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrTileAlignment, w, h)
	}
	if len(pix) != w*h {
		return nil, fmt.Errorf("got %d pixels for %dx%d", len(pix), w, h)
	}
	out := make([]byte, 0, w*h/2)
	for ty := 0; ty < h; ty += TileSize {
		for tx := 0; tx < w; tx += TileSize {
			for y := ty; y < ty+TileSize; y++ {
				for x := tx; x < tx+TileSize; x += 2 {
					lo, hi := pix[y*w+x], pix[y*w+x+1]
					if lo > 0x0F || hi > 0x0F {
						return nil, fmt.Errorf("pixel index %d at (%d,%d) does not fit 4 bits", max(lo, hi), x, y)
					}
					out = append(out, hi<<4|lo)
				}
			}
		}
	}
	return out, nil
}

func (Packed4) Decode(data []byte, w, h int) ([]uint8, error) {
	if w%TileSize != 0 || h%TileSize != 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrTileAlignment, w, h)
	}
	if len(data) < w*h/2 {
		return nil, fmt.Errorf("got %d bytes, need %d for %dx%d", len(data), w*h/2, w, h)
	}
	pix := make([]uint8, w*h)
	i := 0
	for ty := 0; ty < h; ty += TileSize {
		for tx := 0; tx < w; tx += TileSize {
			for y := ty; y < ty+TileSize; y++ {
				for x := tx; x < tx+TileSize; x += 2 {
					pix[y*w+x] = data[i] & 0x0F
					pix[y*w+x+1] = data[i] >> 4
					i++
				}
			}
		}
	}
	return pix, nil
}
