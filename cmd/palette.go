package cmd

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"strconv"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/cardrom/internal/palette"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Convert card artwork to and from banked 16-colour palettes",
}

var paletteQuantizeCmd = &cobra.Command{
	Use:   "quantize [input] [palette.png] [output.png]",
	Short: "Map an image onto a banked palette, one bank per 8x8 tile",
	Long: `Quantize maps every 8x8 tile of the input image onto the 16-colour bank of the
palette image that reproduces it best. Indices listed with --forbid are never
used, e.g. --forbid 0-0,240-255 to keep the transparent entry and the last bank
free.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readImage(args[0])
		if err != nil {
			return err
		}

		colors, _ := cmd.Flags().GetInt("colors")
		pf, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("error opening palette: %w", err)
		}
		pal, err := palette.LoadPalette(pf, colors)
		pf.Close()
		if err != nil {
			return err
		}

		forbidSpec, _ := cmd.Flags().GetString("forbid")
		forbidden, err := parseRanges(forbidSpec)
		if err != nil {
			return err
		}

		w, _ := cmd.Flags().GetInt("width")
		h, _ := cmd.Flags().GetInt("height")
		if w > 0 || h > 0 {
			b := src.Bounds()
			if w <= 0 {
				w = b.Dx() * h / b.Dy()
			}
			if h <= 0 {
				h = b.Dy() * w / b.Dx()
			}
			src = palette.FitTiles(src, w, h)
		}

		out, err := palette.Quantize(src, pal, forbidden)
		if err != nil {
			return err
		}
		if err := writePNG(args[2], out); err != nil {
			return err
		}
		logger.Info("quantized image", "tiles", out.Bounds().Dx()/palette.TileSize*out.Bounds().Dy()/palette.TileSize, "banks", pal.Banks())
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[2])
		return nil
	},
}

var paletteMapBinCmd = &cobra.Command{
	Use:   "mapbin [indexed.png] [tilemap.bin] [output.bin]",
	Short: "Set the bank of every tilemap entry from an indexed image",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := readPaletted(args[0])
		if err != nil {
			return err
		}
		bin, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("error reading tilemap: %w", err)
		}
		out, err := palette.MapBin(img, bin)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[2], out, 0644); err != nil {
			return fmt.Errorf("error writing tilemap: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[2])
		return nil
	},
}

var paletteAnalyzeCmd = &cobra.Command{
	Use:   "analyze [indexed.png]",
	Short: "Count how often each palette index is used",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := readPaletted(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, u := range palette.Analyze(img) {
			swatch := "  "
			if u.Color != nil {
				r, g, b, _ := u.Color.RGBA()
				swatch = colorize.RGB(255, 255, 255).AddBgRGB(int(r>>8), int(g>>8), int(b>>8)).Sprint("  ")
			}
			fmt.Fprintf(out, "%3d  bank %-2d +%-2d %s %d\n", u.Index, u.Bank, u.InBank, swatch, u.Count)
		}
		return nil
	},
}

var paletteReindexCmd = &cobra.Command{
	Use:   "reindex [indexed.png] [output.png]",
	Short: "Fold every palette bank onto indices 0-15",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := readPaletted(args[0])
		if err != nil {
			return err
		}
		if err := writePNG(args[1], palette.Reindex(img)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
		return nil
	},
}

var paletteEncodeCmd = &cobra.Command{
	Use:   "encode [indexed.png] [output.bin]",
	Short: "Write the 4bpp tile data of an indexed image",
	Long: `Encode folds the image onto indices 0-15 and writes it as tile-ordered 4bpp
pixel data, two pixels per byte with the left pixel in the low nibble. Use
mapbin to write the matching bank numbers into the tilemap.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := readPaletted(args[0])
		if err != nil {
			return err
		}
		img = palette.Reindex(img)
		b := img.Bounds()
		pix := make([]uint8, 0, b.Dx()*b.Dy())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				pix = append(pix, img.ColorIndexAt(x, y))
			}
		}

		var codec palette.Codec = palette.Packed4{}
		data, err := codec.Encode(pix, b.Dx(), b.Dy())
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], data, 0644); err != nil {
			return fmt.Errorf("error writing tile data: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", args[1], len(data))
		return nil
	},
}

var palettePreviewCmd = &cobra.Command{
	Use:   "preview [image]",
	Short: "Render an image in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := readImage(args[0])
		if err != nil {
			return err
		}

		width, _ := cmd.Flags().GetInt("width")
		if width <= 0 {
			width = min(termWidth()-4, 64)
		}
		b := img.Bounds()
		height := max(1, width*b.Dy()/b.Dx()/2)

		trueColor := term.IsTerminal(int(os.Stdout.Fd())) && !colorize.NoColor
		for _, line := range strings.Split(strings.TrimRight(palette.ImageToAnsi(img, width, height, trueColor), "\n"), "\n") {
			fmt.Fprintln(cmd.OutOrStdout(), "  "+line)
		}
		return nil
	},
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return img, nil
}

func readPaletted(path string) (*image.Paletted, error) {
	img, err := readImage(path)
	if err != nil {
		return nil, err
	}
	p, ok := img.(*image.Paletted)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, palette.ErrNotPaletted)
	}
	return p, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("error encoding %s: %w", path, err)
	}
	return f.Close()
}

// parseRanges parses "a-b,c,d-e" into inclusive index ranges.
func parseRanges(s string) ([]palette.IndexRange, error) {
	var out []palette.IndexRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, found := strings.Cut(part, "-")
		if !found {
			to = from
		}
		a, err1 := strconv.Atoi(strings.TrimSpace(from))
		b, err2 := strconv.Atoi(strings.TrimSpace(to))
		if err1 != nil || err2 != nil || a > b {
			return nil, fmt.Errorf("invalid index range %q", part)
		}
		out = append(out, palette.IndexRange{From: a, To: b})
	}
	return out, nil
}

func init() {
	RootCmd.AddCommand(paletteCmd)
	paletteCmd.AddCommand(paletteQuantizeCmd)
	paletteCmd.AddCommand(paletteMapBinCmd)
	paletteCmd.AddCommand(paletteAnalyzeCmd)
	paletteCmd.AddCommand(paletteReindexCmd)
	paletteCmd.AddCommand(paletteEncodeCmd)
	paletteCmd.AddCommand(palettePreviewCmd)

	paletteQuantizeCmd.Flags().Int("colors", 256, "Number of palette entries to read from the palette image")
	paletteQuantizeCmd.Flags().String("forbid", "", "Comma separated palette index ranges that must not be used")
	paletteQuantizeCmd.Flags().Int("width", 0, "Scale the input to this width first (rounded up to whole tiles)")
	paletteQuantizeCmd.Flags().Int("height", 0, "Scale the input to this height first (rounded up to whole tiles)")
	palettePreviewCmd.Flags().IntP("width", "w", 0, "Preview width in terminal columns")
}
