package assetgen

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/brandforge/pipeline/internal/domain"
)

const (
	paletteSwatchW = 120
	paletteSwatchH = 90
)

// renderPalettePNG deterministically composites one labeled swatch per
// enriched color, left to right, into palette.png (§4.H.3). Labels are
// not rendered as text glyphs (no font dependency in the pack) — each
// swatch block is reproducibly ordered and sized so the output is a
// deterministic function of the input colors.
func renderPalettePNG(outDir string, colors []domain.ColorSwatch) (string, error) {
	if len(colors) == 0 {
		return "", fmt.Errorf("no colors to render")
	}

	width := paletteSwatchW * len(colors)
	img := image.NewRGBA(image.Rect(0, 0, width, paletteSwatchH))

	for i, c := range colors {
		col, err := colorful.Hex(c.Hex)
		if err != nil {
			return "", fmt.Errorf("swatch %d: %w", i, err)
		}
		fillRect(img, i*paletteSwatchW, 0, paletteSwatchW, paletteSwatchH, col)
	}

	path := filepath.Join(outDir, "palette.png")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", err
	}
	return path, nil
}
