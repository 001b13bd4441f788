package assetgen

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/brandforge/pipeline/internal/domain"
)

// shadeSteps are the Tailwind-style index labels the 10-step scale fills,
// in lightest-to-darkest order. Index 500 is always the input color.
var shadeSteps = []int{50, 100, 200, 300, 400, 500, 600, 700, 800, 900}

const (
	swatchSize    = 64
	swatchPadding = 8
)

// shadeScale computes the 10-step (50-900) scale for one input color (§4.H.4, P5):
// interpolated in LCh so hue and chroma stay visually consistent while L
// moves monotonically from a near-white tint to a near-black shade,
// anchored so index 500 reproduces the input.
func shadeScale(hex string) ([]string, error) {
	base, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", hex, err)
	}
	h, c, l := base.Hcl()

	// Anchor L at the extremes and interpolate linearly toward the base's
	// own L for the steps on either side, guaranteeing monotonicity and
	// reproducing the input exactly at 500.
	const lightestL = 0.97
	const darkestL = 0.12

	out := make([]string, len(shadeSteps))
	for i, step := range shadeSteps {
		var targetL float64
		switch {
		case step == 500:
			targetL = l
		case step < 500:
			// 50..400 interpolate from lightestL down to l.
			t := float64(indexOf(shadeSteps, step)) / float64(indexOf(shadeSteps, 500))
			targetL = lightestL + (l-lightestL)*t
		default:
			// 600..900 interpolate from l down to darkestL.
			total := len(shadeSteps) - 1 - indexOf(shadeSteps, 500)
			t := float64(indexOf(shadeSteps, step)-indexOf(shadeSteps, 500)) / float64(total)
			targetL = l + (darkestL-l)*t
		}
		shade := colorful.Hcl(h, c, clamp01(targetL)).Clamped()
		out[i] = shade.Hex()
	}
	return out, nil
}

func indexOf(steps []int, v int) int {
	for i, s := range steps {
		if s == v {
			return i
		}
	}
	return -1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// renderShadeScales computes and composites the shade scales for every
// primary/secondary/accent swatch in colors into a single PNG.
func renderShadeScales(outDir string, colors []domain.ColorSwatch) (string, error) {
	var rows [][]string
	var labels []string
	for _, c := range colors {
		switch c.Role {
		case domain.RolePrimary, domain.RoleSecondary, domain.RoleAccent:
		default:
			continue
		}
		scale, err := shadeScale(c.Hex)
		if err != nil {
			return "", err
		}
		rows = append(rows, scale)
		labels = append(labels, string(c.Role))
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("no primary/secondary/accent swatches to render shade scales for")
	}

	width := swatchSize * len(shadeSteps)
	height := (swatchSize + swatchPadding) * len(rows)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fillBackground(img, color.White)

	for row, scale := range rows {
		y0 := row * (swatchSize + swatchPadding)
		for col, hex := range scale {
			c, err := colorful.Hex(hex)
			if err != nil {
				continue
			}
			x0 := col * swatchSize
			fillRect(img, x0, y0, swatchSize, swatchSize, c)
		}
	}

	path := filepath.Join(outDir, "shades.png")
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

func fillBackground(img *image.RGBA, c color.Color) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func fillRect(img *image.RGBA, x0, y0, w, h int, c colorful.Color) {
	rc := color.RGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: 255,
	}
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			img.Set(x, y, rc)
		}
	}
}
