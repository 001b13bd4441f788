package assetgen

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

// transparencyThreshold is the default near-white brightness cutoff used
// to derive logo_transparent (§4.H.5): pixels whose average brightness on
// a 0-255 scale is at or above this value are treated as background and
// erased. Near-white brand
// colors can be eroded by this cutoff; that is a recorded trade-off, not
// a defect.
const transparencyThreshold = 240

// deriveLogoVariants reads the base logo at logoPath and writes
// logo_black.png (desaturated + thresholded), logo_white.png (its
// inversion), and logo_transparent.png (near-white background removed)
// alongside it in outDir.
func deriveLogoVariants(outDir, logoPath string) (black, white, transparent string, err error) {
	src, err := loadPNG(logoPath)
	if err != nil {
		return "", "", "", fmt.Errorf("load logo: %w", err)
	}

	blackImg := desaturateThreshold(src)
	whiteImg := invert(blackImg)
	transparentImg := removeNearWhite(src, transparencyThreshold)

	black, err = savePNG(outDir, "logo_black.png", blackImg)
	if err != nil {
		return "", "", "", err
	}
	white, err = savePNG(outDir, "logo_white.png", whiteImg)
	if err != nil {
		return "", "", "", err
	}
	transparent, err = savePNG(outDir, "logo_transparent.png", transparentImg)
	if err != nil {
		return "", "", "", err
	}
	return black, white, transparent, nil
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

func savePNG(outDir, name string, img image.Image) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, name)
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

// desaturateThreshold converts src to grayscale and hard-thresholds each
// pixel to pure black or pure white at the midpoint, preserving alpha.
func desaturateThreshold(src image.Image) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := src.At(x, y).RGBA()
			gray := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)) / 65535
			v := uint8(0)
			if gray > 0.5 {
				v = 255
			}
			out.Set(x, y, color.RGBA{R: v, G: v, B: v, A: uint8(a >> 8)})
		}
	}
	return out
}

// invert flips every opaque pixel's luminance, turning logo_black into
// logo_white.
func invert(src image.Image) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := src.At(x, y).RGBA()
			out.Set(x, y, color.RGBA{
				R: 255 - uint8(r>>8),
				G: 255 - uint8(g>>8),
				B: 255 - uint8(bl>>8),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

// removeNearWhite erases pixels at or above threshold brightness (0-255) by
// setting their alpha to zero, producing a transparent-background
// variant from an opaque source.
func removeNearWhite(src image.Image, threshold int) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := src.At(x, y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(bl>>8)
			brightness := (int(r8) + int(g8) + int(b8)) / 3
			if brightness >= threshold {
				out.Set(x, y, color.RGBA{R: r8, G: g8, B: b8, A: 0})
				continue
			}
			out.Set(x, y, color.RGBA{R: r8, G: g8, B: b8, A: uint8(a >> 8)})
		}
	}
	return out
}
