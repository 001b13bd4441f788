// Package assetgen implements the Asset Generator (§4.H): the sequential,
// per-substep production of the full asset kit for the designer-selected
// direction in Phase 2. Each substep is isolated — a failure in one
// degrades that substep's output rather than aborting the others.
package assetgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/modelclient"
	"github.com/brandforge/pipeline/internal/refindex"
	"github.com/brandforge/pipeline/pkg/pipelineerr"
)

// Generator produces the full Phase 2 asset kit for one direction.
type Generator struct {
	imageGen modelclient.ImageGen
	text     modelclient.TextStructured
	refs     *refindex.Index
	logger   *zap.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(imageGen modelclient.ImageGen, text modelclient.TextStructured, refs *refindex.Index, logger *zap.Logger) *Generator {
	return &Generator{imageGen: imageGen, text: text, refs: refs, logger: logger}
}

// Substep is one isolated unit of Phase 2 asset production, reported via
// progress events.
type Substep struct {
	Name   string
	Status string
	Reason string
}

// Generate runs every substep in sequence against the logo already
// persisted at logoPath (produced by Phase 1), writing all artifacts
// beneath outDir. Substep failures are recorded and degrade the result
// rather than aborting remaining substeps.
func (g *Generator) Generate(ctx context.Context, outDir, logoPath string, d domain.BrandDirection, dnaClauses []string, onProgress func(domain.ProgressEvent)) (domain.DirectionAssets, []Substep) {
	assets := domain.DirectionAssets{Logo: logoPath}
	var steps []Substep

	report := func(name string, err error) {
		s := Substep{Name: name, Status: domain.StatusOK}
		if err != nil {
			s.Status = domain.StatusFailed
			s.Reason = err.Error()
			g.logger.Warn("asset generator substep failed, continuing", zap.String("substep", name), zap.Error(err))
		}
		steps = append(steps, s)
		if onProgress != nil {
			onProgress(domain.ProgressEvent{Stage: "assets", Item: name, Status: s.Status, Detail: s.Reason})
		}
	}

	if path, err := g.generatePattern(ctx, outDir, d, dnaClauses); err == nil {
		assets.Pattern = path
		report("pattern", nil)
	} else {
		report("pattern", err)
	}

	if path, err := g.generateBackground(ctx, outDir, d, dnaClauses); err == nil {
		assets.Background = path
		report("background", nil)
	} else {
		report("background", err)
	}

	if enriched, palettePath, err := g.enrichPalette(ctx, outDir, d.Colors); err == nil {
		assets.EnrichedColors = enriched
		assets.PalettePNG = palettePath
		report("palette", nil)
	} else {
		report("palette", err)
	}

	if path, err := renderShadeScales(outDir, effectiveColors(assets, d)); err == nil {
		assets.ShadesPNG = path
		report("shades", nil)
	} else {
		report("shades", err)
	}

	if logoPath != "" {
		if black, white, transparent, err := deriveLogoVariants(outDir, logoPath); err == nil {
			assets.LogoBlack = black
			assets.LogoWhite = white
			assets.LogoTransparent = transparent
			report("logo_variants", nil)
		} else {
			report("logo_variants", err)
		}
	}

	return assets, steps
}

func effectiveColors(assets domain.DirectionAssets, d domain.BrandDirection) []domain.ColorSwatch {
	if len(assets.EnrichedColors) > 0 {
		return assets.EnrichedColors
	}
	return d.Colors
}

func (g *Generator) generatePattern(ctx context.Context, outDir string, d domain.BrandDirection, dnaClauses []string) (string, error) {
	spec := d.PatternSpec
	var styleguide string
	var tagList []string
	if g.refs != nil {
		tagList = []string{d.GraphicStyle}
		if guide, ok := g.refs.LookupStyleguide(tagList, refindex.KindPattern); ok {
			styleguide = guide
		}
	}

	prompt := buildFlatPrompt(map[string]string{
		"motif_description": spec.MotifDescription,
		"composition":       spec.Composition,
		"color":             spec.ColorHex,
		"render_style":      spec.RenderStyle,
	}, styleguide, dnaClauses, spec.Avoid)

	data, err := g.imageGen.GenerateImage(ctx, "pattern", prompt, nil)
	if err != nil {
		return "", pipelineerr.Degraded(pipelineerr.KindAssetGenerationFailed, "pattern generation failed", err)
	}
	return writeAsset(outDir, "pattern.png", data)
}

func (g *Generator) generateBackground(ctx context.Context, outDir string, d domain.BrandDirection, dnaClauses []string) (string, error) {
	spec := d.BackgroundSpec
	prompt := buildFlatPrompt(map[string]string{
		"scene_description": spec.SceneDescription,
		"color":             spec.ColorHex,
		"render_style":      spec.RenderStyle,
	}, "", dnaClauses, spec.Avoid)

	data, err := g.imageGen.GenerateImage(ctx, "background", prompt, nil)
	if err != nil {
		return "", pipelineerr.Degraded(pipelineerr.KindAssetGenerationFailed, "background generation failed", err)
	}
	return writeAsset(outDir, "background.png", data)
}

const paletteEnrichSystemPrompt = `You enrich a brand color palette. Given an array of swatches (hex, role), return a JSON object {"colors": [{"hex": "...", "role": "...", "name": "...", "hue_family": "..."}]} with a human-readable name and a hue_family (e.g. "warm-red", "cool-blue", "neutral-gray") for each swatch, in the same order, ensuring hue families are not all identical unless the input palette is genuinely monochrome.`

func (g *Generator) enrichPalette(ctx context.Context, outDir string, colors []domain.ColorSwatch) ([]domain.ColorSwatch, string, error) {
	var userPrompt strings.Builder
	for _, c := range colors {
		fmt.Fprintf(&userPrompt, "hex=%s role=%s\n", c.Hex, c.Role)
	}

	var raw struct {
		Colors []domain.ColorSwatch `json:"colors"`
	}
	err := g.text.Generate(ctx, "palette_enrich", "EnrichedPalette", paletteEnrichSystemPrompt, userPrompt.String(), &raw, func(m map[string]interface{}) error {
		arr, ok := m["colors"].([]interface{})
		if !ok || len(arr) != len(colors) {
			return fmt.Errorf("expected %d enriched colors, got schema mismatch", len(colors))
		}
		return nil
	})
	if err != nil {
		return nil, "", pipelineerr.Degraded(pipelineerr.KindAssetGenerationFailed, "palette enrichment failed", err)
	}

	path, err := renderPalettePNG(outDir, raw.Colors)
	if err != nil {
		return raw.Colors, "", fmt.Errorf("render palette.png: %w", err)
	}
	return raw.Colors, path, nil
}

func buildFlatPrompt(fields map[string]string, styleguide string, dnaClauses, avoid []string) string {
	var b strings.Builder
	for k, v := range fields {
		if v != "" {
			fmt.Fprintf(&b, "%s: %s, ", k, v)
		}
	}
	if styleguide != "" {
		excerpt := styleguide
		if len(excerpt) > 400 {
			excerpt = excerpt[:400]
		}
		fmt.Fprintf(&b, "styleguide_excerpt: %s, ", strings.ReplaceAll(excerpt, "\n", " "))
	}
	for _, c := range dnaClauses {
		b.WriteString(c + ", ")
	}
	allAvoid := append([]string{"text", "gradients", "drop shadows"}, avoid...)
	fmt.Fprintf(&b, "AVOID: %s", strings.Join(allAvoid, ", "))
	return b.String()
}

func writeAsset(outDir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
