// Package stylescape implements the optional Stylescape Compositor
// (§9): a single presentation image laying out a direction's logo,
// palette, and typography together, generated on demand after Phase 2
// rather than as part of AssetsPhaseResult.
package stylescape

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/modelclient"
)

// Compositor produces a single stylescape image for a direction.
type Compositor struct {
	imageGen modelclient.ImageGen
	logger   *zap.Logger
}

// NewCompositor creates a Compositor.
func NewCompositor(imageGen modelclient.ImageGen, logger *zap.Logger) *Compositor {
	return &Compositor{imageGen: imageGen, logger: logger}
}

// Generate renders the stylescape for d into outDir/stylescape/stylescape.png and
// returns its path. Callers invoke this explicitly after Phase 2; it
// never runs as part of RunAssetsPhase.
func (c *Compositor) Generate(ctx context.Context, outDir string, d domain.BrandDirection, assets domain.DirectionAssets) (string, error) {
	prompt := buildPrompt(d)

	refs := []modelclient.ImageRef{}
	if assets.Logo != "" {
		refs = append(refs, modelclient.ImageRef{Path: assets.Logo})
	}
	if assets.Pattern != "" {
		refs = append(refs, modelclient.ImageRef{Path: assets.Pattern})
	}

	data, err := c.imageGen.GenerateImage(ctx, "stylescape", prompt, refs)
	if err != nil {
		return "", fmt.Errorf("generate stylescape: %w", err)
	}

	destDir := filepath.Join(outDir, "stylescape")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create stylescape directory: %w", err)
	}
	path := filepath.Join(destDir, "stylescape.png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write stylescape: %w", err)
	}
	return path, nil
}

func buildPrompt(d domain.BrandDirection) string {
	var swatches string
	for _, c := range d.Colors {
		swatches += fmt.Sprintf("%s(%s) ", c.Role, c.Hex)
	}
	return fmt.Sprintf(
		"single-page brand presentation board laying out the logo, color swatches, and typography sample together. "+
			"direction_name: %s, graphic_style: %s, typography_primary: %s, typography_secondary: %s, colors: %s"+
			"AVOID: mockup photography, stock imagery, extra text beyond the typography sample",
		d.DirectionName, d.GraphicStyle, d.TypographyPrimary, d.TypographySecondary, swatches,
	)
}
