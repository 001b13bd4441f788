// Package social implements the Social Compositor (§4.J): fixed-aspect
// social posts for the chosen direction, with copy resolved through a
// three-tier priority chain before each post is composed via ImageGen.
package social

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/modelclient"
)

// Post is one fixed-aspect social format the Compositor produces.
type Post struct {
	Name   string
	Aspect string
}

// Posts is the fixed library of formats §6's output layout names.
var Posts = []Post{
	{Name: "ig_post", Aspect: "1:1"},
	{Name: "ig_story", Aspect: "9:16"},
	{Name: "fb_post", Aspect: "16:9"},
	{Name: "x_post", Aspect: "16:9"},
	{Name: "linkedin_post", Aspect: "1:1"},
}

const copyFallbackSystemPrompt = `Write a single short line of ad copy (under 12 words) for this brand, suitable for a social media post. Return ONLY {"copy": "..."}.`

// Compositor produces the fixed social-post library for one direction.
type Compositor struct {
	imageGen modelclient.ImageGen
	text     modelclient.TextStructured
	logger   *zap.Logger
}

// NewCompositor creates a Compositor.
func NewCompositor(imageGen modelclient.ImageGen, text modelclient.TextStructured, logger *zap.Logger) *Compositor {
	return &Compositor{imageGen: imageGen, text: text, logger: logger}
}

// GenerateAll produces every post in the library, in order, returning
// the paths of those that succeeded. A failure on one post is logged and
// skipped; it never aborts the remaining posts.
func (c *Compositor) GenerateAll(ctx context.Context, outDir string, brief *domain.Brief, d domain.BrandDirection, assets domain.DirectionAssets, onProgress func(domain.ProgressEvent)) []string {
	copyText := c.resolveCopy(ctx, brief, d)

	var paths []string
	destDir := filepath.Join(outDir, "social")

	for _, p := range Posts {
		path, err := c.generateOne(ctx, destDir, p, d, assets, copyText)
		status := domain.StatusOK
		reason := ""
		if err != nil {
			status = domain.StatusFailed
			reason = err.Error()
			c.logger.Warn("social post generation failed, continuing", zap.String("post", p.Name), zap.Error(err))
		} else {
			paths = append(paths, path)
		}
		if onProgress != nil {
			onProgress(domain.ProgressEvent{Stage: "social", Item: p.Name, Status: status, Detail: reason})
		}
	}

	return paths
}

func (c *Compositor) generateOne(ctx context.Context, destDir string, p Post, d domain.BrandDirection, assets domain.DirectionAssets, copyText string) (string, error) {
	prompt := buildPostPrompt(p, d, copyText)

	refs := []modelclient.ImageRef{}
	if assets.Logo != "" {
		refs = append(refs, modelclient.ImageRef{Path: assets.Logo})
	}
	if assets.Background != "" {
		refs = append(refs, modelclient.ImageRef{Path: assets.Background})
	}

	data, err := c.imageGen.GenerateImage(ctx, "social", prompt, refs)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(destDir, p.Name+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func buildPostPrompt(p Post, d domain.BrandDirection, copyText string) string {
	var primary string
	for _, c := range d.Colors {
		if c.Role == domain.RolePrimary {
			primary = c.Hex
			break
		}
	}
	return fmt.Sprintf(
		"aspect_ratio: %s, graphic_style: %s, primary_color: %s, copy: %q, "+
			"logo_placement: corner with safe-area padding, AVOID: cropping the logo, illegible text, gradients not in the brand palette",
		p.Aspect, d.GraphicStyle, primary, copyText,
	)
}

// resolveCopy implements the §4.J priority chain: locked copy in the
// brief first, then the direction's own ad_slogan, then an on-the-fly
// fallback call.
func (c *Compositor) resolveCopy(ctx context.Context, brief *domain.Brief, d domain.BrandDirection) string {
	if brief.HasLockedCopy() && brief.LockedCopy.Slogan != "" {
		return brief.LockedCopy.Slogan
	}
	if d.AdSlogan != "" {
		return d.AdSlogan
	}

	userPrompt := fmt.Sprintf("brand_name=%s product_description=%s tone=%s", brief.BrandName, brief.ProductDescription, brief.Tone)
	var raw struct {
		Copy string `json:"copy"`
	}
	err := c.text.Generate(ctx, "social_copy_fallback", "CopyFallback", copyFallbackSystemPrompt, userPrompt, &raw, nil)
	if err != nil {
		c.logger.Warn("social copy fallback call failed, proceeding without copy", zap.Error(err))
		return ""
	}
	return raw.Copy
}
