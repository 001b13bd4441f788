// Package logogen implements the Logo Generator (§4.G): per-direction,
// parallel image generation for Phase 1, bounded by a worker pool.
package logogen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/concurrency"
	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/modelclient"
	"github.com/brandforge/pipeline/internal/refindex"
	"github.com/brandforge/pipeline/internal/styledna"
	"github.com/brandforge/pipeline/pkg/pipelineerr"
)

// DefaultMaxConcurrency is MAX_LOGO_CONCURRENCY's default (§6).
const DefaultMaxConcurrency = 4

// Generator produces one logo per direction, in parallel.
type Generator struct {
	imageGen    modelclient.ImageGen
	refs        *refindex.Index
	dna         *styledna.Extractor
	maxParallel int
	logger      *zap.Logger
}

// NewGenerator creates a Generator. maxParallel <= 0 uses DefaultMaxConcurrency.
func NewGenerator(imageGen modelclient.ImageGen, refs *refindex.Index, dna *styledna.Extractor, maxParallel int, logger *zap.Logger) *Generator {
	if maxParallel <= 0 {
		maxParallel = DefaultMaxConcurrency
	}
	return &Generator{imageGen: imageGen, refs: refs, dna: dna, maxParallel: maxParallel, logger: logger}
}

// Result is one direction's logo-generation outcome.
type Result struct {
	OptionNumber int
	LogoPath     string
	Status       domain.DirectionStatus
}

// GenerateAll generates logos for every direction concurrently (bounded
// by maxParallel), isolating each direction's failure from the others
// per P10. onProgress is invoked once per completed direction.
func (g *Generator) GenerateAll(ctx context.Context, outDir string, out *domain.BrandDirectionsOutput, tagsByOption map[int][]string, moodboard []string, styleRefs []string, onProgress func(domain.ProgressEvent)) map[int]Result {
	sem := concurrency.NewSemaphore(g.maxParallel)
	results := make(map[int]Result, 4)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, d := range out.Directions {
		d := d
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx); err != nil {
				mu.Lock()
				results[d.OptionNumber] = Result{OptionNumber: d.OptionNumber, Status: domain.DirectionStatus{OptionNumber: d.OptionNumber, Status: domain.StatusFailed, Reason: "cancelled"}}
				mu.Unlock()
				return
			}
			defer sem.Release()

			res := g.generateOne(ctx, outDir, d, tagsByOption[d.OptionNumber], moodboard, styleRefs)

			mu.Lock()
			results[d.OptionNumber] = res
			mu.Unlock()

			if onProgress != nil {
				onProgress(domain.ProgressEvent{
					Stage:  "logos",
					Item:   fmt.Sprintf("option_%d", d.OptionNumber),
					Status: res.Status.Status,
				})
			}
		}()
	}

	wg.Wait()
	return results
}

func (g *Generator) generateOne(ctx context.Context, outDir string, d domain.BrandDirection, tagList []string, moodboard, styleRefs []string) Result {
	status := domain.DirectionStatus{OptionNumber: d.OptionNumber, Status: domain.StatusOK}

	var dnaClauses []string
	for _, ref := range styleRefs {
		dna, err := g.dna.Extract(ctx, ref)
		if err == nil && dna != nil {
			dnaClauses = append(dnaClauses, dna.MustMatchClause())
		}
	}

	var refPaths []string
	var styleguide string
	if g.refs != nil {
		refPaths = g.refs.LookupReferences(tagList, refindex.KindLogo, 2)
		if guide, ok := g.refs.LookupStyleguide(tagList, refindex.KindLogo); ok {
			styleguide = guide
		}
	}

	prompt := buildLogoPrompt(d, styleguide, dnaClauses)

	refImages := make([]modelclient.ImageRef, 0, len(refPaths)+len(moodboard))
	for _, p := range refPaths {
		refImages = append(refImages, modelclient.ImageRef{Path: p})
	}
	for _, p := range moodboard {
		refImages = append(refImages, modelclient.ImageRef{Path: p})
	}

	data, err := g.imageGen.GenerateImage(ctx, "logo", prompt, refImages)
	if err != nil {
		reason := err.Error()
		if kind, ok := pipelineerr.KindOf(err); ok {
			reason = string(kind) + ": " + reason
		}
		g.logger.Warn("logo generation failed for direction, isolating failure",
			zap.Int("option_number", d.OptionNumber), zap.Error(err))
		status.Status = domain.StatusFailed
		status.Reason = reason
		return Result{OptionNumber: d.OptionNumber, Status: status}
	}

	dirName := fmt.Sprintf("option_%d_%s", d.OptionNumber, slugify(d.DirectionName))
	destDir := filepath.Join(outDir, dirName)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		status.Status = domain.StatusFailed
		status.Reason = fmt.Sprintf("could not create output dir: %v", err)
		return Result{OptionNumber: d.OptionNumber, Status: status}
	}

	logoPath := filepath.Join(destDir, "logo.png")
	if err := os.WriteFile(logoPath, data, 0o644); err != nil {
		status.Status = domain.StatusFailed
		status.Reason = fmt.Sprintf("could not write logo file: %v", err)
		return Result{OptionNumber: d.OptionNumber, Status: status}
	}

	return Result{OptionNumber: d.OptionNumber, LogoPath: logoPath, Status: status}
}

// buildLogoPrompt composes the structured keyword-format prompt (~60-80
// terms) specified by §4.G.3: motif, fill style, color, stroke weight,
// composition/padding, styleguide excerpt, MUST-MATCH clauses, and
// explicit AVOID clauses.
func buildLogoPrompt(d domain.BrandDirection, styleguide string, dnaClauses []string) string {
	spec := d.LogoSpec
	var b strings.Builder

	fmt.Fprintf(&b, "logo_type: %s, form: %s, metaphor: %s, ", spec.LogoType, spec.Form, spec.Metaphor)
	fmt.Fprintf(&b, "fill_style: %s, stroke_weight: %s, color: %s, ", spec.FillStyle, spec.StrokeWeight, spec.ColorHex)
	fmt.Fprintf(&b, "composition: %s, typography_treatment: %s, render_style: %s, ", spec.Composition, spec.TypographyTreatment, spec.RenderStyle)
	fmt.Fprintf(&b, "graphic_style: %s, ", d.GraphicStyle)

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

	avoid := append([]string{"text", "cliche industry icons", "gradients", "drop shadows", "3d effects"}, spec.Avoid...)
	fmt.Fprintf(&b, "AVOID: %s", strings.Join(avoid, ", "))

	return b.String()
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
