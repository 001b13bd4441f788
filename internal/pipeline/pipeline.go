// Package pipeline implements the Pipeline Runner (§4.K): the single
// entry point per phase, wiring together every stage package into the
// two-phase, human-in-the-loop flow and driving the per-phase state
// machine of §4.K.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/brandforge/pipeline/internal/assetgen"
	"github.com/brandforge/pipeline/internal/director"
	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/logogen"
	"github.com/brandforge/pipeline/internal/mockup"
	"github.com/brandforge/pipeline/internal/refindex"
	"github.com/brandforge/pipeline/internal/research"
	"github.com/brandforge/pipeline/internal/social"
	"github.com/brandforge/pipeline/internal/styledna"
	"github.com/brandforge/pipeline/internal/tags"
	"github.com/brandforge/pipeline/pkg/pipelineerr"
)

// Runner wires every stage package together behind the two phase entry
// points named in §4.K and §6.
type Runner struct {
	research *research.Stage
	director *director.Stage
	tags     *tags.Resolver
	logos    *logogen.Generator
	assets   *assetgen.Generator
	mockups  *mockup.Compositor
	social   *social.Compositor
	dna      *styledna.Extractor
	refs     *refindex.Index
	logger   *zap.Logger
}

// NewRunner creates a Runner from its fully-constructed stage
// dependencies.
func NewRunner(
	researchStage *research.Stage,
	directorStage *director.Stage,
	tagResolver *tags.Resolver,
	logoGen *logogen.Generator,
	assetGen *assetgen.Generator,
	mockupCompositor *mockup.Compositor,
	socialCompositor *social.Compositor,
	dnaExtractor *styledna.Extractor,
	refs *refindex.Index,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		research: researchStage,
		director: directorStage,
		tags:     tagResolver,
		logos:    logoGen,
		assets:   assetGen,
		mockups:  mockupCompositor,
		social:   socialCompositor,
		dna:      dnaExtractor,
		refs:     refs,
		logger:   logger,
	}
}

// safeProgress wraps a caller-supplied, untrusted progress callback
// (§4.K: "errors isolated, never fatal to the pipeline") and enforces
// P11: once the phase is cancelled, at most one further CANCELLED event
// is emitted and nothing after it.
type safeProgress struct {
	fn        domain.ProgressFunc
	logger    *zap.Logger
	mu        sync.Mutex
	cancelled bool
}

func newSafeProgress(fn domain.ProgressFunc, logger *zap.Logger) *safeProgress {
	if fn == nil {
		fn = domain.NoopProgress
	}
	return &safeProgress{fn: fn, logger: logger}
}

func (p *safeProgress) emit(ev domain.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancelled {
		return
	}
	p.safeInvoke(ev)
}

func (p *safeProgress) emitCancelled(stage string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancelled {
		return
	}
	p.cancelled = true
	p.safeInvoke(domain.ProgressEvent{Stage: stage, Status: string(domain.StateCancelled)})
}

func (p *safeProgress) safeInvoke(ev domain.ProgressEvent) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("progress callback panicked, isolating", zap.Any("recovered", r))
		}
	}()
	p.fn(ev)
}

// RunLogosPhase runs Phase 1 (§4.K): research, direction generation, tag
// resolution, and per-direction logo rendering.
func (r *Runner) RunLogosPhase(ctx context.Context, brief *domain.Brief, outDir string, onProgress domain.ProgressFunc) domain.LogosPhaseResult {
	runID := uuid.NewString()
	sp := newSafeProgress(onProgress, r.logger)
	start := time.Now()

	if err := brief.Validate(); err != nil {
		err = pipelineerr.New(pipelineerr.KindBriefInvalid, "brief failed validation", err)
		sp.emit(domain.ProgressEvent{Stage: "logos", Status: string(domain.StateFailed), Elapsed: time.Since(start), Detail: err.Error()})
		return domain.LogosPhaseResult{Success: false, Error: err.Error()}
	}

	if ctx.Err() != nil {
		sp.emitCancelled("logos")
		return domain.LogosPhaseResult{Success: false, Error: "run cancelled before starting"}
	}

	sp.emit(domain.ProgressEvent{Stage: "logos", Status: string(domain.StateResearching), Elapsed: time.Since(start)})

	// Research ∥ Director-prompt-assembly optimization (§5): the
	// competitor-landscape summary and the StyleDNA extraction for the
	// brief's style reference images are independent of one another, so
	// they run concurrently.
	var researchRec research.Record
	var dnaClauses []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		researchRec = r.research.Run(gctx, brief)
		return nil
	})
	g.Go(func() error {
		for _, ref := range brief.StyleRefImages {
			dna, err := r.dna.Extract(gctx, ref)
			if err == nil && dna != nil {
				dnaClauses = append(dnaClauses, dna.MustMatchClause())
			}
		}
		return nil
	})
	_ = g.Wait()

	if ctx.Err() != nil {
		sp.emitCancelled("logos")
		return domain.LogosPhaseResult{Success: false, Error: "run cancelled during research"}
	}

	sp.emit(domain.ProgressEvent{Stage: "logos", Status: string(domain.StateDirecting), Elapsed: time.Since(start)})
	out, err := r.director.Generate(ctx, brief, researchRec, dnaClauses)
	if err != nil {
		r.logger.Warn("director stage failed, phase ending in FAILED", zap.String("run_id", runID), zap.Error(err))
		sp.emit(domain.ProgressEvent{Stage: "logos", Status: string(domain.StateFailed), Elapsed: time.Since(start), Detail: err.Error()})
		return domain.LogosPhaseResult{Success: false, Error: err.Error()}
	}

	sp.emit(domain.ProgressEvent{Stage: "logos", Status: string(domain.StateTagging), Elapsed: time.Since(start)})
	tagsByOption := r.tags.Resolve(ctx, out, brief)

	sp.emit(domain.ProgressEvent{Stage: "logos", Status: string(domain.StateGeneratingLogos), Elapsed: time.Since(start)})
	results := r.logos.GenerateAll(ctx, outDir, out, tagsByOption, brief.MoodboardImages, brief.StyleRefImages, func(ev domain.ProgressEvent) {
		ev.Elapsed = time.Since(start)
		sp.emit(ev)
	})

	if ctx.Err() != nil {
		sp.emitCancelled("logos")
		return domain.LogosPhaseResult{Success: false, Error: "run cancelled during logo generation"}
	}

	assetsByOption := make(map[int]domain.DirectionAssets, 4)
	perDirection := make(map[int]domain.DirectionStatus, 4)
	okCount := 0
	for n, res := range results {
		perDirection[n] = res.Status
		assetsByOption[n] = domain.DirectionAssets{Logo: res.LogoPath}
		if res.Status.Status == domain.StatusOK {
			okCount++
		}
	}

	finalState := domain.StateDone
	if okCount < len(results) {
		finalState = domain.StateDonePartial
	}
	sp.emit(domain.ProgressEvent{Stage: "logos", Status: string(finalState), Elapsed: time.Since(start)})

	return domain.LogosPhaseResult{
		Success:        true,
		Directions:     *out,
		AssetsByOption: assetsByOption,
		PerDirection:   perDirection,
	}
}

// RunRefinePhase re-invokes the Director in refinement mode (§4.E
// scenario 6) against a prior logos-phase result and replaces the logos
// of whichever directions changed, looping Phase 1 without disturbing
// the option_number -> option_type mapping.
func (r *Runner) RunRefinePhase(ctx context.Context, brief *domain.Brief, previous domain.LogosPhaseResult, feedback string, targets []int, outDir string, onProgress domain.ProgressFunc) domain.LogosPhaseResult {
	sp := newSafeProgress(onProgress, r.logger)
	start := time.Now()

	if ctx.Err() != nil {
		sp.emitCancelled("logos")
		return domain.LogosPhaseResult{Success: false, Error: "run cancelled before starting"}
	}

	sp.emit(domain.ProgressEvent{Stage: "logos", Status: string(domain.StateDirecting), Elapsed: time.Since(start)})
	out, err := r.director.Refine(ctx, brief, &previous.Directions, feedback, targets)
	if err != nil {
		r.logger.Warn("director refine failed, phase ending in FAILED", zap.Error(err))
		sp.emit(domain.ProgressEvent{Stage: "logos", Status: string(domain.StateFailed), Elapsed: time.Since(start), Detail: err.Error()})
		return domain.LogosPhaseResult{Success: false, Directions: previous.Directions, Error: err.Error()}
	}

	sp.emit(domain.ProgressEvent{Stage: "logos", Status: string(domain.StateTagging), Elapsed: time.Since(start)})
	tagsByOption := r.tags.Resolve(ctx, out, brief)

	changed := changedOptions(&previous.Directions, out, targets)

	// GenerateAll always regenerates all four in parallel; unchanged
	// directions' fresh logos are discarded below in favor of the prior
	// ones. A partial-regen code path in logogen isn't worth the
	// duplication for what is an infrequent human-in-the-loop action.
	sp.emit(domain.ProgressEvent{Stage: "logos", Status: string(domain.StateGeneratingLogos), Elapsed: time.Since(start)})
	results := r.logos.GenerateAll(ctx, outDir, out, tagsByOption, brief.MoodboardImages, brief.StyleRefImages, func(ev domain.ProgressEvent) {
		ev.Elapsed = time.Since(start)
		sp.emit(ev)
	})

	if ctx.Err() != nil {
		sp.emitCancelled("logos")
		return domain.LogosPhaseResult{Success: false, Error: "run cancelled during logo generation"}
	}

	assetsByOption := make(map[int]domain.DirectionAssets, 4)
	perDirection := make(map[int]domain.DirectionStatus, 4)
	okCount := 0
	for n, res := range results {
		if !changed[n] {
			// keep the prior logo for directions the refinement left alone
			assetsByOption[n] = previous.AssetsByOption[n]
			perDirection[n] = previous.PerDirection[n]
			if previous.PerDirection[n].Status == domain.StatusOK {
				okCount++
			}
			continue
		}
		perDirection[n] = res.Status
		assetsByOption[n] = domain.DirectionAssets{Logo: res.LogoPath}
		if res.Status.Status == domain.StatusOK {
			okCount++
		}
	}

	finalState := domain.StateDone
	if okCount < len(perDirection) {
		finalState = domain.StateDonePartial
	}
	sp.emit(domain.ProgressEvent{Stage: "logos", Status: string(finalState), Elapsed: time.Since(start)})

	return domain.LogosPhaseResult{
		Success:        true,
		Directions:     *out,
		AssetsByOption: assetsByOption,
		PerDirection:   perDirection,
	}
}

// changedOptions reports which option_numbers differ from the previous
// output (scoped to targets when given), so refinement keeps the prior
// logos of every direction not in the returned set.
func changedOptions(previous, next *domain.BrandDirectionsOutput, targets []int) map[int]bool {
	changed := make(map[int]bool, 4)
	targetSet := make(map[int]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}
	for _, d := range next.Directions {
		if len(targetSet) > 0 && !targetSet[d.OptionNumber] {
			continue
		}
		prev, ok := previous.ByOptionNumber(d.OptionNumber)
		if !ok || prev.DirectionName != d.DirectionName || prev.Rationale != d.Rationale {
			changed[d.OptionNumber] = true
		}
	}
	return changed
}

// RunAssetsPhase runs Phase 2 (§4.K) for the designer-selected direction:
// the full production asset kit, mockups, and social posts.
func (r *Runner) RunAssetsPhase(ctx context.Context, chosen domain.BrandDirection, brief *domain.Brief, outDir, logoPath string, mockupMetadata []mockup.Metadata, onProgress domain.ProgressFunc) domain.AssetsPhaseResult {
	sp := newSafeProgress(onProgress, r.logger)
	start := time.Now()

	if ctx.Err() != nil {
		sp.emitCancelled("assets")
		return domain.AssetsPhaseResult{Success: false, Error: "run cancelled before starting"}
	}

	sp.emit(domain.ProgressEvent{Stage: "assets", Status: string(domain.StateGeneratingAssets), Elapsed: time.Since(start)})

	var dnaClauses []string
	for _, ref := range brief.StyleRefImages {
		dna, err := r.dna.Extract(ctx, ref)
		if err == nil && dna != nil {
			dnaClauses = append(dnaClauses, dna.MustMatchClause())
		}
	}

	assets, substeps := r.assets.Generate(ctx, outDir, logoPath, chosen, dnaClauses, func(ev domain.ProgressEvent) {
		ev.Elapsed = time.Since(start)
		sp.emit(ev)
	})

	if ctx.Err() != nil {
		sp.emitCancelled("assets")
		return domain.AssetsPhaseResult{Success: false, Assets: assets, Error: "run cancelled during asset generation"}
	}

	var mockupItems []mockup.Item
	if len(mockupMetadata) > 0 {
		mockupItems = r.mockups.CompositeAll(ctx, outDir, mockupMetadata, assets, chosen.Colors, func(ev domain.ProgressEvent) {
			ev.Elapsed = time.Since(start)
			sp.emit(ev)
		})
	}

	var mockupPaths []string
	for _, item := range mockupItems {
		if item.Status == domain.StatusOK {
			mockupPaths = append(mockupPaths, item.Path)
		}
	}

	if ctx.Err() != nil {
		sp.emitCancelled("assets")
		return domain.AssetsPhaseResult{Success: false, Assets: assets, Mockups: mockupPaths, Error: "run cancelled during mockup compositing"}
	}

	socialPaths := r.social.GenerateAll(ctx, outDir, brief, chosen, assets, func(ev domain.ProgressEvent) {
		ev.Elapsed = time.Since(start)
		sp.emit(ev)
	})

	finalState := domain.StateDone
	failedSubsteps := 0
	for _, s := range substeps {
		if s.Status == domain.StatusFailed {
			failedSubsteps++
		}
	}
	if failedSubsteps > 0 {
		finalState = domain.StateDonePartial
	}
	sp.emit(domain.ProgressEvent{Stage: "assets", Status: string(finalState), Elapsed: time.Since(start)})

	errMsg := ""
	if failedSubsteps > 0 {
		errMsg = fmt.Sprintf("%d asset substep(s) degraded; see per-substep detail events", failedSubsteps)
	}

	return domain.AssetsPhaseResult{
		Success:     true,
		Assets:      assets,
		Mockups:     mockupPaths,
		SocialPosts: socialPaths,
		Error:       errMsg,
	}
}
