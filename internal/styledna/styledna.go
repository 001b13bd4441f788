// Package styledna extracts the concrete visual attributes of a
// user-supplied reference image, once per image per run, caching by
// content hash so repeat lookups across directions never re-invoke
// Vision (§4.C, P7).
package styledna

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/modelclient"
	"github.com/brandforge/pipeline/pkg/pipelineerr"
)

const extractionPrompt = `Analyze this reference image and describe its concrete visual style attributes as a single JSON object with exactly these fields:

{
  "stroke_weight": one of "hairline"|"thin"|"medium"|"bold",
  "corner_treatment": one of "sharp"|"rounded"|"mixed",
  "shape_vocabulary": one of "geometric"|"organic"|"hybrid",
  "rendering_medium": one of "clean-digital-vector"|"textured"|"hand-drawn"|"photographic",
  "complexity": integer 1-5,
  "fill_style": one of "solid-fill"|"outline-only"|"gradient",
  "not_present": array of short strings naming attributes explicitly absent
}

Return ONLY the JSON object, no markdown fences or commentary.`

// Extractor extracts and caches StyleDNA records on disk under cacheDir,
// keyed by the SHA-256 of the image's content, so an entry is only ever
// reused for byte-identical images.
type Extractor struct {
	vision   modelclient.Vision
	cacheDir string
	logger   *zap.Logger

	mu      sync.Mutex
	inFlight map[string]*sync.Once
	memo     map[string]*domain.StyleDNA
}

// NewExtractor creates an Extractor whose on-disk cache lives under
// cacheDir (wiring passes STYLEDNA_CACHE_DIR, shared by all runs).
func NewExtractor(vision modelclient.Vision, cacheDir string, logger *zap.Logger) *Extractor {
	return &Extractor{
		vision:   vision,
		cacheDir: cacheDir,
		logger:   logger,
		inFlight: make(map[string]*sync.Once),
		memo:     make(map[string]*domain.StyleDNA),
	}
}

// Extract returns the StyleDNA for imagePath, computing and caching it
// on first access. Extraction failures degrade to (nil, nil) — the
// pipeline must not abort — with the failure logged and traced.
func (e *Extractor) Extract(ctx context.Context, imagePath string) (*domain.StyleDNA, error) {
	hash, err := contentHash(imagePath)
	if err != nil {
		e.logger.Warn("style-dna: could not hash reference image, degrading", zap.String("path", imagePath), zap.Error(err))
		return nil, nil
	}

	e.mu.Lock()
	if dna, ok := e.memo[hash]; ok {
		e.mu.Unlock()
		return dna, nil
	}
	once, ok := e.inFlight[hash]
	if !ok {
		once = &sync.Once{}
		e.inFlight[hash] = once
	}
	e.mu.Unlock()

	once.Do(func() {
		dna, loadErr := e.loadFromCache(hash)
		if loadErr == nil {
			e.mu.Lock()
			e.memo[hash] = dna
			e.mu.Unlock()
			return
		}

		dna, extractErr := e.extractViaVision(ctx, imagePath)
		if extractErr != nil {
			e.logger.Warn("style-dna extraction failed, continuing without it",
				zap.String("path", imagePath), zap.Error(extractErr))
			e.mu.Lock()
			e.memo[hash] = nil
			e.mu.Unlock()
			return
		}

		if saveErr := e.saveToCache(hash, dna); saveErr != nil {
			e.logger.Warn("style-dna: failed to persist cache entry", zap.Error(saveErr))
		}
		e.mu.Lock()
		e.memo[hash] = dna
		e.mu.Unlock()
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.memo[hash], nil
}

func (e *Extractor) extractViaVision(ctx context.Context, imagePath string) (*domain.StyleDNA, error) {
	text, err := e.vision.Analyze(ctx, "style_dna", extractionPrompt, []modelclient.ImageRef{{Path: imagePath}})
	if err != nil {
		return nil, pipelineerr.Degraded(pipelineerr.KindStyleDNAFailure, "vision call failed", err)
	}

	var dna domain.StyleDNA
	if err := json.Unmarshal([]byte(text), &dna); err != nil {
		return nil, pipelineerr.Degraded(pipelineerr.KindStyleDNAFailure, "could not parse StyleDNA JSON", err)
	}
	return &dna, nil
}

func (e *Extractor) cachePath(hash string) string {
	return filepath.Join(e.cacheDir, ".styledna_cache", hash+".json")
}

func (e *Extractor) loadFromCache(hash string) (*domain.StyleDNA, error) {
	data, err := os.ReadFile(e.cachePath(hash))
	if err != nil {
		return nil, err
	}
	var dna domain.StyleDNA
	if err := json.Unmarshal(data, &dna); err != nil {
		return nil, err
	}
	return &dna, nil
}

func (e *Extractor) saveToCache(hash string, dna *domain.StyleDNA) error {
	path := e.cachePath(hash)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(dna)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func contentHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read reference image: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
