// Package mockup implements the Mockup Compositor (§4.I): applying the
// chosen direction's assets onto a fixed library of unbranded
// product-photo mockups via multimodal ImageGen, bounded by a worker
// pool sized to min(mockup_count, 10).
package mockup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/concurrency"
	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/modelclient"
	"github.com/brandforge/pipeline/pkg/retry"
)

// DefaultMaxConcurrency is MAX_MOCKUP_CONCURRENCY's default (§6).
const DefaultMaxConcurrency = 10

// PerItemCap is the hard per-mockup wall-clock cap including retries (§5).
const PerItemCap = 180 * time.Second

// darkBackgrounds is the explicit set of mockups whose base photo is dark
// enough that logo_white must be used instead of logo_transparent (§4.I.3).
var darkBackgrounds = map[string]bool{
	"tote_bag":         true,
	"dark_shirt":       true,
	"employee_id_card": true,
	"black_hoodie":     true,
}

// Metadata is one mockup's precomputed placement-zone record, produced
// during reference-library construction and never re-detected at
// runtime (§4.I.2).
type Metadata struct {
	Name             string `json:"name"`
	PhotoPath        string `json:"photo_path"`
	ZoneDescription  string `json:"zone_description"`
}

// LoadMetadata reads the mockup library's metadata index from path.
func LoadMetadata(path string) ([]Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mockup metadata: %w", err)
	}
	var entries []Metadata
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse mockup metadata: %w", err)
	}
	return entries, nil
}

// Compositor composites brand assets onto the mockup library.
type Compositor struct {
	imageGen    modelclient.ImageGen
	maxParallel int
	logger      *zap.Logger
}

// NewCompositor creates a Compositor. maxParallel <= 0 uses
// DefaultMaxConcurrency.
func NewCompositor(imageGen modelclient.ImageGen, maxParallel int, logger *zap.Logger) *Compositor {
	if maxParallel <= 0 {
		maxParallel = DefaultMaxConcurrency
	}
	return &Compositor{imageGen: imageGen, maxParallel: maxParallel, logger: logger}
}

// Item is one mockup's compositing outcome.
type Item struct {
	Name   string
	Path   string
	Status string
	Reason string
}

// CompositeAll runs every mockup through compositing, bounded by
// min(len(metadata), maxParallel). onProgress fires once per completed
// item; concurrent writes target distinct files so no directory-wide
// lock is needed, but progress invocations are serialized under a mutex
// held by CompositeAll itself.
func (c *Compositor) CompositeAll(ctx context.Context, outDir string, metadata []Metadata, assets domain.DirectionAssets, colors []domain.ColorSwatch, onProgress func(domain.ProgressEvent)) []Item {
	poolSize := c.maxParallel
	if len(metadata) < poolSize {
		poolSize = len(metadata)
	}
	if poolSize <= 0 {
		return nil
	}
	sem := concurrency.NewSemaphore(poolSize)

	results := make([]Item, len(metadata))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i, m := range metadata {
		i, m := i, m
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.Acquire(ctx); err != nil {
				results[i] = Item{Name: m.Name, Status: domain.StatusFailed, Reason: "cancelled"}
				return
			}
			defer sem.Release()

			item := c.compositeOne(ctx, outDir, m, assets, colors)
			results[i] = item

			mu.Lock()
			if onProgress != nil {
				onProgress(domain.ProgressEvent{Stage: "mockups", Item: m.Name, Status: item.Status, Detail: item.Reason})
			}
			mu.Unlock()
		}()
	}

	wg.Wait()
	return results
}

func (c *Compositor) compositeOne(ctx context.Context, outDir string, m Metadata, assets domain.DirectionAssets, colors []domain.ColorSwatch) Item {
	ctx, cancel := context.WithTimeout(ctx, PerItemCap)
	defer cancel()

	if _, err := os.Stat(m.PhotoPath); err != nil {
		return Item{Name: m.Name, Status: domain.StatusFailed, Reason: "original photograph missing: " + err.Error()}
	}

	logoRef := selectLogoVariant(m.Name, assets)
	if logoRef == "" {
		return Item{Name: m.Name, Status: domain.StatusFailed, Reason: "no usable logo variant available"}
	}

	prompt := buildMockupPrompt(m.ZoneDescription, colors)

	var data []byte
	err := retry.Do(ctx, retry.APIConfig(), func() error {
		var genErr error
		data, genErr = c.imageGen.GenerateImage(ctx, "mockup", prompt, []modelclient.ImageRef{
			{Path: m.PhotoPath},
			{Path: logoRef},
		})
		return genErr
	})
	if err != nil {
		c.logger.Warn("mockup compositing failed after retries", zap.String("mockup", m.Name), zap.Error(err))
		return Item{Name: m.Name, Status: domain.StatusFailed, Reason: err.Error()}
	}

	destDir := filepath.Join(outDir, "mockups")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Item{Name: m.Name, Status: domain.StatusFailed, Reason: err.Error()}
	}
	path := filepath.Join(destDir, m.Name+"_composite.png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Item{Name: m.Name, Status: domain.StatusFailed, Reason: err.Error()}
	}

	return Item{Name: m.Name, Path: path, Status: domain.StatusOK}
}

// selectLogoVariant picks the logo variant appropriate to the mockup's
// darkness class (§4.I.3): dark-background mockups get logo_white;
// everything else prefers logo_transparent, falling back to the base
// logo if the transparent variant was never produced.
func selectLogoVariant(mockupName string, assets domain.DirectionAssets) string {
	if darkBackgrounds[mockupName] {
		if assets.LogoWhite != "" {
			return assets.LogoWhite
		}
		return assets.Logo
	}
	if assets.LogoTransparent != "" {
		return assets.LogoTransparent
	}
	return assets.Logo
}

func buildMockupPrompt(zoneDescription string, colors []domain.ColorSwatch) string {
	var primary string
	for _, c := range colors {
		if c.Role == domain.RolePrimary {
			primary = c.Hex
			break
		}
	}
	return fmt.Sprintf(
		"Reconstruct the original product photograph with the brand logo applied at: %s. "+
			"Use the brand's primary color %s for any accent elements. "+
			"Preserve the photo's lighting, perspective, and material realism. AVOID: text, watermarks, distortion of the product shape.",
		zoneDescription, primary,
	)
}
