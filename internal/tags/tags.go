// Package tags implements the Tag Resolver (§4.F): batched taxonomy-tag
// extraction for all four directions in a single model call, with a
// per-direction fallback path on batch failure.
package tags

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/modelclient"
)

const (
	minTags = 6
	maxTags = 12
)

const batchSystemPrompt = `You are a taxonomy tagger. Given four brand-identity directions, assign each one 6-12 tags drawn from a closed vocabulary of industry, style, mood, and technique families (e.g. "fintech", "minimalist", "playful", "flat-vector", "hand-drawn", "luxury", "organic-shapes"). Return ONLY a JSON object mapping each option_number (as a string) to an array of tags: {"1": ["tag1", "tag2", ...], "2": [...], "3": [...], "4": [...]}.`

// Resolver resolves taxonomy tags per direction.
type Resolver struct {
	text   modelclient.TextStructured
	logger *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(text modelclient.TextStructured, logger *zap.Logger) *Resolver {
	return &Resolver{text: text, logger: logger}
}

// Resolve returns a tag set per option_number, attempting one batched
// call first and falling back to four parallel per-direction calls (and
// ultimately to a keyword-derived tag set) on individual failure.
func (r *Resolver) Resolve(ctx context.Context, out *domain.BrandDirectionsOutput, brief *domain.Brief) map[int][]string {
	if batch, err := r.resolveBatch(ctx, out); err == nil {
		return batch
	} else {
		r.logger.Warn("batched tag resolution failed, falling back to per-direction calls", zap.Error(err))
	}

	return r.resolvePerDirection(ctx, out, brief)
}

func (r *Resolver) resolveBatch(ctx context.Context, out *domain.BrandDirectionsOutput) (map[int][]string, error) {
	var userPrompt strings.Builder
	for _, d := range out.Directions {
		userPrompt.WriteString(fmt.Sprintf("option_number %d (%s): direction_name=%q graphic_style=%q typography_primary=%q logo_type=%q\n",
			d.OptionNumber, d.OptionType, d.DirectionName, d.GraphicStyle, d.TypographyPrimary, d.LogoSpec.LogoType))
	}

	var raw map[string][]string
	err := r.text.Generate(ctx, "tags", "TagMapping", batchSystemPrompt, userPrompt.String(), &raw, func(m map[string]interface{}) error {
		if len(m) != 4 {
			return fmt.Errorf("expected tags for exactly 4 directions, got %d", len(m))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make(map[int][]string, 4)
	for key, tagList := range raw {
		var n int
		if _, scanErr := fmt.Sscanf(key, "%d", &n); scanErr != nil {
			return nil, fmt.Errorf("non-numeric option_number key %q", key)
		}
		result[n] = clampTags(tagList)
	}
	if len(result) != 4 {
		return nil, fmt.Errorf("expected 4 distinct option_numbers, got %d", len(result))
	}
	return result, nil
}

func (r *Resolver) resolvePerDirection(ctx context.Context, out *domain.BrandDirectionsOutput, brief *domain.Brief) map[int][]string {
	result := make(map[int][]string, 4)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, d := range out.Directions {
		wg.Add(1)
		go func(d domain.BrandDirection) {
			defer wg.Done()
			tagList, err := r.resolveOne(ctx, d)
			if err != nil {
				r.logger.Warn("per-direction tag resolution failed, using keyword fallback",
					zap.Int("option_number", d.OptionNumber), zap.Error(err))
				tagList = keywordFallback(d, brief)
			}
			mu.Lock()
			result[d.OptionNumber] = tagList
			mu.Unlock()
		}(d)
	}

	wg.Wait()
	return result
}

func (r *Resolver) resolveOne(ctx context.Context, d domain.BrandDirection) ([]string, error) {
	system := `Assign 6-12 taxonomy tags (industry, style, mood, technique) to this single brand direction. Return ONLY {"tags": ["tag1", ...]}.`
	user := fmt.Sprintf("direction_name=%q graphic_style=%q typography_primary=%q logo_type=%q",
		d.DirectionName, d.GraphicStyle, d.TypographyPrimary, d.LogoSpec.LogoType)

	var raw struct {
		Tags []string `json:"tags"`
	}
	err := r.text.Generate(ctx, "tags_fallback", "TagList", system, user, &raw, nil)
	if err != nil {
		return nil, err
	}
	return clampTags(raw.Tags), nil
}

func keywordFallback(d domain.BrandDirection, brief *domain.Brief) []string {
	set := make(map[string]bool)
	for _, c := range d.Colors {
		if c.Name != "" {
			set[strings.ToLower(c.Name)] = true
		}
		if c.HueFamily != "" {
			set[strings.ToLower(c.HueFamily)] = true
		}
	}
	for _, word := range strings.Fields(d.TypographyPrimary) {
		set[strings.ToLower(word)] = true
	}
	for _, kw := range brief.Keywords {
		set[strings.ToLower(kw)] = true
	}

	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	return clampTags(out)
}

func clampTags(tagList []string) []string {
	if len(tagList) > maxTags {
		return tagList[:maxTags]
	}
	return tagList
}
