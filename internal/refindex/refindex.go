// Package refindex loads the read-only reference-image and styleguide
// library on disk and serves tag-scored lookups against it. It is built
// once at startup and never mutated afterward, so concurrent reads need
// no locking.
package refindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Kind selects which reference tree a lookup targets.
type Kind string

const (
	KindLogo    Kind = "logo"
	KindPattern Kind = "pattern"
)

// entry mirrors one record in a category's index.json.
type entry struct {
	RelativePath string   `json:"relative_path"`
	LocalPath    string   `json:"local_path"`
	Tags         []string `json:"tags"`
	Quality      float64  `json:"quality"`
	Form         string   `json:"form,omitempty"`
	Motif        string   `json:"motif,omitempty"`
}

type indexedEntry struct {
	path     string
	category string
	tags     map[string]bool
	quality  float64
}

// Index is the loaded, immutable reference library.
type Index struct {
	logos       []indexedEntry
	patterns    []indexedEntry
	styleguides map[Kind]map[string]string // kind -> category -> doc text
	logger      *zap.Logger
}

// Load reads references/{logos,patterns}/<category>/index.json and
// styles/{logos,patterns}/<category>.md beneath root.
func Load(root string, logger *zap.Logger) (*Index, error) {
	idx := &Index{
		styleguides: map[Kind]map[string]string{
			KindLogo:    {},
			KindPattern: {},
		},
		logger: logger,
	}

	logos, err := loadCategoryTree(filepath.Join(root, "references", "logos"))
	if err != nil {
		return nil, fmt.Errorf("load logo references: %w", err)
	}
	patterns, err := loadCategoryTree(filepath.Join(root, "references", "patterns"))
	if err != nil {
		return nil, fmt.Errorf("load pattern references: %w", err)
	}
	idx.logos = logos
	idx.patterns = patterns

	if err := idx.loadStyleguides(filepath.Join(root, "styles", "logos"), KindLogo); err != nil {
		return nil, err
	}
	if err := idx.loadStyleguides(filepath.Join(root, "styles", "patterns"), KindPattern); err != nil {
		return nil, err
	}

	logger.Info("reference index loaded",
		zap.Int("logo_entries", len(idx.logos)),
		zap.Int("pattern_entries", len(idx.patterns)),
	)
	return idx, nil
}

func loadCategoryTree(root string) ([]indexedEntry, error) {
	var out []indexedEntry

	categories, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	for _, cat := range categories {
		if !cat.IsDir() {
			continue
		}
		category := cat.Name()
		indexPath := filepath.Join(root, category, "index.json")
		data, err := os.ReadFile(indexPath)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", indexPath, err)
		}

		var entries []entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse %s: %w", indexPath, err)
		}

		for _, e := range entries {
			path := e.RelativePath
			if path == "" {
				path = e.LocalPath
			}
			if path == "" {
				continue
			}
			tagSet := make(map[string]bool, len(e.Tags))
			for _, t := range e.Tags {
				tagSet[strings.ToLower(t)] = true
			}
			out = append(out, indexedEntry{
				path:     path,
				category: category,
				tags:     tagSet,
				quality:  e.Quality,
			})
		}
	}

	return out, nil
}

func (idx *Index) loadStyleguides(root string, kind Kind) error {
	files, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") {
			continue
		}
		category := strings.TrimSuffix(f.Name(), ".md")
		data, err := os.ReadFile(filepath.Join(root, f.Name()))
		if err != nil {
			return fmt.Errorf("read styleguide %s: %w", f.Name(), err)
		}
		doc := string(data)
		if kind == KindPattern {
			if err := validatePatternStyleguide(doc); err != nil {
				return fmt.Errorf("styleguide %s violates the pattern-styleguide contract: %w", f.Name(), err)
			}
		}
		idx.styleguides[kind][category] = doc
	}
	return nil
}

var (
	patternHeaderRe = regexp.MustCompile(`(?m)^### For PATTERNS:`)
	dominantMotifRe = regexp.MustCompile(`\*\*Dominant Motif Types\*\*:`)
	renderingRe     = regexp.MustCompile(`\*\*Rendering( Style)?\*\*:`)
	vibeRe          = regexp.MustCompile(`\*\*(Vibe|Mood)\*\*:`)
	avoidSectionRe  = regexp.MustCompile(`(?m)^\d+\.\s+Avoid\s*$`)
)

// validatePatternStyleguide enforces P6's rigid Markdown contract: a
// `### For PATTERNS:` header, the three labeled fields, and a numbered
// "Avoid" section followed by bullet items rather than an inline list.
func validatePatternStyleguide(doc string) error {
	if !patternHeaderRe.MatchString(doc) {
		return fmt.Errorf("missing required header %q", "### For PATTERNS:")
	}
	if !dominantMotifRe.MatchString(doc) {
		return fmt.Errorf("missing required field %q", "**Dominant Motif Types**:")
	}
	if !renderingRe.MatchString(doc) {
		return fmt.Errorf("missing required field %q (or %q)", "**Rendering**:", "**Rendering Style**:")
	}
	if !vibeRe.MatchString(doc) {
		return fmt.Errorf("missing required field %q (or %q)", "**Vibe**:", "**Mood**:")
	}

	loc := avoidSectionRe.FindStringIndex(doc)
	if loc == nil {
		return fmt.Errorf("missing numbered %q section", "Avoid")
	}
	rest := doc[loc[1]:]
	lines := strings.Split(strings.TrimLeft(rest, "\n"), "\n")
	foundBullet := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
			foundBullet = true
			break
		}
		break
	}
	if !foundBullet {
		return fmt.Errorf("%q section must be followed by bullet items, not an inline list", "Avoid")
	}
	return nil
}

// ExtractMotifFields pulls the three labeled fields out of a pattern
// styleguide document already validated by validatePatternStyleguide.
func ExtractMotifFields(doc string) (motif, rendering, vibe string) {
	motif = extractAfter(doc, dominantMotifRe)
	rendering = extractAfter(doc, renderingRe)
	vibe = extractAfter(doc, vibeRe)
	return
}

func extractAfter(doc string, label *regexp.Regexp) string {
	loc := label.FindStringIndex(doc)
	if loc == nil {
		return ""
	}
	rest := doc[loc[1]:]
	if idx := strings.IndexByte(rest, '\n'); idx != -1 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}

// LookupReferences scores every entry of the given kind by tag overlap
// (weighted ×2 for category-folder membership, i.e. a tag equal to the
// entry's own category) plus stored quality, and returns up to k paths
// ordered deterministically by (score desc, path asc).
func (idx *Index) LookupReferences(tags []string, kind Kind, k int) []string {
	pool := idx.logos
	if kind == KindPattern {
		pool = idx.patterns
	}

	wanted := make(map[string]bool, len(tags))
	for _, t := range tags {
		wanted[strings.ToLower(t)] = true
	}

	type scored struct {
		path  string
		score float64
	}
	results := make([]scored, 0, len(pool))
	for _, e := range pool {
		var overlap int
		for t := range wanted {
			if e.tags[t] {
				overlap++
			}
		}
		if overlap == 0 && !wanted[strings.ToLower(e.category)] {
			continue
		}
		score := float64(overlap)
		if wanted[strings.ToLower(e.category)] {
			score += 2
		}
		score += e.quality
		results = append(results, scored{path: e.path, score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].path < results[j].path
	})

	if k > len(results) {
		k = len(results)
	}
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = results[i].path
	}
	return out
}

// LookupStyleguide returns the best-matching guide document for the
// given tags, or ("", false) if none matches.
func (idx *Index) LookupStyleguide(tags []string, kind Kind) (string, bool) {
	guides := idx.styleguides[kind]
	for _, t := range tags {
		if doc, ok := guides[strings.ToLower(t)]; ok {
			return doc, true
		}
	}
	return "", false
}
