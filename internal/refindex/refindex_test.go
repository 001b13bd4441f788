package refindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePatternStyleguideAcceptsWellFormedDoc(t *testing.T) {
	doc := "### For PATTERNS:\n" +
		"**Dominant Motif Types**: geometric, floral\n" +
		"**Rendering Style**: flat vector\n" +
		"**Vibe**: playful\n" +
		"1. Avoid\n" +
		"- photorealism\n" +
		"- gradients\n"
	assert.NoError(t, validatePatternStyleguide(doc))
}

func TestValidatePatternStyleguideRejectsMissingHeader(t *testing.T) {
	doc := "**Dominant Motif Types**: geometric\n**Rendering**: flat\n**Mood**: calm\n1. Avoid\n- noise\n"
	assert.Error(t, validatePatternStyleguide(doc))
}

func TestValidatePatternStyleguideRejectsInlineAvoidList(t *testing.T) {
	doc := "### For PATTERNS:\n" +
		"**Dominant Motif Types**: geometric\n" +
		"**Rendering**: flat\n" +
		"**Mood**: calm\n" +
		"1. Avoid\n" +
		"photorealism, gradients\n"
	assert.Error(t, validatePatternStyleguide(doc))
}

func TestExtractMotifFields(t *testing.T) {
	doc := "### For PATTERNS:\n" +
		"**Dominant Motif Types**: geometric, floral\n" +
		"**Rendering Style**: flat vector\n" +
		"**Vibe**: playful\n"
	motif, rendering, vibe := ExtractMotifFields(doc)
	assert.Equal(t, "geometric, floral", motif)
	assert.Equal(t, "flat vector", rendering)
	assert.Equal(t, "playful", vibe)
}

func TestLookupReferencesRanksByOverlapAndQuality(t *testing.T) {
	idx := &Index{
		logos: []indexedEntry{
			{path: "a.png", category: "geometric", tags: map[string]bool{"bold": true}, quality: 0.5},
			{path: "b.png", category: "geometric", tags: map[string]bool{"bold": true, "modern": true}, quality: 0.1},
			{path: "c.png", category: "organic", tags: map[string]bool{"soft": true}, quality: 0.9},
		},
	}

	results := idx.LookupReferences([]string{"bold", "modern"}, KindLogo, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "b.png", results[0])
	assert.Equal(t, "a.png", results[1])
}

func TestLookupReferencesMatchesOnCategoryTag(t *testing.T) {
	idx := &Index{
		patterns: []indexedEntry{
			{path: "p.png", category: "floral", tags: map[string]bool{}, quality: 0.1},
		},
	}

	results := idx.LookupReferences([]string{"floral"}, KindPattern, 5)
	require.Len(t, results, 1)
	assert.Equal(t, "p.png", results[0])
}

func TestLookupReferencesExcludesNonMatching(t *testing.T) {
	idx := &Index{
		logos: []indexedEntry{
			{path: "a.png", category: "geometric", tags: map[string]bool{"bold": true}, quality: 0.5},
		},
	}

	results := idx.LookupReferences([]string{"nothing-matches"}, KindLogo, 5)
	assert.Empty(t, results)
}

func TestLookupStyleguideReturnsFirstMatchingTag(t *testing.T) {
	idx := &Index{
		styleguides: map[Kind]map[string]string{
			KindLogo: {"geometric": "geometric doc"},
		},
	}

	doc, ok := idx.LookupStyleguide([]string{"unknown", "geometric"}, KindLogo)
	require.True(t, ok)
	assert.Equal(t, "geometric doc", doc)

	_, ok = idx.LookupStyleguide([]string{"unknown"}, KindLogo)
	assert.False(t, ok)
}

func TestEmptyIndexFallbackIsSafeForLookups(t *testing.T) {
	idx := &Index{}
	assert.Empty(t, idx.LookupReferences([]string{"anything"}, KindLogo, 5))
	_, ok := idx.LookupStyleguide([]string{"anything"}, KindLogo)
	assert.False(t, ok)
}
