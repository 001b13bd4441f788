package logogen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/modelclienttest"
)

func directionsFixture() *domain.BrandDirectionsOutput {
	return &domain.BrandDirectionsOutput{
		Directions: [4]domain.BrandDirection{
			{OptionNumber: 1, OptionType: domain.OptionMarketAligned, DirectionName: "Acme Prime"},
			{OptionNumber: 2, OptionType: domain.OptionDesignerLed, DirectionName: "Acme Bold"},
			{OptionNumber: 3, OptionType: domain.OptionHybrid, DirectionName: "Acme Blend"},
			{OptionNumber: 4, OptionType: domain.OptionWildCard, DirectionName: "Acme Wild"},
		},
	}
}

func TestGenerateAllWritesOneLogoPerDirection(t *testing.T) {
	fake := &modelclienttest.Fake{
		ImageResponses: [][]byte{
			modelclienttest.OnePixelPNG,
			modelclienttest.OnePixelPNG,
			modelclienttest.OnePixelPNG,
			modelclienttest.OnePixelPNG,
		},
	}
	g := NewGenerator(fake, nil, nil, 2, zap.NewNop())

	outDir := t.TempDir()
	results := g.GenerateAll(context.Background(), outDir, directionsFixture(), nil, nil, nil, nil)

	require.Len(t, results, 4)
	for n, res := range results {
		assert.Equal(t, domain.StatusOK, res.Status.Status, "option %d", n)
		assert.FileExists(t, res.LogoPath)
	}
}

func TestGenerateAllIsolatesPerDirectionFailure(t *testing.T) {
	fake := &modelclienttest.Fake{
		ImageResponses: [][]byte{
			modelclienttest.OnePixelPNG,
			modelclienttest.OnePixelPNG,
			modelclienttest.OnePixelPNG,
			// only 3 queued for 4 directions; the 4th call exhausts the queue
		},
	}
	g := NewGenerator(fake, nil, nil, 4, zap.NewNop())

	outDir := t.TempDir()
	results := g.GenerateAll(context.Background(), outDir, directionsFixture(), nil, nil, nil, nil)

	require.Len(t, results, 4)
	var okCount, failedCount int
	for _, res := range results {
		switch res.Status.Status {
		case domain.StatusOK:
			okCount++
		case domain.StatusFailed:
			failedCount++
		}
	}
	assert.Equal(t, 3, okCount)
	assert.Equal(t, 1, failedCount)
}

func TestSlugifyLowercasesAndDashesPunctuation(t *testing.T) {
	assert.Equal(t, "acme-prime", slugify("Acme Prime"))
	assert.Equal(t, "a-b-c", slugify("A/B & C!!"))
}

func TestBuildLogoPromptIncludesAvoidClauseAndSpecFields(t *testing.T) {
	d := domain.BrandDirection{
		LogoSpec: domain.LogoSpec{LogoType: "wordmark", Form: "circle", Metaphor: "orbit", Avoid: []string{"clipart"}},
	}
	prompt := buildLogoPrompt(d, "", nil)
	assert.Contains(t, prompt, "logo_type: wordmark")
	assert.Contains(t, prompt, "AVOID:")
	assert.Contains(t, prompt, "clipart")
}

func TestBuildLogoPromptTruncatesLongStyleguideExcerpt(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	prompt := buildLogoPrompt(domain.BrandDirection{}, string(long), nil)
	assert.Contains(t, prompt, "styleguide_excerpt:")
	assert.Contains(t, prompt, string(long[:400]))
	assert.NotContains(t, prompt, string(long[:401]))
}
