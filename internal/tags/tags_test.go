package tags

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
			{OptionNumber: 1, OptionType: domain.OptionMarketAligned, DirectionName: "A"},
			{OptionNumber: 2, OptionType: domain.OptionDesignerLed, DirectionName: "B"},
			{OptionNumber: 3, OptionType: domain.OptionHybrid, DirectionName: "C"},
			{OptionNumber: 4, OptionType: domain.OptionWildCard, DirectionName: "D"},
		},
	}
}

func TestResolveUsesBatchResultWhenItSucceeds(t *testing.T) {
	fake := &modelclienttest.Fake{
		TextResponses: []interface{}{
			map[string][]string{"1": {"a", "b"}, "2": {"c"}, "3": {"d"}, "4": {"e"}},
		},
	}
	r := NewResolver(fake, zap.NewNop())

	got := r.Resolve(context.Background(), directionsFixture(), &domain.Brief{})

	require.Len(t, got, 4)
	assert.Equal(t, []string{"a", "b"}, got[1])
	assert.Len(t, fake.TextCalls, 1)
}

func TestResolveFallsBackToPerDirectionOnBatchFailure(t *testing.T) {
	fake := &modelclienttest.Fake{
		TextResponses: []interface{}{
			map[string][]string{"1": {"only-one"}}, // fails the "expect 4" validate check
			map[string]interface{}{"tags": []string{"x"}},
			map[string]interface{}{"tags": []string{"y"}},
			map[string]interface{}{"tags": []string{"z"}},
			map[string]interface{}{"tags": []string{"w"}},
		},
	}
	r := NewResolver(fake, zap.NewNop())

	got := r.Resolve(context.Background(), directionsFixture(), &domain.Brief{})

	assert.Len(t, got, 4)
	// one batch attempt plus four per-direction fallback calls
	assert.Len(t, fake.TextCalls, 5)
}

func TestKeywordFallbackDerivesTagsFromColorsAndKeywords(t *testing.T) {
	d := domain.BrandDirection{
		Colors:            []domain.ColorSwatch{{Role: domain.RolePrimary, Name: "Cobalt", HueFamily: "blue"}},
		TypographyPrimary: "Inter",
	}
	brief := &domain.Brief{Keywords: []string{"Bold"}}

	got := keywordFallback(d, brief)

	assert.Contains(t, got, "cobalt")
	assert.Contains(t, got, "blue")
	assert.Contains(t, got, "inter")
	assert.Contains(t, got, "bold")
}

func TestClampTagsTruncatesToMax(t *testing.T) {
	in := make([]string, maxTags+5)
	for i := range in {
		in[i] = "t"
	}
	assert.Len(t, clampTags(in), maxTags)
}
