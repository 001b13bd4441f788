package social

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/modelclienttest"
)

func TestGenerateAllProducesOnePostPerFormat(t *testing.T) {
	fake := &modelclienttest.Fake{
		ImageResponses: make([][]byte, len(Posts)),
	}
	for i := range fake.ImageResponses {
		fake.ImageResponses[i] = modelclienttest.OnePixelPNG
	}

	c := NewCompositor(fake, fake, zap.NewNop())
	brief := &domain.Brief{BrandName: "Acme", ProductDescription: "widgets"}
	d := domain.BrandDirection{AdSlogan: "Widgets done right"}

	paths := c.GenerateAll(context.Background(), t.TempDir(), brief, d, domain.DirectionAssets{}, nil)

	require.Len(t, paths, len(Posts))
	for _, p := range paths {
		assert.FileExists(t, p)
	}
}

func TestGenerateAllContinuesPastASingleFailedPost(t *testing.T) {
	fake := &modelclienttest.Fake{
		ImageResponses: [][]byte{modelclienttest.OnePixelPNG},
		ImageErr:       errors.New("image generation failed"),
	}

	c := NewCompositor(fake, fake, zap.NewNop())
	brief := &domain.Brief{BrandName: "Acme", ProductDescription: "widgets"}
	d := domain.BrandDirection{AdSlogan: "Widgets done right"}

	paths := c.GenerateAll(context.Background(), t.TempDir(), brief, d, domain.DirectionAssets{}, nil)

	assert.Len(t, paths, 1)
	// every post is still attempted after the first failure
	assert.Len(t, fake.ImageCalls, len(Posts))
}

func TestResolveCopyPrefersLockedCopyOverDirectionSlogan(t *testing.T) {
	fake := &modelclienttest.Fake{}
	c := NewCompositor(fake, fake, zap.NewNop())
	brief := &domain.Brief{LockedCopy: &domain.LockedCopy{Slogan: "Locked slogan"}}
	d := domain.BrandDirection{AdSlogan: "Direction slogan"}

	got := c.resolveCopy(context.Background(), brief, d)
	assert.Equal(t, "Locked slogan", got)
	assert.Empty(t, fake.TextCalls)
}

func TestResolveCopyFallsBackToModelCallWhenNeitherSourceIsSet(t *testing.T) {
	fake := &modelclienttest.Fake{
		TextResponses: []interface{}{map[string]string{"copy": "Fresh tagline"}},
	}
	c := NewCompositor(fake, fake, zap.NewNop())
	brief := &domain.Brief{BrandName: "Acme", ProductDescription: "widgets"}

	got := c.resolveCopy(context.Background(), brief, domain.BrandDirection{})
	assert.Equal(t, "Fresh tagline", got)
	assert.Len(t, fake.TextCalls, 1)
}
