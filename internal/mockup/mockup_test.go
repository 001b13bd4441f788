package mockup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brandforge/pipeline/internal/domain"
)

func TestSelectLogoVariantPrefersWhiteOnDarkBackground(t *testing.T) {
	assets := domain.DirectionAssets{Logo: "logo.png", LogoWhite: "logo_white.png", LogoTransparent: "logo_transparent.png"}
	assert.Equal(t, "logo_white.png", selectLogoVariant("tote_bag", assets))
}

func TestSelectLogoVariantFallsBackToBaseLogoOnDarkBackgroundWithoutWhiteVariant(t *testing.T) {
	assets := domain.DirectionAssets{Logo: "logo.png", LogoTransparent: "logo_transparent.png"}
	assert.Equal(t, "logo.png", selectLogoVariant("dark_shirt", assets))
}

func TestSelectLogoVariantPrefersTransparentOnLightBackground(t *testing.T) {
	assets := domain.DirectionAssets{Logo: "logo.png", LogoTransparent: "logo_transparent.png"}
	assert.Equal(t, "logo_transparent.png", selectLogoVariant("white_mug", assets))
}

func TestSelectLogoVariantFallsBackToBaseLogoOnLightBackgroundWithoutTransparentVariant(t *testing.T) {
	assets := domain.DirectionAssets{Logo: "logo.png"}
	assert.Equal(t, "logo.png", selectLogoVariant("white_mug", assets))
}

func TestSelectLogoVariantUnknownMockupNameTreatedAsLightBackground(t *testing.T) {
	assets := domain.DirectionAssets{Logo: "logo.png", LogoWhite: "logo_white.png"}
	assert.Equal(t, "logo.png", selectLogoVariant("some_new_mockup", assets))
}
