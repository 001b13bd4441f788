package stylescape

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brandforge/pipeline/internal/domain"
)

func TestBuildPromptIncludesDirectionFields(t *testing.T) {
	d := domain.BrandDirection{
		DirectionName:       "Modern Minimalist",
		GraphicStyle:        "geometric",
		TypographyPrimary:   "Inter",
		TypographySecondary: "Georgia",
		Colors: []domain.ColorSwatch{
			{Hex: "#112233", Role: domain.RolePrimary},
		},
	}

	prompt := buildPrompt(d)

	assert.Contains(t, prompt, "Modern Minimalist")
	assert.Contains(t, prompt, "geometric")
	assert.Contains(t, prompt, "Inter")
	assert.Contains(t, prompt, "Georgia")
	assert.Contains(t, prompt, "#112233")
}
