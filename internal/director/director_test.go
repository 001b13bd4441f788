package director

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brandforge/pipeline/internal/domain"
)

func briefFor(industry string) *domain.Brief {
	return &domain.Brief{
		BrandName:          "Acme",
		ProductDescription: industry + " company",
	}
}

func directionWith(metaphor, form string) domain.BrandDirection {
	return domain.BrandDirection{
		OptionNumber: 1,
		OptionType:   domain.OptionMarketAligned,
		LogoSpec:     domain.LogoSpec{Metaphor: metaphor, Form: form},
	}
}

func TestDetectIndustryMatchesKeyword(t *testing.T) {
	assert.Equal(t, "coffee", detectIndustry(briefFor("coffee")))
	assert.Equal(t, "tech", detectIndustry(briefFor("tech")))
	assert.Equal(t, "", detectIndustry(briefFor("fashion")))
}

func TestCheckClicheDenyListRejectsDeniedMetaphor(t *testing.T) {
	brief := briefFor("coffee")
	out := &domain.BrandDirectionsOutput{
		Directions: [4]domain.BrandDirection{
			directionWith("a steaming mug of coffee", ""),
			{OptionNumber: 2}, {OptionNumber: 3}, {OptionNumber: 4},
		},
	}

	err := checkClicheDenyList(out, brief)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mug")
}

func TestCheckClicheDenyListAcceptsCleanDirections(t *testing.T) {
	brief := briefFor("coffee")
	out := &domain.BrandDirectionsOutput{
		Directions: [4]domain.BrandDirection{
			directionWith("a rising sun over hills", "geometric badge"),
			{OptionNumber: 2}, {OptionNumber: 3}, {OptionNumber: 4},
		},
	}

	assert.NoError(t, checkClicheDenyList(out, brief))
}

func TestCheckClicheDenyListSkipsUnrecognizedIndustry(t *testing.T) {
	brief := briefFor("fashion")
	out := &domain.BrandDirectionsOutput{
		Directions: [4]domain.BrandDirection{
			directionWith("a coffee bean", ""),
			{OptionNumber: 2}, {OptionNumber: 3}, {OptionNumber: 4},
		},
	}

	assert.NoError(t, checkClicheDenyList(out, brief))
}

func TestValidateDirectionsRawRejectsMissingField(t *testing.T) {
	raw := map[string]interface{}{
		"directions": []interface{}{
			map[string]interface{}{"option_number": 1.0},
			map[string]interface{}{"option_number": 2.0},
			map[string]interface{}{"option_number": 3.0},
			map[string]interface{}{"option_number": 4.0},
		},
	}
	err := validateDirectionsRaw(raw, briefFor("tech"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing required field")
}
