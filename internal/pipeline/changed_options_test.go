package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brandforge/pipeline/internal/domain"
)

func directionsFixture() domain.BrandDirectionsOutput {
	return domain.BrandDirectionsOutput{
		Directions: [4]domain.BrandDirection{
			{OptionNumber: 1, OptionType: domain.OptionMarketAligned, DirectionName: "A", Rationale: "rA"},
			{OptionNumber: 2, OptionType: domain.OptionDesignerLed, DirectionName: "B", Rationale: "rB"},
			{OptionNumber: 3, OptionType: domain.OptionHybrid, DirectionName: "C", Rationale: "rC"},
			{OptionNumber: 4, OptionType: domain.OptionWildCard, DirectionName: "D", Rationale: "rD"},
		},
	}
}

func TestChangedOptionsNoneChanged(t *testing.T) {
	previous := directionsFixture()
	next := directionsFixture()

	changed := changedOptions(&previous, &next, nil)
	assert.Empty(t, changed)
}

func TestChangedOptionsDetectsRenamedDirection(t *testing.T) {
	previous := directionsFixture()
	next := directionsFixture()
	next.Directions[1].DirectionName = "B-revised"

	changed := changedOptions(&previous, &next, nil)
	assert.Equal(t, map[int]bool{2: true}, changed)
}

func TestChangedOptionsScopedToTargets(t *testing.T) {
	previous := directionsFixture()
	next := directionsFixture()
	next.Directions[1].DirectionName = "B-revised"
	next.Directions[2].Rationale = "rC-revised"

	changed := changedOptions(&previous, &next, []int{3})
	assert.Equal(t, map[int]bool{3: true}, changed)
}
