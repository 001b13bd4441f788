package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDirections() BrandDirectionsOutput {
	swatches := func(hue string) []ColorSwatch {
		return []ColorSwatch{
			{Hex: "#111111", Role: RolePrimary, HueFamily: hue},
			{Hex: "#222222", Role: RoleNeutralDark},
			{Hex: "#eeeeee", Role: RoleNeutralLight},
		}
	}
	return BrandDirectionsOutput{
		Directions: [4]BrandDirection{
			{OptionNumber: 1, OptionType: OptionMarketAligned, Colors: swatches("blue"), LogoSpec: LogoSpec{LogoType: LogoSymbol}},
			{OptionNumber: 2, OptionType: OptionDesignerLed, Colors: swatches("red"), LogoSpec: LogoSpec{LogoType: LogoLettermark}},
			{OptionNumber: 3, OptionType: OptionHybrid, Colors: swatches("green"), LogoSpec: LogoSpec{LogoType: LogoAbstractMark}},
			{OptionNumber: 4, OptionType: OptionWildCard, Colors: swatches("yellow"), LogoSpec: LogoSpec{LogoType: LogoCombination}},
		},
	}
}

func TestOptionTypeForPosition(t *testing.T) {
	tests := []struct {
		n    int
		want OptionType
		ok   bool
	}{
		{1, OptionMarketAligned, true},
		{2, OptionDesignerLed, true},
		{3, OptionHybrid, true},
		{4, OptionWildCard, true},
		{5, "", false},
		{0, "", false},
	}
	for _, tt := range tests {
		got, ok := OptionTypeForPosition(tt.n)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.ok, ok)
	}
}

func TestBrandDirectionsOutputValidateAccepts(t *testing.T) {
	out := validDirections()
	assert.NoError(t, out.Validate())
}

func TestBrandDirectionsOutputValidateRejectsWrongOptionType(t *testing.T) {
	out := validDirections()
	out.Directions[0].OptionType = OptionHybrid
	assert.Error(t, out.Validate())
}

func TestBrandDirectionsOutputValidateRejectsMissingRole(t *testing.T) {
	out := validDirections()
	out.Directions[0].Colors = []ColorSwatch{{Hex: "#111111", Role: RolePrimary}}
	assert.Error(t, out.Validate())
}

func TestBrandDirectionsOutputValidateRejectsBadHex(t *testing.T) {
	out := validDirections()
	out.Directions[0].Colors[0].Hex = "bogus"
	assert.Error(t, out.Validate())
}

func TestValidateLockedCopy(t *testing.T) {
	out := validDirections()
	lc := &LockedCopy{Tagline: "Just do it"}

	assert.Error(t, out.ValidateLockedCopy(lc))

	for i := range out.Directions {
		out.Directions[i].Tagline = "Just do it"
	}
	assert.NoError(t, out.ValidateLockedCopy(lc))
	assert.NoError(t, out.ValidateLockedCopy(nil))
}

func TestValidateDivergenceRejectsSharedHueAndLogoType(t *testing.T) {
	out := validDirections()
	out.Directions[1].Colors[0].HueFamily = "blue"
	out.Directions[1].LogoSpec.LogoType = LogoSymbol
	assert.Error(t, out.ValidateDivergence())
}

func TestValidateDivergenceAcceptsDistinctSignatures(t *testing.T) {
	out := validDirections()
	assert.NoError(t, out.ValidateDivergence())
}

func TestByOptionNumber(t *testing.T) {
	out := validDirections()

	d, ok := out.ByOptionNumber(3)
	require.True(t, ok)
	assert.Equal(t, OptionHybrid, d.OptionType)

	_, ok = out.ByOptionNumber(9)
	assert.False(t, ok)
}

func TestPrimaryHueFamilyFallsBackToHex(t *testing.T) {
	d := BrandDirection{Colors: []ColorSwatch{{Hex: "#abcdef", Role: RolePrimary}}}
	assert.Equal(t, "#abcdef", d.PrimaryHueFamily())

	d.Colors[0].HueFamily = "teal"
	assert.Equal(t, "teal", d.PrimaryHueFamily())
}
