package assetgen

import (
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShadeScaleIsMonotonicallyLighterToDarker(t *testing.T) {
	scale, err := shadeScale("#3366CC")
	require.NoError(t, err)
	require.Len(t, scale, len(shadeSteps))

	var prevL float64
	for i, hex := range scale {
		c, err := colorful.Hex(hex)
		require.NoError(t, err)
		_, _, l := c.Hcl()
		if i > 0 {
			assert.Lessf(t, l, prevL, "step %d (%s) should be darker than step %d", shadeSteps[i], hex, shadeSteps[i-1])
		}
		prevL = l
	}
}

func TestShadeScaleReproducesInputAtIndex500(t *testing.T) {
	input := "#3366CC"
	scale, err := shadeScale(input)
	require.NoError(t, err)

	idx := indexOf(shadeSteps, 500)
	require.GreaterOrEqual(t, idx, 0)

	want, err := colorful.Hex(input)
	require.NoError(t, err)
	got, err := colorful.Hex(scale[idx])
	require.NoError(t, err)

	assert.InDelta(t, want.R, got.R, 0.01)
	assert.InDelta(t, want.G, got.G, 0.01)
	assert.InDelta(t, want.B, got.B, 0.01)
}

func TestShadeScaleRejectsInvalidHex(t *testing.T) {
	_, err := shadeScale("not-a-color")
	assert.Error(t, err)
}
