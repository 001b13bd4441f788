package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetsEmpty(t *testing.T) {
	targets, err := parseTargets("")
	require.NoError(t, err)
	assert.Nil(t, targets)
}

func TestParseTargetsList(t *testing.T) {
	targets, err := parseTargets(" 1, 3 ,4")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, targets)
}

func TestParseTargetsInvalid(t *testing.T) {
	_, err := parseTargets("1,x")
	assert.Error(t, err)
}
