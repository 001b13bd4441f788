package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorSwatchValidate(t *testing.T) {
	valid := ColorSwatch{Hex: "#1A2B3C", Role: RolePrimary}
	assert.NoError(t, valid.Validate())

	invalid := ColorSwatch{Hex: "not-a-color", Role: RolePrimary}
	err := invalid.Validate()
	assert.Error(t, err)
	assert.IsType(t, &InvalidColorError{}, err)
}

func TestValidHex(t *testing.T) {
	assert.True(t, ValidHex("#ffffff"))
	assert.True(t, ValidHex("#000000"))
	assert.False(t, ValidHex("#fff"))
	assert.False(t, ValidHex("ffffff"))
}

func TestCoversRequiredRoles(t *testing.T) {
	complete := []ColorSwatch{
		{Hex: "#111111", Role: RolePrimary},
		{Hex: "#222222", Role: RoleNeutralDark},
		{Hex: "#333333", Role: RoleNeutralLight},
	}
	assert.True(t, CoversRequiredRoles(complete))

	missingRole := []ColorSwatch{
		{Hex: "#111111", Role: RolePrimary},
		{Hex: "#222222", Role: RoleNeutralDark},
	}
	assert.False(t, CoversRequiredRoles(missingRole))
}
