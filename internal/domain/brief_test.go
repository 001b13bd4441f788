package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBriefValidate(t *testing.T) {
	assert.Error(t, (*Brief)(nil).Validate())

	missingName := &Brief{ProductDescription: "a thing"}
	assert.Error(t, missingName.Validate())

	missingDescription := &Brief{BrandName: "Acme"}
	assert.Error(t, missingDescription.Validate())

	complete := &Brief{BrandName: "Acme", ProductDescription: "a thing"}
	assert.NoError(t, complete.Validate())
}

func TestBriefHasLockedCopy(t *testing.T) {
	var nilBrief *Brief
	assert.False(t, nilBrief.HasLockedCopy())

	noLockedCopy := &Brief{BrandName: "Acme"}
	assert.False(t, noLockedCopy.HasLockedCopy())

	emptyLockedCopy := &Brief{LockedCopy: &LockedCopy{}}
	assert.False(t, emptyLockedCopy.HasLockedCopy())

	withTagline := &Brief{LockedCopy: &LockedCopy{Tagline: "Just do it"}}
	assert.True(t, withTagline.HasLockedCopy())
}
