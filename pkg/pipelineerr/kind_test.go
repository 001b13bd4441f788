package pipelineerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	fatal := New(KindBriefInvalid, "missing brand name", nil)
	assert.True(t, fatal.Fatal())
	assert.False(t, fatal.Retryable())
	assert.False(t, fatal.Degradable())

	transient := Transient("rate limited", errors.New("429"))
	assert.False(t, transient.Fatal())
	assert.True(t, transient.Retryable())

	degraded := Degraded(KindReferenceMissing, "no reference logos", nil)
	assert.True(t, degraded.Degradable())
	assert.False(t, degraded.Fatal())
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := New(KindModelTransient, "calling model", cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), "ModelTransient")
	assert.ErrorIs(t, err, cause)
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	inner := New(KindCancelled, "run cancelled", nil)
	wrapped := fmt.Errorf("phase aborted: %w", inner)

	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindCancelled, kind)

	_, ok = KindOf(errors.New("plain error"))
	assert.False(t, ok)
}
