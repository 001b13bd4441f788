package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
)

// An invalid brief fails before any stage dependency is touched, so the
// Runner can be exercised with every field left nil.
func TestRunLogosPhaseEmitsFailedOnInvalidBrief(t *testing.T) {
	r := &Runner{logger: zap.NewNop()}

	var events []domain.ProgressEvent
	result := r.RunLogosPhase(context.Background(), &domain.Brief{}, t.TempDir(), func(ev domain.ProgressEvent) {
		events = append(events, ev)
	})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)

	last := events[len(events)-1]
	assert.Equal(t, string(domain.StateFailed), last.Status)
	assert.Equal(t, "logos", last.Stage)
	assert.Equal(t, result.Error, last.Detail)
}

func TestRunLogosPhaseCancelledBeforeStartEmitsNoFailedEvent(t *testing.T) {
	r := &Runner{logger: zap.NewNop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var events []domain.ProgressEvent
	brief := &domain.Brief{BrandName: "Acme", ProductDescription: "widgets"}
	result := r.RunLogosPhase(ctx, brief, t.TempDir(), func(ev domain.ProgressEvent) {
		events = append(events, ev)
	})

	assert.False(t, result.Success)
	last := events[len(events)-1]
	assert.Equal(t, string(domain.StateCancelled), last.Status)
}
