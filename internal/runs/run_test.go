package runs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandforge/pipeline/internal/domain"
)

func TestRunBroadcastDeliversToSubscribers(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	run := newRun("run-1", "caller-1", "/tmp/out", &domain.Brief{BrandName: "Acme"}, cancel)
	sub := run.Subscribe()

	run.broadcast(domain.ProgressEvent{Stage: "logos", Status: string(domain.StateResearching)})

	select {
	case ev := <-sub:
		assert.Equal(t, "logos", ev.Stage)
		assert.Equal(t, string(domain.StateResearching), ev.Status)
	case <-time.After(time.Second):
		t.Fatal("expected a progress event")
	}
}

func TestRunStateDefaultsToIdle(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	run := newRun("run-2", "caller-1", "/tmp/out", &domain.Brief{}, cancel)
	assert.Equal(t, domain.StateIdle, run.State())
}

func TestRunLogosResultRoundTrip(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	run := newRun("run-3", "caller-1", "/tmp/out", &domain.Brief{}, cancel)

	_, ok := run.LogosResult()
	assert.False(t, ok)

	run.setLogosResult(domain.LogosPhaseResult{Success: true})
	result, ok := run.LogosResult()
	require.True(t, ok)
	assert.True(t, result.Success)
}
