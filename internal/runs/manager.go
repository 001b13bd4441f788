// Package runs implements the in-process run registry behind the
// optional HTTP surface (§12.1): bookkeeping (state, subscriber fan-out,
// cancellation, result caching) around the core pipeline library. It is
// kept independent of internal/api/handlers so the two may import one
// another's types without a cycle.
package runs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/ledger"
	"github.com/brandforge/pipeline/internal/mockup"
	"github.com/brandforge/pipeline/internal/pipeline"
	"github.com/brandforge/pipeline/internal/store"
)

// Run tracks one in-flight or completed phase execution. The HTTP
// surface is a thin wrapper: all pipeline semantics live in
// internal/pipeline, this type only adds the bookkeeping an async wire
// protocol needs (subscriber fan-out, cancellation, result caching).
type Run struct {
	ID        string
	CallerID  string
	OutputDir string
	Brief     *domain.Brief

	mu           sync.Mutex
	state        domain.RunState
	logosResult  *domain.LogosPhaseResult
	assetsResult *domain.AssetsPhaseResult
	subscribers  []chan domain.ProgressEvent
	cancel       context.CancelFunc
}

func newRun(id, callerID, outputDir string, brief *domain.Brief, cancel context.CancelFunc) *Run {
	return &Run{ID: id, CallerID: callerID, OutputDir: outputDir, Brief: brief, state: domain.StateIdle, cancel: cancel}
}

// Subscribe registers a channel that receives subsequent progress events
// for this run. The channel buffers 64 events; an event is dropped for a
// subscriber whose buffer is full. The caller must drain it until the
// run reaches a terminal state.
func (r *Run) Subscribe() chan domain.ProgressEvent {
	ch := make(chan domain.ProgressEvent, 64)
	r.mu.Lock()
	r.subscribers = append(r.subscribers, ch)
	r.mu.Unlock()
	return ch
}

func (r *Run) broadcast(ev domain.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (r *Run) setState(s domain.RunState) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// State returns the run's current state.
func (r *Run) State() domain.RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Run) setLogosResult(res domain.LogosPhaseResult) {
	r.mu.Lock()
	r.logosResult = &res
	r.mu.Unlock()
}

// LogosResult returns the logos-phase result, if the run has reached one.
func (r *Run) LogosResult() (domain.LogosPhaseResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.logosResult == nil {
		return domain.LogosPhaseResult{}, false
	}
	return *r.logosResult, true
}

func (r *Run) setAssetsResult(res domain.AssetsPhaseResult) {
	r.mu.Lock()
	r.assetsResult = &res
	r.mu.Unlock()
}

// AssetsResult returns the assets-phase result, if the run has reached one.
func (r *Run) AssetsResult() (domain.AssetsPhaseResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.assetsResult == nil {
		return domain.AssetsPhaseResult{}, false
	}
	return *r.assetsResult, true
}

// Manager owns every in-flight/completed Run this process knows about.
// It is process-local — restarting the server loses in-flight runs,
// consistent with the Non-goal of persistent multi-tenant state;
// RecordTransition to the optional Run Ledger is the durable trail.
type Manager struct {
	runner *pipeline.Runner
	ledger *ledger.Ledger
	store  *store.Store
	logger *zap.Logger

	mu   sync.RWMutex
	runs map[string]*Run
}

// NewManager creates a Manager. led and outputStore may be nil when the
// optional Run Ledger (§12.5) and Output Store (§12.4) are not configured.
func NewManager(runner *pipeline.Runner, led *ledger.Ledger, outputStore *store.Store, logger *zap.Logger) *Manager {
	return &Manager{runner: runner, ledger: led, store: outputStore, logger: logger, runs: make(map[string]*Run)}
}

// UploadOutputs pushes a completed run's output directory to the
// configured Output Store and returns a presigned URL per uploaded key.
// It returns an error if no Output Store is configured.
func (m *Manager) UploadOutputs(ctx context.Context, run *Run) (map[string]string, error) {
	if m.store == nil {
		return nil, fmt.Errorf("no output store configured")
	}
	keys, err := m.store.UploadTree(ctx, run.OutputDir, run.ID)
	if err != nil {
		return nil, err
	}
	urls := make(map[string]string, len(keys))
	for name, key := range keys {
		url, err := m.store.PresignedURL(ctx, key)
		if err != nil {
			m.logger.Warn("failed to presign uploaded output", zap.String("key", key), zap.Error(err))
			continue
		}
		urls[name] = url
	}
	return urls, nil
}

func (m *Manager) recordTransition(ctx context.Context, runID string, from, to domain.RunState) {
	if m.ledger == nil {
		return
	}
	m.ledger.RecordTransition(ctx, domain.RunTransition{RunID: runID, From: from, To: to, At: time.Now()})
}

// StartLogosPhase registers a new run and kicks off Phase 1 in the
// background, returning immediately with the run's ID.
func (m *Manager) StartLogosPhase(callerID, outputRoot string, brief *domain.Brief) *Run {
	id := uuid.NewString()
	outDir := fmt.Sprintf("%s/%s", outputRoot, id)
	ctx, cancel := context.WithCancel(context.Background())

	run := newRun(id, callerID, outDir, brief, cancel)
	m.mu.Lock()
	m.runs[id] = run
	m.mu.Unlock()

	go func() {
		run.setState(domain.StateResearching)
		m.recordTransition(ctx, id, domain.StateIdle, domain.StateResearching)

		result := m.runner.RunLogosPhase(ctx, brief, outDir, func(ev domain.ProgressEvent) {
			run.broadcast(ev)
		})
		run.setLogosResult(result)

		final := domain.StateFailed
		if result.Success {
			final = domain.StateDone
			for _, status := range result.PerDirection {
				if status.Status == domain.StatusFailed {
					final = domain.StateDonePartial
				}
			}
		}
		run.setState(final)
		m.recordTransition(ctx, id, domain.StateGeneratingLogos, final)
	}()

	return run
}

// StartAssetsPhase kicks off Phase 2 for an already-completed run,
// targeting the designer-selected direction.
func (m *Manager) StartAssetsPhase(run *Run, chosen domain.BrandDirection, logoPath string, mockupMetadata []mockup.Metadata) {
	ctx, cancel := context.WithCancel(context.Background())
	run.mu.Lock()
	run.cancel = cancel
	run.mu.Unlock()

	run.setState(domain.StateGeneratingAssets)
	m.recordTransition(ctx, run.ID, domain.StateDone, domain.StateGeneratingAssets)

	go func() {
		result := m.runner.RunAssetsPhase(ctx, chosen, run.Brief, run.OutputDir, logoPath, mockupMetadata, func(ev domain.ProgressEvent) {
			run.broadcast(ev)
		})
		run.setAssetsResult(result)

		final := domain.StateFailed
		if result.Success {
			final = domain.StateDone
			if result.Error != "" {
				final = domain.StateDonePartial
			}
		}
		run.setState(final)
		m.recordTransition(ctx, run.ID, domain.StateGeneratingAssets, final)
	}()
}

// StartRefine re-invokes Phase 1 in refinement mode for an already
// completed run and replaces its logos-phase result in place.
func (m *Manager) StartRefine(run *Run, feedback string, targets []int) error {
	previous, ok := run.LogosResult()
	if !ok {
		return fmt.Errorf("run %s has no logos-phase result to refine", run.ID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	run.mu.Lock()
	run.cancel = cancel
	run.mu.Unlock()

	run.setState(domain.StateDirecting)
	m.recordTransition(ctx, run.ID, domain.StateDone, domain.StateDirecting)

	go func() {
		result := m.runner.RunRefinePhase(ctx, run.Brief, previous, feedback, targets, run.OutputDir, func(ev domain.ProgressEvent) {
			run.broadcast(ev)
		})
		run.setLogosResult(result)

		final := domain.StateFailed
		if result.Success {
			final = domain.StateDone
			for _, status := range result.PerDirection {
				if status.Status == domain.StatusFailed {
					final = domain.StateDonePartial
				}
			}
		}
		run.setState(final)
		m.recordTransition(ctx, run.ID, domain.StateGeneratingLogos, final)
	}()

	return nil
}

// Get returns the run with the given ID.
func (m *Manager) Get(id string) (*Run, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[id]
	return r, ok
}

// Cancel cooperatively cancels a run's in-flight context (§5, P11).
func (m *Manager) Cancel(id string) bool {
	m.mu.RLock()
	r, ok := m.runs[id]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return true
}
