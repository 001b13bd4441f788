// Package research implements the best-effort, time-boxed competitor
// landscape summary that feeds the Director stage (§4.D).
package research

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
	"github.com/brandforge/pipeline/internal/modelclient"
)

// DefaultTimeout is the hard wall-clock cap on the Research Stage,
// overridable via RESEARCH_TIMEOUT_MS.
const DefaultTimeout = 30 * time.Second

// Record is the competitor-landscape summary the Director consumes. A
// zero-value Record is valid input: the Director must tolerate its
// absence.
type Record struct {
	Positioning              string `json:"positioning"`
	DesignLanguageObservations string `json:"design_language_observations"`
	CommonVisualTropes       string `json:"common_visual_tropes"`
}

const systemPrompt = `You are a market researcher. Given a brand brief, produce a short, honest competitor-landscape summary. Return ONLY a JSON object: {"positioning": "...", "design_language_observations": "...", "common_visual_tropes": "..."}. Each field is 1-2 sentences.`

// Stage runs the Research Stage.
type Stage struct {
	text    modelclient.TextStructured
	timeout time.Duration
	logger  *zap.Logger
}

// NewStage creates a Stage with the given timeout (DefaultTimeout if zero).
func NewStage(text modelclient.TextStructured, timeout time.Duration, logger *zap.Logger) *Stage {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Stage{text: text, timeout: timeout, logger: logger}
}

// Run produces a Record, time-boxed at s.timeout. On timeout or failure
// it returns an empty Record rather than an error — the Director must
// tolerate absence, per §4.D.
func (s *Stage) Run(ctx context.Context, brief *domain.Brief) Record {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan Record, 1)
	go func() {
		userPrompt := "Brand: " + brief.BrandName + "\nProduct: " + brief.ProductDescription +
			"\nCompetitors: " + brief.Competitors + "\nTone: " + brief.Tone

		var rec Record
		err := s.text.Generate(ctx, "research", "ResearchRecord", systemPrompt, userPrompt, &rec, validateRecord)
		if err != nil {
			done <- Record{}
			return
		}
		done <- rec
	}()

	select {
	case rec := <-done:
		return rec
	case <-ctx.Done():
		s.logger.Info("research stage timed out, continuing with empty record",
			zap.Duration("timeout", s.timeout))
		return Record{}
	}
}

func validateRecord(raw map[string]interface{}) error {
	// Any subset of fields is acceptable; the Director tolerates a
	// fully empty record, so there is nothing to reject structurally
	// beyond having been valid JSON.
	return nil
}
