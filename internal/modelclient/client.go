// Package modelclient implements the three provider-independent model
// capability contracts the pipeline is built on: structured text
// generation, vision analysis, and image generation. Concrete adapters
// talk to Replicate using the submit-then-poll pattern; callers only
// ever see the capability interfaces below.
package modelclient

import (
	"context"
	"time"
)

// TraceRecord is emitted for every model call, regardless of outcome.
type TraceRecord struct {
	Stage   string
	Model   string
	Latency time.Duration
	Outcome string // "ok", "retried", "fallback", "failed"
}

// TraceSink receives trace records. Implementations must not block the
// caller; NewReplicateClient uses NoopTrace when no sink is given.
type TraceSink func(TraceRecord)

// NoopTrace discards trace records.
func NoopTrace(TraceRecord) {}

// ImageRef is a reference image supplied to Vision or ImageGen, either
// as a local path/content hash or a remote URL understood by the
// underlying provider.
type ImageRef struct {
	URL  string
	Path string
}

// TextStructured returns an instance of the caller's schema, validated
// and (if necessary) repaired up to a bounded number of attempts.
type TextStructured interface {
	// Generate invokes the model and unmarshals its JSON output into
	// dst (a pointer). schemaName identifies the schema for tracing
	// and repair-prompt construction; validate is called against the
	// raw decoded map before the final unmarshal into dst, and should
	// return a descriptive error naming the violated field.
	Generate(ctx context.Context, stage, schemaName, systemPrompt, userPrompt string, dst interface{}, validate func(map[string]interface{}) error) error
}

// Vision analyzes one or more images against a prompt and returns the
// model's raw text response.
type Vision interface {
	Analyze(ctx context.Context, stage, prompt string, images []ImageRef) (string, error)
}

// ImageGen produces raw image bytes from a prompt, optionally
// conditioned on reference images. Implementations apply the fallback
// ladder internally; callers only see the final outcome.
type ImageGen interface {
	GenerateImage(ctx context.Context, stage, prompt string, refs []ImageRef) ([]byte, error)
}

// Capability bundles all three contracts behind a single handle so
// stages can accept one argument.
type Capability interface {
	TextStructured
	Vision
	ImageGen
}
