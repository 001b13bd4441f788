// Package pipelineerr implements the error taxonomy of the pipeline
// orchestration engine (§7): every error raised by a stage carries a
// Kind describing how callers and the Pipeline Runner's state machine
// should react to it, rather than relying on Go type assertions alone.
package pipelineerr

import "fmt"

// Kind is one of the error kinds named in §7.
type Kind string

const (
	KindBriefInvalid           Kind = "BriefInvalid"
	KindModelTransient         Kind = "ModelTransient"
	KindModelSchemaViolation   Kind = "ModelSchemaViolation"
	KindModelFallbackExhausted Kind = "ModelFallbackExhausted"
	KindReferenceMissing       Kind = "ReferenceMissing"
	KindStyleDNAFailure        Kind = "StyleDNAFailure"
	KindDirectorOutputInvalid  Kind = "DirectorOutputInvalid"
	KindAssetGenerationFailed  Kind = "AssetGenerationFailed"
	KindCancelled              Kind = "Cancelled"
)

// fatalKinds are kinds that must surface as a failed stage/phase rather
// than be absorbed locally.
var fatalKinds = map[Kind]bool{
	KindBriefInvalid:          true,
	KindModelSchemaViolation:  true,
	KindDirectorOutputInvalid: true,
}

// retryableKinds are kinds classed as retryable. pkg/retry does not
// consult this set; it retries any error not wrapped in NonRetryableError.
var retryableKinds = map[Kind]bool{
	KindModelTransient: true,
}

// degradableKinds are kinds that degrade locally (record and continue)
// rather than abort the run.
var degradableKinds = map[Kind]bool{
	KindModelFallbackExhausted: true,
	KindReferenceMissing:       true,
	KindStyleDNAFailure:        true,
	KindAssetGenerationFailed:  true,
}

// Error is a typed pipeline error carrying a Kind and the causal chain.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Fatal reports whether this error must end the stage/phase it occurred in.
func (e *Error) Fatal() bool { return fatalKinds[e.Kind] }

// Retryable reports whether this error's kind is classed as retryable.
func (e *Error) Retryable() bool { return retryableKinds[e.Kind] }

// Degradable reports whether this error should be recorded and the run
// continued rather than aborted.
func (e *Error) Degradable() bool { return degradableKinds[e.Kind] }

// New constructs a pipeline error of the given kind.
func New(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// Transient wraps a transient model error (rate limit, network timeout).
func Transient(msg string, cause error) *Error {
	return New(KindModelTransient, msg, cause)
}

// SchemaViolation wraps a structured-output schema failure after repair
// attempts are exhausted.
func SchemaViolation(msg string, cause error) *Error {
	return New(KindModelSchemaViolation, msg, cause)
}

// FallbackExhausted wraps an ImageGen fallback-ladder exhaustion.
func FallbackExhausted(msg string, cause error) *Error {
	return New(KindModelFallbackExhausted, msg, cause)
}

// Degraded wraps a degradable failure (reference missing, StyleDNA
// extraction failure, per-asset failure) of the given kind.
func Degraded(kind Kind, msg string, cause error) *Error {
	return New(kind, msg, cause)
}

// Cancelled wraps a caller-initiated cancellation.
func Cancelled(msg string) *Error {
	return New(KindCancelled, msg, nil)
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *Error, with ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var pe *Error
	if e, ok := err.(*Error); ok {
		pe = e
	} else if as, ok2 := asError(err); ok2 {
		pe = as
	} else {
		return "", false
	}
	return pe.Kind, true
}

func asError(err error) (*Error, bool) {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if pe, ok := err.(*Error); ok {
			return pe, true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
