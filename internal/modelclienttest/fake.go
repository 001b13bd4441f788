// Package modelclienttest provides an in-memory fake of
// modelclient.Capability for stage-level unit tests that need to drive a
// structured-output or image-generation call without a network client.
package modelclienttest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/brandforge/pipeline/internal/modelclient"
)

// Fake implements modelclient.Capability by returning caller-supplied
// canned responses and recording every call it receives.
type Fake struct {
	// TextResponses is consumed in order, one per call to Generate. When
	// exhausted, Generate returns TextErr (or a generic error if nil).
	TextResponses []interface{}
	TextErr       error

	// ImageResponses is consumed in order, one per call to
	// GenerateImage. When exhausted, GenerateImage returns ImageErr.
	ImageResponses [][]byte
	ImageErr       error

	VisionResponse string
	VisionErr      error

	TextCalls  []TextCall
	ImageCalls []ImageCall

	mu       sync.Mutex
	textIdx  int
	imageIdx int
}

// TextCall records one Generate invocation's arguments for assertions.
type TextCall struct {
	Stage        string
	SchemaName   string
	SystemPrompt string
	UserPrompt   string
}

// ImageCall records one GenerateImage invocation's arguments.
type ImageCall struct {
	Stage  string
	Prompt string
	Refs   []modelclient.ImageRef
}

var _ modelclient.Capability = (*Fake)(nil)

// Generate decodes the next queued response into dst via a JSON
// round-trip (mirroring how the real adapter decodes a model's raw JSON
// output), then runs validate against the same payload before returning.
func (f *Fake) Generate(ctx context.Context, stage, schemaName, systemPrompt, userPrompt string, dst interface{}, validate func(map[string]interface{}) error) error {
	f.mu.Lock()
	f.TextCalls = append(f.TextCalls, TextCall{Stage: stage, SchemaName: schemaName, SystemPrompt: systemPrompt, UserPrompt: userPrompt})

	if f.textIdx >= len(f.TextResponses) {
		textErr := f.TextErr
		f.mu.Unlock()
		if textErr != nil {
			return textErr
		}
		return fmt.Errorf("modelclienttest: no more queued text responses for stage %q", stage)
	}
	resp := f.TextResponses[f.textIdx]
	f.textIdx++
	f.mu.Unlock()

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("modelclienttest: marshal queued response: %w", err)
	}

	if validate != nil {
		var raw map[string]interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("modelclienttest: decode queued response as map: %w", err)
		}
		if err := validate(raw); err != nil {
			return err
		}
	}

	return json.Unmarshal(data, dst)
}

// Analyze returns the fake's canned vision response.
func (f *Fake) Analyze(ctx context.Context, stage, prompt string, images []modelclient.ImageRef) (string, error) {
	if f.VisionErr != nil {
		return "", f.VisionErr
	}
	return f.VisionResponse, nil
}

// GenerateImage returns the next queued image payload.
func (f *Fake) GenerateImage(ctx context.Context, stage, prompt string, refs []modelclient.ImageRef) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ImageCalls = append(f.ImageCalls, ImageCall{Stage: stage, Prompt: prompt, Refs: refs})

	if f.imageIdx >= len(f.ImageResponses) {
		if f.ImageErr != nil {
			return nil, f.ImageErr
		}
		return nil, fmt.Errorf("modelclienttest: no more queued image responses for stage %q", stage)
	}
	data := f.ImageResponses[f.imageIdx]
	f.imageIdx++
	return data, nil
}

// OnePixelPNG is a minimal valid PNG payload, useful as a queued
// GenerateImage response when a test only cares that a file got written.
var OnePixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
