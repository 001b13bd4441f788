package modelclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brandforge/pipeline/pkg/pipelineerr"
	"github.com/brandforge/pipeline/pkg/retry"
)

const (
	predictionsURL    = "https://api.replicate.com/v1/predictions"
	defaultPollEvery  = 2 * time.Second
	defaultMaxPolls   = 60
	maxSchemaRepairs  = 2
)

// ReplicateClient implements Capability against the Replicate inference
// API using the submit-then-poll pattern: POST with Prefer: wait, then
// poll the returned prediction ID until it settles.
type ReplicateClient struct {
	apiToken    string
	httpClient  *http.Client
	logger      *zap.Logger
	textModel   string
	visionModel string
	imageLadder []string
	trace       TraceSink
}

// NewReplicateClient builds a client. imageLadder's first entry is the
// primary ImageGen model; the rest are fallbacks tried in order.
func NewReplicateClient(apiToken, textModel, visionModel string, imageLadder []string, logger *zap.Logger, trace TraceSink) *ReplicateClient {
	if trace == nil {
		trace = NoopTrace
	}
	return &ReplicateClient{
		apiToken:    apiToken,
		httpClient:  &http.Client{Timeout: 180 * time.Second},
		logger:      logger,
		textModel:   textModel,
		visionModel: visionModel,
		imageLadder: imageLadder,
		trace:       trace,
	}
}

type predictionRequest struct {
	Version string                 `json:"version"`
	Input   map[string]interface{} `json:"input"`
}

type predictionResponse struct {
	ID     string      `json:"id"`
	Status string      `json:"status"`
	Output interface{} `json:"output,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// submit posts a prediction and polls it to a terminal state.
func (c *ReplicateClient) submit(ctx context.Context, version string, input map[string]interface{}) (*predictionResponse, error) {
	payload, err := json.Marshal(predictionRequest{Version: version, Input: input})
	if err != nil {
		return nil, fmt.Errorf("marshal prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, predictionsURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build prediction request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read prediction response: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, retry.NewNonRetryableError(fmt.Errorf("prediction rejected (status %d): %s", resp.StatusCode, string(body)))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("prediction error (status %d): %s", resp.StatusCode, string(body))
	}

	var pred predictionResponse
	if err := json.Unmarshal(body, &pred); err != nil {
		return nil, fmt.Errorf("decode prediction response: %w", err)
	}

	if pred.Status == "succeeded" {
		return &pred, nil
	}

	return c.poll(ctx, pred.ID)
}

func (c *ReplicateClient) poll(ctx context.Context, predictionID string) (*predictionResponse, error) {
	url := fmt.Sprintf("%s/%s", predictionsURL, predictionID)

	for attempt := 0; attempt < defaultMaxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(defaultPollEvery):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build poll request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("poll request failed, retrying", zap.String("prediction_id", predictionID), zap.Error(err))
			continue
		}

		var pred predictionResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&pred)
		resp.Body.Close()
		if decodeErr != nil {
			c.logger.Warn("poll decode failed, retrying", zap.Error(decodeErr))
			continue
		}

		switch pred.Status {
		case "succeeded":
			return &pred, nil
		case "failed", "canceled":
			return nil, fmt.Errorf("prediction %s: %s", pred.Status, pred.Error)
		default:
			continue
		}
	}

	return nil, fmt.Errorf("prediction %s timed out after %d polls", predictionID, defaultMaxPolls)
}

func outputText(out interface{}) string {
	switch v := out.(type) {
	case string:
		return v
	case []interface{}:
		var b strings.Builder
		for _, part := range v {
			if s, ok := part.(string); ok {
				b.WriteString(s)
			}
		}
		return b.String()
	default:
		return ""
	}
}

// extractJSON strips a markdown fence around a JSON object, if present.
func extractJSON(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	start := strings.Index(trimmed, "\n")
	if start == -1 {
		return trimmed
	}
	rest := trimmed[start+1:]
	end := strings.LastIndex(rest, "```")
	if end == -1 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:end])
}

func (c *ReplicateClient) callChat(ctx context.Context, model, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	messages := []map[string]string{
		{"role": "system", "content": systemPrompt},
		{"role": "user", "content": userPrompt},
	}

	var text string
	cfg := retry.APIConfig()
	err := retry.Do(ctx, cfg, func() error {
		pred, err := c.submit(ctx, model, map[string]interface{}{
			"messages":              messages,
			"temperature":           temperature,
			"max_completion_tokens": maxTokens,
			"top_p":                 0.9,
		})
		if err != nil {
			return err
		}
		text = outputText(pred.Output)
		if text == "" {
			return fmt.Errorf("empty model output")
		}
		return nil
	})
	return text, err
}

// Generate implements TextStructured. It issues up to maxSchemaRepairs
// repair attempts, each re-sending the original prompt with the prior
// attempt's validation error appended, before giving up.
func (c *ReplicateClient) Generate(ctx context.Context, stage, schemaName, systemPrompt, userPrompt string, dst interface{}, validate func(map[string]interface{}) error) error {
	start := time.Now()
	prompt := userPrompt
	var lastErr error

	for attempt := 0; attempt <= maxSchemaRepairs; attempt++ {
		text, err := c.callChat(ctx, c.textModel, systemPrompt, prompt, 0.6, 8192)
		if err != nil {
			c.trace(TraceRecord{Stage: stage, Model: c.textModel, Latency: time.Since(start), Outcome: "failed"})
			return pipelineerr.Transient(fmt.Sprintf("%s: model call failed: %v", schemaName, err), err)
		}

		cleaned := extractJSON(text)

		var raw map[string]interface{}
		if jsonErr := json.Unmarshal([]byte(cleaned), &raw); jsonErr != nil {
			lastErr = fmt.Errorf("output is not valid JSON: %w", jsonErr)
			prompt = repairPrompt(userPrompt, lastErr)
			continue
		}

		if validate != nil {
			if vErr := validate(raw); vErr != nil {
				lastErr = vErr
				prompt = repairPrompt(userPrompt, lastErr)
				continue
			}
		}

		if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
			lastErr = fmt.Errorf("could not decode into target type: %w", err)
			prompt = repairPrompt(userPrompt, lastErr)
			continue
		}

		outcome := "ok"
		if attempt > 0 {
			outcome = "retried"
		}
		c.trace(TraceRecord{Stage: stage, Model: c.textModel, Latency: time.Since(start), Outcome: outcome})
		return nil
	}

	c.trace(TraceRecord{Stage: stage, Model: c.textModel, Latency: time.Since(start), Outcome: "failed"})
	return pipelineerr.SchemaViolation(fmt.Sprintf("%s: schema not satisfied after %d repair attempts: %v", schemaName, maxSchemaRepairs, lastErr), lastErr)
}

func repairPrompt(original string, validationErr error) string {
	return fmt.Sprintf("%s\n\nYour previous response was invalid: %s\nReturn ONLY a corrected JSON object, no markdown or commentary.", original, validationErr)
}

// Analyze implements Vision.
func (c *ReplicateClient) Analyze(ctx context.Context, stage, prompt string, images []ImageRef) (string, error) {
	start := time.Now()

	content := []map[string]interface{}{
		{"type": "text", "text": prompt},
	}
	for _, img := range images {
		url := img.URL
		if url == "" {
			url = img.Path
		}
		content = append(content, map[string]interface{}{
			"type":      "image_url",
			"image_url": map[string]string{"url": url},
		})
	}

	var text string
	cfg := retry.APIConfig()
	err := retry.Do(ctx, cfg, func() error {
		pred, err := c.submit(ctx, c.visionModel, map[string]interface{}{
			"messages": []map[string]interface{}{
				{"role": "user", "content": content},
			},
			"temperature":           0.3,
			"max_completion_tokens": 800,
		})
		if err != nil {
			return err
		}
		text = outputText(pred.Output)
		if text == "" {
			return fmt.Errorf("empty vision output")
		}
		return nil
	})

	if err != nil {
		c.trace(TraceRecord{Stage: stage, Model: c.visionModel, Latency: time.Since(start), Outcome: "failed"})
		return "", pipelineerr.Transient(fmt.Sprintf("vision analysis failed: %v", err), err)
	}

	c.trace(TraceRecord{Stage: stage, Model: c.visionModel, Latency: time.Since(start), Outcome: "ok"})
	return text, nil
}

// generateImage runs one ImageGen call against a single model, with
// retry; GenerateImage walks the fallback ladder over it.
func (c *ReplicateClient) generateImage(ctx context.Context, stage, model, prompt string, refs []ImageRef) ([]byte, error) {
	input := map[string]interface{}{"prompt": prompt}
	if len(refs) > 0 {
		urls := make([]string, 0, len(refs))
		for _, r := range refs {
			if r.URL != "" {
				urls = append(urls, r.URL)
			} else {
				urls = append(urls, r.Path)
			}
		}
		input["image_input"] = urls
	}

	start := time.Now()
	var imageURL string
	cfg := retry.APIConfig()
	err := retry.Do(ctx, cfg, func() error {
		pred, err := c.submit(ctx, model, input)
		if err != nil {
			return err
		}
		switch out := pred.Output.(type) {
		case string:
			imageURL = out
		case []interface{}:
			if len(out) > 0 {
				if s, ok := out[0].(string); ok {
					imageURL = s
				}
			}
		}
		if imageURL == "" {
			return fmt.Errorf("no image in model output")
		}
		return nil
	})
	if err != nil {
		c.trace(TraceRecord{Stage: stage, Model: model, Latency: time.Since(start), Outcome: "failed"})
		return nil, err
	}

	data, err := c.fetchImage(ctx, imageURL)
	if err != nil {
		c.trace(TraceRecord{Stage: stage, Model: model, Latency: time.Since(start), Outcome: "failed"})
		return nil, err
	}

	c.trace(TraceRecord{Stage: stage, Model: model, Latency: time.Since(start), Outcome: "ok"})
	return data, nil
}

func (c *ReplicateClient) fetchImage(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "data:") {
		idx := strings.Index(url, ",")
		if idx == -1 {
			return nil, fmt.Errorf("malformed data URL")
		}
		return base64.StdEncoding.DecodeString(url[idx+1:])
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch generated image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch generated image: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// GenerateImage walks the configured fallback ladder for ImageGen,
// advancing to the next model on non-transient failure or ladder
// exhaustion of the current model, and preserving the original prompt
// throughout.
func (c *ReplicateClient) GenerateImage(ctx context.Context, stage, prompt string, refs []ImageRef) ([]byte, error) {
	if len(c.imageLadder) == 0 {
		return nil, pipelineerr.FallbackExhausted("no image models configured", nil)
	}

	var lastErr error
	for i, model := range c.imageLadder {
		data, err := c.generateImage(ctx, stage, model, prompt, refs)
		if err == nil {
			return data, nil
		}
		lastErr = err
		c.logger.Warn("image model failed, advancing fallback ladder",
			zap.String("stage", stage),
			zap.String("model", model),
			zap.Int("ladder_position", i),
			zap.Error(err),
		)
	}

	return nil, pipelineerr.FallbackExhausted(fmt.Sprintf("%s: image generation exhausted fallback ladder of %d models", stage, len(c.imageLadder)), lastErr)
}
