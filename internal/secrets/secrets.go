// Package secrets resolves model-provider API credentials, preferring an
// environment variable and falling back to AWS Secrets Manager (§12.3).
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"
)

// Provider resolves the Replicate API token used by every Model Client.
type Provider struct {
	client   *secretsmanager.Client
	secretID string
	logger   *zap.Logger
}

// NewProvider creates a Provider. secretID names the Secrets Manager
// secret to fall back to when REPLICATE_API_TOKEN is unset.
func NewProvider(client *secretsmanager.Client, secretID string, logger *zap.Logger) *Provider {
	return &Provider{client: client, secretID: secretID, logger: logger}
}

type apiTokenSecret struct {
	ReplicateAPIToken string `json:"replicate_api_token"`
}

// ReplicateAPIToken resolves the token: environment first, Secrets
// Manager second. Returns an error only if neither source yields a
// usable token.
func (p *Provider) ReplicateAPIToken(ctx context.Context) (string, error) {
	if v := os.Getenv("REPLICATE_API_TOKEN"); v != "" {
		return v, nil
	}

	if p.client == nil || p.secretID == "" {
		return "", fmt.Errorf("no REPLICATE_API_TOKEN set and no Secrets Manager fallback configured")
	}

	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(p.secretID),
	})
	if err != nil {
		return "", fmt.Errorf("fetch replicate api token from secrets manager: %w", err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", p.secretID)
	}

	var parsed apiTokenSecret
	if err := json.Unmarshal([]byte(*out.SecretString), &parsed); err != nil {
		// Some operators store the raw token string rather than a JSON
		// envelope; accept that form too.
		return *out.SecretString, nil
	}
	if parsed.ReplicateAPIToken == "" {
		return "", fmt.Errorf("secret %s did not contain replicate_api_token", p.secretID)
	}
	return parsed.ReplicateAPIToken, nil
}
