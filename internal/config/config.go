// Package config loads process configuration from the environment,
// following the reference backend's .env.local-then-.env-then-process-env
// resolution order.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting the HTTP surface and CLI entrypoints need.
type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	Environment  string `envconfig:"ENVIRONMENT" default:"production"`
	ReadTimeout  int    `envconfig:"READ_TIMEOUT" default:"30"`
	WriteTimeout int    `envconfig:"WRITE_TIMEOUT" default:"30"`

	AWSRegion    string `envconfig:"AWS_REGION" default:"us-east-1"`
	OutputBucket string `envconfig:"OUTPUT_BUCKET"`
	RunTable     string `envconfig:"RUN_LEDGER_TABLE"`
	QuotaTable   string `envconfig:"QUOTA_TABLE"`
	UseDynamoQuota bool  `envconfig:"USE_DYNAMO_QUOTA" default:"false"`

	ReplicateSecretARN string `envconfig:"REPLICATE_SECRET_ARN"`

	CognitoUserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`
	CognitoClientID   string `envconfig:"COGNITO_CLIENT_ID"`
	JWTIssuer         string `envconfig:"JWT_ISSUER"`

	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`

	RefLibraryRoot    string `envconfig:"REF_LIBRARY_ROOT" default:"./refs"`
	MockupMetadataPath string `envconfig:"MOCKUP_METADATA_PATH" default:"./refs/mockups/metadata.json"`
	OutputRoot         string `envconfig:"OUTPUT_ROOT" default:"./output"`
	StyleDNACacheDir   string `envconfig:"STYLEDNA_CACHE_DIR" default:"./cache/styledna"`

	TextModel   string   `envconfig:"MODEL_TEXT" default:"openai/gpt-4o"`
	VisionModel string   `envconfig:"MODEL_VISION" default:"openai/gpt-4o"`
	ImageLadder []string `envconfig:"MODEL_IMAGE_LADDER" default:"black-forest-labs/flux-1.1-pro,stability-ai/stable-diffusion-3.5-large"`

	MaxLogoConcurrency   int `envconfig:"MAX_LOGO_CONCURRENCY" default:"4"`
	MaxMockupConcurrency int `envconfig:"MAX_MOCKUP_CONCURRENCY" default:"10"`
	ResearchTimeoutMS    int `envconfig:"RESEARCH_TIMEOUT_MS" default:"30000"`

	MonthlyRunLimit int `envconfig:"MONTHLY_RUN_LIMIT" default:"50"`
}

// Load reads configuration from a local .env file (if present) and the
// process environment, env vars always winning over file contents.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	for _, path := range []string{".env.local", ".env", filepath.Join(wd, ".env.local"), filepath.Join(wd, ".env")} {
		if err := godotenv.Load(path); err == nil {
			log.Printf("loaded environment variables from %s", path)
			break
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment variables: %w", err)
	}
	return &cfg, nil
}
