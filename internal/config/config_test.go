package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		original, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, original)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, "PORT", "ENVIRONMENT", "MAX_LOGO_CONCURRENCY", "MONTHLY_RUN_LIMIT")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 4, cfg.MaxLogoConcurrency)
	assert.Equal(t, 50, cfg.MonthlyRunLimit)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	clearEnv(t, "PORT", "ENVIRONMENT", "MAX_LOGO_CONCURRENCY")
	os.Setenv("PORT", "9090")
	os.Setenv("ENVIRONMENT", "development")
	os.Setenv("MAX_LOGO_CONCURRENCY", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 2, cfg.MaxLogoConcurrency)
}

func TestLoadImageLadderDefault(t *testing.T) {
	clearEnv(t, "MODEL_IMAGE_LADDER")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Len(t, cfg.ImageLadder, 2)
	assert.Equal(t, "black-forest-labs/flux-1.1-pro", cfg.ImageLadder[0])
}
