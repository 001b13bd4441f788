package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerProduction(t *testing.T) {
	l, err := NewLogger("production")
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}

func TestNewLoggerDevelopment(t *testing.T) {
	l, err := NewLogger("development")
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
}
