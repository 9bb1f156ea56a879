package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env     string
		verbose bool
		enabled zapcore.Level
		off     zapcore.Level
	}{
		{"production", false, zapcore.InfoLevel, zapcore.DebugLevel},
		{"local", false, zapcore.WarnLevel, zapcore.InfoLevel},
		{"local", true, zapcore.DebugLevel, zapcore.DebugLevel - 1},
	}
	for _, tt := range tests {
		log, err := New(tt.env, tt.verbose)
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(tt.enabled), "%s verbose=%v", tt.env, tt.verbose)
		assert.False(t, log.Core().Enabled(tt.off), "%s verbose=%v", tt.env, tt.verbose)
	}
}
