package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestToIsoDateTime(t *testing.T) {
	testCases := []struct {
		ms   int64
		want string
	}{
		{0, "1970-01-01T00:00:00Z"},
		{1709290800000, "2024-03-01T11:00:00Z"},
		{1709290800250, "2024-03-01T11:00:00.25Z"},
		{-1, "1969-12-31T23:59:59.999Z"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, ToIsoDateTime(tc.ms))
	}
}

func TestSetupLoggerLevels(t *testing.T) {
	logger := SetupLogger("warn")
	assert.False(t, logger.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Desugar().Core().Enabled(zapcore.WarnLevel))

	fallback := SetupLogger("loud")
	assert.True(t, fallback.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, fallback.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestDevMode(t *testing.T) {
	t.Setenv("WEBPROTEGE_ENV", "development")
	assert.True(t, IsDevModeEnabled())
	t.Setenv("WEBPROTEGE_ENV", "production")
	assert.False(t, IsDevModeEnabled())
}
