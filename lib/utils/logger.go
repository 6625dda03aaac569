package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SetupLogger builds the process logger. Unknown levels fall back to info.
func SetupLogger(level string) *zap.SugaredLogger {
	config := zap.NewProductionConfig()
	if IsDevModeEnabled() {
		config = zap.NewDevelopmentConfig()
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(parsed)

	return zap.Must(config.Build()).Sugar()
}
