// Package logger holds the process-wide zap logger
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger. It is a no-op logger until Init is called.
var Logger = zap.NewNop()

// Init builds the process-wide logger for the given level.
// "debug" produces a human-readable development logger, any other level a JSON production logger.
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	Logger = l
	return nil
}

// Sync flushes any buffered log entries
func Sync() {
	_ = Logger.Sync()
}
