package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON zap logger at the given level, named after the component.
func New(level zapcore.Level, name string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = level > zapcore.DebugLevel

	log, err := cfg.Build()
	if err != nil {
		// the production config only fails on a broken sink
		log = zap.NewExample()
	}
	return log.Named(name)
}
