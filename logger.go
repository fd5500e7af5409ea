package main

import (
	"fmt"

	"go.uber.org/zap"
)

// Log is the process-wide logger. The terminal belongs to the UI, so it
// stays a no-op unless a log file is configured.
var Log = zap.NewNop()

func initLogger(cfg *Config) (func(), error) {
	if cfg == nil || cfg.LogFile == "" {
		return func() {}, nil
	}
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{cfg.LogFile}
	zc.ErrorOutputPaths = []string{cfg.LogFile}
	if cfg.Debug {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger for %s: %w", cfg.LogFile, err)
	}
	Log = l
	return func() { _ = l.Sync() }, nil
}
