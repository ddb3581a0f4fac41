// Package logging builds the process logger. The terminal belongs to the
// UI, so logs only ever go to a file, and nothing is logged unless
// SNAPMIXER_LOG names a level.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/b/snapmixer/pkg/paths"
)

// EnvLevel selects the log level: debug, info, warn, error or off.
const EnvLevel = "SNAPMIXER_LOG"

// New returns a logger writing JSON lines at level to path. An empty
// level or "off" disables logging.
func New(level, path string) (*zap.Logger, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" || level == "off" {
		return zap.NewNop(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvLevel, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// FromEnv builds the logger from SNAPMIXER_LOG, writing to the default
// log path.
func FromEnv() (*zap.Logger, error) {
	return New(os.Getenv(EnvLevel), paths.LogPath())
}
