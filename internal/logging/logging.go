// Package logging builds the process logger. Categories are named
// sub-loggers so output from the lexer, the transform passes and the
// edit generator can be told apart in one stream. Logging is off
// unless debug mode is enabled.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log categories.
const (
	CategoryTokens    = "tokens"    // lexing, token tree diffs
	CategoryTransform = "transform" // tree builds, cache, incremental updates
	CategoryEdit      = "edit"      // edit computation and application
	CategoryWatch     = "watch"     // file watching
)

// Config controls the logger.
type Config struct {
	Debug bool   `yaml:"debug" json:"debug"`                     // when false New returns a no-op logger
	Level string `yaml:"level,omitempty" json:"level,omitempty"` // debug/info/warn/error, default debug
	File  string `yaml:"file,omitempty" json:"file,omitempty"`   // log file path, default stderr
}

// New builds the root logger from the config.
func New(cfg Config) (*zap.Logger, error) {
	if !cfg.Debug {
		return zap.NewNop(), nil
	}
	zc := zap.NewDevelopmentConfig()
	zc.OutputPaths = []string{"stderr"}
	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
	}
	if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc.Build()
}

// Category returns the named sub-logger for a component.
func Category(l *zap.Logger, name string) *zap.Logger {
	return l.Named(name)
}
