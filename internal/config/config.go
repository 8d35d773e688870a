// Package config loads the optional watch configuration file. Both
// YAML and JSON are accepted, keyed on the file extension.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"lydom/internal/logging"
)

// Config holds watch-mode settings.
type Config struct {
	// Language selects the grammar. Only "lily" is built in.
	Language string `yaml:"language" json:"language"`

	// Debounce is how long to wait after a change notification before
	// rebuilding, in milliseconds. Editors often fire several events
	// per save.
	Debounce int `yaml:"debounce_ms" json:"debounce_ms"`

	// Logging configures the process logger.
	Logging logging.Config `yaml:"logging" json:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Language: "lily",
		Debounce: 100,
	}
}

// Load reads a config file. A missing path returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = Default().Debounce
	}
	if cfg.Language == "" {
		cfg.Language = Default().Language
	}
	return cfg, nil
}

// DebounceInterval returns the debounce as a duration.
func (c Config) DebounceInterval() time.Duration {
	return time.Duration(c.Debounce) * time.Millisecond
}
