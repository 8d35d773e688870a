package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "lily", cfg.Language)
	assert.Equal(t, 100, cfg.Debounce)
	assert.False(t, cfg.Logging.Debug)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"debounce_ms": 250, "logging": {"debug": true, "level": "info"}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Debounce)
	assert.Equal(t, "lily", cfg.Language, "missing keys keep defaults")
	assert.True(t, cfg.Logging.Debug)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: lily\ndebounce_ms: 50\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Debounce)
}

func TestLoad_InvalidDebounceFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"debounce_ms": -5}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Debounce)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_BadContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
