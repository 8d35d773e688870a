package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledIsNop(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(0), "disabled logger must not log")
}

func TestNew_DebugWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lydom.log")
	l, err := New(Config{Debug: true, Level: "warn", File: path})
	require.NoError(t, err)
	l.Warn("hello")
	require.NoError(t, l.Sync())
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Config{Debug: true, Level: "loud"})
	assert.Error(t, err)
}

func TestCategory(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	assert.NotNil(t, Category(l, CategoryTransform))
}
