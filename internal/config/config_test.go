package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/starforge/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "mods", cfg.ModsDir)
	assert.Equal(t, "en", cfg.Locale)
	assert.True(t, cfg.AutoReload)
	assert.Equal(t, 500*time.Millisecond, cfg.ReloadDebounce)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, config.DefaultHistoryPath(), cfg.History.Path)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, config.WriteDefaultConfig(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "data_dir: data")
	assert.Contains(t, string(content), "auto_reload: true")
}

func TestWriteDefaultConfig_RefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: ru\n"), 0644))

	err := config.WriteDefaultConfig(path)
	require.Error(t, err)

	// The user's file is untouched.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "locale: ru\n", string(content))
}
