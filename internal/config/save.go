package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultConfigTemplate is the starter config written on first run.
const defaultConfigTemplate = `# starforge configuration

# Base pack directory (must contain manifest.toml).
data_dir: data

# Root directory scanned for mod packs.
mods_dir: mods

# Display language for CLI output: en or ru.
locale: en

# Reload data automatically when files change.
auto_reload: true

# How long to wait after the last file event before reloading.
reload_debounce: 500ms

history:
  # Record every load attempt to SQLite.
  enabled: true
  # path: ~/.config/starforge/history.db

tracing:
  enabled: false
  # exporter: file | stdout | otlp | none
  exporter: file
  sample_rate: 1.0
`

// WriteDefaultConfig writes the starter config file at path. Parent
// directories are created; an existing file is never overwritten.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write to temp then rename so a crash never leaves a half-written
	// config behind.
	temp, err := os.CreateTemp(dir, ".starforge.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.WriteString(defaultConfigTemplate); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
