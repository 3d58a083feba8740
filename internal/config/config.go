// Package config provides configuration types and defaults for starforge.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/starforge/internal/tracing"
)

// Config holds all configuration options for starforge.
type Config struct {
	// DataDir is the base pack directory containing manifest.toml and the
	// collection files.
	DataDir string `mapstructure:"data_dir"`

	// ModsDir is the root directory scanned for mod packs.
	ModsDir string `mapstructure:"mods_dir"`

	// Locale selects the display language for CLI output: "en" or "ru".
	Locale string `mapstructure:"locale"`

	// AutoReload enables the file watcher and hot-reload supervisor.
	AutoReload bool `mapstructure:"auto_reload"`

	// ReloadDebounce is how long the watcher waits after the last file
	// event before triggering a reload.
	ReloadDebounce time.Duration `mapstructure:"reload_debounce"`

	History HistoryConfig  `mapstructure:"history"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// HistoryConfig holds load-history persistence configuration.
type HistoryConfig struct {
	// Enabled controls whether load attempts are recorded to SQLite.
	Enabled bool `mapstructure:"enabled"`

	// Path is the history database file.
	// Default: ~/.config/starforge/history.db
	Path string `mapstructure:"path"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir:        "data",
		ModsDir:        "mods",
		Locale:         "en",
		AutoReload:     true,
		ReloadDebounce: 500 * time.Millisecond,
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath(),
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// DefaultHistoryPath returns the default path for the history database.
// Returns ~/.config/starforge/history.db or empty string if home dir
// unavailable.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "starforge", "history.db")
}

// DefaultTracesFilePath returns the default path for trace file export.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "starforge", "traces", "traces.jsonl")
}

// DefaultLogPath returns the default debug log file path.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "starforge.log"
	}
	return filepath.Join(home, ".config", "starforge", "starforge.log")
}
