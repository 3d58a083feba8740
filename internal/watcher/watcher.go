// Package watcher provides file system watching with debouncing for the
// data and mods roots.
package watcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/starforge/internal/data/decode"
	"github.com/zjrosen/starforge/internal/log"
)

// Watcher monitors the base pack and every mod directory for changes and
// coalesces bursts of events into single change notifications.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dataDir   string
	modsDir   string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	DataDir     string
	ModsDir     string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(dataDir, modsDir string) Config {
	return Config{
		DataDir:     dataDir,
		ModsDir:     modsDir,
		DebounceDur: 500 * time.Millisecond,
	}
}

// New creates a new data watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		dataDir:   cfg.DataDir,
		modsDir:   cfg.ModsDir,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the data roots.
// Returns a channel that receives a signal when any data file changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.fsWatcher.Add(w.dataDir); err != nil {
		return nil, fmt.Errorf("watching data dir %s: %w", w.dataDir, err)
	}
	if err := w.addModRoots(); err != nil {
		return nil, err
	}

	go w.loop()

	return w.onChange, nil
}

// addModRoots watches the mods root plus each existing mod directory.
// fsnotify is not recursive; mods are exactly one level deep, so watching
// each child is enough. New mod directories are picked up in the event loop.
func (w *Watcher) addModRoots() error {
	err := w.fsWatcher.Add(w.modsDir)
	if errors.Is(err, fs.ErrNotExist) {
		// No mods root yet. The base pack alone is a valid install.
		return nil
	}
	if err != nil {
		return fmt.Errorf("watching mods dir %s: %w", w.modsDir, err)
	}

	entries, err := os.ReadDir(w.modsDir)
	if err != nil {
		return fmt.Errorf("reading mods dir %s: %w", w.modsDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(w.modsDir, entry.Name())
		if err := w.fsWatcher.Add(dir); err != nil {
			log.Warn(log.CatWatcher, "cannot watch mod directory", "dir", dir, "error", err.Error())
		}
	}
	return nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			// A directory created under the mods root is a new mod; start
			// watching it so its files trigger reloads too.
			if event.Op&fsnotify.Create != 0 && filepath.Dir(event.Name) == w.modsDir {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.fsWatcher.Add(event.Name); err != nil {
						log.Warn(log.CatWatcher, "cannot watch new mod directory",
							"dir", event.Name, "error", err.Error())
					}
				}
			}

			if !w.isRelevantEvent(event) {
				continue
			}
			log.Debug(log.CatWatcher, "data change observed", "path", event.Name, "op", event.Op.String())

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a reload.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	base := filepath.Base(event.Name)
	if base == "manifest.toml" || base == "mod.toml" {
		return true
	}
	_, ok := decode.CollectionForFile(base)
	return ok
}
