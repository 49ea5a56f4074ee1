// Package watcher regenerates stubs whenever a schema file changes. Events
// are debounced so editors that write multiple times per save trigger a
// single regeneration.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tristendillon/capnp-stubgen/core/errors"
	"github.com/tristendillon/capnp-stubgen/core/logger"
)

const debounceDelay = 500 * time.Millisecond

// SchemaWatcher watches a directory tree for schema changes and invokes the
// regenerate callback after each burst of events.
type SchemaWatcher struct {
	rootDir      string
	excludePaths []string
	regenerate   func() error

	watcher *fsnotify.Watcher

	mu            sync.Mutex
	debounceTimer *time.Timer
}

// NewSchemaWatcher creates a watcher rooted at rootDir. Paths under any of
// excludePaths (relative to the root) are ignored.
func NewSchemaWatcher(rootDir string, excludePaths []string, regenerate func() error) (*SchemaWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	return &SchemaWatcher{
		rootDir:      rootDir,
		excludePaths: excludePaths,
		regenerate:   regenerate,
		watcher:      fsWatcher,
	}, nil
}

// Watch blocks, regenerating stubs on schema changes, until the watcher is
// closed or fails.
func (w *SchemaWatcher) Watch() error {
	if err := w.addWatchersRecursively(w.rootDir); err != nil {
		return errors.Wrap(err, "failed to add watchers")
	}

	if err := w.regenerate(); err != nil {
		logger.Error("Initial generation failed: %v", err)
	}

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}

			if w.shouldExcludePath(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() {
					logger.Debug("Adding watcher for new directory: %s", event.Name)
					w.watcher.Add(event.Name)
					continue
				}
			}

			if !strings.HasSuffix(event.Name, ".capnp") {
				continue
			}

			logger.Debug("Schema event: %s %s", event.Op, event.Name)
			w.debounceRegenerate()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func (w *SchemaWatcher) debounceRegenerate() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(debounceDelay, func() {
		logger.Debug("Schema changes detected, regenerating...")
		if err := w.regenerate(); err != nil {
			logger.Error("Regeneration failed: %v", err)
		}
	})
}

// Close stops the watcher and any pending debounce.
func (w *SchemaWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	return w.watcher.Close()
}

func (w *SchemaWatcher) shouldExcludePath(path string) bool {
	relPath, err := filepath.Rel(w.rootDir, path)
	if err != nil {
		return false
	}

	relPath = filepath.Clean(relPath)

	for _, excludePath := range w.excludePaths {
		excludePath = filepath.Clean(excludePath)

		if relPath == excludePath {
			return true
		}
		if strings.HasPrefix(relPath, excludePath+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

func (w *SchemaWatcher) addWatchersRecursively(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if w.shouldExcludePath(path) {
			logger.Debug("Excluding directory: %s", path)
			return filepath.SkipDir
		}

		logger.Debug("Adding watcher for: %s", path)
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrapf(err, "failed to add watcher for %s", path)
		}

		return nil
	})
}
