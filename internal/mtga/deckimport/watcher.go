package deckimport

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherOptions configures a decklist file Watcher.
type WatcherOptions struct {
	// PollInterval is the backup poll in case file events are missed.
	// Default: 2 seconds
	PollInterval time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Watcher re-reads a decklist file whenever it changes and hands the new
// contents to a callback. Unchanged or blank contents are not reported.
type Watcher struct {
	path         string
	onChange     func(text string)
	pollInterval time.Duration
	logger       *slog.Logger
	last         string
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, onChange func(text string), options WatcherOptions) *Watcher {
	if options.PollInterval <= 0 {
		options.PollInterval = 2 * time.Second
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &Watcher{
		path:         filepath.Clean(path),
		onChange:     onChange,
		pollInterval: options.PollInterval,
		logger:       options.Logger,
	}
}

// Run watches until ctx is done. The current contents are reported once on
// start. The parent directory is watched so editors that replace the file
// on save are still seen.
func (w *Watcher) Run(ctx context.Context) (err error) {
	if err := w.check(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch decklist directory: %w", err)
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if err := w.check(); err != nil {
					w.logger.Warn("failed to read decklist", "path", w.path, "error", err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		case <-ticker.C:
			if err := w.check(); err != nil {
				w.logger.Debug("decklist poll failed", "path", w.path, "error", err)
			}
		}
	}
}

// check reads the file and reports it if the contents changed.
func (w *Watcher) check() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("failed to read decklist file: %w", err)
	}

	text := string(data)
	// A truncate-then-write save shows up as an empty file first.
	if strings.TrimSpace(text) == "" || text == w.last {
		return nil
	}
	w.last = text

	w.logger.Info("decklist changed", "path", w.path, "bytes", len(data))
	w.onChange(text)
	return nil
}
