// Package watch re-runs a function whenever a file is written.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thisdougb/fleetcheck/internal/config"
)

// File calls fn once, then again each time path changes, until ctx is done.
// Bursts of events within debounce collapse into one call. The parent
// directory is watched so the file may be created or replaced later.
func File(ctx context.Context, path string, debounce time.Duration, fn func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	if err := fn(ctx); err != nil {
		config.LogError(ctx, err.Error())
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			config.LogError(ctx, fmt.Sprintf("watcher error: %v", err))

		case <-timer.C:
			config.LogDebug(ctx, "change detected on "+path)
			if err := fn(ctx); err != nil {
				config.LogError(ctx, err.Error())
			}
		}
	}
}
