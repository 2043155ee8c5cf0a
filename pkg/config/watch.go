package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the global configuration whenever the config file is written,
// created or renamed into place, until ctx is cancelled. The parent directory
// is watched so that editors replacing the file are noticed. onReload receives
// the result of every reload attempt and may be nil.
func Watch(ctx context.Context, onReload func(*FeedboxConfig, error)) error {
	path := FilePath()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			err := Reload()
			if onReload != nil {
				onReload(Get(), err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onReload != nil {
				onReload(Get(), fmt.Errorf("watcher error: %w", err))
			}
		case <-ctx.Done():
			return nil
		}
	}
}
