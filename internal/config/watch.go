package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the config file at path and calls onChange with the newly
// loaded Config each time the file is rewritten. It blocks until ctx is
// cancelled.
//
// A reload that fails validation is logged and dropped — the previous config
// stays active and onChange is not called.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Atomic-save editors replace the file (rename + create), so a
			// create event matters as much as a plain write.
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				reload(path, onChange)
				// The inode may have changed; re-arm the watch.
				_ = watcher.Add(path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

func reload(path string, onChange func(*Config)) {
	cfg, err := Load(path)
	if err != nil {
		slog.Error("config: reload failed — keeping previous config",
			"path", path, "err", err)
		return
	}
	slog.Info("config: reloaded", "path", path)
	onChange(cfg)
}
