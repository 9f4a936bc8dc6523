package policy

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with the reloaded policy each time path is written
// or replaced. It runs until ctx is cancelled. A policy that fails to load
// is logged and skipped, so the previous one stays active.
//
// The parent directory is watched rather than the file itself: editors
// that save by renaming a temporary file over path replace its inode, and a
// watch on the old inode would go silent.
func Watch(ctx context.Context, path string, onChange func(*Policy)) error {
	logger := log.FromContext(ctx)

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(target); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}
	logger.Info("watching policy", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			// A rename over target arrives as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			p, err := Load(target)
			if err != nil {
				logger.Error("policy reload failed, keeping previous policy", "path", path, "err", err)
				continue
			}
			logger.Info("policy reloaded", "path", path)
			onChange(p)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("policy watcher", "err", err)
		}
	}
}
