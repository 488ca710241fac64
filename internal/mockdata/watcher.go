package mockdata

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// Watch reloads the mock file whenever it changes on disk, until ctx is
// cancelled. It is a no-op for stores without a path or not backed by the OS
// filesystem.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	if _, ok := s.fs.(*afero.OsFs); !ok {
		slog.Debug("Mock user store is not on the OS filesystem, skipping watcher")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}

	// Editors often replace files instead of writing in place, so the
	// directory is watched rather than the file itself.
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go s.watchFile(ctx, watcher)

	slog.Debug("Started mock user hot-reload", "path", s.path)
	return nil
}

func (s *Store) watchFile(ctx context.Context, watcher *fsnotify.Watcher) {
	defer func() {
		watcher.Close()
		slog.Debug("Mock user watcher stopped")
	}()

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				s.reload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Mock user watcher error", "error", err)
		}
	}
}

func (s *Store) reload() {
	if err := s.Load(); err != nil {
		slog.Error("Failed to reload mock user, keeping previous one", "path", s.path, "error", err)
		return
	}
	slog.Info("Reloaded mock user", "path", s.path)
}
