package content

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads path whenever it is written and passes the new content to
// onChange. Invalid files are logged and skipped. It blocks until ctx is
// done.
func Watch(ctx context.Context, path string, logger *zap.Logger, onChange func(*Site)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace the file, so watch the directory.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			site, err := LoadFile(path)
			if err != nil {
				logger.Warn("content reload skipped", zap.String("path", path), zap.Error(err))
				continue
			}
			logger.Info("content reloaded", zap.String("path", path), zap.Int("origins", len(site.Origins)))
			onChange(site)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("content watcher error", zap.Error(err))
		}
	}
}
