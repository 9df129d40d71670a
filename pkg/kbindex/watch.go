package kbindex

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange after either artifact in dir is written, renamed
// into place or removed, once events have been quiet for settle. It blocks
// until ctx is done.
func Watch(ctx context.Context, dir string, settle time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("kbindex: watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("kbindex: watch %s: %w", dir, err)
	}

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isArtifact(ev.Name) || !ev.Has(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) {
				continue
			}
			slog.Debug("kbindex: artifact changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("kbindex: watch error", "err", err)
		case <-timer.C:
			onChange()
		}
	}
}

func isArtifact(path string) bool {
	switch filepath.Base(path) {
	case IndexArtifact, MetaArtifact:
		return true
	}
	return false
}
