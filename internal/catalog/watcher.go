package catalog

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces bursts of file events (editors often fire several
// per save) into a single refresh request.
const debounceWindow = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the vault root and requests a catalog
// refresh whenever a Markdown file is created, modified, removed, or renamed.
// It runs until ctx is cancelled. New directories created at runtime are
// added to the watch list automatically.
func Watch(ctx context.Context, vaultRoot string, logger *slog.Logger, requestRefresh func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, vaultRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", vaultRoot))

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(debounceWindow)
			debounceCh = debounce.C
		} else {
			debounce.Reset(debounceWindow)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			logger.Debug("watcher: requesting refresh")
			requestRefresh()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// New directories: watch them and refresh, they may carry notes.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					schedule()
					continue
				}
			}

			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
