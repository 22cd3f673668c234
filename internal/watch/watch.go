// Package watch reports changes to a single file on disk.
package watch

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used by callers that have no opinion.
const DefaultDebounce = 100 * time.Millisecond

// File calls onChange once after each burst of changes to path and returns
// when ctx is done. The parent directory is watched instead of the file,
// since editors often replace files instead of writing them in place.
//
// An error is returned only when the watch cannot be set up. A nil logger
// discards watcher errors.
func File(ctx context.Context, path string, debounce time.Duration, logger *log.Logger, onChange func()) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isChange(ev, target) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				logger.Debug("file changed", "file", ev.Name)
				onChange()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Debug("watcher error", "error", err)
		}
	}
}

func isChange(ev fsnotify.Event, target string) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	return err == nil && name == target
}
