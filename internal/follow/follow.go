// Package follow streams a session transcript as it grows, for viewing a
// live session from a second terminal.
package follow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Event kinds reported to an EventCallback.
const (
	EventAppended  = "appended"
	EventTruncated = "truncated"
	EventRemoved   = "removed"
)

// EventCallback is called after each change to the followed file.
type EventCallback func(kind string, path string)

// Follow copies the current content of path to w and then every byte
// appended to it until ctx is cancelled. The parent directory is watched
// rather than the file so atomic replacement (write temp, rename) is seen
// as a truncation followed by fresh content.
func Follow(ctx context.Context, path string, w io.Writer, logger *slog.Logger, cb EventCallback) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("follow: resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("follow: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("follow: new watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("follow: watch dir: %w", err)
	}

	t := &tail{path: abs, w: w}
	if _, err := t.drain(); err != nil {
		return err
	}

	logger.Info("follow: started", slog.String("path", abs))

	for {
		select {
		case <-ctx.Done():
			logger.Info("follow: stopped")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				truncated, err := t.drain()
				if err != nil {
					logger.Warn("follow: read failed", slog.String("path", abs), slog.String("error", err.Error()))
					continue
				}
				if cb != nil {
					if truncated {
						cb(EventTruncated, abs)
					}
					cb(EventAppended, abs)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Debug("follow: file went away", slog.String("path", abs), slog.String("op", ev.Op.String()))
				t.offset = 0
				if cb != nil {
					cb(EventRemoved, abs)
				}
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("follow: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

type tail struct {
	path   string
	w      io.Writer
	offset int64
}

// drain copies everything past offset to w. A file shorter than offset
// was replaced or truncated; it is then copied from the start.
func (t *tail) drain() (truncated bool, err error) {
	f, err := os.Open(t.path)
	if err != nil {
		return false, fmt.Errorf("follow: open: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("follow: stat: %w", err)
	}
	if info.Size() < t.offset {
		t.offset = 0
		truncated = true
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return truncated, fmt.Errorf("follow: seek: %w", err)
	}
	n, err := io.Copy(t.w, f)
	t.offset += n
	if err != nil {
		return truncated, fmt.Errorf("follow: copy: %w", err)
	}
	return truncated, nil
}
