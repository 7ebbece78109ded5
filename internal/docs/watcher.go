// SPDX-FileCopyrightText: 2026 terry
// SPDX-License-Identifier: FSL-1.1-MIT

package docs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Watcher calls a function after watched files change. Bursts of events
// within the debounce interval result in a single call.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	ignore   []string
	debounce time.Duration
	onChange func(ctx context.Context) error
	log      *slog.Logger
}

// NewWatcher starts watching paths. A path may be a file or a directory.
// Files are watched through their parent directory so that editors which
// replace the file on save are still picked up.
func NewWatcher(paths []string, debounce time.Duration, onChange func(ctx context.Context) error, log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		debounce: debounce,
		onChange: onChange,
		log:      log,
	}

	for _, p := range paths {
		if err := w.add(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	dir := abs
	if info.IsDir() {
		w.dirs[abs] = true
	} else {
		w.files[abs] = true
		dir = filepath.Dir(abs)
	}
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return nil
}

// Ignore skips events for files matching any of the glob patterns, such as
// files the change handler writes into a watched directory.
func (w *Watcher) Ignore(patterns ...string) error {
	for _, p := range patterns {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		if !doublestar.ValidatePathPattern(abs) {
			return fmt.Errorf("invalid ignore pattern %q", p)
		}
		w.ignore = append(w.ignore, abs)
	}
	return nil
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Clean(ev.Name)
	for _, p := range w.ignore {
		if ok, _ := doublestar.PathMatch(p, name); ok {
			return false
		}
	}
	return w.files[name] || w.dirs[filepath.Dir(name)]
}

// Run processes events until ctx is cancelled. Errors from onChange are
// logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.DebugContext(ctx, "file changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.WarnContext(ctx, "watcher error", slog.Any("error", err))

		case <-fire:
			fire = nil
			if err := w.onChange(ctx); err != nil {
				w.log.WarnContext(ctx, "change handler failed", slog.Any("error", err))
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
