package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultDebounce = 300 * time.Millisecond

type Options struct {
	// Roots are watched recursively. Roots that do not exist are skipped.
	Roots    []string
	Debounce time.Duration
	// Ignore excludes a directory and everything below it, such as the
	// generator's own output.
	Ignore func(dir string) bool
	Logger *zap.Logger
}

// RebuildFunc receives the sorted set of paths that changed since the last
// call. Calls never overlap.
type RebuildFunc func(ctx context.Context, changed []string)

type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	ignore   func(string) bool
	logger   *zap.Logger
	pending  map[string]struct{}
}

func New(opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: opts.Debounce,
		ignore:   opts.Ignore,
		logger:   opts.Logger,
		pending:  make(map[string]struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.ignore == nil {
		w.ignore = func(string) bool { return false }
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}

	for _, root := range opts.Roots {
		if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
			w.logger.Debug("watch root does not exist", zap.String("root", root))
			continue
		}
		if err := w.watchDirs(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run delivers debounced changes to rebuild until ctx is cancelled, then
// releases the underlying watcher. A rebuild in progress finishes before the
// next batch is delivered.
func (w *Watcher) Run(ctx context.Context, rebuild RebuildFunc) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			changed := w.drain()
			if len(changed) == 0 {
				continue
			}
			w.logger.Debug("rebuilding", zap.Strings("changed", changed))
			rebuild(ctx, changed)
		}
	}
}

// handleEvent records a relevant event and reports whether it was one.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if !isWatchEvent(event.Op) || !ShouldRebuildForPath(event.Name) {
		return false
	}

	if shouldAddWatchDir(event) && !w.ignore(event.Name) {
		// Files created before the directory was watched produce no events.
		if err := w.watchDirs(event.Name); err != nil {
			w.logger.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
		}
		_ = filepath.WalkDir(event.Name, func(path string, d fs.DirEntry, err error) error {
			if err == nil && !d.IsDir() {
				w.pending[path] = struct{}{}
			}
			return nil
		})
	}

	w.pending[event.Name] = struct{}{}
	return true
}

func (w *Watcher) drain() []string {
	changed := make([]string, 0, len(w.pending))
	for path := range w.pending {
		changed = append(changed, path)
	}
	sort.Strings(changed)
	w.pending = make(map[string]struct{})
	return changed
}

func (w *Watcher) watchDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("error accessing path", zap.String("path", path), zap.Error(err))
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if ShouldSkipDir(d.Name()) || w.ignore(path) {
			return filepath.SkipDir
		}

		return w.fsw.Add(path)
	})
}

var skipDirs = map[string]struct{}{
	".git":         {},
	".gradle":      {},
	".idea":        {},
	".kotlin":      {},
	"node_modules": {},
}

func ShouldSkipDir(name string) bool {
	_, exists := skipDirs[name]
	return exists
}

func isWatchEvent(op fsnotify.Op) bool {
	return op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func shouldAddWatchDir(event fsnotify.Event) bool {
	if event.Op&fsnotify.Create == 0 {
		return false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return false
	}

	return info.IsDir() && !ShouldSkipDir(info.Name())
}

// ShouldRebuildForPath filters out editor swap and backup files.
func ShouldRebuildForPath(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, ".#"),
		base == "4913":
		return false
	}
	return true
}
