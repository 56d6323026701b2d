package staticpress

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eringen/staticpress/internal/logfields"
)

// Watcher refreshes an App's cached build when files under the content or
// static dir change. Bursts of events within the debounce window cause a
// single rebuild.
type Watcher struct {
	app      *App
	fsw      *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher watches Config.ContentDir and Config.StaticDir recursively.
// Directories that do not exist are skipped.
func NewWatcher(a *App) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{app: a, fsw: fsw, debounce: a.Config.WatchDebounce}
	for _, root := range []string{a.Config.ContentDir, a.Config.StaticDir} {
		if root == "" {
			continue
		}
		if err := w.addRecursive(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root && os.IsNotExist(err) {
				w.app.logger.Warn("Not watching missing dir", logfields.Path(root))
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && ignoredName(d.Name()) {
			return fs.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			w.app.logger.Warn("Watch add failed", logfields.Path(p), logfields.Error(err))
		}
		return nil
	})
}

// ignoredName matches dotfiles, editor swap and backup files.
func ignoredName(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") ||
		strings.HasSuffix(name, ".tmp")
}

// Run processes events until ctx is canceled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.handle(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.app.logger.Warn("Watcher error", logfields.Error(err))
		case <-fire:
			fire = nil
			_ = w.app.Refresh(ctx)
		}
	}
}

// handle starts watching newly created directories and reports whether ev
// should trigger a rebuild.
func (w *Watcher) handle(ev fsnotify.Event) bool {
	if ignoredName(filepath.Base(ev.Name)) || ev.Op == fsnotify.Chmod {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addRecursive(ev.Name)
		}
	}
	w.app.logger.Debug("File change detected", logfields.Path(ev.Name), logfields.Stage(ev.Op.String()))
	return true
}
