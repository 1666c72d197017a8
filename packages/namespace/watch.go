package namespace

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports edits of a namespace file. It watches the parent
// directory because editors often replace files instead of writing them.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	err     error
}

func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{watcher: w, path: abs}, nil
}

// Changed drains pending events without blocking and reports whether the
// file was written, created or renamed since the last call.
func (w *Watcher) Changed() bool {
	changed := false
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return changed
			}
			if w.matches(event) {
				changed = true
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return changed
			}
			w.err = err
		default:
			return changed
		}
	}
}

// Err returns the last error reported by the watcher, if any.
func (w *Watcher) Err() error {
	return w.err
}

func (w *Watcher) matches(event fsnotify.Event) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
