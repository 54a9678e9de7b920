package assets

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/spiffcs/gameshell/internal/log"
)

// Watcher reports writes to loaded asset files so they can be reloaded.
type Watcher struct {
	fsw     *fsnotify.Watcher
	paths   map[string]bool
	changed chan string
}

// NewWatcher watches the directories containing the given asset paths.
func NewWatcher(paths []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:     fsw,
		paths:   make(map[string]bool, len(paths)),
		changed: make(chan string, 16),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		w.paths[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	// Watch directories rather than files so editors that replace files
	// through a rename are still observed.
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Changed returns the channel of absolute paths that were written.
func (w *Watcher) Changed() <-chan string {
	return w.changed
}

// Run forwards file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer func() {
		_ = w.fsw.Close()
		close(w.changed)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !w.paths[abs] {
				continue
			}
			select {
			case w.changed <- abs:
			default:
				log.Debug("dropping asset change event", "path", abs)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn("asset watcher error", "error", err)
		}
	}
}
