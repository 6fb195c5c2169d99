// watcher.go reports shader files changed on disk through fsnotify, so hot reload only stats
// the programs whose files actually changed.
package program

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

type watcher struct {
	mu      sync.Mutex
	root    string
	logger  *slog.Logger
	fs      *fsnotify.Watcher
	dirs    map[string]bool
	changed map[string]struct{}
	done    chan struct{}
}

// Watcher collects shader files changed since the last Drain.
// Paths are relative to the root the watcher was created for, matching Program.Files.
type Watcher interface {
	// Watch starts watching the directories of the given files.
	//
	// Parameters:
	//   - paths: file paths relative to the root
	//
	// Returns:
	//   - error: error if a directory cannot be watched
	Watch(paths ...string) error

	// Drain returns the files changed since the previous call and forgets them.
	//
	// Returns:
	//   - map[string]struct{}: the changed paths relative to the root
	Drain() map[string]struct{}

	// Close stops watching.
	//
	// Returns:
	//   - error: error from the underlying watcher
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher creates a watcher for shader files below root.
//
// Parameters:
//   - root: the directory programs read their sources from
//   - logger: the logger watch errors are reported to, nil uses slog.Default()
//
// Returns:
//   - Watcher: the running watcher
//   - error: error if the platform watcher cannot be created
func NewWatcher(root string, logger *slog.Logger) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating shader watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &watcher{
		root:    root,
		logger:  logger,
		fs:      fsw,
		dirs:    map[string]bool{},
		changed: map[string]struct{}{},
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			rel, err := filepath.Rel(w.root, event.Name)
			if err != nil {
				continue
			}
			w.mu.Lock()
			w.changed[filepath.ToSlash(rel)] = struct{}{}
			w.mu.Unlock()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("shader watcher error", "error", err)
		}
	}
}

func (w *watcher) Watch(paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range paths {
		dir := filepath.Dir(filepath.Join(w.root, filepath.FromSlash(p)))
		if w.dirs[dir] {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	return nil
}

func (w *watcher) Drain() map[string]struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := w.changed
	w.changed = map[string]struct{}{}
	return changed
}

func (w *watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}
