package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ppiankov/storybook/internal/logging"
)

// DefaultDebounce is the quiet period after the last change before a re-parse
const DefaultDebounce = 500 * time.Millisecond

// Handler is called with the changed file once its events have settled
type Handler func(ctx context.Context, path string)

// Watcher re-runs a handler when watched files change.
// Parent directories are watched so editors that save by rename are still seen.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	handler   Handler
	log       *slog.Logger

	mu     sync.Mutex
	files  map[string]bool
	dirs   map[string]bool
	timers map[string]*time.Timer

	fire chan string
}

// New creates a watcher. A non-positive debounce uses DefaultDebounce.
func New(debounce time.Duration, handler Handler) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		debounce:  debounce,
		handler:   handler,
		log:       logging.ForComponent("watch"),
		files:     make(map[string]bool),
		dirs:      make(map[string]bool),
		timers:    make(map[string]*time.Timer),
		fire:      make(chan string, 16),
	}, nil
}

// Add starts watching one file
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	// Event names carry the resolved directory (macOS /var -> /private/var)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
		abs = filepath.Join(dir, filepath.Base(abs))
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.dirs[dir] {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true

	w.log.Debug("watching file", "path", abs)
	return nil
}

// Run dispatches settled changes to the handler until ctx is done.
// The handler runs on this goroutine, so calls never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.onEvent(ctx, event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)

		case path := <-w.fire:
			w.handler(ctx, path)
		}
	}
}

func (w *Watcher) onEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	path := filepath.Clean(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[path] {
		return
	}

	w.log.Debug("file event", "path", path, "op", event.Op.String())

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}

	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case w.fire <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// Close releases the underlying watcher
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}
