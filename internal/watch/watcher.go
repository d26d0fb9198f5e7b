// Package watch reports changes of a fixed set of files.
//
// The parent directories are watched rather than the files themselves, so
// editors that save by renaming a temporary file are seen as well. Bursts
// of events are debounced into a single callback.
package watch

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 300 * time.Millisecond

// Handler is called with the changed files, sorted. An error is logged and
// watching continues.
type Handler func(ctx context.Context, changed []string) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// Watcher watches a set of files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	log      *zap.SugaredLogger

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

// New watches the given files. They do not need to exist yet, but their
// directories do.
func New(paths []string, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("nothing to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create file watcher")
	}
	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]bool, len(paths)),
		debounce: DefaultDebounce,
		log:      zap.NewNop().Sugar(),
		pending:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "watch %s", p)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "watch directory %s", dir)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Files returns the watched files as absolute paths.
func (w *Watcher) Files() []string {
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// Run calls h for every debounced batch of changes until ctx is done. The
// watcher is closed on return.
func (w *Watcher) Run(ctx context.Context, h Handler) error {
	defer w.watcher.Close()
	fire := make(chan []string)
	done := make(chan struct{})
	defer close(done)
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if !w.files[name] || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			w.log.Debugw("file changed", "file", name, "op", ev.Op.String())
			w.schedule(name, fire, done)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("file watcher error", "error", err)

		case changed := <-fire:
			if err := h(ctx, changed); err != nil {
				w.log.Errorw("change handler failed", "files", changed, "error", err)
			}
		}
	}
}

// schedule records a change and restarts the quiet period. The batch is
// dropped once done is closed.
func (w *Watcher) schedule(name string, fire chan<- []string, done <-chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[name] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		changed := make([]string, 0, len(w.pending))
		for f := range w.pending {
			changed = append(changed, f)
		}
		clear(w.pending)
		w.mu.Unlock()
		if len(changed) == 0 {
			return
		}
		slices.Sort(changed)
		select {
		case fire <- changed:
		case <-done:
		}
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
