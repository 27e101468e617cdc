// Package watch rebuilds a workspace when its model file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dusk-indust/modelgraph/internal/logger"
	"github.com/dusk-indust/modelgraph/internal/workspace"
)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 500 * time.Millisecond

// ChangeHandler is called once per settled burst of changes.
type ChangeHandler func(ctx context.Context)

// Watcher observes one file. It watches the parent directory so that
// editors replacing the file through a rename are still seen.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	handler  ChangeHandler
	debounce time.Duration

	done     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	watching bool
}

// New creates a Watcher for path. A debounce <= 0 uses DefaultDebounce.
func New(path string, debounce time.Duration, handler ChangeHandler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		path:     abs,
		watcher:  fw,
		handler:  handler,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. Events are processed until ctx is done or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	logger.Info("watching model", "file", w.path, "debounce", w.debounce)

	go w.loop(ctx)
	return nil
}

// Stop releases the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("model file event", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if w.handler != nil {
				w.handler(ctx)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error", "file", w.path, "err", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// ReloadHolder returns a ChangeHandler that rebuilds h's workspace. Failed
// rebuilds keep the previous workspace and are logged by the holder.
func ReloadHolder(h *workspace.Holder) ChangeHandler {
	return func(ctx context.Context) {
		_, _ = h.Reload(ctx)
	}
}
