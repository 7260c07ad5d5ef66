package capability

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/finrouted/kgraph/graph"
	"github.com/finrouted/kgraph/internal/observability"
)

// ReloadCallback is called after a new snapshot has been published.
type ReloadCallback func(*graph.Snapshot)

// ErrorCallback is called when a reload attempt fails.
type ErrorCallback func(error)

// Watcher watches a capability file for changes and republishes the graph.
// A failed reload never replaces the published snapshot: the previous
// generation stays in service and the error is reported instead.
type Watcher struct {
	path           string
	store          *graph.Store
	watcher        *fsnotify.Watcher
	reloadCallback ReloadCallback
	errorCallback  ErrorCallback
	logger         observability.Logger
	debounceDelay  time.Duration
	mu             sync.RWMutex
	lastCatalog    *Catalog
	stopCh         chan struct{}
	stoppedCh      chan struct{}
	running        bool
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay for file changes.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = delay
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithErrorCallback sets the error callback for the watcher.
func WithErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.errorCallback = callback
	}
}

// WithReloadCallback sets the callback invoked after each publish.
func WithReloadCallback(callback ReloadCallback) WatcherOption {
	return func(w *Watcher) {
		w.reloadCallback = callback
	}
}

// NewWatcher creates a capability file watcher publishing into store.
func NewWatcher(path string, store *graph.Store, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		store:         store,
		watcher:       fsWatcher,
		debounceDelay: 100 * time.Millisecond,
		logger:        observability.NopLogger(),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start loads the initial catalog, publishes the first generation, and
// begins watching the file. The initial load is not fail-safe: there is no
// known-good generation to fall back to yet, so errors are returned.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.reload(); err != nil {
		w.abortStart()
		return err
	}

	// Watch the directory rather than the file so atomic rename-style
	// updates keep being observed.
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		w.abortStart()
		return err
	}

	w.logger.Info("started watching capability file",
		observability.String("path", w.path))

	go w.watch(ctx)

	return nil
}

// abortStart rolls back a failed Start before the watch goroutine exists,
// releasing the fsnotify handle.
func (w *Watcher) abortStart() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	_ = w.watcher.Close()
}

// Stop stops watching the capability file.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.watcher.Close()
}

// LastCatalog returns the most recently compiled catalog.
func (w *Watcher) LastCatalog() *Catalog {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastCatalog
}

// watch is the main watch loop.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("capability watcher stopped due to context cancellation")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(w.debounceDelay)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceCh = nil
			if err := w.reload(); err != nil {
				GetCapabilityMetrics().reloadsTotal.WithLabelValues("error").Inc()
				w.logger.Warn("capability reload failed, previous generation stays in service",
					observability.Error(err))
				if w.errorCallback != nil {
					w.errorCallback(err)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("capability watcher error", observability.Error(err))
			if w.errorCallback != nil {
				w.errorCallback(err)
			}
		}
	}
}

// relevant reports whether the fsnotify event concerns the watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// reload loads, validates, compiles, and publishes the capability file.
func (w *Watcher) reload() error {
	catalog, err := Load(w.path)
	if err != nil {
		return err
	}
	if err := Validate(catalog); err != nil {
		return err
	}

	g, err := Compile(catalog, w.logger)
	if err != nil {
		return err
	}

	snap := w.store.Publish(g)

	w.mu.Lock()
	w.lastCatalog = catalog
	w.mu.Unlock()

	GetCapabilityMetrics().reloadsTotal.WithLabelValues("ok").Inc()
	GetCapabilityMetrics().connectorsGauge.Set(float64(len(catalog.Connectors)))

	w.logger.Info("capability catalog reloaded",
		observability.Uint64("generation", snap.Generation),
		observability.Int("connectors", len(catalog.Connectors)))

	if w.reloadCallback != nil {
		w.reloadCallback(snap)
	}

	return nil
}
