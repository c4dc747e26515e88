package scoring

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"folio/internal/domain"
	"folio/internal/logging"
)

// Watcher hot-reloads a scoring profile file. On a settled write it
// re-parses the profile, rebuilds the engine, and invokes the callback.
// Invalid edits are logged and the previous engine stays active.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	domain      domain.Domain
	path        string
	onReload    func(*Engine)
	debounceDur time.Duration
	pending     map[string]time.Time
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	reloads     int
	failures    int
}

// NewWatcher creates a watcher for the given profile path.
func NewWatcher(path string, d domain.Domain, onReload func(*Engine)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fw,
		domain:      d,
		path:        path,
		onReload:    onReload,
		debounceDur: 500 * time.Millisecond,
		pending:     make(map[string]time.Time),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching; non-blocking. Watches the containing directory
// so editor rename-on-save sequences are caught.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		// run() never launched, so Stop must not wait on doneCh.
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		w.watcher.Close()
		return err
	}
	logging.Scoring("profile watcher: watching %s", w.path)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for cleanup.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryScoring).Error("profile watcher: close: %v", err)
	}
}

// Stats returns (successful reloads, failed reloads).
func (w *Watcher) Stats() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads, w.failures
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryScoring).Error("profile watcher: %v", err)
		case <-ticker.C:
			w.processPending()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	reload := false
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounceDur {
			delete(w.pending, path)
			reload = true
		}
	}
	w.mu.Unlock()

	if reload {
		w.reload()
	}
}

func (w *Watcher) reload() {
	profile, err := LoadProfile(w.path, w.domain)
	if err != nil {
		logging.Get(logging.CategoryScoring).Warn("profile watcher: rejected edit to %s: %v", w.path, err)
		w.mu.Lock()
		w.failures++
		w.mu.Unlock()
		return
	}
	engine, err := NewEngine(w.domain, profile)
	if err != nil {
		logging.Get(logging.CategoryScoring).Warn("profile watcher: rejected profile: %v", err)
		w.mu.Lock()
		w.failures++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	logging.Scoring("profile watcher: reloaded %s (%s)", w.path, profile.Fingerprint())
	if w.onReload != nil {
		w.onReload(engine)
	}
}
