package transport

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rhymu8354/Lurker/pkg/logging"
)

// TrustWatcherConfig holds configuration for the trust file watcher.
type TrustWatcherConfig struct {
	// Path is the trust file to watch.
	Path string

	// WatchInterval is the fallback polling interval when fsnotify is not available.
	WatchInterval time.Duration

	// DebounceInterval is how long to wait after the last change before
	// calling OnChange.
	DebounceInterval time.Duration

	// OnChange is called when the trust file changes.
	OnChange func()
}

// TrustWatcher monitors the trust file for changes. Connections read the
// file on every login attempt, so a change only needs to be announced.
// It uses fsnotify with a fallback to polling for environments where
// fsnotify is not available or reliable.
type TrustWatcher struct {
	mu sync.Mutex

	config TrustWatcherConfig

	// fsWatcher is the fsnotify watcher (may be nil if fsnotify is unavailable)
	fsWatcher *fsnotify.Watcher

	stopCh  chan struct{}
	running bool

	// lastModTime is the trust file's modification time for fallback polling
	lastModTime time.Time

	debounceTimer *time.Timer
	debounceMu    sync.Mutex
}

// NewTrustWatcher creates a new trust file watcher.
func NewTrustWatcher(config TrustWatcherConfig) *TrustWatcher {
	if config.WatchInterval == 0 {
		config.WatchInterval = DefaultWatchInterval
	}
	if config.DebounceInterval == 0 {
		config.DebounceInterval = DefaultDebounceInterval
	}
	return &TrustWatcher{config: config}
}

// Start begins watching for changes.
func (w *TrustWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.stopCh = make(chan struct{})
	w.running = true

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn("TrustWatcher", "fsnotify not available, falling back to polling: %v", err)
		go w.pollForChanges(w.stopCh)
		return nil
	}

	// Watch the directory so that replacing the file by rename is seen.
	dir := filepath.Dir(w.config.Path)
	if err := watcher.Add(dir); err != nil {
		logging.Warn("TrustWatcher", "Failed to watch directory %s, falling back to polling: %v", dir, err)
		watcher.Close()
		go w.pollForChanges(w.stopCh)
		return nil
	}
	w.fsWatcher = watcher

	// Capture channels before releasing lock to avoid races with Stop()
	go w.processEvents(w.stopCh, watcher.Events, watcher.Errors)

	logging.Debug("TrustWatcher", "Started watching %s", w.config.Path)
	return nil
}

// Run starts the watcher, blocks until ctx is done and then stops it.
func (w *TrustWatcher) Run(ctx context.Context) error {
	if err := w.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

func (w *TrustWatcher) processEvents(stopCh chan struct{}, eventsCh <-chan fsnotify.Event, errorsCh <-chan error) {
	for {
		select {
		case <-stopCh:
			return

		case event, ok := <-eventsCh:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-errorsCh:
			if !ok {
				return
			}
			logging.Error("TrustWatcher", err, "fsnotify error")
		}
	}
}

func (w *TrustWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.config.Path) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	logging.Debug("TrustWatcher", "Trust file changed: %s", event.Name)
	w.triggerChangeDebounced()
}

// triggerChangeDebounced reports a change once events stop arriving for
// DebounceInterval.
func (w *TrustWatcher) triggerChangeDebounced() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.config.DebounceInterval, func() {
		w.mu.Lock()
		running := w.running
		callback := w.config.OnChange
		w.mu.Unlock()

		if running && callback != nil {
			callback()
		}
	})
}

func (w *TrustWatcher) pollForChanges(stopCh chan struct{}) {
	ticker := time.NewTicker(w.config.WatchInterval)
	defer ticker.Stop()

	w.checkForChanges()

	for {
		select {
		case <-stopCh:
			return

		case <-ticker.C:
			if w.checkForChanges() {
				logging.Debug("TrustWatcher", "Trust file change detected via polling")
				w.triggerChangeDebounced()
			}
		}
	}
}

// checkForChanges records the trust file's modification time and reports
// whether it moved forward since the last check.
func (w *TrustWatcher) checkForChanges() bool {
	info, err := os.Stat(w.config.Path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	modTime := info.ModTime()
	changed := !w.lastModTime.IsZero() && modTime.After(w.lastModTime)
	w.lastModTime = modTime
	return changed
}

// Stop gracefully stops the watcher.
func (w *TrustWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.stopCh)

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMu.Unlock()

	if w.fsWatcher != nil {
		if err := w.fsWatcher.Close(); err != nil {
			logging.Warn("TrustWatcher", "Error closing fsnotify watcher: %v", err)
		}
		w.fsWatcher = nil
	}

	logging.Debug("TrustWatcher", "Stopped watching %s", w.config.Path)
	return nil
}

// IsRunning returns whether the watcher is currently active.
func (w *TrustWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
