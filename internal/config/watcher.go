package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watcher reloads the config file on change and notifies subscribers.
type Watcher struct {
	path     string
	onChange func(*Config)

	mu      sync.Mutex
	stopCh  chan struct{}
	stopped bool
}

// NewWatcher watches path and invokes onChange with the freshly loaded
// configuration after each successful reload.
func NewWatcher(path string, onChange func(*Config)) *Watcher {
	return &Watcher{path: path, onChange: onChange, stopCh: make(chan struct{})}
}

// Start begins watching. It fails soft: if fsnotify cannot be initialized
// the watcher simply stays inactive (config is still re-read on restart).
func (w *Watcher) Start() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithError(err).Warn("failed to create config file watcher")
		return
	}

	if err := watcher.Add(w.path); err != nil {
		log.WithError(err).WithField("path", w.path).Warn("failed to watch config file")
		watcher.Close()
		return
	}
	// Watch the directory too so atomic writes (rename) are seen.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		log.WithError(err).Warn("failed to watch config directory")
	}

	log.WithField("path", w.path).Info("config watcher started")

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != w.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(100*time.Millisecond, w.reload)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("config watcher error")

			case <-w.stopCh:
				if debounce != nil {
					debounce.Stop()
				}
				return
			}
		}
	}()
}

// Stop terminates the watcher goroutine. Idempotent.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.stopped {
		w.stopped = true
		close(w.stopCh)
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		log.WithError(err).WithField("path", w.path).Warn("config reload failed, keeping previous configuration")
		return
	}
	log.WithField("path", w.path).Info("configuration reloaded")
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
