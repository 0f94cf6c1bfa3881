package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces the write bursts editors produce when saving.
const defaultDebounce = 100 * time.Millisecond

// Handler is called with the freshly loaded configuration after the
// watched file changes.
type Handler func(*Config)

// Watcher reloads the configuration file when it changes on disk.
type Watcher struct {
	path     string
	handler  Handler
	debounce time.Duration

	fsw  *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	lastErr error
}

// NewWatcher creates a watcher for the configuration file at path.
// Start must be called to begin watching.
func NewWatcher(path string, handler Handler) *Watcher {
	return &Watcher{
		path:     path,
		handler:  handler,
		debounce: defaultDebounce,
		done:     make(chan struct{}),
	}
}

// Start begins watching. The containing directory is watched rather than
// the file itself, so atomic save (write temp file, rename over) keeps
// working.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// Err returns the last reload error, if any.
func (w *Watcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			w.reload()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	w.mu.Lock()
	w.lastErr = err
	w.mu.Unlock()
	if err != nil {
		return
	}
	w.handler(cfg)
}
