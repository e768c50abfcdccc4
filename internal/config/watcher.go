package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"qemcp/pkg/logging"
)

// DefaultDebounceInterval collapses bursts of editor writes into one reload.
const DefaultDebounceInterval = 500 * time.Millisecond

// Watcher reloads config.yaml when it changes on disk and hands every valid
// new configuration to a callback. Invalid files are logged and ignored, so
// the last good configuration stays in effect.
type Watcher struct {
	mu sync.Mutex

	configPath       string
	debounceInterval time.Duration
	onChange         func(Config)

	watcher *fsnotify.Watcher
	timer   *time.Timer
	stopCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for config.yaml in configPath.
func NewWatcher(configPath string, debounceInterval time.Duration, onChange func(Config)) *Watcher {
	if debounceInterval == 0 {
		debounceInterval = DefaultDebounceInterval
	}
	return &Watcher{
		configPath:       configPath,
		debounceInterval: debounceInterval,
		onChange:         onChange,
		stopCh:           make(chan struct{}),
	}
}

// Start begins watching. The directory is watched rather than the file so
// that atomic saves (write temp file, rename) are seen as well.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if err := watcher.Add(w.configPath); err != nil {
		watcher.Close()
		w.mu.Unlock()
		return err
	}

	w.watcher = watcher
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	go w.processEvents(ctx)

	logging.Info("Config", "Watching %s for configuration changes", FilePath(w.configPath))
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFileName {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Config", err, "Filesystem watcher error")
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceInterval, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		return
	}

	cfg, err := LoadConfig(w.configPath)
	if err != nil {
		logging.Error("Config", err, "Failed to reload configuration, keeping previous one")
		return
	}
	if err := cfg.Validate(); err != nil {
		logging.Error("Config", err, "Reloaded configuration is invalid, keeping previous one")
		return
	}

	logging.Info("Config", "Configuration reloaded from %s", FilePath(w.configPath))
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
