package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mark3labs/bitgrid/internal/logger"
)

const reloadDebounce = 100 * time.Millisecond

// ReloadFunc receives the freshly loaded configuration after a file change.
type ReloadFunc func(*Config)

// Watcher reloads configuration when one of its files is written.
// Directories are watched rather than files so editors that replace the
// file on save are still seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	explicit string
	files    map[string]bool
	onReload ReloadFunc

	mu      sync.Mutex
	timer   *time.Timer
	done    chan struct{}
	stopped chan struct{}
}

// NewWatcher creates a watcher for the files LoadFile(explicit) reads.
func NewWatcher(explicit string, onReload ReloadFunc) (*Watcher, error) {
	files := Files(explicit)
	if len(files) == 0 {
		return nil, fmt.Errorf("no config files to watch")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	cw := &Watcher{
		watcher:  w,
		explicit: explicit,
		files:    make(map[string]bool),
		onReload: onReload,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		cw.files[abs] = true
	}
	return cw, nil
}

// Start adds watches and starts the event loop.
func (cw *Watcher) Start() error {
	dirs := make(map[string]bool)
	for f := range cw.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := cw.watcher.Add(dir); err != nil {
			cw.watcher.Close()
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	go cw.eventLoop()
	logger.Info("Config watcher started for %d file(s)", len(cw.files))
	return nil
}

// Stop shuts down the watcher and event loop.
func (cw *Watcher) Stop() error {
	close(cw.done)
	<-cw.stopped

	cw.mu.Lock()
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.mu.Unlock()
	return cw.watcher.Close()
}

func (cw *Watcher) eventLoop() {
	defer close(cw.stopped)

	for {
		select {
		case <-cw.done:
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handleEvent(event)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Config watcher error: %v", err)
		}
	}
}

func (cw *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}
	path, err := filepath.Abs(event.Name)
	if err != nil || !cw.files[path] {
		return
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(reloadDebounce, cw.reload)
}

func (cw *Watcher) reload() {
	select {
	case <-cw.done:
		return
	default:
	}

	cfg, err := LoadFile(cw.explicit)
	if err != nil {
		logger.Warn("Config reload failed: %v", err)
		return
	}
	logger.Debug("Config reloaded")
	if cw.onReload != nil {
		cw.onReload(cfg)
	}
}
