package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Loader reads a YAML config file and watches it, and the map file it
// references, for changes.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *NavConfig
	onChange []func(*NavConfig) error

	watchMu    sync.Mutex // guards watcher and watchedMap
	watcher    *fsnotify.Watcher
	watchedMap string
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = cfg
	return l, nil
}

// Path returns the config file path.
func (l *Loader) Path() string { return l.path }

// Config returns the current (latest) configuration.
func (l *Loader) Config() *NavConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the config reloads.
// A callback error rejects the new config; see Reload.
func (l *Loader) OnChange(fn func(*NavConfig) error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that reloads on writes to the config
// file or to the map file named by the current config.
// Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher add %s: %w", l.path, err)
	}
	l.watchMu.Lock()
	l.watcher = w
	l.watchMu.Unlock()
	if err := l.watchMap(l.Config().Map.Path); err != nil {
		l.unwatch()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer l.unwatch()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if _, err := l.Reload(); err != nil {
					slog.Warn("reload after file change failed", "file", ev.Name, "err", err)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("config watcher error", "err", err)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}

// Reload forces an immediate re-read of the config file and runs every
// OnChange callback. The new config becomes current only if every callback
// accepts it; otherwise the previous one stays and the callbacks' errors are
// joined and returned alongside the rejected config.
func (l *Loader) Reload() (*NavConfig, error) {
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.mu.RLock()
	callbacks := make([]func(*NavConfig) error, len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.RUnlock()

	var errs []error
	for _, fn := range callbacks {
		if err := fn(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}

	l.mu.Lock()
	l.current = cfg
	l.mu.Unlock()
	if err := l.watchMap(cfg.Map.Path); err != nil {
		slog.Warn("map file not watched", "path", cfg.Map.Path, "err", err)
	}
	return cfg, nil
}

// watchMap points the watcher at mapPath, dropping the previously watched
// map file. It is a no-op when Watch is not running.
func (l *Loader) watchMap(mapPath string) error {
	l.watchMu.Lock()
	defer l.watchMu.Unlock()
	if l.watcher == nil || mapPath == l.watchedMap {
		return nil
	}
	if l.watchedMap != "" && l.watchedMap != l.path {
		_ = l.watcher.Remove(l.watchedMap)
	}
	l.watchedMap = ""
	if mapPath == "" {
		return nil
	}
	if err := l.watcher.Add(mapPath); err != nil {
		return fmt.Errorf("config watcher add %s: %w", mapPath, err)
	}
	l.watchedMap = mapPath
	return nil
}

// WatchedMap returns the map file currently watched, or "" if none.
func (l *Loader) WatchedMap() string {
	l.watchMu.Lock()
	defer l.watchMu.Unlock()
	return l.watchedMap
}

func (l *Loader) unwatch() {
	l.watchMu.Lock()
	defer l.watchMu.Unlock()
	if l.watcher != nil {
		l.watcher.Close()
		l.watcher = nil
	}
	l.watchedMap = ""
}

func (l *Loader) load() (*NavConfig, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", l.path, err)
	}
	var cfg NavConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", l.path, err)
	}
	// Apply defaults.
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Engine.QueryWorkers == 0 {
		cfg.Engine.QueryWorkers = 8
	}
	if cfg.Engine.QueueDepth == 0 {
		cfg.Engine.QueueDepth = 1024
	}
	if cfg.Engine.QueryTimeoutMs == 0 {
		cfg.Engine.QueryTimeoutMs = 2000
	}
	return &cfg, nil
}
