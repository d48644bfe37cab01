package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"nekocmd/pkg/logger"
)

// ChangeHandler is a callback function called when configuration changes.
type ChangeHandler func(*Config) error

// Watcher monitors the configuration file and reloads it on change.
type Watcher struct {
	loader   *Loader
	config   *Config
	log      *logger.Logger
	handlers []ChangeHandler
	mu       sync.RWMutex
	watching bool
}

// NewWatcher creates a new configuration watcher.
func NewWatcher(loader *Loader, config *Config, log *logger.Logger) *Watcher {
	return &Watcher{
		loader:   loader,
		config:   config,
		log:      log,
		handlers: make([]ChangeHandler, 0),
	}
}

// AddHandler registers a handler to be called when configuration changes.
func (w *Watcher) AddHandler(handler ChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins watching the configuration file for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return fmt.Errorf("watcher already started")
	}
	w.watching = true
	w.mu.Unlock()

	w.loader.viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		w.reload(e.Name)
	})
	w.loader.viper.WatchConfig()

	return nil
}

func (w *Watcher) reload(name string) {
	w.mu.RLock()
	watching := w.watching
	w.mu.RUnlock()
	if !watching {
		return
	}

	newConfig, err := w.loader.Load("")
	if err != nil {
		w.log.Warn("Failed to reload config", zap.String("file", name), zap.Error(err))
		return
	}
	if err := ValidateConfig(newConfig); err != nil {
		w.log.Warn("Ignoring invalid config change", zap.String("file", name), zap.Error(err))
		return
	}

	w.mu.Lock()
	w.config = newConfig
	w.mu.Unlock()

	w.notifyHandlers(newConfig)
}

// Stop stops delivering configuration changes.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.watching = false
}

// GetConfig returns the current configuration (thread-safe).
func (w *Watcher) GetConfig() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// notifyHandlers calls all registered handlers with the new configuration.
func (w *Watcher) notifyHandlers(config *Config) {
	w.mu.RLock()
	handlers := make([]ChangeHandler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(config); err != nil {
			w.log.Warn("Config change handler failed", zap.Error(err))
		}
	}
}
