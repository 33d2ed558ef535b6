package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/shawkym/moragents-tui/pkg/log"
)

// ChangeCallback is called after the configuration file was reloaded.
type ChangeCallback func(oldConfig, newConfig *Config)

// Watcher reloads the configuration file when it changes on disk.
type Watcher struct {
	mu        sync.RWMutex
	config    *Config
	path      string
	viper     *viper.Viper
	callbacks []ChangeCallback
	stopChan  chan struct{}
	stopOnce  sync.Once
	reloading bool
}

// NewWatcher loads the file once and prepares to watch it.
func NewWatcher(path string) (*Watcher, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config with viper: %w", err)
	}

	log.WithField("config_path", path).Info("config watcher initialized")

	return &Watcher{
		config:   cfg,
		path:     path,
		viper:    v,
		stopChan: make(chan struct{}),
	}, nil
}

// Config returns the current configuration.
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// OnChange registers a callback. Callbacks run in registration order on
// their own goroutines.
func (w *Watcher) OnChange(cb ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching and blocks until Stop is called.
func (w *Watcher) Start() {
	w.viper.OnConfigChange(func(e fsnotify.Event) {
		w.handleChange(e)
	})
	w.viper.WatchConfig()

	log.WithField("config_path", w.path).Info("started watching config file for changes")

	<-w.stopChan
}

// Stop ends a running Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		log.Info("stopped watching config file")
	})
}

func (w *Watcher) handleChange(e fsnotify.Event) {
	w.mu.Lock()
	if w.reloading {
		w.mu.Unlock()
		return
	}
	w.reloading = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.reloading = false
		w.mu.Unlock()
	}()

	log.WithFields(map[string]interface{}{
		"event":       e.Op.String(),
		"config_path": e.Name,
	}).Info("config file change detected")

	if err := w.Reload(); err != nil {
		log.WithError(err).WithField("config_path", w.path).Error("failed to reload config")
	}
}

// Reload re-reads the file and notifies callbacks. On error the previous
// configuration stays active.
func (w *Watcher) Reload() error {
	newConfig, err := LoadConfig(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	oldConfig := w.config
	w.config = newConfig
	callbacks := append([]ChangeCallback(nil), w.callbacks...)
	w.mu.Unlock()

	log.WithFields(map[string]interface{}{
		"config_path": w.path,
		"backend_url": newConfig.Backend.URL,
		"log_level":   newConfig.Logging.Level,
	}).Info("config reloaded successfully")

	for _, cb := range callbacks {
		go func(cb ChangeCallback) {
			defer func() {
				if r := recover(); r != nil {
					log.WithField("panic", r).Error("config change callback panicked")
				}
			}()
			cb(oldConfig, newConfig)
		}(cb)
	}

	return nil
}
