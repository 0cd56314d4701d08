package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	path     string
	onChange func(*Config)

	mu   sync.Mutex
	done chan struct{}
}

// NewWatcher watches the config file at path and invokes onChange with the
// freshly loaded configuration on every write. Reload errors are logged and
// the previous configuration stays in effect.
func NewWatcher(path string, onChange func(*Config), logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors often replace the file on save.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		logger:   logger.With().Str("component", "config-watcher").Logger(),
		path:     path,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	go w.watchLoop()

	return w, nil
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				cfg, err := Load()
				if err != nil {
					w.logger.Warn().Err(err).Msg("Config reload failed, keeping previous config")
					continue
				}
				if err := cfg.Validate(); err != nil {
					w.logger.Warn().Err(err).Msg("Reloaded config invalid, keeping previous config")
					continue
				}
				w.logger.Info().Str("path", w.path).Msg("Config reloaded")
				w.onChange(cfg)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Config watcher error")
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	return w.watcher.Close()
}
