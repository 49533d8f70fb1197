package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/portscope/internal/logging"
)

// Watcher reloads the config file when it changes on disk, so a long
// running watch session picks up preference edits without a restart.
type Watcher struct {
	path    string
	changes chan Config
	fsw     *fsnotify.Watcher
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher watches the config file at path. The parent directory is
// watched rather than the file itself, because editors typically
// replace the file (rename-over) instead of writing in place.
func NewWatcher(path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &Watcher{
		path:    path,
		changes: make(chan Config, 1),
		fsw:     fsw,
		stopCh:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Changes delivers each successfully reloaded config. The channel has
// a buffer of one; rapid successive writes coalesce to the latest.
func (w *Watcher) Changes() <-chan Config {
	return w.changes
}

func (w *Watcher) run() {
	defer w.wg.Done()
	log := logging.For("config")

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Name != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}

			cfg, err := Load(w.path)
			if err != nil {
				log.WithError(err).Warn("ignoring unreadable config change")
				continue
			}

			// Drop a stale pending config so the latest wins.
			select {
			case <-w.changes:
			default:
			}
			w.changes <- cfg

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("config watcher error")

		case <-w.stopCh:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.stopCh)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
