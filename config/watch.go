package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"hotkeylistener/log"
)

// reloadDebounce coalesces the bursts of events editors produce per save.
const reloadDebounce = 100 * time.Millisecond

// shouldReload reports whether ev touches the config file. The parent
// directory is watched, so saves done as write-temp-then-rename are seen.
func shouldReload(path string, ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(ev.Name)
	return name == path || filepath.Base(name) == filepath.Base(path)
}

// Watch calls fn with the reloaded config each time path changes, until ctx
// is done. Edits that fail to load or validate are logged and skipped.
func Watch(ctx context.Context, path string, fn func(Config)) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	go func() {
		defer w.Close()
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if shouldReload(path, ev) {
					fire = time.After(reloadDebounce)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warnf("config watcher: %v", err)
			case <-fire:
				fire = nil
				cfg, err := Load(path)
				if err != nil {
					log.Warnf("config reload skipped: %v", err)
					continue
				}
				log.Infof("config reloaded from %s (%d hotkeys)", path, len(cfg.Hotkeys))
				fn(cfg)
			}
		}
	}()
	return nil
}
