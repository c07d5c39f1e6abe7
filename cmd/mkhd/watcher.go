package main

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// configWatcher implements source.FileWatcher over fsnotify, watching
// the directory containing the ruleset file (editors replace files via
// rename-into-place, which a direct watch on the file itself misses).
type configWatcher struct {
	changes chan string
}

func newConfigWatcher(path string, logger *log.Logger) *configWatcher {
	w := &configWatcher{changes: make(chan string, 1)}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Printf("config watcher: %v, hotload disabled", err)
		return w
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		logger.Printf("config watcher: watch %s: %v, hotload disabled", dir, err)
		return w
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case w.changes <- ev.Name:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Printf("config watcher: %v", err)
			}
		}
	}()

	return w
}

func (w *configWatcher) Changes() <-chan string { return w.changes }
