// Package watch triggers pipeline runs when new quote documents land in the
// input directory. Events are debounced so a burst of copied files produces
// one run instead of one per file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nordprofil/offertpipe/internal/logger"
)

// DefaultDebounce is the quiet period after the last event before a run
// fires.
const DefaultDebounce = 500 * time.Millisecond

// watchedExts are the input extensions that trigger a run.
var watchedExts = map[string]bool{".pdf": true, ".txt": true}

// Run watches dir until ctx is canceled, calling fn after each debounced
// burst of relevant file events. fn runs on the watch goroutine; a slow fn
// delays later runs but never drops them.
func Run(ctx context.Context, dir string, debounce time.Duration, fn func(context.Context)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("watching %s", dir)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("watch: %s %s", event.Op, filepath.Base(event.Name))
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			pending = true

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)

		case <-timer.C:
			pending = false
			fn(ctx)
		}
	}
}

// relevant reports whether an event should trigger a run.
func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return false
	}
	return watchedExts[strings.ToLower(filepath.Ext(event.Name))]
}
