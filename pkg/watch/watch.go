// Package watch reloads a topology payload when its file changes.
//
// The watcher observes the file's directory rather than the file itself so
// that editors which replace a file on save are still seen. Bursts of events
// are debounced into a single reload.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/topolayout/pkg/topology"
)

// DefaultDebounce is the quiet period after the last event before a reload.
const DefaultDebounce = 500 * time.Millisecond

// Update is one reload attempt. Err is set when the file could not be read
// or decoded; Payload is nil then.
type Update struct {
	Path    string
	Payload *topology.Payload
	Err     error
}

// Watcher watches one payload file.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *log.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(w *Watcher) { w.logger = l } }

// New returns a watcher for path.
func New(path string, opts ...Option) *Watcher {
	w := &Watcher{path: path, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = log.Default()
	}
	return w
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Watch blocks until ctx is done, calling onChange from the calling
// goroutine after each debounced write to the file.
func (w *Watcher) Watch(ctx context.Context, onChange func(Update)) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.logger.Debug("watching payload", "path", abs)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			u := Update{Path: w.path}
			u.Payload, u.Err = topology.ReadPayloadFile(w.path)
			if u.Err != nil {
				w.logger.Warn("payload reload failed", "path", w.path, "error", u.Err)
			} else {
				w.logger.Info("payload changed", "path", w.path, "ips", len(u.Payload.IPs), "links", len(u.Payload.Links))
			}
			onChange(u)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
