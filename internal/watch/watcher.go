// Package watch monitors a directory for new or modified Word documents and
// hands each one to a handler once it has stopped changing.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/klytics/contentkit/internal/filesource"
)

// DefaultDebounce is the quiet period after the last write to a file before
// it is handled.
const DefaultDebounce = 500 * time.Millisecond

// Config holds the watcher configuration.
type Config struct {
	Dir       string
	Recursive bool
	Debounce  time.Duration
}

// Event records one handled file.
type Event struct {
	Time   time.Time `json:"time"`
	Path   string    `json:"path"`
	Status string    `json:"status"` // "processed" or "error"
	Error  string    `json:"error,omitempty"`
}

// pending is a debounced write. gen identifies the latest write to path; a
// queued entry whose gen is behind has been superseded by a newer timer.
type pending struct {
	path string
	gen  uint64
}

type debounced struct {
	timer *time.Timer
	gen   uint64
}

// Handler processes a settled document.
type Handler func(ctx context.Context, path string) error

// Watcher calls its Handler for every .docx created or written under
// Config.Dir. Handler calls never overlap.
type Watcher struct {
	Config  Config
	Handler Handler
	Logger  zerolog.Logger

	mu       sync.Mutex
	events   []Event
	watcher  *fsnotify.Watcher
	gen      uint64
	debounce map[string]*debounced
	ready    chan pending
	done     chan struct{}
}

// New creates a Watcher. It does not start watching until Start is called.
func New(cfg Config, handler Handler, logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	return &Watcher{
		Config:   cfg,
		Handler:  handler,
		Logger:   logger,
		watcher:  fsw,
		debounce: make(map[string]*debounced),
		ready:    make(chan pending, 16),
		done:     make(chan struct{}),
	}, nil
}

// Start watches Config.Dir until ctx is cancelled. A Watcher can only be
// started once.
func (w *Watcher) Start(ctx context.Context) error {
	defer close(w.done)
	defer w.stopTimers()

	absDir, err := filepath.Abs(w.Config.Dir)
	if err != nil {
		w.watcher.Close()
		return fmt.Errorf("could not resolve %s: %w", w.Config.Dir, err)
	}

	if w.Config.Recursive {
		err = w.addRecursive(absDir)
	} else {
		err = w.watcher.Add(absDir)
	}
	if err != nil {
		w.watcher.Close()
		return fmt.Errorf("could not watch %s: %w", absDir, err)
	}

	w.Logger.Info().Str("dir", absDir).Bool("recursive", w.Config.Recursive).Msg("watching for documents")

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info().Msg("stopping watcher")
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case p := <-w.ready:
			w.process(ctx, p)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Error().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != dir {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	path := event.Name
	if w.Config.Recursive && event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addRecursive(path); err != nil {
				w.Logger.Warn().Err(err).Str("dir", path).Msg("could not watch new directory")
			}
			return
		}
	}
	if !filesource.IsDocx(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if d, ok := w.debounce[path]; ok {
		d.timer.Stop()
	}
	w.gen++
	p := pending{path: path, gen: w.gen}
	d := &debounced{gen: p.gen}
	d.timer = time.AfterFunc(w.Config.Debounce, func() {
		select {
		case w.ready <- p:
		case <-w.done:
		}
	})
	w.debounce[path] = d
}

// process handles p unless a later write to the same file has restarted its
// debounce, in which case the newer timer will deliver it.
func (w *Watcher) process(ctx context.Context, p pending) {
	path := p.path
	w.mu.Lock()
	d, ok := w.debounce[path]
	if !ok || d.gen != p.gen {
		w.mu.Unlock()
		w.Logger.Debug().Str("path", path).Msg("skipping superseded write")
		return
	}
	delete(w.debounce, path)
	w.mu.Unlock()

	evt := Event{Time: time.Now(), Path: path, Status: "processed"}
	if w.Handler != nil {
		if err := w.Handler(ctx, path); err != nil {
			evt.Status = "error"
			evt.Error = err.Error()
			w.Logger.Error().Err(err).Str("path", path).Msg("could not process document")
		} else {
			w.Logger.Debug().Str("path", path).Msg("processed document")
		}
	}

	w.mu.Lock()
	w.events = append(w.events, evt)
	w.mu.Unlock()
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for p, d := range w.debounce {
		d.timer.Stop()
		delete(w.debounce, p)
	}
}

// Events returns the documents handled so far.
func (w *Watcher) Events() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make([]Event, len(w.events))
	copy(events, w.events)
	return events
}
