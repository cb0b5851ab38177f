// Package watch delivers create/change/delete events for workspace
// files using fsnotify, watching every subdirectory recursively.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/taskscout/internal/core/logging"
	"github.com/colonyops/taskscout/internal/core/scan"
	"github.com/colonyops/taskscout/internal/core/workspace"
)

const (
	debounceDelay   = 50 * time.Millisecond
	eventBufferSize = 100
)

// Op is the kind of filesystem change.
type Op int

// Filesystem change kinds.
const (
	OpCreate Op = iota
	OpChange
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpChange:
		return "change"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Event is one discrete file change.
type Event struct {
	Op   Op
	Path string
}

// Watcher watches workspace folders recursively and emits debounced
// file events. Write bursts for one file collapse into a single change
// event; create and delete pass through immediately.
type Watcher struct {
	watcher  *fsnotify.Watcher
	excludes []string
	events   chan Event

	mu       sync.Mutex
	debounce map[string]*time.Timer
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    zerolog.Logger
}

// New creates a watcher covering every non-excluded directory under the
// given workspace folders.
func New(folders []workspace.Folder, excludes []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:  fsw,
		excludes: excludes,
		events:   make(chan Event, eventBufferSize),
		debounce: make(map[string]*time.Timer),
		ctx:      ctx,
		cancel:   cancel,
		log:      logging.Component("watch"),
	}

	for _, folder := range folders {
		if err := w.addRecursive(folder.Path); err != nil {
			cancel()
			_ = fsw.Close()
			return nil, err
		}
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Events returns the event stream. The channel is closed by Close.
func (w *Watcher) Events() <-chan Event { return w.events }

// Close stops watching and closes the event channel.
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	for _, timer := range w.debounce {
		timer.Stop()
	}
	w.debounce = make(map[string]*time.Timer)
	w.closed = true
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	close(w.events)
	return err
}

// addRecursive registers root and every non-excluded subdirectory.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // directory vanished mid-walk, skip
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && scan.IsExcluded(path, w.excludes) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// run processes filesystem events from fsnotify.
func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

// handleEvent maps one fsnotify event onto the Event stream.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if scan.IsExcluded(event.Name, w.excludes) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		// A new directory must be watched; fsnotify is not recursive.
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			return
		}
		w.emit(Event{Op: OpCreate, Path: event.Name})

	case event.Has(fsnotify.Write):
		w.debounced(event.Name)

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.emit(Event{Op: OpDelete, Path: event.Name})
	}
}

// debounced coalesces a write burst for one file into a single change event.
func (w *Watcher) debounced(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.debounce, path)
		w.mu.Unlock()
		w.emit(Event{Op: OpChange, Path: path})
	})
}

func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	select {
	case w.events <- ev:
	default:
		// Buffer full: drop rather than block the fsnotify loop.
		w.log.Warn().Str("path", ev.Path).Msg("event buffer full, dropping event")
	}
}
