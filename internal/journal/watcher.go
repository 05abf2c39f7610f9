package journal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"edroute/internal/log"
)

// Watcher tails the newest journal file in a directory and reports every
// location event to its callback. The game starts a fresh journal file
// per session, so the watcher also rolls over to newer files as they
// appear.
//
// On Start the existing journal is caught up silently: only the last
// location already on disk is reported, so a restart does not replay the
// whole session into the route.
type Watcher struct {
	dir        string
	onLocation func(Location)

	// PollInterval drives the sweep that backs up fsnotify. Some
	// filesystems (network shares, Proton prefixes) deliver no events.
	PollInterval time.Duration

	mu      sync.Mutex
	file    *os.File
	path    string
	pending []byte

	fsw      *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWatcher creates a watcher for dir. Events are delivered on the
// watcher's own goroutine.
func NewWatcher(dir string, onLocation func(Location)) *Watcher {
	return &Watcher{
		dir:          dir,
		onLocation:   onLocation,
		PollInterval: 2 * time.Second,
		done:         make(chan struct{}),
	}
}

// Start catches up on the newest existing journal file and begins
// watching for new lines and new files.
func (w *Watcher) Start() error {
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("journal directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("journal directory %s is not a directory", w.dir)
	}

	w.mu.Lock()
	w.catchUp()
	w.mu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("Filesystem watcher unavailable, relying on polling", "error", err)
	} else if err := fsw.Add(w.dir); err != nil {
		log.Warn("Cannot watch journal directory, relying on polling", "dir", w.dir, "error", err)
		fsw.Close()
		fsw = nil
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.run()
	return nil
}

// Stop ends the watch. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
		if w.fsw != nil {
			w.fsw.Close()
		}
		w.mu.Lock()
		if w.file != nil {
			w.file.Close()
			w.file = nil
		}
		w.mu.Unlock()
	})
}

func (w *Watcher) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	var events chan fsnotify.Event
	var errs chan error
	if w.fsw != nil {
		events = w.fsw.Events
		errs = w.fsw.Errors
	}

	for {
		select {
		case <-w.done:
			return
		case event := <-events:
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.sweep()
			}
		case err := <-errs:
			log.Warn("Journal watch error", "error", err)
		case <-ticker.C:
			w.sweep()
		}
	}
}

// sweep drains new lines, rolling to a newer journal file first if one
// has appeared.
func (w *Watcher) sweep() {
	w.mu.Lock()
	defer w.mu.Unlock()

	newest := newestJournal(w.dir)
	if newest != "" && newest != w.path {
		w.drain(w.emit)
		w.openFile(newest)
	}
	w.drain(w.emit)
}

// catchUp opens the newest journal and reports only the final location
// in it.
func (w *Watcher) catchUp() {
	newest := newestJournal(w.dir)
	if newest == "" {
		log.Info("No journal files yet", "dir", w.dir)
		return
	}
	w.openFile(newest)

	var last *Location
	w.drain(func(loc Location) {
		l := loc
		last = &l
	})
	if last != nil {
		w.emit(*last)
	}
}

func (w *Watcher) openFile(path string) {
	if w.file != nil {
		w.file.Close()
		w.file = nil
	}
	f, err := os.Open(path)
	if err != nil {
		log.Error("Cannot open journal file", "path", path, "error", err)
		return
	}
	log.Info("Following journal file", "path", path)
	w.file = f
	w.path = path
	w.pending = nil
}

// drain reads everything new in the current file and hands each complete
// location line to deliver. A trailing partial line is kept for the next
// drain.
func (w *Watcher) drain(deliver func(Location)) {
	if w.file == nil {
		return
	}
	data, err := io.ReadAll(w.file)
	if err != nil {
		log.Error("Journal read failed", "path", w.path, "error", err)
		return
	}
	w.pending = append(w.pending, data...)
	for {
		idx := bytes.IndexByte(w.pending, '\n')
		if idx < 0 {
			return
		}
		line := bytes.TrimSpace(w.pending[:idx])
		w.pending = w.pending[idx+1:]
		if len(line) == 0 {
			continue
		}
		if loc, ok := ParseLine(line); ok {
			deliver(loc)
		}
	}
}

func (w *Watcher) emit(loc Location) {
	if w.onLocation != nil {
		w.onLocation(loc)
	}
}

// newestJournal returns the most recently modified Journal*.log in dir,
// or "" when there is none.
func newestJournal(dir string) string {
	matches, err := filepath.Glob(filepath.Join(dir, "Journal*.log"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	newest := ""
	var newestTime time.Time
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		mod := info.ModTime()
		if newest == "" || mod.After(newestTime) ||
			(mod.Equal(newestTime) && strings.Compare(path, newest) > 0) {
			newest = path
			newestTime = mod
		}
	}
	return newest
}
