package shape

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcherDebounce delays a reload after a write event so editors that
// write files in several bursts are read once, after the last burst.
const watcherDebounce = 100 * time.Millisecond

// Watcher hot-loads pattern templates from a directory of JSON files,
// each file holding one Pattern. Files added or changed while running are
// installed into the recognizer; removed files have their pattern
// withdrawn.
type Watcher struct {
	dir        string
	recognizer *Recognizer

	fw   *fsnotify.Watcher
	done chan struct{}

	mu      sync.Mutex
	loaded  map[string]string // file path -> pattern id
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher for the given directory.
func NewWatcher(dir string, r *Recognizer) *Watcher {
	return &Watcher{
		dir:        dir,
		recognizer: r,
		done:       make(chan struct{}),
		loaded:     make(map[string]string),
		pending:    make(map[string]*time.Timer),
	}
}

// Start loads every pattern file already in the directory and begins
// watching for changes. A missing directory is not an error; the watcher
// simply stays inactive.
func (w *Watcher) Start() error {
	if _, err := os.Stat(w.dir); os.IsNotExist(err) {
		return nil
	}

	w.loadAll()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.fw = fw
	go w.loop()
	return nil
}

// Close stops the watcher and any pending reloads. It must be called at
// most once.
func (w *Watcher) Close() error {
	close(w.done)

	w.mu.Lock()
	for _, t := range w.pending {
		t.Stop()
	}
	w.pending = make(map[string]*time.Timer)
	w.mu.Unlock()

	if w.fw != nil {
		return w.fw.Close()
	}
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Write|fsnotify.Create) != 0:
				w.scheduleLoad(ev.Name)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.handleRemove(ev.Name)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("Pattern watcher error: %v", err)
		}
	}
}

func (w *Watcher) scheduleLoad(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(watcherDebounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.loadFile(path)
	})
}

func (w *Watcher) handleRemove(path string) {
	w.mu.Lock()
	id, ok := w.loaded[path]
	delete(w.loaded, path)
	if t, pending := w.pending[path]; pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if ok {
		w.recognizer.RemovePattern(id)
		log.Printf("Removed pattern %s (%s deleted)", id, filepath.Base(path))
	}
}

func (w *Watcher) loadAll() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		log.Printf("Failed to read pattern directory %s: %v", w.dir, err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		w.loadFile(filepath.Join(w.dir, entry.Name()))
	}
}

func (w *Watcher) loadFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Failed to read pattern file %s: %v", path, err)
		return
	}

	var p Pattern
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("Skipping malformed pattern file %s: %v", path, err)
		return
	}
	if p.ID == "" || len(p.Points) == 0 {
		log.Printf("Skipping pattern file %s: missing id or points", path)
		return
	}

	w.mu.Lock()
	w.loaded[path] = p.ID
	w.mu.Unlock()

	w.recognizer.AddPattern(&p)
	log.Printf("Loaded pattern %s from %s", p.ID, filepath.Base(path))
}
