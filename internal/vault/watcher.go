package vault

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"vellum/internal/logging"
)

// ChangeHandler receives the vault-relative path of a changed document.
type ChangeHandler func(path string)

// Watcher monitors a local vault for external file changes so stale
// cache entries can be dropped.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	ignore    []string
	debounce  time.Duration
	onChange  ChangeHandler
	pending   map[string]time.Time
	mu        sync.Mutex
	done      chan struct{}
	running   bool
	stopOnce  sync.Once
}

// NewWatcher creates a watcher rooted at the local vault root.
func NewWatcher(root string, ignore []string, debounceMs int) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounceMs <= 0 {
		debounceMs = 500
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		root:      root,
		ignore:    ignore,
		debounce:  time.Duration(debounceMs) * time.Millisecond,
		pending:   make(map[string]time.Time),
		done:      make(chan struct{}),
	}, nil
}

// SetOnChange sets the callback for debounced change events.
func (w *Watcher) SetOnChange(handler ChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = handler
}

// Start begins watching the vault tree.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addDirectories(); err != nil {
		return err
	}

	go w.processEvents()
	go w.processDebounce()
	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	w.stopOnce.Do(func() {
		close(w.done)
	})
	return w.fsWatcher.Close()
}

func (w *Watcher) addDirectories() error {
	return filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if !info.IsDir() {
			return nil
		}
		rel := w.relative(path)
		if rel != "" && MatchesAny(w.ignore, rel) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return nil // individual directory failures are not fatal
		}
		return nil
	})
}

func (w *Watcher) relative(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logging.Warn("vault watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	rel := w.relative(event.Name)
	if rel == "" || MatchesAny(w.ignore, rel) {
		return
	}

	// Skip editor temp files.
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "#") || strings.HasSuffix(base, "~") {
		return
	}

	// Watch directories as they appear.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.fsWatcher.Add(event.Name)
			return
		}
	}

	w.mu.Lock()
	w.pending[rel] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounce() {
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.flushPending()
		}
	}
}

// flushPending fires the handler for paths that have been quiet long enough.
func (w *Watcher) flushPending() {
	w.mu.Lock()
	handler := w.onChange
	if handler == nil || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}

	now := time.Now()
	toSend := make([]string, 0)
	for path, eventTime := range w.pending {
		if now.Sub(eventTime) >= w.debounce {
			toSend = append(toSend, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range toSend {
		handler(path)
	}
}
