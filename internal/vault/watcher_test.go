package vault

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type changeRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *changeRecorder) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *changeRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func (r *changeRecorder) waitFor(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		for _, p := range r.snapshot() {
			if p == path {
				return
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("no change notification for %q, got %v", path, r.snapshot())
}

func startWatcher(t *testing.T, root string, ignore []string) *changeRecorder {
	t.Helper()
	w, err := NewWatcher(root, ignore, 50)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	rec := &changeRecorder{}
	w.SetOnChange(rec.record)
	if err := w.Start(); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	t.Cleanup(func() { _ = w.Stop() })
	return rec
}

func TestWatcherCoalescesRapidWrites(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "notes"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	rec := startWatcher(t, root, nil)

	target := filepath.Join(root, "notes", "daily.md")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("draft"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	rec.waitFor(t, "notes/daily.md")
	// Let another debounce window pass to catch duplicate deliveries.
	time.Sleep(200 * time.Millisecond)
	count := 0
	for _, p := range rec.snapshot() {
		if p == "notes/daily.md" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one coalesced notification, got %d", count)
	}
}

func TestWatcherSkipsIgnoredAndTempFiles(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"archive", "notes"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	rec := startWatcher(t, root, []string{"archive/**"})

	writes := []string{
		filepath.Join(root, "archive", "old.md"),
		filepath.Join(root, "notes", "draft.md~"),
		filepath.Join(root, "notes", "keep.md"),
	}
	for _, path := range writes {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	rec.waitFor(t, "notes/keep.md")
	time.Sleep(200 * time.Millisecond)
	for _, p := range rec.snapshot() {
		if p == "archive/old.md" || p == "notes/draft.md~" {
			t.Fatalf("unexpected notification for %q", p)
		}
	}
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	rec := startWatcher(t, root, nil)

	sub := filepath.Join(root, "projects")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Give the create event time to register the new directory.
	time.Sleep(250 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(sub, "plan.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rec.waitFor(t, "projects/plan.md")
}

func TestWatcherStartAndStopAreIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), nil, 50)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}
