package vault

import "testing"

func TestCacheSetGet(t *testing.T) {
	c := NewCache()
	if _, ok := c.Get("a.md"); ok {
		t.Fatalf("empty cache must miss")
	}
	c.Set("a.md", "one")
	c.Set("a.md", "two")
	got, ok := c.Get("a.md")
	if !ok || got != "two" {
		t.Fatalf("expected latest write %q, got %q ok=%v", "two", got, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
}

func TestCacheUnsavedTracking(t *testing.T) {
	c := NewCache()
	c.Set("a.md", "x")
	c.MarkUnsaved("a.md")
	if !c.IsUnsaved("a.md") {
		t.Fatalf("expected a.md unsaved")
	}
	if got := c.Unsaved(); len(got) != 1 || got[0] != "a.md" {
		t.Fatalf("expected unsaved list [a.md], got %v", got)
	}
	c.ClearUnsaved("a.md")
	if c.IsUnsaved("a.md") {
		t.Fatalf("expected unsaved flag cleared")
	}
}

func TestCacheForgetSkipsUnsaved(t *testing.T) {
	c := NewCache()
	c.Set("a.md", "x")
	c.Set("b.md", "y")
	c.MarkUnsaved("a.md")

	c.Forget("a.md")
	c.Forget("b.md")

	if _, ok := c.Get("a.md"); !ok {
		t.Fatalf("unsaved entry must survive Forget")
	}
	if _, ok := c.Get("b.md"); ok {
		t.Fatalf("saved entry must be dropped by Forget")
	}
}

func TestCacheSnapshotIsCopy(t *testing.T) {
	c := NewCache()
	c.Set("a.md", "x")
	snap := c.Snapshot()
	snap["a.md"] = "mutated"
	if got, _ := c.Get("a.md"); got != "x" {
		t.Fatalf("snapshot mutation must not affect cache, got %q", got)
	}
}
