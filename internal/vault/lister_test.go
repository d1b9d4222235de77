package vault

import (
	"fmt"
	"testing"
)

func listerVault(t *testing.T) *Local {
	t.Helper()
	v, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	return v
}

func TestFlattenDepthFirst(t *testing.T) {
	v := listerVault(t)
	for _, p := range []string{"notes/a.md", "notes/sub/deep.md", "zebra.md"} {
		if err := v.WriteFile(p, "x"); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	paths, truncated := NewLister(v, nil).Flatten(100)
	if truncated {
		t.Fatalf("did not expect truncation")
	}
	want := []string{"notes/", "notes/a.md", "notes/sub/", "notes/sub/deep.md", "zebra.md"}
	if len(paths) != len(want) {
		t.Fatalf("expected %d paths, got %d: %v", len(want), len(paths), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("path %d: expected %q, got %q", i, want[i], paths[i])
		}
	}
}

func TestFlattenHonorsLimit(t *testing.T) {
	v := listerVault(t)
	for i := 0; i < 120; i++ {
		if err := v.WriteFile(fmt.Sprintf("n%03d.md", i), "x"); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	paths, truncated := NewLister(v, nil).Flatten(100)
	if len(paths) != 100 {
		t.Fatalf("expected 100 paths, got %d", len(paths))
	}
	if !truncated {
		t.Fatalf("expected truncation flag")
	}
}

func TestFlattenIgnoresPatterns(t *testing.T) {
	v := listerVault(t)
	for _, p := range []string{".obsidian/workspace.json", "notes/a.md"} {
		if err := v.WriteFile(p, "x"); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	paths, _ := NewLister(v, []string{"**/.obsidian/**", ".obsidian/**"}).Flatten(100)
	for _, p := range paths {
		if p == ".obsidian/" || p == ".obsidian/workspace.json" {
			t.Fatalf("ignored path leaked into listing: %v", paths)
		}
	}
	if len(paths) != 2 {
		t.Fatalf("expected [notes/, notes/a.md], got %v", paths)
	}
}
