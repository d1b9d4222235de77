package vault

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"notes/a.md", "notes/a.md"},
		{"/notes/a.md", "notes/a.md"},
		{"notes//a.md", "notes/a.md"},
		{"./notes/a.md", "notes/a.md"},
		{"notes\\a.md", "notes/a.md"},
		{"", ""},
		{"/", ""},
		{".", ""},
	}
	for _, tc := range cases {
		got, err := CleanPath(tc.in)
		if err != nil {
			t.Fatalf("CleanPath(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("CleanPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"..", "../x", "notes/../../x"} {
		if _, err := CleanPath(bad); err == nil {
			t.Fatalf("CleanPath(%q) expected escape error", bad)
		}
	}
}

func TestLocalReadWrite(t *testing.T) {
	v, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}

	if v.Exists("notes/a.md") {
		t.Fatalf("did not expect notes/a.md to exist")
	}
	if _, err := v.ReadFile("notes/a.md"); !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	if err := v.WriteFile("notes/a.md", "hello"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := v.ReadFile("/notes/a.md")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
	if !v.Exists("notes/a.md") {
		t.Fatalf("expected notes/a.md to exist")
	}
}

func TestLocalReadDirAndMkdir(t *testing.T) {
	v, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	if err := v.Mkdir("notes/sub"); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := v.WriteFile("notes/a.md", "a"); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := v.ReadDir("notes")
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "a.md" || entries[0].IsDir {
		t.Fatalf("expected file a.md first, got %+v", entries[0])
	}
	if entries[1].Name != "sub" || !entries[1].IsDir {
		t.Fatalf("expected dir sub second, got %+v", entries[1])
	}
}

func TestLocalRejectsEscape(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(filepath.Dir(root), "outside.txt")
	defer os.Remove(outside)

	v, err := NewLocal(root)
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	if err := v.WriteFile("../outside.txt", "nope"); err == nil {
		t.Fatalf("expected escape error")
	}
	if _, err := os.Stat(outside); !os.IsNotExist(err) {
		t.Fatalf("escape write must not reach disk")
	}
}
