package highlight

import (
	"strings"
	"testing"
)

func TestDocumentFallsBackOnPlainContent(t *testing.T) {
	h := New("")
	out := h.Document("notes/a.md", "# Title\n\nBody text.")
	if !strings.Contains(out, "Title") {
		t.Fatalf("content lost during highlighting: %q", out)
	}
}

func TestDocumentUnknownStyleStillRenders(t *testing.T) {
	h := New("no-such-style")
	out := h.Document("a.md", "hello")
	if !strings.Contains(out, "hello") {
		t.Fatalf("content lost: %q", out)
	}
}

func TestNumberedDocumentGutters(t *testing.T) {
	h := New("monokai")
	out := h.NumberedDocument("a.md", "one\ntwo\nthree")
	if strings.Count(out, "│") != 3 {
		t.Fatalf("expected three gutter separators:\n%s", out)
	}
	if !strings.Contains(out, "   1") || !strings.Contains(out, "   3") {
		t.Fatalf("line numbers missing:\n%s", out)
	}
}

func TestLanguageForExtensions(t *testing.T) {
	cases := map[string]string{
		"daily.md":       "markdown",
		"todo":           "markdown",
		"data.json":      "json",
		"front.yaml":     "yaml",
		"scripts/run.sh": "bash",
	}
	for path, want := range cases {
		if got := languageFor(path); got != want {
			t.Errorf("languageFor(%q) = %q, want %q", path, got, want)
		}
	}
}
