package diff

import (
	"strings"
	"testing"
)

func TestUnifiedShowsRemovalAndAddition(t *testing.T) {
	got := Unified("notes/a.md", "old text", "new text")

	if !strings.HasPrefix(got, "--- notes/a.md\n+++ notes/a.md\n") {
		t.Fatalf("expected path header, got:\n%s", got)
	}
	if !strings.Contains(got, "-old text") {
		t.Fatalf("expected removal of old text, got:\n%s", got)
	}
	if !strings.Contains(got, "+new text") {
		t.Fatalf("expected addition of new text, got:\n%s", got)
	}
}

func TestUnifiedKeepsContextLines(t *testing.T) {
	oldContent := "# Title\n\nfirst\nsecond\n"
	newContent := "# Title\n\nfirst\nchanged\n"
	got := Unified("n.md", oldContent, newContent)

	if !strings.Contains(got, " # Title\n") {
		t.Fatalf("expected unchanged title as context, got:\n%s", got)
	}
	if !strings.Contains(got, "-second\n") || !strings.Contains(got, "+changed\n") {
		t.Fatalf("expected line replacement, got:\n%s", got)
	}
}

func TestUnifiedEmptyOldContent(t *testing.T) {
	got := Unified("new.md", "", "fresh\n")
	if !strings.Contains(got, "+fresh") {
		t.Fatalf("expected pure addition, got:\n%s", got)
	}
	if strings.Contains(got, "\n-") {
		t.Fatalf("did not expect removals, got:\n%s", got)
	}
}

func TestStats(t *testing.T) {
	diffText := Unified("a.md", "one\ntwo\n", "one\nthree\nfour\n")
	added, removed := Stats(diffText)
	if added != 2 || removed != 1 {
		t.Fatalf("expected +2 -1, got +%d -%d", added, removed)
	}
}
