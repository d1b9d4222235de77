// Package diff renders unified textual diffs between two versions of a
// document.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Unified produces a line-oriented unified diff between oldContent and
// newContent, headed by ---/+++ markers carrying the document path.
func Unified(path, oldContent, newContent string) string {
	dmp := diffmatchpatch.New()

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- %s\n", path))
	result.WriteString(fmt.Sprintf("+++ %s\n", path))

	// Diff whole lines, not characters, so removals and additions carry
	// complete document lines.
	chars1, chars2, lineArray := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)
	diffs = dmp.DiffCleanupSemantic(diffs)

	for _, d := range diffs {
		lines := strings.Split(d.Text, "\n")
		for i, line := range lines {
			// Skip the empty trailing element from split.
			if i == len(lines)-1 && line == "" {
				continue
			}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				result.WriteString(fmt.Sprintf(" %s\n", line))
			case diffmatchpatch.DiffDelete:
				result.WriteString(fmt.Sprintf("-%s\n", line))
			case diffmatchpatch.DiffInsert:
				result.WriteString(fmt.Sprintf("+%s\n", line))
			}
		}
	}

	return result.String()
}

// Stats counts added and removed lines in a unified diff.
func Stats(diffText string) (added, removed int) {
	for _, line := range strings.Split(diffText, "\n") {
		switch {
		case strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}
