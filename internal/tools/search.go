package tools

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const (
	maxSearchMatches   = 10
	searchPreviewRunes = 200
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// searchVault matches query case-insensitively against document paths and
// cached contents. Disk is never touched; documents that were never loaded
// are invisible here, which is why the app warms the cache at startup.
func (h *Handler) searchVault(query string) string {
	if strings.TrimSpace(query) == "" {
		return "search_vault requires a query."
	}

	needle := strings.ToLower(query)
	docs := h.cache.Snapshot()

	paths := make([]string, 0, len(docs))
	for p := range docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var lines []string
	for _, path := range paths {
		if len(lines) >= maxSearchMatches {
			break
		}
		content := docs[path]
		idx := strings.Index(strings.ToLower(content), needle)
		if idx < 0 && !strings.Contains(strings.ToLower(path), needle) {
			continue
		}
		if idx < 0 {
			idx = 0
		}
		lines = append(lines, fmt.Sprintf("%s: %s", path, preview(content, idx)))
	}

	if len(lines) == 0 {
		return fmt.Sprintf("No matches for %q in the vault.", query)
	}
	return fmt.Sprintf("Found %d matches for %q:\n\n%s", len(lines), query, strings.Join(lines, "\n"))
}

// preview returns a readable window into content starting at the match.
// The offset was computed on a case-folded copy, so clamp it.
func preview(content string, start int) string {
	if start < 0 || start > len(content) {
		start = 0
	}
	window := []rune(content[start:])
	if len(window) > searchPreviewRunes {
		window = window[:searchPreviewRunes]
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(string(window), " "))
}
