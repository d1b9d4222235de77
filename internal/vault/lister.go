package vault

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Lister produces the flattened vault listing used in the system prompt.
type Lister struct {
	vault  Vault
	ignore []string
}

// NewLister creates a lister over v. Paths matching any ignore pattern
// are excluded along with their children.
func NewLister(v Vault, ignore []string) *Lister {
	return &Lister{vault: v, ignore: ignore}
}

// Flatten walks the vault depth-first and returns up to limit paths,
// directories carrying a trailing slash. The second result reports
// whether entries beyond the limit were elided.
func (l *Lister) Flatten(limit int) ([]string, bool) {
	paths := make([]string, 0, limit)
	truncated := l.walk("", limit, &paths)
	return paths, truncated
}

// walk returns true when it stopped early because the limit was hit.
func (l *Lister) walk(dir string, limit int, paths *[]string) bool {
	entries, err := l.vault.ReadDir(dir)
	if err != nil {
		// Unreadable directories are skipped, not fatal to the listing.
		return false
	}

	for _, e := range entries {
		rel := e.Name
		if dir != "" {
			rel = dir + "/" + e.Name
		}
		if MatchesAny(l.ignore, rel) {
			continue
		}

		if len(*paths) >= limit {
			return true
		}
		if e.IsDir {
			*paths = append(*paths, rel+"/")
			if l.walk(rel, limit, paths) {
				return true
			}
		} else {
			*paths = append(*paths, rel)
		}
	}
	return false
}

// MatchesAny reports whether relPath matches any doublestar pattern.
// A pattern ending in /** also matches the directory itself.
func MatchesAny(patterns []string, relPath string) bool {
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, relPath); ok {
			return true
		}
		if trimmed := strings.TrimSuffix(pat, "/**"); trimmed != pat {
			if ok, _ := doublestar.Match(trimmed, relPath); ok {
				return true
			}
		}
	}
	return false
}
