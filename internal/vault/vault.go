// Package vault provides access to the user's document collection.
// Documents are addressed by vault-relative, slash-separated paths; a
// leading slash is tolerated and stripped.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Entry is one directory listing entry.
type Entry struct {
	Name  string
	IsDir bool
}

// Vault is the document store tools read from and write to.
type Vault interface {
	Exists(path string) bool
	ReadFile(path string) (string, error)
	WriteFile(path string, content string) error
	ReadDir(path string) ([]Entry, error)
	Mkdir(path string) error
	Root() string
}

// ErrEscapesVault is returned for paths that resolve outside the vault root.
var ErrEscapesVault = errors.New("path escapes the vault")

// CleanPath normalizes a vault path: backslashes become slashes, the
// leading slash is stripped, and the result is confined to the vault.
// The vault root itself is "".
func CleanPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "/")

	cleaned := path.Clean(p)
	if cleaned == "." {
		return "", nil
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %s", ErrEscapesVault, p)
	}
	return cleaned, nil
}

// IsNotFound reports whether err means the path does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
