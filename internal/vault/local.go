package vault

import (
	"fmt"
	"os"
	"path/filepath"

	"vellum/internal/fileutil"
)

// Local serves a vault from a directory on disk.
type Local struct {
	root string
}

// NewLocal opens the directory at root as a vault.
func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault path is not a directory: %s", abs)
	}
	return &Local{root: abs}, nil
}

// Root returns the absolute vault root.
func (v *Local) Root() string {
	return v.root
}

func (v *Local) resolve(p string) (string, error) {
	rel, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(v.root, filepath.FromSlash(rel)), nil
}

// Exists reports whether path exists in the vault.
func (v *Local) Exists(p string) bool {
	full, err := v.resolve(p)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// ReadFile returns the content of a document.
func (v *Local) ReadFile(p string) (string, error) {
	full, err := v.resolve(p)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile stores content at path, creating parent directories as needed.
func (v *Local) WriteFile(p string, content string) error {
	full, err := v.resolve(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}
	return fileutil.AtomicWrite(full, []byte(content), 0644)
}

// ReadDir lists the entries of a directory.
func (v *Local) ReadDir(p string) ([]Entry, error) {
	full, err := v.resolve(p)
	if err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(full)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, Entry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return entries, nil
}

// Mkdir creates a directory, including missing parents.
func (v *Local) Mkdir(p string) error {
	full, err := v.resolve(p)
	if err != nil {
		return err
	}
	return os.MkdirAll(full, 0755)
}
