package tools

import (
	"fmt"

	"vellum/internal/logging"
	"vellum/internal/vault"
)

// readFile returns the document content, preferring the in-memory copy so
// the model sees unsaved changes.
func (h *Handler) readFile(rawPath string) string {
	path, err := vault.CleanPath(rawPath)
	if err != nil {
		return fmt.Sprintf("Invalid path %q: %v", rawPath, err)
	}
	if path == "" {
		return "read_file requires a file path."
	}

	if content, ok := h.cache.Get(path); ok {
		return fmt.Sprintf("Contents of %s:\n\n%s", path, content)
	}

	content, err := h.vault.ReadFile(path)
	if err != nil {
		if vault.IsNotFound(err) {
			return fmt.Sprintf("File not found: %s", path)
		}
		return fmt.Sprintf("Could not read %s: %v", path, err)
	}
	return fmt.Sprintf("Contents of %s:\n\n%s", path, content)
}

// writeFile overwrites the in-memory copy and marks the path unsaved. Disk
// is untouched; persisting is the save flow's job.
func (h *Handler) writeFile(rawPath, content string) string {
	path, err := vault.CleanPath(rawPath)
	if err != nil {
		return fmt.Sprintf("Invalid path %q: %v", rawPath, err)
	}
	if path == "" {
		return "write_file requires a file path."
	}

	h.cache.Set(path, content)
	h.cache.MarkUnsaved(path)
	logging.Info("tool buffered write", "path", path, "bytes", len(content))
	return fmt.Sprintf("Wrote %s (unsaved changes held in memory).", path)
}
