package tools

import (
	"fmt"
	"strings"

	"vellum/internal/logging"
	"vellum/internal/vault"
)

// readFolder lists one directory level, marking folders and files.
func (h *Handler) readFolder(rawPath string) string {
	path, err := vault.CleanPath(rawPath)
	if err != nil {
		return fmt.Sprintf("Invalid path %q: %v", rawPath, err)
	}

	entries, err := h.vault.ReadDir(path)
	if err != nil {
		if vault.IsNotFound(err) {
			return fmt.Sprintf("Folder not found: %s", displayPath(path))
		}
		return fmt.Sprintf("Could not read folder %s: %v", displayPath(path), err)
	}

	if len(entries) == 0 {
		return fmt.Sprintf("Folder %s is empty.", displayPath(path))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Contents of %s:\n", displayPath(path))
	for _, entry := range entries {
		if entry.IsDir {
			fmt.Fprintf(&b, "[folder] %s/\n", entry.Name)
		} else {
			fmt.Fprintf(&b, "[file] %s\n", entry.Name)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// createFolder creates the directory and any missing parents.
func (h *Handler) createFolder(rawPath string) string {
	path, err := vault.CleanPath(rawPath)
	if err != nil {
		return fmt.Sprintf("Invalid path %q: %v", rawPath, err)
	}
	if path == "" {
		return "create_folder requires a folder path."
	}

	if err := h.vault.Mkdir(path); err != nil {
		return fmt.Sprintf("Could not create folder %s: %v", path, err)
	}
	logging.Info("tool created folder", "path", path)
	return fmt.Sprintf("Created folder %s.", path)
}

// displayPath renders the vault root as "/" instead of an empty string.
func displayPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
