package tools

import (
	"fmt"

	"vellum/internal/chat"
	"vellum/internal/diff"
	"vellum/internal/logging"
	"vellum/internal/vault"
)

// editFile proposes a change without touching disk or cache. The old
// content comes from the cache, then disk, then defaults to empty for new
// files. The proposal lands in the pending store and surfaces to the user
// as a diff message; only an explicit apply makes it real.
func (h *Handler) editFile(rawPath, newContent string) string {
	path, err := vault.CleanPath(rawPath)
	if err != nil {
		return fmt.Sprintf("Invalid path %q: %v", rawPath, err)
	}
	if path == "" {
		return "edit_file requires a file path."
	}

	oldContent, ok := h.cache.Get(path)
	if !ok {
		if content, err := h.vault.ReadFile(path); err == nil {
			oldContent = content
		}
	}

	unified := diff.Unified(path, oldContent, newContent)
	edit := h.edits.Propose(path, newContent, unified)

	h.log.Append(chat.NewEditProposal(
		fmt.Sprintf("Proposed changes to %s:\n\n%s", path, unified),
		edit.ID,
	))
	logging.Info("tool proposed edit", "path", path, "edit_id", edit.ID)

	return fmt.Sprintf("proposed (pending id: %s)", edit.ID)
}
