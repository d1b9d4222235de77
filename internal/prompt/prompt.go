// Package prompt assembles the system prompt sent with every provider
// request. The prompt is rebuilt fresh each time: the current document and
// the vault listing change as the user works, so nothing here is cached.
package prompt

import (
	"fmt"
	"strings"

	"vellum/internal/vault"
)

// maxListedEntries caps the flattened vault listing embedded in the prompt.
const maxListedEntries = 100

const basePrompt = `You are Vellum, an assistant that lives inside the user's note vault. You answer questions about their notes and act on the vault through tools.

## Working with the vault

- Paths are vault-relative. Markdown is the native format; prefer it when writing.
- Read a note before answering questions about it. Search when you do not know where something lives.
- write_file updates the open document buffer; the user saves to disk separately.
- edit_file only proposes a change. The user reviews the diff and applies or rejects it, so never assume a proposal landed.
- fetch_url reads one page; research runs a web search and reads the top results. Use research for open questions, fetch_url when the user gives you a link.

## Response style

- Be concise. Quote or reference specific notes by path when the answer comes from the vault.
- When you change or propose changes to a file, say which file and what changed.
- If a tool fails, tell the user what failed rather than guessing.`

// Builder assembles system prompts from the current vault state.
type Builder struct {
	vault  vault.Vault
	cache  *vault.Cache
	lister *vault.Lister
}

// NewBuilder creates a prompt builder.
func NewBuilder(v vault.Vault, cache *vault.Cache, lister *vault.Lister) *Builder {
	return &Builder{vault: v, cache: cache, lister: lister}
}

// Build produces the system prompt for one provider request.
func (b *Builder) Build() string {
	var sb strings.Builder
	sb.WriteString(basePrompt)

	if section := b.currentDocumentSection(); section != "" {
		sb.WriteString(section)
	}

	entries, truncated := b.lister.Flatten(maxListedEntries)
	sb.WriteString("\n\n## Vault contents\n\n")
	if len(entries) == 0 {
		sb.WriteString("(the vault is empty)\n")
	}
	for _, entry := range entries {
		sb.WriteString(entry)
		sb.WriteByte('\n')
	}
	if truncated {
		sb.WriteString("...and more\n")
	}

	fmt.Fprintf(&sb, "\nVault root: %s", b.vault.Root())
	return sb.String()
}

// currentDocumentSection embeds the document the user is looking at. The
// most recently viewed document wins over the active one.
func (b *Builder) currentDocumentSection() string {
	path := b.cache.ViewedPath()
	if path == "" {
		path = b.cache.ActivePath()
	}
	if path == "" {
		return ""
	}

	content, ok := b.cache.Get(path)
	if !ok {
		fromDisk, err := b.vault.ReadFile(path)
		if err != nil {
			return fmt.Sprintf("\n\n## Current document\n\nThe user is looking at %s (content unavailable).", path)
		}
		content = fromDisk
	}
	return fmt.Sprintf("\n\n## Current document\n\nThe user is looking at %s:\n\n%s", path, content)
}
