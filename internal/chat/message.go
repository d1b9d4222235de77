// Package chat holds the conversation transcript: the display messages the
// user sees and the provider turns rebuilt from them.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Roles used by both display messages and provider turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ResearchResult is one scraped page from a research run.
type ResearchResult struct {
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// DisplayMessage is one transcript entry. It is a superset of the provider
// turn: pending-edit references, research payloads and tool-usage chrome
// ride along for rendering. Messages are immutable once appended.
type DisplayMessage struct {
	ID              string           `json:"id"`
	Role            string           `json:"role"`
	Content         string           `json:"content"`
	Timestamp       time.Time        `json:"timestamp"`
	PendingEditID   string           `json:"pending_edit_id,omitempty"`
	ResearchResults []ResearchResult `json:"research_results,omitempty"`

	// ToolNote marks tool-usage chrome pushed for transparency. Notes are
	// rendered but never included when provider turns are rebuilt.
	ToolNote bool `json:"tool_note,omitempty"`
}

// NewMessage creates a plain display message.
func NewMessage(role, content string) DisplayMessage {
	return DisplayMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewToolNote creates a tool-usage chrome message.
func NewToolNote(content string) DisplayMessage {
	msg := NewMessage(RoleAssistant, content)
	msg.ToolNote = true
	return msg
}

// NewEditProposal creates the assistant message that carries a pending
// edit's diff and its store reference. Like all tool chrome it stays out
// of provider turns; the model already saw the tool result in-recursion.
func NewEditProposal(content, editID string) DisplayMessage {
	msg := NewMessage(RoleAssistant, content)
	msg.ToolNote = true
	msg.PendingEditID = editID
	return msg
}

// NewResearchNote creates the structured message that lets the UI disclose
// research sources alongside the combined text the model received.
func NewResearchNote(content string, results []ResearchResult) DisplayMessage {
	msg := NewMessage(RoleAssistant, content)
	msg.ToolNote = true
	msg.ResearchResults = results
	return msg
}
