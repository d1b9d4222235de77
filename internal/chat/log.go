package chat

import (
	"sync"

	"vellum/internal/client"
)

// Log is the append-only transcript behind the conversation view.
type Log struct {
	mu       sync.RWMutex
	msgs     []DisplayMessage
	onAppend func(DisplayMessage)
}

// NewLog creates an empty transcript.
func NewLog() *Log {
	return &Log{}
}

// SetOnAppend registers a callback invoked after every append. The UI uses
// it to refresh; the callback runs on the appending goroutine.
func (l *Log) SetOnAppend(fn func(DisplayMessage)) {
	l.mu.Lock()
	l.onAppend = fn
	l.mu.Unlock()
}

// Append adds msg to the transcript and returns it.
func (l *Log) Append(msg DisplayMessage) DisplayMessage {
	l.mu.Lock()
	l.msgs = append(l.msgs, msg)
	notify := l.onAppend
	l.mu.Unlock()

	if notify != nil {
		notify(msg)
	}
	return msg
}

// Messages returns a copy of the transcript.
func (l *Log) Messages() []DisplayMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]DisplayMessage, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Len returns the number of transcript entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.msgs)
}

// Clear empties the transcript. Pending edits already materialized in the
// edit store are untouched; clearing chat never cancels or resolves them.
func (l *Log) Clear() {
	l.mu.Lock()
	l.msgs = nil
	l.mu.Unlock()
}

// Turns rebuilds the provider conversation from the transcript. Tool notes
// are chrome: they stay visible to the user but never reach the provider.
func (l *Log) Turns() []client.Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()

	turns := make([]client.Turn, 0, len(l.msgs))
	for _, m := range l.msgs {
		if m.ToolNote {
			continue
		}
		role := client.RoleUser
		if m.Role == RoleAssistant {
			role = client.RoleAssistant
		}
		turns = append(turns, client.Turn{Role: role, Content: m.Content})
	}
	return turns
}
