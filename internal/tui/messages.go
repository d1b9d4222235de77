package tui

import "vellum/internal/permission"

// Messages crossing from the app's goroutines into the bubbletea loop.
// The app delivers them with Program.Send; the model never polls.
type (
	// TranscriptMsg signals that the conversation log grew and the
	// viewport needs re-rendering.
	TranscriptMsg struct{}

	// TurnDoneMsg signals that the agent (or a slash command) finished
	// handling the submitted input.
	TurnDoneMsg struct{}

	// PermissionRequestMsg carries a suspended tool call awaiting a
	// decision. The agent goroutine stays blocked until the request is
	// resolved.
	PermissionRequestMsg struct {
		Request *permission.Request
	}

	// NoticeMsg puts a transient line on the status row.
	NoticeMsg struct {
		Text string
	}
)
