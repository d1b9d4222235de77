package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"vellum/internal/chat"
	"vellum/internal/diff"
)

// openReview loads the most recent pending edit into the viewport. The
// state the screen came from is restored when the review closes, so a
// running turn keeps its working footer.
func (m *Model) openReview() {
	edits := m.edits.List()
	if len(edits) == 0 {
		m.status = m.styles.Hint.Render("No pending edits.")
		return
	}
	m.review = edits[len(edits)-1]
	m.showProposed = false
	m.returnState = m.state
	m.state = stateReview
	m.layout()
	m.renderReview()
}

func (m *Model) closeReview() {
	m.review = nil
	m.state = m.returnState
	m.layout()
	m.renderTranscript()
}

func (m *Model) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit
	case "a", "y":
		m.applyReview()
		return m, nil
	case "r", "n":
		m.rejectReview()
		return m, nil
	case "tab":
		m.showProposed = !m.showProposed
		m.renderReview()
		return m, nil
	case "esc", "q":
		m.closeReview()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// applyReview writes the edit through to the vault. On failure the store
// keeps the proposal, so the user can retry after fixing the cause.
func (m *Model) applyReview() {
	edit := m.review
	if edit == nil {
		return
	}
	if _, err := m.edits.Apply(edit.ID); err != nil {
		m.log.Append(chat.NewToolNote(fmt.Sprintf(
			"Could not apply the edit to %s: %v. The proposal is still pending.", edit.Path, err,
		)))
	} else {
		m.log.Append(chat.NewToolNote(fmt.Sprintf("Applied the edit to %s.", edit.Path)))
	}
	m.closeReview()
}

func (m *Model) rejectReview() {
	edit := m.review
	if edit == nil {
		return
	}
	m.edits.Reject(edit.ID)
	m.log.Append(chat.NewToolNote(fmt.Sprintf("Rejected the edit to %s.", edit.Path)))
	m.closeReview()
}

// renderReview fills the viewport with either the colored diff or the
// highlighted proposed content, headed by the edit's identity.
func (m *Model) renderReview() {
	edit := m.review
	if edit == nil {
		return
	}
	var b strings.Builder
	b.WriteString(m.styles.ReviewTitle.Render(fmt.Sprintf("Reviewing edit %s", shortID(edit.ID))))
	b.WriteString("\n")
	b.WriteString(m.styles.PromptLabel.Render("Document: "))
	b.WriteString(m.styles.PromptValue.Render(edit.Path))
	b.WriteString("\n\n")
	if m.showProposed {
		b.WriteString(m.code.NumberedDocument(edit.Path, edit.NewContent))
	} else {
		b.WriteString(m.styles.ColorizeDiff(strings.TrimRight(edit.Diff, "\n")))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}

func (m *Model) reviewFooter() string {
	edit := m.review
	if edit == nil {
		return ""
	}
	added, removed := diff.Stats(edit.Diff)
	view := "diff"
	if m.showProposed {
		view = "proposed content"
	}
	line := fmt.Sprintf("%s %s  %s %s",
		m.styles.StatAdded.Render(fmt.Sprintf("+%d", added)),
		m.styles.StatRemoved.Render(fmt.Sprintf("-%d", removed)),
		m.styles.PromptLabel.Render("view:"),
		m.styles.PromptValue.Render(view),
	)
	hints := m.styles.Hint.Render("a apply · r reject · tab switch view · esc back")
	return line + "\n" + hints
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
