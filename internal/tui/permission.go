package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"vellum/internal/permission"
)

// permissionChoice pairs a menu label with the decision it resolves to.
type permissionChoice struct {
	label    string
	decision permission.Decision
}

func choicesFor(req *permission.Request) []permissionChoice {
	return []permissionChoice{
		{"Allow once", permission.DecisionAllowOnce},
		{fmt.Sprintf("Allow %s for this session", req.Tool), permission.DecisionAllowTool},
		{"Allow all tools for this session", permission.DecisionAllowAll},
		{"Deny", permission.DecisionDeny},
	}
}

func (m *Model) handlePermissionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.resolvePermission(permission.DecisionDeny)
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit
	case "1", "y":
		m.resolvePermission(permission.DecisionAllowOnce)
	case "2":
		m.resolvePermission(permission.DecisionAllowTool)
	case "3":
		m.resolvePermission(permission.DecisionAllowAll)
	case "4", "n", "esc":
		m.resolvePermission(permission.DecisionDeny)
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < 3 {
			m.selected++
		}
	case "enter", " ":
		if m.request != nil {
			m.resolvePermission(choicesFor(m.request)[m.selected].decision)
		}
	}
	return m, nil
}

// resolvePermission answers the suspended tool call and hands the screen
// back to the working state; the agent goroutine resumes immediately.
func (m *Model) resolvePermission(d permission.Decision) {
	if m.request == nil {
		return
	}
	m.request.Resolve(d)
	m.request = nil
	m.state = stateWorking
	m.layout()
	m.renderTranscript()
}

func (m *Model) permissionView() string {
	req := m.request
	if req == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString(m.styles.PromptTitle.Render("? Permission required"))
	b.WriteString("  ")
	b.WriteString(m.riskBadge(req.Risk))
	b.WriteString("\n")

	b.WriteString(m.styles.PromptMarker.Render("  ⎿  "))
	b.WriteString(m.styles.PromptLabel.Render("Tool: "))
	b.WriteString(m.styles.PromptValue.Render(req.Tool))
	b.WriteString("\n")

	if detail := requestDetail(req.Args); detail != "" {
		b.WriteString(m.styles.PromptMarker.Render("     "))
		b.WriteString(m.styles.PromptLabel.Render("Target: "))
		b.WriteString(m.styles.PromptValue.Render(detail))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.PromptMarker.Render("     "))
	b.WriteString(m.styles.PromptLabel.Render(req.Reason))
	b.WriteString("\n\n")

	for i, choice := range choicesFor(req) {
		cursor := "  "
		style := m.styles.Option
		if i == m.selected {
			cursor = "> "
			style = m.styles.OptionActive
		}
		b.WriteString(cursor)
		b.WriteString(style.Render(fmt.Sprintf("[%d] %s", i+1, choice.label)))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Hint.Render("Press 1-4, or move with arrows and confirm with enter."))
	return b.String()
}

func (m *Model) riskBadge(r permission.RiskLevel) string {
	switch r {
	case permission.RiskHigh:
		return m.styles.RiskHigh.Render("HIGH RISK")
	case permission.RiskMedium:
		return m.styles.RiskMedium.Render("MEDIUM RISK")
	default:
		return m.styles.RiskLow.Render("LOW RISK")
	}
}

// requestDetail picks the most informative argument for the prompt line.
func requestDetail(args map[string]string) string {
	for _, key := range []string{"path", "url", "query", "topic"} {
		if v := args[key]; v != "" {
			return v
		}
	}
	return ""
}
