// Package tui implements the terminal chat screen: a viewport holding the
// rendered transcript, a one-line input, and the modal footers for
// permission prompts and pending-edit review. The agent runs on another
// goroutine; everything it produces arrives here as bubbletea messages.
package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"vellum/internal/chat"
	"vellum/internal/config"
	"vellum/internal/highlight"
	"vellum/internal/pending"
	"vellum/internal/permission"
)

// state selects the active key handler and footer.
type state int

const (
	stateInput state = iota
	stateWorking
	statePermission
	stateReview
)

// Model is the single bubbletea model behind the chat screen. Conversation
// state lives in the log, the edit store and the gate; the model holds only
// view state plus the callbacks into the app.
type Model struct {
	cfg    *config.Config
	log    *chat.Log
	edits  *pending.Store
	styles *Styles

	markdown *glamour.TermRenderer
	code     *highlight.Highlighter

	viewport viewport.Model
	input    textarea.Model
	spin     spinner.Model

	state  state
	width  int
	height int
	ready  bool
	status string

	request  *permission.Request
	selected int

	review       *pending.Edit
	showProposed bool
	returnState  state

	onSubmit    func(string)
	onInterrupt func()
	onQuit      func()
}

// New builds the chat screen over the shared log and edit store.
func New(cfg *config.Config, log *chat.Log, edits *pending.Store) *Model {
	styles := DefaultStyles()

	input := textarea.New()
	input.Placeholder = "Ask about your vault, or /help for commands"
	input.Prompt = "❯ "
	input.CharLimit = 8192
	input.SetHeight(1)
	input.ShowLineNumbers = false
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Spinner

	return &Model{
		cfg:      cfg,
		log:      log,
		edits:    edits,
		styles:   styles,
		code:     highlight.New(""),
		viewport: viewport.New(0, 0),
		input:    input,
		spin:     spin,
	}
}

// SetCallbacks wires the handlers the app provides. onSubmit receives each
// submitted input line, onInterrupt cancels the running turn, onQuit runs
// right before the program exits.
func (m *Model) SetCallbacks(onSubmit func(string), onInterrupt, onQuit func()) {
	m.onSubmit = onSubmit
	m.onInterrupt = onInterrupt
	m.onQuit = onQuit
}

// GetProgram wraps the model in a bubbletea program. Mouse reporting is
// optional because it breaks native text selection in some terminals.
func (m *Model) GetProgram() *tea.Program {
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if m.cfg.UI.MouseMode != "disabled" {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(m, opts...)
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.rebuildRenderer()
		m.layout()
		if m.state == stateReview {
			m.renderReview()
		} else {
			m.renderTranscript()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case TranscriptMsg:
		if m.state != stateReview {
			m.renderTranscript()
		}
		return m, nil

	case TurnDoneMsg:
		switch m.state {
		case stateWorking:
			m.state = stateInput
		case stateReview:
			m.returnState = stateInput
		}
		return m, nil

	case PermissionRequestMsg:
		// A prompt preempts whatever footer is open, including review.
		m.request = msg.Request
		m.selected = 0
		m.review = nil
		m.state = statePermission
		m.layout()
		m.renderTranscript()
		return m, nil

	case NoticeMsg:
		m.status = msg.Text
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.state {
		case statePermission:
			return m.handlePermissionKey(msg)
		case stateReview:
			return m.handleReviewKey(msg)
		default:
			return m.handleInputKey(msg)
		}
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit
	case "esc":
		if m.state == stateWorking && m.onInterrupt != nil {
			m.onInterrupt()
			m.status = m.styles.Hint.Render("Interrupting...")
		}
		return m, nil
	case "ctrl+y":
		m.copyLastReply()
		return m, nil
	case "ctrl+e":
		m.openReview()
		return m, nil
	case "enter":
		return m.submit()
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if m.state == stateWorking {
		m.status = m.styles.Hint.Render("Still working. Press esc to interrupt first.")
		return m, nil
	}
	m.input.Reset()
	m.status = ""
	if text == "/quit" || text == "/exit" {
		if m.onQuit != nil {
			m.onQuit()
		}
		return m, tea.Quit
	}
	if m.onSubmit != nil {
		m.onSubmit(text)
	}
	m.state = stateWorking
	return m, nil
}

func (m *Model) copyLastReply() {
	msgs := m.log.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == chat.RoleAssistant && !msgs[i].ToolNote {
			if err := clipboard.WriteAll(msgs[i].Content); err != nil {
				m.status = m.styles.Error.Render(fmt.Sprintf("Clipboard unavailable: %v", err))
				return
			}
			m.status = m.styles.Hint.Render("Copied the last reply to the clipboard.")
			return
		}
	}
	m.status = m.styles.Hint.Render("No assistant reply to copy yet.")
}

// rebuildRenderer recreates the glamour renderer at the current width.
// Markdown rendering can be switched off entirely in the config.
func (m *Model) rebuildRenderer() {
	if !m.cfg.UI.MarkdownRendering {
		m.markdown = nil
		return
	}
	theme := m.cfg.UI.Theme
	if theme == "" {
		theme = "dark"
	}
	wrap := m.width - 4
	if wrap < 20 {
		wrap = 20
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.markdown = nil
		return
	}
	m.markdown = renderer
}

// layout sizes the viewport for the current footer. The input footer takes
// five rows including the header; the permission prompt needs more.
func (m *Model) layout() {
	height := m.height - 5
	if m.state == statePermission {
		height = m.height - 13
	}
	if height < 3 {
		height = 3
	}
	width := m.width
	if width < 20 {
		width = 20
	}
	m.viewport.Width = width
	m.viewport.Height = height
	m.input.SetWidth(width - 2)
}

func (m *Model) View() string {
	if !m.ready {
		return "Starting vellum..."
	}
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	switch m.state {
	case statePermission:
		b.WriteString(m.permissionView())
	case stateReview:
		b.WriteString(m.reviewFooter())
	default:
		b.WriteString(m.statusLine())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}
	return b.String()
}

func (m *Model) headerView() string {
	title := m.styles.Header.Render("vellum")
	info := m.styles.HeaderInfo.Render(fmt.Sprintf(
		"%s · %s · %s mode", m.cfg.Vault.Path, m.cfg.Provider.Model, m.cfg.Tools.ExecutionMode,
	))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(info)
	if gap < 1 {
		return title
	}
	return title + strings.Repeat(" ", gap) + info
}

func (m *Model) statusLine() string {
	if m.state == stateWorking {
		return m.spin.View() + " " + m.styles.Status.Render("Thinking... press esc to interrupt")
	}
	if m.status != "" {
		return m.status
	}
	return m.styles.Hint.Render("enter send · ctrl+y copy reply · ctrl+e review edits · /help commands")
}

// renderTranscript rebuilds the viewport from the full log and pins the
// view to the newest message.
func (m *Model) renderTranscript() {
	msgs := m.log.Messages()
	if len(msgs) == 0 {
		m.viewport.SetContent(m.styles.Hint.Render("No messages yet. Ask about a note, or type /help."))
		return
	}
	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg chat.DisplayMessage) string {
	switch {
	case msg.PendingEditID != "":
		return m.renderProposal(msg)
	case len(msg.ResearchResults) > 0:
		return m.renderResearch(msg)
	case msg.Role == chat.RoleUser:
		// Covers slash-command echoes too: user-role notes that never
		// reach the provider still read as input lines.
		return m.styles.UserPrompt.Render("❯ ") + m.styles.UserText.Render(msg.Content)
	case msg.ToolNote:
		return m.styles.Note.Render(m.wrap(msg.Content))
	default:
		return m.renderAssistant(msg.Content)
	}
}

func (m *Model) renderAssistant(content string) string {
	if m.markdown != nil {
		if out, err := m.markdown.Render(content); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return m.wrap(content)
}

// renderProposal shows the proposal header, the colored diff beneath it,
// and the key hint for opening the review.
func (m *Model) renderProposal(msg chat.DisplayMessage) string {
	head, body, found := strings.Cut(msg.Content, "\n")
	var b strings.Builder
	b.WriteString(m.styles.Note.Render(head))
	if found {
		if diffText := strings.Trim(body, "\n"); diffText != "" {
			b.WriteString("\n")
			b.WriteString(m.styles.ColorizeDiff(diffText))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Hint.Render("ctrl+e to review this edit"))
	return b.String()
}

// renderResearch shows the summary line and one preview row per source.
// Full snippets already went to the model; the transcript only needs
// enough to identify each page.
func (m *Model) renderResearch(msg chat.DisplayMessage) string {
	var b strings.Builder
	b.WriteString(m.styles.Note.Render(firstLine(msg.Content)))
	for _, r := range msg.ResearchResults {
		b.WriteString("\n")
		b.WriteString(m.styles.Hint.Render("  • " + r.URL))
		if preview := previewText(r.Snippet, 160); preview != "" {
			b.WriteString("\n")
			b.WriteString(m.styles.Note.Render("    " + preview))
		}
	}
	return b.String()
}

func (m *Model) wrap(text string) string {
	width := m.viewport.Width - 4
	if width < 20 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

func firstLine(s string) string {
	head, _, _ := strings.Cut(s, "\n")
	return head
}

// previewText collapses whitespace and truncates to limit runes.
func previewText(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
