package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Muted palette. Kept quiet so glamour and chroma output stays readable
// next to the chrome.
var (
	colorPrimary = lipgloss.Color("#A78BFA") // soft purple
	colorCyan    = lipgloss.Color("#22D3EE")
	colorGreen   = lipgloss.Color("#059669")
	colorAmber   = lipgloss.Color("#D97706")
	colorRed     = lipgloss.Color("#DC2626")
	colorText    = lipgloss.Color("#F1F5F9")
	colorMuted   = lipgloss.Color("#9CA3AF")
	colorDim     = lipgloss.Color("#6B7280")
)

// Styles bundles every lipgloss style the chat screen uses.
type Styles struct {
	Header     lipgloss.Style
	HeaderInfo lipgloss.Style

	UserPrompt lipgloss.Style
	UserText   lipgloss.Style
	Note       lipgloss.Style
	Error      lipgloss.Style
	Hint       lipgloss.Style
	Status     lipgloss.Style
	Spinner    lipgloss.Style

	PromptTitle  lipgloss.Style
	PromptLabel  lipgloss.Style
	PromptValue  lipgloss.Style
	PromptMarker lipgloss.Style
	Option       lipgloss.Style
	OptionActive lipgloss.Style

	RiskLow    lipgloss.Style
	RiskMedium lipgloss.Style
	RiskHigh   lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	ReviewTitle lipgloss.Style
	StatAdded   lipgloss.Style
	StatRemoved lipgloss.Style
}

// DefaultStyles builds the standard theme.
func DefaultStyles() *Styles {
	return &Styles{
		Header:     lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		HeaderInfo: lipgloss.NewStyle().Foreground(colorDim),

		UserPrompt: lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
		UserText:   lipgloss.NewStyle().Foreground(colorText),
		Note:       lipgloss.NewStyle().Italic(true).Foreground(colorMuted),
		Error:      lipgloss.NewStyle().Foreground(colorRed),
		Hint:       lipgloss.NewStyle().Foreground(colorDim),
		Status:     lipgloss.NewStyle().Foreground(colorMuted),
		Spinner:    lipgloss.NewStyle().Foreground(colorPrimary),

		PromptTitle:  lipgloss.NewStyle().Bold(true).Foreground(colorAmber),
		PromptLabel:  lipgloss.NewStyle().Foreground(colorMuted),
		PromptValue:  lipgloss.NewStyle().Foreground(colorText),
		PromptMarker: lipgloss.NewStyle().Foreground(colorDim),
		Option:       lipgloss.NewStyle().Foreground(colorMuted),
		OptionActive: lipgloss.NewStyle().Bold(true).Foreground(colorCyan),

		RiskLow:    lipgloss.NewStyle().Bold(true).Foreground(colorGreen),
		RiskMedium: lipgloss.NewStyle().Bold(true).Foreground(colorAmber),
		RiskHigh:   lipgloss.NewStyle().Bold(true).Foreground(colorRed),

		DiffHeader:  lipgloss.NewStyle().Foreground(colorCyan),
		DiffHunk:    lipgloss.NewStyle().Foreground(colorPrimary),
		DiffAdd:     lipgloss.NewStyle().Bold(true).Foreground(colorGreen),
		DiffRemove:  lipgloss.NewStyle().Bold(true).Foreground(colorRed),
		DiffContext: lipgloss.NewStyle().Foreground(colorDim),

		ReviewTitle: lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		StatAdded:   lipgloss.NewStyle().Foreground(colorGreen),
		StatRemoved: lipgloss.NewStyle().Foreground(colorRed),
	}
}

// ColorizeDiff recolors a unified diff line by line: file headers cyan,
// hunk markers purple, additions green, removals red, context dim.
func (s *Styles) ColorizeDiff(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			out[i] = s.DiffHeader.Render(line)
		case strings.HasPrefix(line, "@@"):
			out[i] = s.DiffHunk.Render(line)
		case strings.HasPrefix(line, "+"):
			out[i] = s.DiffAdd.Render(line)
		case strings.HasPrefix(line, "-"):
			out[i] = s.DiffRemove.Render(line)
		default:
			out[i] = s.DiffContext.Render(line)
		}
	}
	return strings.Join(out, "\n")
}
