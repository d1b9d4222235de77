// Package highlight renders vault document text with terminal colors for
// the pending-edit review.
package highlight

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter colorizes document content by file type.
type Highlighter struct {
	style     string
	formatter chroma.Formatter
}

// New returns a Highlighter using the named chroma style. An empty style
// selects monokai.
func New(style string) *Highlighter {
	if style == "" {
		style = "monokai"
	}
	return &Highlighter{
		style:     style,
		formatter: formatters.Get("terminal256"),
	}
}

// Document highlights content as the file type named by path. Vault notes
// are markdown unless the extension says otherwise; anything chroma
// cannot place falls back to plain text.
func (h *Highlighter) Document(path, content string) string {
	lexer := lexers.Get(languageFor(path))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(h.style)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, style, iterator); err != nil {
		return content
	}
	return buf.String()
}

// NumberedDocument is Document with a left gutter of line numbers.
func (h *Highlighter) NumberedDocument(path, content string) string {
	highlighted := h.Document(path, content)
	lines := strings.Split(highlighted, "\n")
	gutter := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(gutter.Render(fmt.Sprintf("%4d", i+1)))
		result.WriteString(" │ ")
		result.WriteString(line)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// languageFor maps a vault path to a chroma lexer name. The vault is
// mostly markdown notes, so unknown and missing extensions read best as
// markdown rather than plain text.
func languageFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".md", ".markdown", ".txt":
		return "markdown"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".csv":
		return "text"
	case ".html", ".htm":
		return "html"
	case ".css":
		return "css"
	case ".js":
		return "javascript"
	case ".py":
		return "python"
	case ".go":
		return "go"
	case ".sh", ".bash":
		return "bash"
	case ".xml":
		return "xml"
	case ".tex":
		return "latex"
	default:
		if lexer := lexers.Match(filepath.Base(path)); lexer != nil {
			return lexer.Config().Name
		}
		return "markdown"
	}
}
