package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"vellum/internal/chat"
	"vellum/internal/config"
)

// HelpCommand lists the available commands.
type HelpCommand struct {
	handler *Handler
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Show available commands" }
func (c *HelpCommand) Usage() string       { return "/help [command]" }

func (c *HelpCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	if len(args) > 0 {
		cmd, ok := c.handler.Get(args[0])
		if !ok {
			return fmt.Sprintf("Unknown command: /%s", args[0]), nil
		}
		return fmt.Sprintf("%s\n  %s", cmd.Usage(), cmd.Description()), nil
	}

	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, cmd := range c.handler.List() {
		sb.WriteString(fmt.Sprintf("  %-24s %s\n", cmd.Usage(), cmd.Description()))
	}
	sb.WriteString("\nKeys: ctrl+y copy last reply, ctrl+e review pending edit, esc interrupt, ctrl+c or /quit to exit")
	return sb.String(), nil
}

// ClearCommand empties the conversation transcript. Pending edits are a
// separate store and survive.
type ClearCommand struct{}

func (c *ClearCommand) Name() string        { return "clear" }
func (c *ClearCommand) Description() string { return "Clear the conversation" }
func (c *ClearCommand) Usage() string       { return "/clear" }

func (c *ClearCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	app.Log().Clear()
	if n := app.Edits().Len(); n > 0 {
		return fmt.Sprintf("Conversation cleared. %d pending edit(s) kept.", n), nil
	}
	return "Conversation cleared.", nil
}

// SaveCommand flushes unsaved cache entries to the vault.
type SaveCommand struct{}

func (c *SaveCommand) Name() string        { return "save" }
func (c *SaveCommand) Description() string { return "Write unsaved changes to the vault" }
func (c *SaveCommand) Usage() string       { return "/save" }

func (c *SaveCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	paths := app.Cache().Unsaved()
	if len(paths) == 0 {
		return "No unsaved changes.", nil
	}
	sort.Strings(paths)

	var saved, failed []string
	for _, path := range paths {
		content, ok := app.Cache().Get(path)
		if !ok {
			continue
		}
		if err := app.Vault().WriteFile(path, content); err != nil {
			failed = append(failed, fmt.Sprintf("%s (%v)", path, err))
			continue
		}
		app.Cache().ClearUnsaved(path)
		saved = append(saved, path)
	}

	var sb strings.Builder
	if len(saved) > 0 {
		fmt.Fprintf(&sb, "Saved %d file(s): %s", len(saved), strings.Join(saved, ", "))
	}
	if len(failed) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Failed: %s", strings.Join(failed, "; "))
	}
	return sb.String(), nil
}

// OpenCommand loads a document into the cache and makes it the current
// document for the system prompt.
type OpenCommand struct{}

func (c *OpenCommand) Name() string        { return "open" }
func (c *OpenCommand) Description() string { return "Open a document as the current context" }
func (c *OpenCommand) Usage() string       { return "/open <path>" }

func (c *OpenCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	if len(args) == 0 {
		return "Usage: /open <path>", nil
	}
	path := args[0]

	content, ok := app.Cache().Get(path)
	if !ok {
		var err error
		content, err = app.Vault().ReadFile(path)
		if err != nil {
			return fmt.Sprintf("Could not open %s: %v", path, err), nil
		}
		app.Cache().Set(path, content)
	}
	app.Cache().MarkActive(path)
	app.Cache().MarkViewed(path)

	return fmt.Sprintf("Opened %s (%d characters). The assistant now sees it as the current document.",
		path, utf8.RuneCountInString(content)), nil
}

// ModeCommand reports or switches the persisted tool execution mode.
type ModeCommand struct{}

func (c *ModeCommand) Name() string        { return "mode" }
func (c *ModeCommand) Description() string { return "Show or set tool permissions (ask | allow_all)" }
func (c *ModeCommand) Usage() string       { return "/mode [ask|allow_all]" }

func (c *ModeCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	cfg := app.Config()
	if len(args) == 0 {
		return fmt.Sprintf("Execution mode: %s", cfg.Tools.ExecutionMode), nil
	}

	mode := strings.ToLower(args[0])
	if mode != config.ExecutionModeAsk && mode != config.ExecutionModeAllowAll {
		return fmt.Sprintf("Unknown mode %q. Use ask or allow_all.", args[0]), nil
	}

	cfg.Tools.ExecutionMode = mode
	app.Gate().SetGlobalAllowAll(mode == config.ExecutionModeAllowAll)
	if err := cfg.Save(); err != nil {
		return fmt.Sprintf("Mode set to %s for this session, but saving failed: %v", mode, err), nil
	}
	return fmt.Sprintf("Execution mode set to %s.", mode), nil
}

// EditsCommand lists unresolved edit proposals.
type EditsCommand struct{}

func (c *EditsCommand) Name() string        { return "edits" }
func (c *EditsCommand) Description() string { return "List pending edit proposals" }
func (c *EditsCommand) Usage() string       { return "/edits" }

func (c *EditsCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	edits := app.Edits().List()
	if len(edits) == 0 {
		return "No pending edits.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d pending edit(s):\n", len(edits))
	for _, edit := range edits {
		fmt.Fprintf(&sb, "  %s  %s\n", edit.ID, edit.Path)
	}
	sb.WriteString("Press ctrl+e to review the most recent one.")
	return sb.String(), nil
}

// HistoryCommand writes the transcript to the history directory.
type HistoryCommand struct{}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Save the transcript to disk" }
func (c *HistoryCommand) Usage() string       { return "/history" }

func (c *HistoryCommand) Execute(ctx context.Context, args []string, app AppInterface) (string, error) {
	if app.Log().Len() == 0 {
		return "Nothing to save yet.", nil
	}

	manager, err := chat.NewHistoryManager()
	if err != nil {
		return fmt.Sprintf("Could not open history directory: %v", err), nil
	}
	id, err := manager.Save(app.Vault().Root(), app.SessionStart(), app.Log())
	if err != nil {
		return fmt.Sprintf("Could not save transcript: %v", err), nil
	}
	return fmt.Sprintf("Transcript saved (id: %s).", id), nil
}
