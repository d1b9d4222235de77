// Package commands implements the slash commands typed into the chat
// input. Commands act on local state (transcript, cache, config) and
// never reach the model.
package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"vellum/internal/chat"
	"vellum/internal/config"
	"vellum/internal/pending"
	"vellum/internal/permission"
	"vellum/internal/vault"
)

// Command is a single slash command.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Execute(ctx context.Context, args []string, app AppInterface) (string, error)
}

// AppInterface is what commands may reach from the application.
type AppInterface interface {
	Log() *chat.Log
	Cache() *vault.Cache
	Vault() vault.Vault
	Edits() *pending.Store
	Gate() *permission.Gate
	Config() *config.Config
	SessionStart() time.Time
	Version() string
}

// Handler parses and runs slash commands.
type Handler struct {
	commands map[string]Command
}

// NewHandler returns a handler with the built-in command set registered.
func NewHandler() *Handler {
	h := &Handler{commands: make(map[string]Command)}

	h.Register(&HelpCommand{handler: h})
	h.Register(&ClearCommand{})
	h.Register(&SaveCommand{})
	h.Register(&OpenCommand{})
	h.Register(&ModeCommand{})
	h.Register(&EditsCommand{})
	h.Register(&HistoryCommand{})

	return h
}

// Register adds a command, replacing any previous one with the same name.
func (h *Handler) Register(cmd Command) {
	h.commands[cmd.Name()] = cmd
}

// Parse reports whether input invokes a known command and splits off its
// arguments. Unknown /words are not commands; they flow to the model as
// ordinary text.
func (h *Handler) Parse(input string) (string, []string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", nil, false
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return "", nil, false
	}

	name := strings.TrimPrefix(parts[0], "/")
	if _, ok := h.commands[name]; !ok {
		return "", nil, false
	}
	return name, parts[1:], true
}

// Execute runs a registered command by name.
func (h *Handler) Execute(ctx context.Context, name string, args []string, app AppInterface) (string, error) {
	cmd, ok := h.commands[name]
	if !ok {
		return "", fmt.Errorf("unknown command: /%s", name)
	}
	return cmd.Execute(ctx, args, app)
}

// Get returns a command by name.
func (h *Handler) Get(name string) (Command, bool) {
	cmd, ok := h.commands[name]
	return cmd, ok
}

// List returns all commands sorted by name.
func (h *Handler) List() []Command {
	out := make([]Command, 0, len(h.commands))
	for _, cmd := range h.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Names returns the registered command names sorted, for autocomplete.
func (h *Handler) Names() []string {
	names := make([]string, 0, len(h.commands))
	for name := range h.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
