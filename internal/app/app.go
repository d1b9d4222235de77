// Package app is the composition root: it builds the vault, cache, stores,
// gate, provider client, agent and TUI, wires the channels between them,
// and runs the program.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vellum/internal/agent"
	"vellum/internal/chat"
	"vellum/internal/client"
	"vellum/internal/commands"
	"vellum/internal/config"
	"vellum/internal/logging"
	"vellum/internal/pending"
	"vellum/internal/permission"
	"vellum/internal/prompt"
	"vellum/internal/tools"
	"vellum/internal/tui"
	"vellum/internal/vault"
)

// warmLimit bounds the startup cache fill. Vault search runs over the
// cache, so the corpus is loaded once up front.
const warmLimit = 10000

// App owns the assembled assistant for one run of the program.
type App struct {
	cfg     *config.Config
	version string
	started time.Time

	vault   vault.Vault
	cache   *vault.Cache
	lister  *vault.Lister
	log     *chat.Log
	edits   *pending.Store
	gate    *permission.Gate
	agent   *agent.Agent
	watcher *vault.Watcher
	cmds    *commands.Handler

	screen  *tui.Model
	program *tea.Program

	mu         sync.Mutex
	turnCancel context.CancelFunc
}

// New assembles the application from the loaded configuration.
func New(cfg *config.Config, version string) (*App, error) {
	v, err := openVault(cfg.Vault)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}

	cache := vault.NewCache()
	lister := vault.NewLister(v, cfg.Vault.Ignore)
	log := chat.NewLog()
	edits := pending.NewStore(v, cache)
	gate := permission.NewGate(cfg.Tools.ExecutionMode == config.ExecutionModeAllowAll, permission.NewSession())

	provider, err := client.New(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider client: %w", err)
	}

	handler := tools.NewHandler(tools.Options{
		Vault:         v,
		Cache:         cache,
		Edits:         edits,
		Log:           log,
		HTTPClient:    &http.Client{Timeout: cfg.Tools.FetchTimeout},
		ResearchProxy: cfg.Tools.ResearchProxy,
	})

	a := &App{
		cfg:     cfg,
		version: version,
		started: time.Now(),
		vault:   v,
		cache:   cache,
		lister:  lister,
		log:     log,
		edits:   edits,
		gate:    gate,
		agent:   agent.New(provider, prompt.NewBuilder(v, cache, lister), handler, gate, log),
		cmds:    commands.NewHandler(),
	}

	a.screen = tui.New(cfg, log, edits)
	a.program = a.screen.GetProgram()
	return a, nil
}

// openVault picks the backend: SFTP when a remote block is configured,
// local disk otherwise.
func openVault(cfg config.VaultConfig) (vault.Vault, error) {
	if cfg.Remote != nil {
		return vault.NewRemote(vault.RemoteOptions{
			Host:     cfg.Remote.Host,
			Port:     cfg.Remote.Port,
			User:     cfg.Remote.User,
			Password: cfg.Remote.Password,
			KeyFile:  cfg.Remote.KeyFile,
			Root:     cfg.Remote.Path,
		}), nil
	}
	return vault.NewLocal(cfg.Path)
}

// Run wires the callbacks and blocks inside the TUI until the user quits.
func (a *App) Run() error {
	if a.cfg.Logging.Enabled {
		level := logging.ParseLevel(a.cfg.Logging.Level)
		if err := logging.EnableFileLogging(config.ConfigDir(), level); err != nil {
			logging.Disable()
		}
	} else {
		logging.Disable()
	}
	defer logging.Close()

	a.warmCache()
	a.wireCallbacks()
	a.startWatcher()
	defer a.stopWatcher()

	logging.Info("vellum started",
		"version", a.version,
		"vault", a.vault.Root(),
		"provider", a.cfg.Provider.Name,
		"model", a.cfg.Provider.Model,
	)

	_, err := a.program.Run()
	return err
}

// warmCache loads every listed document so search covers the whole vault
// from the first query.
func (a *App) warmCache() {
	paths, truncated := a.lister.Flatten(warmLimit)
	loaded := 0
	for _, p := range paths {
		if strings.HasSuffix(p, "/") {
			continue
		}
		content, err := a.vault.ReadFile(p)
		if err != nil {
			logging.Debug("cache warm skipped document", "path", p, "error", err)
			continue
		}
		a.cache.Set(p, content)
		loaded++
	}
	if truncated {
		logging.Warn("cache warm hit the document limit", "limit", warmLimit)
	}
	logging.Info("cache warmed", "documents", loaded)
}

func (a *App) wireCallbacks() {
	a.log.SetOnAppend(func(chat.DisplayMessage) {
		a.notify(tui.TranscriptMsg{})
	})
	a.gate.SetPromptHandler(func(ctx context.Context, req *permission.Request) {
		// Publish and return; Authorize keeps blocking the agent
		// goroutine until the user resolves the request.
		a.notify(tui.PermissionRequestMsg{Request: req})
	})
	a.screen.SetCallbacks(a.handleSubmit, a.interruptTurn, a.shutdown)
}

func (a *App) notify(msg tea.Msg) {
	if a.program != nil {
		a.program.Send(msg)
	}
}

// handleSubmit runs on the TUI goroutine, so all real work moves to a new
// goroutine and reports back through program.Send.
func (a *App) handleSubmit(text string) {
	if name, args, ok := a.cmds.Parse(text); ok {
		go a.runCommand(name, args, text)
		return
	}
	go a.runTurn(text)
}

// runCommand executes a slash command. The echoed input and the command
// output are transcript notes: visible, but never part of provider turns.
func (a *App) runCommand(name string, args []string, raw string) {
	defer a.notify(tui.TurnDoneMsg{})

	echo := chat.NewMessage(chat.RoleUser, raw)
	echo.ToolNote = true
	a.log.Append(echo)

	out, err := a.cmds.Execute(context.Background(), name, args, a)
	if err != nil {
		a.log.Append(chat.NewToolNote(fmt.Sprintf("Command failed: %v", err)))
		return
	}
	a.log.Append(chat.NewToolNote(out))
}

func (a *App) runTurn(text string) {
	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	a.turnCancel = cancel
	a.mu.Unlock()

	defer func() {
		cancel()
		a.mu.Lock()
		a.turnCancel = nil
		a.mu.Unlock()
		a.notify(tui.TurnDoneMsg{})
	}()

	a.agent.ProcessMessage(ctx, text)
}

// interruptTurn cancels the running turn, if any. The agent notices on its
// next context check and closes the turn with an interruption notice.
func (a *App) interruptTurn() {
	a.mu.Lock()
	cancel := a.turnCancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (a *App) shutdown() {
	a.interruptTurn()
	logging.Info("vellum shutting down")
}

// startWatcher begins invalidating cache entries on external file changes.
// Remote vaults have no change feed, so the watcher is local-only.
func (a *App) startWatcher() {
	if a.cfg.Vault.Remote != nil || !a.cfg.Vault.Watch.Enabled {
		return
	}
	w, err := vault.NewWatcher(a.vault.Root(), a.cfg.Vault.Ignore, a.cfg.Vault.Watch.DebounceMs)
	if err != nil {
		logging.Warn("file watcher unavailable", "error", err)
		return
	}
	w.SetOnChange(func(path string) {
		// Unsaved buffers win over external edits until /save.
		if a.cache.IsUnsaved(path) {
			logging.Debug("external change ignored, buffer unsaved", "path", path)
			return
		}
		a.cache.Forget(path)
		logging.Debug("cache entry invalidated", "path", path)
	})
	if err := w.Start(); err != nil {
		logging.Warn("file watcher failed to start", "error", err)
		return
	}
	a.watcher = w
}

func (a *App) stopWatcher() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
}

// commands.AppInterface implementation.

func (a *App) Log() *chat.Log          { return a.log }
func (a *App) Cache() *vault.Cache     { return a.cache }
func (a *App) Vault() vault.Vault      { return a.vault }
func (a *App) Edits() *pending.Store   { return a.edits }
func (a *App) Gate() *permission.Gate  { return a.gate }
func (a *App) Config() *config.Config  { return a.cfg }
func (a *App) SessionStart() time.Time { return a.started }
func (a *App) Version() string         { return a.version }
