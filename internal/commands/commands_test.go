package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vellum/internal/chat"
	"vellum/internal/config"
	"vellum/internal/pending"
	"vellum/internal/permission"
	"vellum/internal/vault"
)

type fakeApp struct {
	log   *chat.Log
	cache *vault.Cache
	vault vault.Vault
	edits *pending.Store
	gate  *permission.Gate
	cfg   *config.Config
	start time.Time
}

func (a *fakeApp) Log() *chat.Log          { return a.log }
func (a *fakeApp) Cache() *vault.Cache     { return a.cache }
func (a *fakeApp) Vault() vault.Vault      { return a.vault }
func (a *fakeApp) Edits() *pending.Store   { return a.edits }
func (a *fakeApp) Gate() *permission.Gate  { return a.gate }
func (a *fakeApp) Config() *config.Config  { return a.cfg }
func (a *fakeApp) SessionStart() time.Time { return a.start }
func (a *fakeApp) Version() string         { return "test" }

func newFakeApp(t *testing.T) (*fakeApp, string) {
	t.Helper()
	root := t.TempDir()
	v, err := vault.NewLocal(root)
	if err != nil {
		t.Fatalf("new local vault: %v", err)
	}
	cache := vault.NewCache()
	return &fakeApp{
		log:   chat.NewLog(),
		cache: cache,
		vault: v,
		edits: pending.NewStore(v, cache),
		gate:  permission.NewGate(false, permission.NewSession()),
		cfg:   config.DefaultConfig(),
		start: time.Now(),
	}, root
}

func run(t *testing.T, app *fakeApp, input string) string {
	t.Helper()
	h := NewHandler()
	name, args, ok := h.Parse(input)
	if !ok {
		t.Fatalf("%q did not parse as a command", input)
	}
	out, err := h.Execute(context.Background(), name, args, app)
	if err != nil {
		t.Fatalf("execute %q: %v", input, err)
	}
	return out
}

func TestParseRejectsPathsAndPlainText(t *testing.T) {
	h := NewHandler()

	if _, _, ok := h.Parse("/home/user/notes.md"); ok {
		t.Fatal("a path must not parse as a command")
	}
	if _, _, ok := h.Parse("hello there"); ok {
		t.Fatal("plain text must not parse as a command")
	}

	name, args, ok := h.Parse("  /mode allow_all ")
	if !ok || name != "mode" || len(args) != 1 || args[0] != "allow_all" {
		t.Fatalf("unexpected parse: %q %v %v", name, args, ok)
	}
}

func TestClearKeepsPendingEdits(t *testing.T) {
	app, _ := newFakeApp(t)
	app.log.Append(chat.NewMessage(chat.RoleUser, "hi"))
	app.edits.Propose("a.md", "new", "diff")

	out := run(t, app, "/clear")

	if app.log.Len() != 0 {
		t.Fatalf("transcript not cleared, %d messages remain", app.log.Len())
	}
	if app.edits.Len() != 1 {
		t.Fatal("clear must not touch the pending edit store")
	}
	if !strings.Contains(out, "1 pending edit(s) kept") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestSaveWritesUnsavedEntries(t *testing.T) {
	app, root := newFakeApp(t)
	app.cache.Set("notes/a.md", "alpha")
	app.cache.MarkUnsaved("notes/a.md")
	app.cache.Set("b.md", "beta")
	app.cache.MarkUnsaved("b.md")

	out := run(t, app, "/save")

	if !strings.HasPrefix(out, "Saved 2 file(s):") {
		t.Fatalf("unexpected output: %q", out)
	}
	data, err := os.ReadFile(filepath.Join(root, "notes", "a.md"))
	if err != nil || string(data) != "alpha" {
		t.Fatalf("notes/a.md not written: %q %v", data, err)
	}
	if app.cache.IsUnsaved("b.md") {
		t.Fatal("saved entry still marked unsaved")
	}
}

func TestSaveWithNothingUnsaved(t *testing.T) {
	app, _ := newFakeApp(t)
	if out := run(t, app, "/save"); out != "No unsaved changes." {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestOpenSetsCurrentDocument(t *testing.T) {
	app, root := newFakeApp(t)
	if err := os.WriteFile(filepath.Join(root, "daily.md"), []byte("today"), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	out := run(t, app, "/open daily.md")

	if !strings.HasPrefix(out, "Opened daily.md (5 characters)") {
		t.Fatalf("unexpected output: %q", out)
	}
	if content, ok := app.cache.Get("daily.md"); !ok || content != "today" {
		t.Fatalf("document not cached: %q %v", content, ok)
	}
	if app.cache.ViewedPath() != "daily.md" {
		t.Fatalf("viewed path is %q", app.cache.ViewedPath())
	}
}

func TestOpenMissingFile(t *testing.T) {
	app, _ := newFakeApp(t)
	out := run(t, app, "/open missing.md")
	if !strings.HasPrefix(out, "Could not open missing.md:") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestModePersistsExecutionMode(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	app, _ := newFakeApp(t)

	out := run(t, app, "/mode allow_all")

	if out != "Execution mode set to allow_all." {
		t.Fatalf("unexpected output: %q", out)
	}
	if app.cfg.Tools.ExecutionMode != config.ExecutionModeAllowAll {
		t.Fatalf("config not updated: %q", app.cfg.Tools.ExecutionMode)
	}
	if !app.gate.GlobalAllowAll() {
		t.Fatal("gate not switched to allow all")
	}
	if _, err := os.Stat(config.GetConfigPath()); err != nil {
		t.Fatalf("config not written: %v", err)
	}
}

func TestModeRejectsUnknownValue(t *testing.T) {
	app, _ := newFakeApp(t)
	out := run(t, app, "/mode sometimes")
	if !strings.Contains(out, `Unknown mode "sometimes"`) {
		t.Fatalf("unexpected output: %q", out)
	}
	if app.cfg.Tools.ExecutionMode != config.ExecutionModeAsk {
		t.Fatal("invalid mode must not change config")
	}
}

func TestEditsListsProposals(t *testing.T) {
	app, _ := newFakeApp(t)
	edit := app.edits.Propose("a.md", "new", "diff")

	out := run(t, app, "/edits")

	if !strings.Contains(out, edit.ID) || !strings.Contains(out, "a.md") {
		t.Fatalf("listing missing edit: %q", out)
	}
}

func TestHistoryWritesTranscript(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataDir)
	app, _ := newFakeApp(t)
	app.log.Append(chat.NewMessage(chat.RoleUser, "remember this"))

	out := run(t, app, "/history")

	if !strings.HasPrefix(out, "Transcript saved (id: ") {
		t.Fatalf("unexpected output: %q", out)
	}
	entries, err := os.ReadDir(filepath.Join(dataDir, "vellum", "history"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("history file not written: %v %d", err, len(entries))
	}
}

func TestHelpListsEveryCommand(t *testing.T) {
	app, _ := newFakeApp(t)
	out := run(t, app, "/help")
	for _, name := range NewHandler().Names() {
		if !strings.Contains(out, "/"+name) {
			t.Fatalf("help output missing /%s:\n%s", name, out)
		}
	}
}
