package tools

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"vellum/internal/chat"
	"vellum/internal/logging"
	"vellum/internal/pending"
	"vellum/internal/vault"
)

const defaultResearchProxy = "https://r.jina.ai/"

// Handler executes tool calls against its collaborators. One handler serves
// one conversation; all methods are safe for the agent loop's strictly
// sequential dispatch.
type Handler struct {
	vault vault.Vault
	cache *vault.Cache
	edits *pending.Store
	log   *chat.Log
	http  *http.Client
	proxy string
}

// Options configures a Handler. Vault, Cache, Edits and Log are required.
type Options struct {
	Vault vault.Vault
	Cache *vault.Cache
	Edits *pending.Store
	Log   *chat.Log

	// HTTPClient serves fetch_url and research. Defaults to a client with
	// a 30 second timeout.
	HTTPClient *http.Client

	// ResearchProxy is the text-extraction proxy prepended to research
	// targets. Defaults to the public r.jina.ai endpoint.
	ResearchProxy string
}

// NewHandler creates a tool handler.
func NewHandler(opts Options) *Handler {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	proxy := opts.ResearchProxy
	if proxy == "" {
		proxy = defaultResearchProxy
	}
	return &Handler{
		vault: opts.Vault,
		cache: opts.Cache,
		edits: opts.Edits,
		log:   opts.Log,
		http:  httpClient,
		proxy: proxy,
	}
}

// Dispatch runs the named tool and returns its result text. The switch
// covers the full Name enumeration; values outside it can only come from a
// caller that skipped ParseName, and yield an error string like any other
// tool failure.
func (h *Handler) Dispatch(ctx context.Context, name Name, args map[string]string) string {
	logging.Debug("dispatching tool", "tool", name, "args", args)

	switch name {
	case ReadFile:
		return h.readFile(args["path"])
	case WriteFile:
		return h.writeFile(args["path"], args["content"])
	case SearchVault:
		return h.searchVault(args["query"])
	case ReadFolder:
		return h.readFolder(args["path"])
	case CreateFolder:
		return h.createFolder(args["path"])
	case FetchURL:
		return h.fetchURL(ctx, args["url"])
	case EditFile:
		return h.editFile(args["path"], args["content"])
	case Research:
		return h.research(ctx, args["query"])
	}
	return fmt.Sprintf("Unknown tool: %s", name)
}
