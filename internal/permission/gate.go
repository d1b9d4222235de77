package permission

import (
	"context"
	"sync"

	"vellum/internal/logging"
)

// PromptHandler publishes a suspended request to the interaction
// surface. The gate blocks until the request is resolved, however long
// that takes; there is deliberately no timeout.
type PromptHandler func(ctx context.Context, req *Request)

// Response is the outcome of an authorization check.
type Response struct {
	Allowed  bool
	Prompted bool
	Decision Decision
	Reason   string
}

// Gate authorizes tool dispatch. Checks run in priority order: the
// persisted allow-all mode, then the session allow-all grant, then
// per-tool session grants, then an interactive prompt.
type Gate struct {
	mu             sync.RWMutex
	globalAllowAll bool
	session        *Session
	prompt         PromptHandler
}

// NewGate creates a gate over session. globalAllowAll mirrors the
// persisted execution mode and suppresses all prompting when set.
func NewGate(globalAllowAll bool, session *Session) *Gate {
	if session == nil {
		session = NewSession()
	}
	return &Gate{globalAllowAll: globalAllowAll, session: session}
}

// SetPromptHandler sets the function that surfaces prompts to the user.
func (g *Gate) SetPromptHandler(h PromptHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompt = h
}

// SetGlobalAllowAll updates the persisted-mode mirror at runtime.
func (g *Gate) SetGlobalAllowAll(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.globalAllowAll = v
}

// GlobalAllowAll reports whether the persisted mode permits everything.
func (g *Gate) GlobalAllowAll() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.globalAllowAll
}

// Session returns the session grants behind this gate.
func (g *Gate) Session() *Session {
	return g.session
}

// Authorize decides whether a tool call may run. It blocks on an
// interactive prompt when no standing grant applies. The only error is
// context cancellation while suspended.
func (g *Gate) Authorize(ctx context.Context, tool string, args map[string]string) (*Response, error) {
	if g.GlobalAllowAll() {
		return &Response{Allowed: true}, nil
	}
	if g.session.AllowAll() {
		return &Response{Allowed: true}, nil
	}
	if g.session.Allows(tool) {
		return &Response{Allowed: true}, nil
	}

	g.mu.RLock()
	handler := g.prompt
	g.mu.RUnlock()

	if handler == nil {
		// Headless runs cannot ask, so they cannot grant.
		return &Response{Allowed: false, Reason: "no interactive prompt available"}, nil
	}

	req := NewRequest(tool, args)
	logging.Debug("permission prompt", "tool", tool, "reason", req.Reason)
	handler(ctx, req)

	select {
	case decision := <-req.decision:
		return g.applyDecision(tool, decision), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *Gate) applyDecision(tool string, decision Decision) *Response {
	switch decision {
	case DecisionAllowOnce:
		return &Response{Allowed: true, Prompted: true, Decision: decision}
	case DecisionAllowTool:
		g.session.AllowTool(tool)
		return &Response{Allowed: true, Prompted: true, Decision: decision}
	case DecisionAllowAll:
		g.session.SetAllowAll()
		return &Response{Allowed: true, Prompted: true, Decision: decision}
	case DecisionDeny:
		return &Response{Allowed: false, Prompted: true, Decision: decision, Reason: "blocked by user"}
	default:
		return &Response{Allowed: false, Prompted: true, Decision: decision, Reason: "unknown decision"}
	}
}
