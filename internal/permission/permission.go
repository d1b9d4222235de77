// Package permission mediates every tool dispatch. Execution is only
// reached through a Gate decision: a standing grant or an interactive
// prompt resolved by the user.
package permission

import (
	"fmt"
	"sync"
)

// Decision is the user's answer to a permission prompt.
type Decision int

const (
	// DecisionAllowOnce permits this single call, no state change.
	DecisionAllowOnce Decision = iota
	// DecisionAllowTool permits this call and all later calls of the
	// same tool this session.
	DecisionAllowTool
	// DecisionAllowAll permits this call and every later call this
	// session.
	DecisionAllowAll
	// DecisionDeny blocks this call; the agent loop continues with a
	// blocked-result string.
	DecisionDeny
)

func (d Decision) String() string {
	switch d {
	case DecisionAllowOnce:
		return "once"
	case DecisionAllowTool:
		return "tool"
	case DecisionAllowAll:
		return "all"
	case DecisionDeny:
		return "deny"
	default:
		return "unknown"
	}
}

// RiskLevel indicates how intrusive a tool call is. The prompt surface
// colors requests by it.
type RiskLevel int

const (
	// RiskLow for read-only vault access.
	RiskLow RiskLevel = iota
	// RiskMedium for proposals, directory creation and network access.
	RiskMedium
	// RiskHigh for direct document mutation.
	RiskHigh
)

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Request is one suspended tool dispatch awaiting a user decision.
// Resolve may be called any number of times; only the first call wins.
type Request struct {
	Tool   string
	Args   map[string]string
	Reason string
	Risk   RiskLevel

	once     sync.Once
	decision chan Decision
}

// NewRequest creates a pending permission request for a tool call.
func NewRequest(tool string, args map[string]string) *Request {
	return &Request{
		Tool:     tool,
		Args:     args,
		Reason:   buildReason(tool, args),
		Risk:     toolRisk(tool),
		decision: make(chan Decision, 1),
	}
}

// Resolve answers the request. It reports whether this call was the one
// that resolved it; later calls are ignored.
func (r *Request) Resolve(d Decision) bool {
	resolved := false
	r.once.Do(func() {
		r.decision <- d
		resolved = true
	})
	return resolved
}

// Session holds the grants accumulated during one conversation. It is
// constructed per conversation and passed in explicitly so concurrent
// conversations never share grants.
type Session struct {
	mu           sync.Mutex
	allowAll     bool
	allowedTools map[string]struct{}
}

// NewSession creates a session with no grants.
func NewSession() *Session {
	return &Session{allowedTools: make(map[string]struct{})}
}

// AllowAll reports whether every tool is granted for this session.
func (s *Session) AllowAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowAll
}

// SetAllowAll grants every tool for the rest of the session.
func (s *Session) SetAllowAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowAll = true
}

// Allows reports whether tool has a session grant.
func (s *Session) Allows(tool string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.allowedTools[tool]
	return ok
}

// AllowTool grants tool for the rest of the session. Grants only grow;
// there is no revocation short of a new session.
func (s *Session) AllowTool(tool string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowedTools[tool] = struct{}{}
}

// AllowedTools returns the tools granted so far.
func (s *Session) AllowedTools() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tools := make([]string, 0, len(s.allowedTools))
	for t := range s.allowedTools {
		tools = append(tools, t)
	}
	return tools
}

func toolRisk(tool string) RiskLevel {
	switch tool {
	case "read_file", "search_vault", "read_folder":
		return RiskLow
	case "write_file":
		return RiskHigh
	default:
		return RiskMedium
	}
}

// buildReason creates a human-readable description for the prompt.
func buildReason(tool string, args map[string]string) string {
	switch tool {
	case "read_file":
		if path := args["path"]; path != "" {
			return fmt.Sprintf("Read file: %s", path)
		}
		return "Read a file"
	case "write_file":
		if path := args["path"]; path != "" {
			return fmt.Sprintf("Write to file: %s", path)
		}
		return "Write to a file"
	case "edit_file":
		if path := args["path"]; path != "" {
			return fmt.Sprintf("Propose an edit to: %s", path)
		}
		return "Propose a file edit"
	case "search_vault":
		if query := args["query"]; query != "" {
			return fmt.Sprintf("Search the vault for: %s", query)
		}
		return "Search the vault"
	case "read_folder":
		if path := args["path"]; path != "" {
			return fmt.Sprintf("List folder: %s", path)
		}
		return "List a folder"
	case "create_folder":
		if path := args["path"]; path != "" {
			return fmt.Sprintf("Create folder: %s", path)
		}
		return "Create a folder"
	case "fetch_url":
		if url := args["url"]; url != "" {
			if len(url) > 150 {
				url = url[:147] + "..."
			}
			return fmt.Sprintf("Fetch URL: %s", url)
		}
		return "Fetch a URL"
	case "research":
		if query := args["query"]; query != "" {
			return fmt.Sprintf("Research the web for: %s", query)
		}
		return "Research the web"
	default:
		return fmt.Sprintf("Execute tool: %s", tool)
	}
}
