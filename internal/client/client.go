// Package client hides two incompatible provider wire protocols behind
// one call: a conversation goes in, either final text or normalized
// tool invocations come out.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Conversation roles. The provider payload carries exactly these two;
// the system prompt travels out of band per protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one provider-agnostic conversation turn.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result kinds.
const (
	KindText     = "text"
	KindToolCall = "tool_call"
)

// NoResponse is the placeholder returned when a provider answers with
// empty text.
const NoResponse = "No response"

// ToolCall is one normalized tool invocation request. Arguments are
// flattened to strings regardless of how the protocol delivered them.
type ToolCall struct {
	Name      string
	Arguments map[string]string
}

// Result is the normalized provider response.
type Result struct {
	Kind  string
	Text  string
	Calls []ToolCall
}

// Client is implemented by both protocol adapters.
type Client interface {
	Complete(ctx context.Context, systemPrompt string, turns []Turn, tools []*genai.FunctionDeclaration) (*Result, error)
}

// ProviderError is a non-2xx or malformed provider response. It is
// fatal to the current turn; the conversation itself stays usable.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

const maxErrorBodyBytes = 2048

func readErrorBody(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return resp.Status
	}
	return msg
}

// stringifyArgs flattens structured tool arguments into the normalized
// string form. Non-string values keep their compact JSON encoding.
func stringifyArgs(raw map[string]any) map[string]string {
	args := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			args[key] = v
		case nil:
			args[key] = ""
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				args[key] = fmt.Sprint(v)
				continue
			}
			args[key] = string(encoded)
		}
	}
	return args
}

// parseArguments decodes the completion-style serialized argument
// string. Empty and "null" bodies mean no arguments.
func parseArguments(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return map[string]string{}, nil
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("malformed tool arguments %q: %w", raw, err)
	}
	return stringifyArgs(decoded), nil
}
