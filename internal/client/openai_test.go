package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/genai"
)

func testDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{{
		Name:        "read_file",
		Description: "Read a file from the vault",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"path": {Type: genai.TypeString, Description: "Vault path of the file"},
			},
			Required: []string{"path"},
		},
	}}
}

func newCompletionTestClient(t *testing.T, url string) *CompletionClient {
	t.Helper()
	c, err := NewCompletionClient(CompletionConfig{
		APIKey:    "sk-test",
		BaseURL:   url,
		Model:     "gpt-test",
		MaxTokens: 512,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestCompletionSendsSystemMessageAndTools(t *testing.T) {
	var payload map[string]any
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("unmarshal payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hi"}}]}`))
	}))
	defer server.Close()

	c := newCompletionTestClient(t, server.URL)
	result, err := c.Complete(context.Background(), "You are helpful.", []Turn{
		{Role: RoleUser, Content: "Hello"},
	}, testDeclarations())
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.Kind != KindText || result.Text != "hi" {
		t.Fatalf("expected text result, got %+v", result)
	}

	if gotAuth != "Bearer sk-test" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	messages, ok := payload["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected system+user messages, got %#v", payload["messages"])
	}
	first, _ := messages[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "You are helpful." {
		t.Fatalf("expected leading system message, got %#v", first)
	}
	if got, _ := payload["max_tokens"].(float64); int(got) != 512 {
		t.Fatalf("expected max_tokens 512, got %#v", payload["max_tokens"])
	}

	tools, ok := payload["tools"].([]any)
	if !ok || len(tools) != 1 {
		t.Fatalf("expected one tool, got %#v", payload["tools"])
	}
	tool, _ := tools[0].(map[string]any)
	if tool["type"] != "function" {
		t.Fatalf("expected function tool, got %#v", tool)
	}
	fn, _ := tool["function"].(map[string]any)
	if fn["name"] != "read_file" {
		t.Fatalf("expected read_file declaration, got %#v", fn)
	}
	params, _ := fn["parameters"].(map[string]any)
	if params["type"] != "object" {
		t.Fatalf("expected lowercase schema type, got %#v", params["type"])
	}
}

func TestCompletionNormalizesToolCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":null,"tool_calls":[{"function":{"name":"read_file","arguments":"{\"path\":\"notes/a.md\",\"limit\":2}"}}]}}]}`))
	}))
	defer server.Close()

	c := newCompletionTestClient(t, server.URL)
	result, err := c.Complete(context.Background(), "", []Turn{{Role: RoleUser, Content: "read it"}}, testDeclarations())
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.Kind != KindToolCall || len(result.Calls) != 1 {
		t.Fatalf("expected one tool call, got %+v", result)
	}
	call := result.Calls[0]
	if call.Name != "read_file" {
		t.Fatalf("expected read_file, got %q", call.Name)
	}
	if call.Arguments["path"] != "notes/a.md" {
		t.Fatalf("expected string argument, got %#v", call.Arguments)
	}
	if call.Arguments["limit"] != "2" {
		t.Fatalf("expected numeric argument flattened to string, got %q", call.Arguments["limit"])
	}
}

func TestCompletionEmptyArgumentsString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"tool_calls":[{"function":{"name":"search_vault","arguments":""}}]}}]}`))
	}))
	defer server.Close()

	c := newCompletionTestClient(t, server.URL)
	result, err := c.Complete(context.Background(), "", []Turn{{Role: RoleUser, Content: "go"}}, nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(result.Calls) != 1 || len(result.Calls[0].Arguments) != 0 {
		t.Fatalf("expected empty argument map, got %+v", result.Calls)
	}
}

func TestCompletionEmptyTextBecomesPlaceholder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  "}}]}`))
	}))
	defer server.Close()

	c := newCompletionTestClient(t, server.URL)
	result, err := c.Complete(context.Background(), "", []Turn{{Role: RoleUser, Content: "hi"}}, nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.Text != NoResponse {
		t.Fatalf("expected %q, got %q", NoResponse, result.Text)
	}
}

func TestCompletionNon2xxIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	c := newCompletionTestClient(t, server.URL)
	_, err := c.Complete(context.Background(), "", []Turn{{Role: RoleUser, Content: "hi"}}, nil)
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", provErr.StatusCode)
	}
}
