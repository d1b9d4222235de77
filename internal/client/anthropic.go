package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"vellum/internal/logging"
)

const anthropicVersion = "2023-06-01"

// MessageConfig holds settings for a message-style provider.
type MessageConfig struct {
	Provider    string // label used in error messages
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	HTTPTimeout time.Duration
}

// MessageClient speaks the message-style protocol: POST
// {baseUrl}/messages with x-api-key authentication, a top-level system
// field, tools as input schemas, and structured tool_use content blocks.
type MessageClient struct {
	config     MessageConfig
	httpClient *http.Client
}

// NewMessageClient creates a message-style client.
func NewMessageClient(config MessageConfig) (*MessageClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.anthropic.com/v1"
	}
	if !strings.HasPrefix(config.BaseURL, "http://") && !strings.HasPrefix(config.BaseURL, "https://") {
		return nil, fmt.Errorf("invalid base URL: must start with http:// or https://")
	}
	if config.Provider == "" {
		config.Provider = "anthropic"
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 4096
	}
	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = 120 * time.Second
	}

	return &MessageClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.HTTPTimeout},
	}, nil
}

type messageTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

type messageRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
	Tools     []messageTool `json:"tools,omitempty"`
	Messages  []chatMessage `json:"messages"`
}

type messageBlock struct {
	Type  string         `json:"type"`
	Text  string         `json:"text,omitempty"`
	Name  string         `json:"name,omitempty"`
	Input map[string]any `json:"input,omitempty"`
}

type messageResponse struct {
	Content    []messageBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// Complete sends the conversation and normalizes the response.
func (c *MessageClient) Complete(ctx context.Context, systemPrompt string, turns []Turn, tools []*genai.FunctionDeclaration) (*Result, error) {
	payload := messageRequest{
		Model:     c.config.Model,
		MaxTokens: c.config.MaxTokens,
		System:    systemPrompt,
	}
	for _, turn := range turns {
		payload.Messages = append(payload.Messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}
	for _, decl := range tools {
		payload.Tools = append(payload.Tools, messageTool{
			Name:        decl.Name,
			Description: decl.Description,
			InputSchema: SchemaToMap(decl.Parameters),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	// The original client runs inside an embedded browser shell and
	// calls the API directly, which requires this opt-in header.
	req.Header.Set("anthropic-dangerous-direct-browser-access", "true")

	logging.Debug("provider request", "provider", c.config.Provider, "endpoint", endpoint, "turns", len(turns))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{
			Provider:   c.config.Provider,
			StatusCode: resp.StatusCode,
			Message:    readErrorBody(resp),
		}
	}

	var response messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, &ProviderError{Provider: c.config.Provider, Message: fmt.Sprintf("malformed response: %v", err)}
	}

	if response.StopReason == "tool_use" {
		var calls []ToolCall
		for _, block := range response.Content {
			if block.Type != "tool_use" {
				continue
			}
			calls = append(calls, ToolCall{Name: block.Name, Arguments: stringifyArgs(block.Input)})
		}
		if len(calls) == 0 {
			return nil, &ProviderError{Provider: c.config.Provider, Message: "stop_reason tool_use without tool_use block"}
		}
		return &Result{Kind: KindToolCall, Calls: calls}, nil
	}

	for _, block := range response.Content {
		if block.Type != "text" {
			continue
		}
		text := block.Text
		if strings.TrimSpace(text) == "" {
			text = NoResponse
		}
		return &Result{Kind: KindText, Text: text}, nil
	}
	return &Result{Kind: KindText, Text: NoResponse}, nil
}
