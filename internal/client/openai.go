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

// CompletionConfig holds settings for a chat-completions provider.
type CompletionConfig struct {
	Provider    string // label used in error messages
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	HTTPTimeout time.Duration
}

// CompletionClient speaks the completion-style protocol: POST
// {baseUrl}/chat/completions with bearer authorization, tools as
// function schemas, and tool-call arguments serialized as JSON strings.
type CompletionClient struct {
	config     CompletionConfig
	httpClient *http.Client
}

// NewCompletionClient creates a completion-style client.
func NewCompletionClient(config CompletionConfig) (*CompletionClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if !strings.HasPrefix(config.BaseURL, "http://") && !strings.HasPrefix(config.BaseURL, "https://") {
		return nil, fmt.Errorf("invalid base URL: must start with http:// or https://")
	}
	if config.Provider == "" {
		config.Provider = "openai"
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 4096
	}
	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = 120 * time.Second
	}

	return &CompletionClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.HTTPTimeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	Tools     []chatTool    `json:"tools,omitempty"`
	MaxTokens int           `json:"max_tokens"`
}

type chatToolCall struct {
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string         `json:"content"`
			ToolCalls []chatToolCall `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation and normalizes the response.
func (c *CompletionClient) Complete(ctx context.Context, systemPrompt string, turns []Turn, tools []*genai.FunctionDeclaration) (*Result, error) {
	messages := make([]chatMessage, 0, len(turns)+1)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	for _, turn := range turns {
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}

	payload := chatRequest{
		Model:     c.config.Model,
		Messages:  messages,
		MaxTokens: c.config.MaxTokens,
	}
	for _, decl := range tools {
		payload.Tools = append(payload.Tools, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        decl.Name,
				Description: decl.Description,
				Parameters:  SchemaToMap(decl.Parameters),
			},
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

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

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, &ProviderError{Provider: c.config.Provider, Message: fmt.Sprintf("malformed response: %v", err)}
	}
	if len(response.Choices) == 0 {
		return nil, &ProviderError{Provider: c.config.Provider, Message: "response contained no choices"}
	}

	message := response.Choices[0].Message
	if len(message.ToolCalls) > 0 {
		calls := make([]ToolCall, 0, len(message.ToolCalls))
		for _, tc := range message.ToolCalls {
			args, err := parseArguments(tc.Function.Arguments)
			if err != nil {
				return nil, &ProviderError{Provider: c.config.Provider, Message: err.Error()}
			}
			calls = append(calls, ToolCall{Name: tc.Function.Name, Arguments: args})
		}
		return &Result{Kind: KindToolCall, Calls: calls}, nil
	}

	text := message.Content
	if strings.TrimSpace(text) == "" {
		text = NoResponse
	}
	return &Result{Kind: KindText, Text: text}, nil
}
