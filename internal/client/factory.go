package client

import (
	"strings"

	"vellum/internal/config"
)

// New builds the protocol adapter for cfg. The message protocol is
// selected for the anthropic vendor, by name or base-URL match; every
// other provider speaks chat completions.
func New(cfg config.ProviderConfig) (Client, error) {
	if IsMessageStyle(cfg.Name, cfg.BaseURL) {
		return NewMessageClient(MessageConfig{
			Provider:    providerLabel(cfg.Name, "anthropic"),
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			HTTPTimeout: cfg.HTTPTimeout,
		})
	}
	return NewCompletionClient(CompletionConfig{
		Provider:    providerLabel(cfg.Name, "openai"),
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		HTTPTimeout: cfg.HTTPTimeout,
	})
}

// IsMessageStyle reports whether the provider speaks the message
// protocol.
func IsMessageStyle(name, baseURL string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "anthropic", "claude":
		return true
	}
	return strings.Contains(strings.ToLower(baseURL), "anthropic")
}

func providerLabel(name, fallback string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fallback
	}
	return name
}
