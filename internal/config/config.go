package config

import "time"

// Config represents the main application configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Vault    VaultConfig    `yaml:"vault"`
	Tools    ToolsConfig    `yaml:"tools"`
	UI       UIConfig       `yaml:"ui"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Runtime version information
	Version string `yaml:"-"`
}

// ProviderConfig identifies the language-model endpoint and credential.
type ProviderConfig struct {
	// Name selects the wire protocol: "anthropic" speaks the message
	// protocol, everything else speaks chat completions.
	Name    string `yaml:"name"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`

	MaxTokens   int           `yaml:"max_tokens"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// VaultConfig locates the document vault and its access options.
type VaultConfig struct {
	Path string `yaml:"path"`

	// Ignore holds doublestar patterns excluded from listings and search.
	Ignore []string `yaml:"ignore"`

	// Remote, when set, serves the vault over SFTP instead of local disk.
	Remote *RemoteConfig `yaml:"remote,omitempty"`

	Watch WatchConfig `yaml:"watch"`
}

// RemoteConfig holds SFTP connection settings for a remote vault.
type RemoteConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password,omitempty"`
	KeyFile  string `yaml:"key_file,omitempty"`
	Path     string `yaml:"path"`
}

// WatchConfig holds file watcher settings.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMs int  `yaml:"debounce_ms"`
}

// ToolsConfig holds tool execution settings.
type ToolsConfig struct {
	// ExecutionMode is "ask" (prompt per tool) or "allow_all" (never prompt).
	// Unlike session grants this survives restarts.
	ExecutionMode string `yaml:"execution_mode"`

	// ResearchProxy is the text-extraction proxy prepended to research
	// and search-page URLs.
	ResearchProxy string `yaml:"research_proxy"`

	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	Theme             string `yaml:"theme"` // glamour style: dark, light, dracula, notty
	MarkdownRendering bool   `yaml:"markdown_rendering"`
	MouseMode         string `yaml:"mouse_mode"` // "enabled" (default) or "disabled"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"` // debug, info, warn, error
}

// Execution modes for ToolsConfig.ExecutionMode.
const (
	ExecutionModeAsk      = "ask"
	ExecutionModeAllowAll = "allow_all"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:        "openai",
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			MaxTokens:   4096,
			HTTPTimeout: 120 * time.Second,
		},
		Vault: VaultConfig{
			Path: ".",
			Ignore: []string{
				"**/.git/**",
				"**/.obsidian/**",
				"**/.trash/**",
			},
			Watch: WatchConfig{
				Enabled:    true,
				DebounceMs: 500,
			},
		},
		Tools: ToolsConfig{
			ExecutionMode: ExecutionModeAsk,
			ResearchProxy: "https://r.jina.ai/",
			FetchTimeout:  30 * time.Second,
		},
		UI: UIConfig{
			Theme:             "dark",
			MarkdownRendering: true,
			MouseMode:         "enabled",
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "warn",
		},
	}
}
