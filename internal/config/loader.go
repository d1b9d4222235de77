package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from file and environment variables.
// A missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = getConfigPath()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	loadFromEnv(cfg)

	if cfg.Provider.MaxTokens <= 0 {
		cfg.Provider.MaxTokens = 4096
	}
	if cfg.Provider.HTTPTimeout <= 0 {
		cfg.Provider.HTTPTimeout = 120 * time.Second
	}
	return cfg, nil
}

// getConfigPath returns the path to the config file.
func getConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "vellum", "config.yaml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	// macOS installs favor Application Support when present.
	if runtime.GOOS == "darwin" {
		appSupport := filepath.Join(homeDir, "Library", "Application Support", "vellum", "config.yaml")
		if _, err := os.Stat(appSupport); err == nil {
			return appSupport
		}
		dotConfig := filepath.Join(homeDir, ".config", "vellum", "config.yaml")
		if _, err := os.Stat(dotConfig); err == nil {
			return dotConfig
		}
		return appSupport
	}

	return filepath.Join(homeDir, ".config", "vellum", "config.yaml")
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() string {
	return getConfigPath()
}

// ConfigDir returns the directory containing the config file.
func ConfigDir() string {
	if p := getConfigPath(); p != "" {
		return filepath.Dir(p)
	}
	return ""
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Expand ${VAR} references so keys can live in the environment.
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// loadFromEnv applies environment variable overrides.
func loadFromEnv(cfg *Config) {
	if apiKey := os.Getenv("VELLUM_API_KEY"); apiKey != "" {
		cfg.Provider.APIKey = apiKey
	} else if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" && cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = apiKey
		if cfg.Provider.Name == "" {
			cfg.Provider.Name = "anthropic"
		}
	} else if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" && cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = apiKey
	}

	if name := os.Getenv("VELLUM_PROVIDER"); name != "" {
		cfg.Provider.Name = name
	}
	if baseURL := os.Getenv("VELLUM_BASE_URL"); baseURL != "" {
		cfg.Provider.BaseURL = baseURL
	}
	if model := os.Getenv("VELLUM_MODEL"); model != "" {
		cfg.Provider.Model = model
	}
	if vaultPath := os.Getenv("VELLUM_VAULT"); vaultPath != "" {
		cfg.Vault.Path = vaultPath
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return ErrMissingAuth
	}
	if c.Provider.BaseURL == "" {
		return ConfigError("provider base_url is not set")
	}
	if c.Vault.Path == "" {
		return ConfigError("vault path is not set")
	}
	return nil
}

// ConfigError is a validation error.
type ConfigError string

func (e ConfigError) Error() string {
	return string(e)
}

const (
	ErrMissingAuth ConfigError = "missing provider credentials: set VELLUM_API_KEY or add api_key to config.yaml"
)

// Save writes the configuration to the config file atomically.
func (c *Config) Save() error {
	configPath := getConfigPath()
	if configPath == "" {
		return fmt.Errorf("could not determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to a temp file then rename; 0600 because the file holds API keys.
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		// Rename can fail across filesystems on Windows; fall back to direct write.
		if err := os.WriteFile(configPath, data, 0600); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}
	return nil
}
