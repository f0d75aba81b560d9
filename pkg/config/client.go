package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is where the CLI looks for the admin API when nothing else is configured.
const DefaultBaseURL = "http://localhost:8080/1.0/"

// ClientConfig holds CLI defaults loaded from ~/.config/signing-vault/config.yaml.
type ClientConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultClientConfigPath returns the per-user config file location.
func DefaultClientConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "signing-vault", "config.yaml")
}

// LoadClient reads the config file at path. A missing file yields a zero-value config.
func LoadClient(path string) (*ClientConfig, error) {
	if path == "" {
		return &ClientConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ClientConfig{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg ClientConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Merge applies overrides in precedence order: flags, then environment, then the file.
// The base URL falls back to DefaultBaseURL.
func (c *ClientConfig) Merge(baseURL, token string) ClientConfig {
	out := *c

	if v := os.Getenv("SIGNING_VAULT_URL"); v != "" {
		out.BaseURL = v
	}
	if v := os.Getenv("SIGNING_VAULT_TOKEN"); v != "" {
		out.Token = v
	}
	if baseURL != "" {
		out.BaseURL = baseURL
	}
	if token != "" {
		out.Token = token
	}
	if out.BaseURL == "" {
		out.BaseURL = DefaultBaseURL
	}
	return out
}
