package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ServerConfig replaces the built-in connection defaults.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
}

// SearchConfig overrides the default settings search bounds.
// Nil means "not set", since zero is a meaningful bound.
type SearchConfig struct {
	UpLevel   *int `yaml:"up_level"`
	DownLevel *int `yaml:"down_level"`
}

type AuthConfig struct {
	Method         string `yaml:"method"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

type ToolConfig struct {
	Server ServerConfig `yaml:"server"`
	Search SearchConfig `yaml:"search"`
	Auth   AuthConfig   `yaml:"auth"`
}

const (
	ConfigFileName = "psqlc.yaml"
	ConfigEnvVar   = "PSQLC_CONFIG"
)

// DefaultPath returns $PSQLC_CONFIG, or psqlc.yaml under the user config directory.
func DefaultPath() (string, error) {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "psqlc", ConfigFileName), nil
}

// Load reads and decodes the tool configuration at path.
func Load(path string) (*ToolConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ToolConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault loads the configuration from DefaultPath. A missing file, or an
// unresolvable config directory, yields an empty configuration.
func LoadDefault() (*ToolConfig, error) {
	path, err := DefaultPath()
	if err != nil {
		return &ToolConfig{}, nil
	}
	cfg, err := Load(path)
	if errors.Is(err, ErrConfigNotFound) {
		return &ToolConfig{}, nil
	}
	return cfg, err
}

// UpLevel returns the configured upward bound, or fallback.
func (c *ToolConfig) UpLevel(fallback int) int {
	if c == nil || c.Search.UpLevel == nil {
		return fallback
	}
	return *c.Search.UpLevel
}

// DownLevel returns the configured downward bound, or fallback.
func (c *ToolConfig) DownLevel(fallback int) int {
	if c == nil || c.Search.DownLevel == nil {
		return fallback
	}
	return *c.Search.DownLevel
}
