// Package config holds folio configuration loaded from YAML with
// FOLIO_* environment overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all folio configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`

	// Profiles maps domain name to a scoring profile YAML path; domains
	// not listed use the shipped default profile.
	Profiles map[string]string `yaml:"profiles"`

	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig configures the SQLite store.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	Debug      bool            `yaml:"debug"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Directory  string          `yaml:"directory"`
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "folio",
		Version: "1.0.0",
		Server: ServerConfig{
			Addr: "127.0.0.1:8460",
		},
		Storage: StorageConfig{
			DatabasePath: "folio.db",
		},
		Profiles: map[string]string{},
		Logging: LoggingConfig{
			Debug:     false,
			Level:     "info",
			Directory: ".folio",
		},
	}
}

// Load reads a YAML config file over the defaults, then applies
// environment overrides. An empty path returns defaults plus env.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}
