// Package config loads the krds-checker configuration from YAML with
// environment-variable overrides for deployment secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the krds-checker configuration
type Config struct {
	// HTTP service settings
	Server ServerConfig `yaml:"server"`

	// Audit run settings
	Audit AuditConfig `yaml:"audit"`

	// Remediation advisor settings
	Advisor AdvisorConfig `yaml:"advisor"`

	// Optional Postgres persistence
	Database DatabaseConfig `yaml:"database"`
}

// ServerConfig holds HTTP service settings
type ServerConfig struct {
	Addr string `yaml:"addr"` // listen address, host:port
}

// AuditConfig holds audit run settings
type AuditConfig struct {
	Viewport    string        `yaml:"viewport"`     // default viewport label
	LoadTimeout time.Duration `yaml:"load-timeout"` // page load bound
}

// AdvisorConfig holds AI remediation advisor settings
type AdvisorConfig struct {
	Name  string `yaml:"name"`  // claude, openai
	Model string `yaml:"model"` // optional, provider-specific model
}

// DatabaseConfig holds persistence settings
type DatabaseConfig struct {
	URL string `yaml:"url"` // Postgres DSN; DATABASE_URL overrides
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: "localhost:8080",
		},
		Audit: AuditConfig{
			Viewport:    "desktop",
			LoadTimeout: 30 * time.Second,
		},
		Advisor: AdvisorConfig{
			Name: "claude",
		},
	}
}

// Load loads configuration from a YAML file and applies environment
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}

	config.applyEnv()
	return config, nil
}

// applyEnv lets deployment environments override file settings without
// editing the file. Secrets (the database DSN) only ever come from the
// environment or the file, never from flags.
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("KRDS_CHECKER_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// FindConfigFile searches for a config file in common locations.
// Returns the path to the first config file found, or empty string if none
// found.
func FindConfigFile() string {
	candidates := []string{
		".krds-checker.yaml",
		".krds-checker.yml",
	}

	for _, candidate := range candidates {
		if fileExists(candidate) {
			return candidate
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		for _, candidate := range candidates {
			path := filepath.Join(homeDir, candidate)
			if fileExists(path) {
				return path
			}
		}
	}

	return ""
}

// LoadOrDefault attempts to load a config file, falling back to defaults
func LoadOrDefault() *Config {
	configPath := FindConfigFile()
	if configPath == "" {
		config := DefaultConfig()
		config.applyEnv()
		return config
	}

	config, err := Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", configPath, err)
		fmt.Fprintf(os.Stderr, "Using default configuration.\n\n")
		config = DefaultConfig()
		config.applyEnv()
	}

	return config
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
