// Package config provides configuration management for moragents.
// It defines the structure for YAML configuration files and handles
// loading, validation, and default value application.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure.
type Config struct {
	// Version is the configuration file format version
	Version string `yaml:"version"`
	// Backend defines the crypto-assistant backend
	Backend BackendConfig `yaml:"backend"`
	// Storage defines local persistence paths
	Storage StorageConfig `yaml:"storage"`
	// Logging defines log output
	Logging LoggingConfig `yaml:"logging"`
	// UI defines rendering settings
	UI UIConfig `yaml:"ui"`
	// Metrics defines the Prometheus endpoint
	Metrics MetricsConfig `yaml:"metrics"`
}

// BackendConfig defines how the client reaches the backend.
type BackendConfig struct {
	// URL is the backend base URL (e.g., http://localhost:8080)
	URL string `yaml:"url"`
	// Timeout bounds every backend request
	Timeout time.Duration `yaml:"timeout"`
	// RateLimit caps requests per second; a negative value disables the limiter
	RateLimit float64 `yaml:"rate_limit"`
	// RateBurst is the number of requests allowed back to back
	RateBurst int `yaml:"rate_burst"`
}

// StorageConfig defines where local state lives.
type StorageConfig struct {
	// CredentialsDB is the SQLite file holding X API credentials
	CredentialsDB string `yaml:"credentials_db"`
	// TranscriptDir is where saved conversations are written
	TranscriptDir string `yaml:"transcript_dir"`
}

// LoggingConfig defines log file rotation.
type LoggingConfig struct {
	// File is the log file used while the TUI owns the terminal
	File string `yaml:"file"`
	// Level is one of "debug", "info", "warn", "error"
	Level string `yaml:"level"`
	// MaxSizeMB is the size at which the log file rotates
	MaxSizeMB int `yaml:"max_size_mb"`
	// MaxBackups is the number of rotated files kept
	MaxBackups int `yaml:"max_backups"`
	// MaxAgeDays is how long rotated files are kept
	MaxAgeDays int `yaml:"max_age_days"`
}

// UIConfig defines rendering behavior.
type UIConfig struct {
	// MarkdownStyle is a glamour standard style ("dark", "light", "notty", ...)
	MarkdownStyle string `yaml:"markdown_style"`
	// WordWrap is the markdown wrap width
	WordWrap int `yaml:"word_wrap"`
	// CatalogFile optionally replaces the built-in agent catalog
	CatalogFile string `yaml:"catalog_file"`
	// SelectedAgent names the agent shown in message headers
	SelectedAgent string `yaml:"selected_agent"`
}

// MetricsConfig defines the optional Prometheus server.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// NewDefaultConfig creates a configuration with sensible defaults.
// Local state lives under ~/.moragents.
func NewDefaultConfig() *Config {
	base := filepath.Join(homeDir(), ".moragents")

	return &Config{
		Version: "1.0",
		Backend: BackendConfig{
			URL:       "http://localhost:8080",
			Timeout:   30 * time.Second,
			RateLimit: 5,
			RateBurst: 10,
		},
		Storage: StorageConfig{
			CredentialsDB: filepath.Join(base, "credentials.db"),
			TranscriptDir: filepath.Join(base, "transcripts"),
		},
		Logging: LoggingConfig{
			File:       filepath.Join(base, "logs", "moragents.log"),
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
			WordWrap:      80,
			SelectedAgent: "default",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
	}
}

// LoadConfig loads and validates a configuration from a YAML file.
// It applies default values for any missing optional fields.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// SaveConfig writes the configuration to a YAML file.
// The file is created with 0600 permissions (read/write for owner only).
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || c.Backend.URL == "" {
		return fmt.Errorf("invalid backend url: %q", c.Backend.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend url must use http or https: %q", c.Backend.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend url has no host: %q", c.Backend.URL)
	}

	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend timeout cannot be negative")
	}
	if c.Backend.RateBurst < 0 {
		return fmt.Errorf("backend rate_burst cannot be negative")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.UI.WordWrap < 0 {
		return fmt.Errorf("word wrap cannot be negative")
	}

	if c.Storage.CredentialsDB == "" {
		return fmt.Errorf("storage.credentials_db cannot be empty")
	}

	return nil
}

func (c *Config) applyDefaults() {
	defaults := NewDefaultConfig()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.Backend.URL == "" {
		c.Backend.URL = defaults.Backend.URL
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = defaults.Backend.Timeout
	}
	if c.Backend.RateLimit == 0 {
		c.Backend.RateLimit = defaults.Backend.RateLimit
	}
	if c.Backend.RateBurst == 0 {
		c.Backend.RateBurst = defaults.Backend.RateBurst
	}

	if c.Storage.CredentialsDB == "" {
		c.Storage.CredentialsDB = defaults.Storage.CredentialsDB
	}
	if c.Storage.TranscriptDir == "" {
		c.Storage.TranscriptDir = defaults.Storage.TranscriptDir
	}

	if c.Logging.File == "" {
		c.Logging.File = defaults.Logging.File
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = defaults.Logging.MaxSizeMB
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = defaults.Logging.MaxBackups
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = defaults.Logging.MaxAgeDays
	}

	if c.UI.MarkdownStyle == "" {
		c.UI.MarkdownStyle = defaults.UI.MarkdownStyle
	}
	if c.UI.WordWrap == 0 {
		c.UI.WordWrap = defaults.UI.WordWrap
	}
	if c.UI.SelectedAgent == "" {
		c.UI.SelectedAgent = defaults.UI.SelectedAgent
	}

	if c.Metrics.Addr == "" {
		c.Metrics.Addr = defaults.Metrics.Addr
	}
}
