package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Expected Version to be '1.0', got %s", cfg.Version)
	}

	if cfg.Backend.URL != "http://localhost:8080" {
		t.Errorf("Expected default backend url http://localhost:8080, got %s", cfg.Backend.URL)
	}

	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", cfg.Backend.Timeout)
	}

	if !strings.Contains(cfg.Storage.CredentialsDB, ".moragents") {
		t.Errorf("Expected CredentialsDB under .moragents, got %s", cfg.Storage.CredentialsDB)
	}

	if cfg.Metrics.Enabled {
		t.Error("Expected metrics to be disabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid default",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty backend url",
			mutate:  func(c *Config) { c.Backend.URL = "" },
			wantErr: true,
			errMsg:  "invalid backend url",
		},
		{
			name:    "non-http scheme",
			mutate:  func(c *Config) { c.Backend.URL = "ftp://example.com" },
			wantErr: true,
			errMsg:  "http or https",
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.Backend.URL = "http://" },
			wantErr: true,
			errMsg:  "no host",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name:    "negative burst",
			mutate:  func(c *Config) { c.Backend.RateBurst = -1 },
			wantErr: true,
			errMsg:  "rate_burst",
		},
		{
			name:    "negative rate disables limiter",
			mutate:  func(c *Config) { c.Backend.RateLimit = -1 },
			wantErr: false,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Backend.Timeout = -time.Second },
			wantErr: true,
			errMsg:  "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error message = %v, want to contain %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moragents.yaml")
	content := `backend:
  url: https://agents.example.com
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Backend.URL != "https://agents.example.com" {
		t.Errorf("unexpected backend url %s", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.Backend.RateLimit != 5 || cfg.Backend.RateBurst != 10 {
		t.Errorf("expected default rate limit 5/10, got %v/%d", cfg.Backend.RateLimit, cfg.Backend.RateBurst)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
	if cfg.UI.WordWrap != 80 {
		t.Errorf("expected default word wrap 80, got %d", cfg.UI.WordWrap)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("backend:\n  url: mailto:someone\n"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected invalid configuration error")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := NewDefaultConfig()
	cfg.Backend.URL = "http://10.0.0.5:8080"

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Backend.URL != "http://10.0.0.5:8080" {
		t.Errorf("expected saved url, got %s", loaded.Backend.URL)
	}
}
