package cmd

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/shawkym/moragents-tui/pkg/config"
	"github.com/shawkym/moragents-tui/pkg/credentials"
)

func TestFlagName(t *testing.T) {
	tests := map[string]string{
		credentials.FieldAPIKey:            "api-key",
		credentials.FieldAccessTokenSecret: "access-token-secret",
		credentials.FieldBearerToken:       "bearer-token",
	}
	for key, want := range tests {
		if got := flagName(key); got != want {
			t.Errorf("flagName(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestChangedCredentialsOnlyExplicitFlags(t *testing.T) {
	fs := pflag.NewFlagSet("set", pflag.ContinueOnError)
	for _, f := range credentials.Fields {
		fs.String(flagName(f.Key), "", f.Label)
	}
	fs.String("unrelated", "", "")

	if err := fs.Parse([]string{"--api-key", "k", "--bearer-token=", "--unrelated", "x"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	got := changedCredentials(fs)
	if len(got) != 2 {
		t.Fatalf("expected 2 changed credentials, got %v", got)
	}
	if got[credentials.FieldAPIKey] != "k" {
		t.Errorf("expected api key k, got %q", got[credentials.FieldAPIKey])
	}
	if v, ok := got[credentials.FieldBearerToken]; !ok || v != "" {
		t.Errorf("expected explicit empty bearer token, got %q (present=%v)", v, ok)
	}
}

func TestCredentialLine(t *testing.T) {
	var creds credentials.Credentials
	creds.Set(credentials.FieldAPIKey, "key-1234567890")

	got := credentialLine(credentials.Fields[0], creds)
	if !strings.HasSuffix(got, "•••••67890") || strings.Contains(got, "key-") {
		t.Errorf("expected masked api key, got %q", got)
	}
	if strings.Count(got, "•") != 5 {
		t.Errorf("expected a single five-dot mask, got %q", got)
	}

	got = credentialLine(credentials.Fields[4], creds)
	if !strings.HasSuffix(got, credentials.NotSet) {
		t.Errorf("expected empty bearer token to show %q, got %q", credentials.NotSet, got)
	}
}

func TestPerformBackendChecks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"selected_agents":["default","imagen"]}`))
	}))
	defer server.Close()

	cfg := config.NewDefaultConfig()
	cfg.Backend.URL = server.URL

	checks, agents := performBackendChecks(cfg)
	if !checks[0].Status {
		t.Fatalf("expected backend reachable, got %+v", checks[0])
	}
	if strings.Join(agents, ",") != "default,imagen" {
		t.Errorf("unexpected agents %v", agents)
	}
}

func TestPerformBackendChecksUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := config.NewDefaultConfig()
	cfg.Backend.URL = server.URL

	checks, agents := performBackendChecks(cfg)
	if checks[0].Status {
		t.Error("expected backend check to fail")
	}
	if agents != nil {
		t.Errorf("expected no agents, got %v", agents)
	}
}

func TestPerformLocalStateChecks(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.Storage.CredentialsDB = filepath.Join(dir, "creds", "credentials.db")
	cfg.Storage.TranscriptDir = filepath.Join(dir, "transcripts")

	checks, status := performLocalStateChecks(cfg)
	if status != "not set" {
		t.Errorf("expected fresh store to report not set, got %q", status)
	}
	for _, c := range checks {
		if c.Icon == "❌" {
			t.Errorf("unexpected failed check %+v", c)
		}
	}
}

func TestPerformConfigChecksDefaults(t *testing.T) {
	checks := performConfigChecks(config.NewDefaultConfig(), "")
	if checks[0].Status {
		t.Error("expected missing config file to be informational")
	}
	found := false
	for _, c := range checks {
		if c.Name == "Agent Catalog" && strings.HasPrefix(c.Message, "built-in") {
			found = true
		}
	}
	if !found {
		t.Error("expected built-in catalog check")
	}
}
