package version

import (
	"strings"
	"testing"
)

func TestGetVersionString(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "1.2.3"
	CommitHash = "abc123"
	got := GetVersionString()

	if !strings.Contains(got, "1.2.3") || !strings.Contains(got, "abc123") {
		t.Errorf("unexpected version string %q", got)
	}
	if GetShortVersion() != "1.2.3" {
		t.Errorf("expected short version 1.2.3, got %s", GetShortVersion())
	}
}

func TestUserAgent(t *testing.T) {
	if !strings.HasPrefix(UserAgent(), "moragents-tui/") {
		t.Errorf("unexpected user agent %q", UserAgent())
	}
}
