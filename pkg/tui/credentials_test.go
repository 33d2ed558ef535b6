package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shawkym/moragents-tui/pkg/credentials"
)

type fakeCredentialService struct {
	stored    credentials.Credentials
	result    credentials.SyncResult
	saved     []credentials.Credentials
	reconcile int
}

func (f *fakeCredentialService) Load(ctx context.Context) (credentials.Credentials, error) {
	return f.stored, nil
}

func (f *fakeCredentialService) Save(ctx context.Context, creds credentials.Credentials) credentials.SyncResult {
	f.stored = creds
	f.saved = append(f.saved, creds)
	return f.result
}

func (f *fakeCredentialService) Reconcile(ctx context.Context) credentials.SyncResult {
	f.reconcile++
	return f.result
}

func TestCredentialsPanelMasksStoredValues(t *testing.T) {
	svc := &fakeCredentialService{stored: credentials.Credentials{
		APIKey:    "abcdefghij",
		APISecret: "abc",
	}}
	p := NewCredentialsPanel(context.Background(), svc)
	p, _ = p.Update(p.Init()())

	view := p.View()
	if !strings.Contains(view, "API Key (•••••fghij)") {
		t.Errorf("expected masked api key, got:\n%s", view)
	}
	if !strings.Contains(view, "API Secret (abc)") {
		t.Errorf("short values should be shown unchanged, got:\n%s", view)
	}
	if !strings.Contains(view, "Bearer Token (Not set)") {
		t.Errorf("empty values should show Not set, got:\n%s", view)
	}
	if strings.Contains(view, "abcdefghij") {
		t.Error("full secret must never be displayed")
	}
	if p.Values().APIKey != "abcdefghij" {
		t.Errorf("inputs should be prefilled with stored values, got %q", p.Values().APIKey)
	}
}

func pressSave(t *testing.T, p CredentialsPanel) (CredentialsPanel, tea.Cmd) {
	t.Helper()
	p.cursor = credSaveButton
	p.focusCursor()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected save command")
	}
	return p.Update(cmd())
}

func TestCredentialsPanelSaveFailureSurfacesStatus(t *testing.T) {
	svc := &fakeCredentialService{result: credentials.SyncResult{
		Status: credentials.StatusFailed,
		Err:    errors.New("HTTP 503: unavailable"),
	}}
	p := NewCredentialsPanel(context.Background(), svc)
	onSaveCalled := false
	p.OnSave = func() tea.Cmd {
		onSaveCalled = true
		return nil
	}

	for _, r := range "new-api-key-123" {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	p, _ = pressSave(t, p)

	if len(svc.saved) != 1 || svc.saved[0].APIKey != "new-api-key-123" {
		t.Fatalf("expected one save with typed key, got %+v", svc.saved)
	}
	if onSaveCalled {
		t.Error("OnSave must not fire when the backend sync failed")
	}
	if !strings.Contains(p.Status(), "sync failed") {
		t.Errorf("expected sync failure status, got %q", p.Status())
	}
	if p.Stored().APIKey != "new-api-key-123" {
		t.Errorf("panel should reflect the locally saved value, got %q", p.Stored().APIKey)
	}
}

func TestCredentialsPanelSaveSuccessFiresOnSave(t *testing.T) {
	svc := &fakeCredentialService{result: credentials.SyncResult{Status: credentials.StatusSynced}}
	p := NewCredentialsPanel(context.Background(), svc)
	onSaveCalled := false
	p.OnSave = func() tea.Cmd {
		onSaveCalled = true
		return nil
	}

	p, _ = pressSave(t, p)

	if !onSaveCalled {
		t.Error("expected OnSave after a successful sync")
	}
	if p.Status() != "Credentials saved and synced" {
		t.Errorf("unexpected status %q", p.Status())
	}
}

func TestCredentialsPanelSyncButtonReconciles(t *testing.T) {
	svc := &fakeCredentialService{result: credentials.SyncResult{Status: credentials.StatusSynced}}
	p := NewCredentialsPanel(context.Background(), svc)

	p.cursor = credSyncButton
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected reconcile command")
	}
	p.Update(cmd())

	if svc.reconcile != 1 {
		t.Errorf("expected one reconcile, got %d", svc.reconcile)
	}
	if len(svc.saved) != 0 {
		t.Error("sync should not rewrite local values")
	}
}

func TestCredentialsPanelInputsAreMasked(t *testing.T) {
	p := NewCredentialsPanel(context.Background(), nil)
	for _, r := range "supersecret" {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	if strings.Contains(p.View(), "supersecret") {
		t.Error("typed secrets must be echoed as password characters")
	}
}
