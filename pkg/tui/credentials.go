package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shawkym/moragents-tui/pkg/credentials"
	"github.com/shawkym/moragents-tui/pkg/log"
)

// CredentialService loads, saves and resyncs the X credentials.
type CredentialService interface {
	Load(ctx context.Context) (credentials.Credentials, error)
	Save(ctx context.Context, creds credentials.Credentials) credentials.SyncResult
	Reconcile(ctx context.Context) credentials.SyncResult
}

type credentialsLoadedMsg struct {
	creds credentials.Credentials
	err   error
}

type credentialsSavedMsg struct {
	creds  credentials.Credentials
	result credentials.SyncResult
}

const (
	credSaveButton = iota + 5
	credSyncButton
	credPositions
)

// CredentialsPanel edits the X API credentials.
type CredentialsPanel struct {
	ctx      context.Context
	svc      CredentialService
	keys     KeyMap
	inputs   []textinput.Model
	stored   credentials.Credentials
	cursor   int
	busy     bool
	status   string
	statusOK bool

	// OnSave is called after the backend accepted the credentials.
	OnSave func() tea.Cmd
}

// NewCredentialsPanel creates the settings panel.
func NewCredentialsPanel(ctx context.Context, svc CredentialService) CredentialsPanel {
	inputs := make([]textinput.Model, len(credentials.Fields))
	for i, f := range credentials.Fields {
		ti := textinput.New()
		ti.Placeholder = "Enter new " + f.Label
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
		ti.CharLimit = 256
		ti, _ = ti.Update(nil)
		inputs[i] = ti
	}
	inputs[0].Focus()

	return CredentialsPanel{
		ctx:    ctx,
		svc:    svc,
		keys:   DefaultKeyMap(),
		inputs: inputs,
	}
}

// Init reads the stored credentials.
func (p CredentialsPanel) Init() tea.Cmd {
	if p.svc == nil {
		return nil
	}
	ctx, svc := p.ctx, p.svc
	return func() tea.Msg {
		creds, err := svc.Load(ctx)
		return credentialsLoadedMsg{creds: creds, err: err}
	}
}

// Values returns the credentials currently entered.
func (p CredentialsPanel) Values() credentials.Credentials {
	var c credentials.Credentials
	for i, f := range credentials.Fields {
		c.Set(f.Key, p.inputs[i].Value())
	}
	return c
}

// Stored returns the last loaded or saved credentials.
func (p CredentialsPanel) Stored() credentials.Credentials {
	return p.stored
}

// Status returns the last save or sync message.
func (p CredentialsPanel) Status() string {
	return p.status
}

func (p *CredentialsPanel) setStored(c credentials.Credentials) {
	p.stored = c
	for i, f := range credentials.Fields {
		p.inputs[i].SetValue(c.Get(f.Key))
	}
}

func (p CredentialsPanel) save() tea.Cmd {
	if p.svc == nil {
		return nil
	}
	ctx, svc, creds := p.ctx, p.svc, p.Values()
	return func() tea.Msg {
		return credentialsSavedMsg{creds: creds, result: svc.Save(ctx, creds)}
	}
}

func (p CredentialsPanel) reconcile() tea.Cmd {
	if p.svc == nil {
		return nil
	}
	ctx, svc, creds := p.ctx, p.svc, p.stored
	return func() tea.Msg {
		return credentialsSavedMsg{creds: creds, result: svc.Reconcile(ctx)}
	}
}

func (p *CredentialsPanel) focusCursor() {
	for i := range p.inputs {
		if i == p.cursor {
			p.inputs[i].Focus()
		} else {
			p.inputs[i].Blur()
		}
	}
}

// Update handles loading, saving and key input.
func (p CredentialsPanel) Update(msg tea.Msg) (CredentialsPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case credentialsLoadedMsg:
		if msg.err != nil {
			log.WithError(msg.err).Error("failed to load stored credentials")
			p.status = "Could not read stored credentials"
			p.statusOK = false
			return p, nil
		}
		p.setStored(msg.creds)
		return p, nil

	case credentialsSavedMsg:
		p.busy = false
		p.status = msg.result.Message()
		p.statusOK = msg.result.Synced()
		if msg.result.Status != credentials.StatusNone {
			p.stored = msg.creds
		}
		if msg.result.Synced() && p.OnSave != nil {
			return p, p.OnSave()
		}
		return p, nil

	case tea.KeyMsg:
		if p.busy {
			return p, nil
		}
		switch {
		case key.Matches(msg, p.keys.Up):
			p.cursor = (p.cursor - 1 + credPositions) % credPositions
			p.focusCursor()
			return p, nil
		case key.Matches(msg, p.keys.Down), key.Matches(msg, p.keys.Focus):
			p.cursor = (p.cursor + 1) % credPositions
			p.focusCursor()
			return p, nil
		case key.Matches(msg, p.keys.Send):
			switch p.cursor {
			case credSaveButton:
				p.busy = true
				p.status = "Saving..."
				return p, p.save()
			case credSyncButton:
				p.busy = true
				p.status = "Syncing..."
				return p, p.reconcile()
			default:
				p.cursor++
				p.focusCursor()
				return p, nil
			}
		}

		if p.cursor < len(p.inputs) {
			var cmd tea.Cmd
			p.inputs[p.cursor], cmd = p.inputs[p.cursor].Update(msg)
			return p, cmd
		}
	}
	return p, nil
}

// View renders the panel.
func (p CredentialsPanel) View() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Twitter API Configuration"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Enter your X API credentials from the X Developer Portal."))
	b.WriteString("\n\n")

	for i, f := range credentials.Fields {
		label := fmt.Sprintf("%s (%s)", f.Label, credentials.Display(p.stored.Get(f.Key)))
		if i == p.cursor {
			label = selectedStyle.Render("> " + label)
		} else {
			label = "  " + label
		}
		b.WriteString(label)
		b.WriteString("\n  ")
		b.WriteString(p.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(button("Save Twitter Credentials", p.cursor == credSaveButton))
	b.WriteString("  ")
	b.WriteString(button("Sync Now", p.cursor == credSyncButton))

	if p.status != "" {
		b.WriteString("\n\n")
		switch {
		case p.busy:
			b.WriteString(statusStyle.Render(p.status))
		case p.statusOK:
			b.WriteString(successStyle.Render(p.status))
		default:
			b.WriteString(errorStyle.Render(p.status))
		}
	}
	return b.String()
}

func button(label string, selected bool) string {
	if selected {
		return selectedStyle.Render("[ " + label + " ]")
	}
	return "[ " + label + " ]"
}
