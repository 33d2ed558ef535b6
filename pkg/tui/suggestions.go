package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shawkym/moragents-tui/pkg/catalog"
	"github.com/shawkym/moragents-tui/pkg/log"
	"github.com/shawkym/moragents-tui/pkg/metrics"
)

// AgentLister returns the identifiers of the enabled agents.
type AgentLister interface {
	AvailableAgents(ctx context.Context) ([]string, error)
}

type agentsLoadedMsg struct {
	ids []string
}

type agentsFailedMsg struct {
	err error
}

// SuggestionPanel shows prefilled example prompts for the enabled agents.
type SuggestionPanel struct {
	ctx      context.Context
	lister   AgentLister
	catalog  *catalog.Catalog
	metrics  *metrics.Metrics
	keys     KeyMap
	sections []catalog.Section
	loaded   bool
	cursor   int
	focused  bool

	// OnSelect is called with the text of the chosen example.
	OnSelect func(text string) tea.Cmd
}

// NewSuggestionPanel creates a panel that loads its agents on Init.
func NewSuggestionPanel(ctx context.Context, lister AgentLister, cat *catalog.Catalog, m *metrics.Metrics) SuggestionPanel {
	if cat == nil {
		cat = catalog.Default()
	}
	return SuggestionPanel{
		ctx:     ctx,
		lister:  lister,
		catalog: cat,
		metrics: m,
		keys:    DefaultKeyMap(),
	}
}

// Init fetches the enabled agents once.
func (p SuggestionPanel) Init() tea.Cmd {
	if p.lister == nil {
		return nil
	}
	ctx, lister := p.ctx, p.lister
	return func() tea.Msg {
		ids, err := lister.AvailableAgents(ctx)
		if err != nil {
			return agentsFailedMsg{err: err}
		}
		return agentsLoadedMsg{ids: ids}
	}
}

// Update handles agent loading and, when focused, navigation.
func (p SuggestionPanel) Update(msg tea.Msg) (SuggestionPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case agentsLoadedMsg:
		p.sections = p.catalog.Sections(msg.ids)
		p.loaded = true
		p.cursor = 0
		log.WithFields(map[string]interface{}{
			"agents":   len(msg.ids),
			"sections": len(p.sections),
		}).Debug("loaded prefilled suggestions")

	case agentsFailedMsg:
		p.sections = nil
		p.loaded = true
		log.WithError(msg.err).Error("failed to fetch available agents")

	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		total := p.exampleCount()
		if total == 0 {
			return p, nil
		}
		switch {
		case key.Matches(msg, p.keys.Up):
			p.cursor = (p.cursor - 1 + total) % total
		case key.Matches(msg, p.keys.Down):
			p.cursor = (p.cursor + 1) % total
		case key.Matches(msg, p.keys.Send):
			return p, p.selectCurrent()
		}
	}
	return p, nil
}

// Sections returns the resolved sections in display order.
func (p SuggestionPanel) Sections() []catalog.Section {
	return p.sections
}

// Focus gives the panel keyboard focus.
func (p *SuggestionPanel) Focus() { p.focused = true }

// Blur removes keyboard focus.
func (p *SuggestionPanel) Blur() { p.focused = false }

// Focused reports whether the panel has keyboard focus.
func (p SuggestionPanel) Focused() bool { return p.focused }

// Empty reports whether there is nothing to show.
func (p SuggestionPanel) Empty() bool { return p.exampleCount() == 0 }

func (p SuggestionPanel) exampleCount() int {
	n := 0
	for _, s := range p.sections {
		n += len(s.Examples)
	}
	return n
}

func (p SuggestionPanel) selectCurrent() tea.Cmd {
	i := 0
	for _, s := range p.sections {
		for _, ex := range s.Examples {
			if i == p.cursor {
				p.metrics.RecordSuggestion(s.AgentID)
				if p.OnSelect == nil {
					return nil
				}
				return p.OnSelect(ex.Text)
			}
			i++
		}
	}
	return nil
}

// View renders the sections. Nothing is rendered until agents load, or
// when loading failed.
func (p SuggestionPanel) View() string {
	if len(p.sections) == 0 {
		return ""
	}

	var b strings.Builder
	i := 0
	for si, s := range p.sections {
		if si > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionTitleStyle.Render(fmt.Sprintf("%s %s", s.Icon, s.Title)))
		b.WriteString("\n")
		for _, ex := range s.Examples {
			line := "  " + ex.Text
			if p.focused && i == p.cursor {
				line = selectedStyle.Render("> " + ex.Text)
			}
			b.WriteString(line)
			b.WriteString("\n")
			i++
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
