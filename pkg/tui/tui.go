// Package tui implements the terminal chat client: the conversation view,
// prefilled suggestions, the hotel search form and the X credential settings.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/shawkym/moragents-tui/pkg/catalog"
	"github.com/shawkym/moragents-tui/pkg/config"
	"github.com/shawkym/moragents-tui/pkg/log"
	"github.com/shawkym/moragents-tui/pkg/message"
	"github.com/shawkym/moragents-tui/pkg/metrics"
	"github.com/shawkym/moragents-tui/pkg/render"
)

// Backend is the subset of the backend client the chat screen uses.
type Backend interface {
	AgentLister
	Chat(ctx context.Context, chatID, prompt string) (message.ChatMessage, error)
	ProcessHotels(ctx context.Context, search message.HotelSearch) (message.ChatMessage, error)
	PostTweet(ctx context.Context, content string) error
}

type baseURLSetter interface {
	BaseURL() string
	SetBaseURL(string)
}

type focusArea int

const (
	focusInput focusArea = iota
	focusSuggestions
	focusHotelForm
)

// ConfigReloadedMsg tells the chat screen the configuration file changed.
type ConfigReloadedMsg struct {
	Config *config.Config
}

type chatReplyMsg struct {
	message message.ChatMessage
}

type chatFailedMsg struct {
	err error
}

type suggestionChosenMsg struct {
	text string
}

type tweetPostedMsg struct {
	id  string
	err error
}

type credentialsSyncedMsg struct{}

// Options configures the chat screen.
type Options struct {
	Context       context.Context
	Backend       Backend
	Credentials   CredentialService
	Renderer      *render.Renderer
	Catalog       *catalog.Catalog
	Metrics       *metrics.Metrics
	SelectedAgent string
	ChatID        string
	// Messages seeds the conversation, e.g. from a saved transcript.
	Messages []message.ChatMessage
}

type bodyKey struct {
	id     string
	active bool
}

// Model is the chat screen.
type Model struct {
	ctx           context.Context
	backend       Backend
	renderer      *render.Renderer
	catalog       *catalog.Catalog
	metrics       *metrics.Metrics
	keys          KeyMap
	help          help.Model
	selectedAgent string
	chatID        string

	messages []message.ChatMessage
	// bodies caches rendered message bodies; message content never changes
	// after append and the active flag is part of the key.
	bodies map[bodyKey]string

	viewport    viewport.Model
	input       textinput.Model
	suggestions SuggestionPanel
	hotelForm   HotelForm
	hotelFormID string
	settings    CredentialsPanel

	focus        focusArea
	showSettings bool
	showHelp     bool
	waiting      bool
	status       string
	err          error
	width        int
	height       int
	ready        bool
}

// NewModel creates the chat screen.
func NewModel(opts Options) (Model, error) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	r := opts.Renderer
	if r == nil {
		var err error
		r, err = render.New(render.Config{Catalog: cat})
		if err != nil {
			return Model{}, err
		}
	}
	selected := opts.SelectedAgent
	if selected == "" {
		selected = "default"
	}

	input := textinput.New()
	input.Placeholder = "Start typing or choose a suggestion..."
	input.CharLimit = 2000
	input.Focus()

	m := Model{
		ctx:           ctx,
		backend:       opts.Backend,
		renderer:      r,
		catalog:       cat,
		metrics:       opts.Metrics,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		selectedAgent: selected,
		chatID:        opts.ChatID,
		messages:      append([]message.ChatMessage(nil), opts.Messages...),
		bodies:        make(map[bodyKey]string),
		input:         input,
		suggestions:   NewSuggestionPanel(ctx, opts.Backend, cat, opts.Metrics),
		settings:      NewCredentialsPanel(ctx, opts.Credentials),
	}
	m.suggestions.OnSelect = func(text string) tea.Cmd {
		return func() tea.Msg { return suggestionChosenMsg{text: text} }
	}
	m.settings.OnSave = func() tea.Cmd {
		return func() tea.Msg { return credentialsSyncedMsg{} }
	}
	for i := range m.messages {
		if m.messages[i].ID == "" {
			m.messages[i].ID = uuid.NewString()
		}
		m.metrics.RecordRender(string(m.messages[i].Kind))
	}
	m.attachHotelForm()
	return m, nil
}

// NewProgram wraps the model in a full-screen program.
func NewProgram(m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}

// Run runs the program and returns the final conversation.
func Run(p *tea.Program) ([]message.ChatMessage, error) {
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		return m.Messages(), err
	}
	return nil, err
}

// Messages returns the conversation.
func (m Model) Messages() []message.ChatMessage {
	return append([]message.ChatMessage(nil), m.messages...)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.suggestions.Init(),
		m.settings.Init(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight(msg.Height))
			m.viewport.KeyMap = viewport.KeyMap{
				PageUp:   key.NewBinding(key.WithKeys("pgup")),
				PageDown: key.NewBinding(key.WithKeys("pgdown")),
			}
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight(msg.Height)
		}
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()

	case agentsLoadedMsg, agentsFailedMsg:
		var cmd tea.Cmd
		m.suggestions, cmd = m.suggestions.Update(msg)
		cmds = append(cmds, cmd)
		m.refresh()

	case credentialsLoadedMsg, credentialsSavedMsg:
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		cmds = append(cmds, cmd)

	case credentialsSyncedMsg:
		m.status = "X credentials synced with backend"

	case suggestionChosenMsg:
		m.input.SetValue(msg.text)
		m.input.CursorEnd()
		m.setFocus(focusInput)
		m.refresh()

	case chatReplyMsg:
		m.waiting = false
		m.err = nil
		m.appendMessage(msg.message)

	case chatFailedMsg:
		m.waiting = false
		m.err = msg.err
		log.WithError(msg.err).Error("backend request failed")

	case tweetPostedMsg:
		if msg.err != nil {
			m.err = msg.err
			log.WithError(msg.err).Error("failed to post tweet")
		} else {
			if i := m.indexOf(msg.id); i >= 0 {
				m.messages[i].Resolved = true
			}
			m.status = "Tweet posted"
			m.refresh()
		}

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config)
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Close) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.showSettings {
		if key.Matches(msg, m.keys.Close) || key.Matches(msg, m.keys.Settings) {
			m.showSettings = false
			return m, nil
		}
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		return m, cmd
	}

	if m.hotelForm.ModalOpen() {
		var cmd tea.Cmd
		m.hotelForm, cmd = m.hotelForm.Update(msg)
		m.refresh()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Settings):
		m.showSettings = true
		return m, m.settings.Init()
	case key.Matches(msg, m.keys.Close):
		// Esc leaves the form or suggestion list first; it quits from the input.
		if m.focus != focusInput {
			m.setFocus(focusInput)
			m.refresh()
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		m.cycleFocus()
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.confirmAction()
		return m, nil
	case key.Matches(msg, m.keys.CancelSwap):
		m.cancelSwap()
		return m, nil
	case key.Matches(msg, m.keys.PostTweet):
		cmd := m.postTweet()
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusSuggestions:
		m.suggestions, cmd = m.suggestions.Update(msg)
		m.refresh()
	case focusHotelForm:
		m.hotelForm, cmd = m.hotelForm.Update(msg)
		m.refresh()
	default:
		if key.Matches(msg, m.keys.Send) {
			cmd = m.send()
			return m, cmd
		}
		if key.Matches(msg, viewportKeys()...) {
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func viewportKeys() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("pgup")),
		key.NewBinding(key.WithKeys("pgdown")),
	}
}

func viewportHeight(total int) int {
	return max(total-6, 3)
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	m.suggestions.Blur()
	m.hotelForm.Blur()
	m.input.Blur()
	switch f {
	case focusSuggestions:
		m.suggestions.Focus()
	case focusHotelForm:
		m.hotelForm.Focus()
	default:
		m.input.Focus()
	}
}

func (m *Model) cycleFocus() {
	areas := []focusArea{focusInput}
	if m.showingSuggestions() && !m.suggestions.Empty() {
		areas = append(areas, focusSuggestions)
	}
	if m.hotelFormID != "" {
		areas = append(areas, focusHotelForm)
	}

	next := areas[0]
	for i, a := range areas {
		if a == m.focus {
			next = areas[(i+1)%len(areas)]
			break
		}
	}
	m.setFocus(next)
}

func (m Model) showingSuggestions() bool {
	return len(m.messages) == 0
}

func (m *Model) send() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting || m.backend == nil {
		return nil
	}
	m.input.Reset()
	m.err = nil
	m.status = ""
	m.waiting = true
	m.appendMessage(message.NewUserText(text))

	ctx, backend, chatID := m.ctx, m.backend, m.chatID
	return func() tea.Msg {
		reply, err := backend.Chat(ctx, chatID, text)
		if err != nil {
			return chatFailedMsg{err: err}
		}
		return chatReplyMsg{message: reply}
	}
}

func (m *Model) appendMessage(msg message.ChatMessage) {
	if err := msg.Validate(); err != nil {
		log.WithError(err).WithField("kind", string(msg.Kind)).Warn("message payload missing")
	}
	m.messages = append(m.messages, msg)
	m.metrics.RecordRender(string(msg.Kind))
	if m.focus == focusSuggestions {
		m.setFocus(focusInput)
	}
	m.attachHotelForm()
	m.refresh()
	m.viewport.GotoBottom()
}

// attachHotelForm binds a fresh form to the latest hotel message, if any.
func (m *Model) attachHotelForm() {
	idx := m.lastIndex(message.KindHotelSearch)
	if idx < 0 || m.messages[idx].HotelSearch == nil {
		if m.hotelFormID != "" && m.focus == focusHotelForm {
			m.setFocus(focusInput)
		}
		m.hotelFormID = ""
		return
	}
	id := m.messages[idx].ID
	if id == m.hotelFormID {
		return
	}

	form := NewHotelForm()
	ctx, backend := m.ctx, m.backend
	form.OnSubmit = func(search message.HotelSearch) tea.Cmd {
		log.WithFields(map[string]interface{}{
			"city":     search.City,
			"currency": search.Currency,
		}).Info("hotel search submitted")
		if backend == nil {
			return nil
		}
		return func() tea.Msg {
			reply, err := backend.ProcessHotels(ctx, search)
			if err != nil {
				return chatFailedMsg{err: err}
			}
			return chatReplyMsg{message: reply}
		}
	}
	m.hotelForm = form
	m.hotelFormID = id
}

func (m Model) indexOf(id string) int {
	for i := range m.messages {
		if m.messages[i].ID == id {
			return i
		}
	}
	return -1
}

func (m Model) lastIndex(kind message.Kind) int {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Kind == kind {
			return i
		}
	}
	return -1
}

// isActive reports whether messages[i] is the latest unresolved message
// of its kind.
func (m Model) isActive(i int) bool {
	msg := m.messages[i]
	switch msg.Kind {
	case message.KindSwap, message.KindClaim, message.KindTweet, message.KindHotelSearch:
	default:
		return false
	}
	return !msg.Resolved && m.lastIndex(msg.Kind) == i
}

func (m *Model) activeIndex(kind message.Kind) int {
	i := m.lastIndex(kind)
	if i < 0 || !m.isActive(i) {
		return -1
	}
	return i
}

// confirmAction submits the active swap, or the active claim when no swap
// is pending.
func (m *Model) confirmAction() {
	if i := m.activeIndex(message.KindSwap); i >= 0 && m.messages[i].Swap != nil {
		s := m.messages[i].Swap
		m.messages[i].Resolved = true
		m.status = fmt.Sprintf("Swap of %v %s to %s submitted for signing", s.SrcAmount, s.Src, s.Dst)
		log.WithFields(map[string]interface{}{
			"src":         s.Src,
			"dst":         s.Dst,
			"src_amount":  s.SrcAmount,
			"from_action": s.FromAction,
		}).Info("swap submitted")
		m.refresh()
		return
	}
	if i := m.activeIndex(message.KindClaim); i >= 0 && m.messages[i].Claim != nil {
		c := m.messages[i].Claim
		m.messages[i].Resolved = true
		m.status = fmt.Sprintf("Claim of %d transaction(s) submitted for signing", len(c.Transactions))
		log.WithField("transactions", len(c.Transactions)).Info("claim submitted")
		m.refresh()
	}
}

func (m *Model) cancelSwap() {
	i := m.activeIndex(message.KindSwap)
	if i < 0 {
		return
	}
	fromAction := 0
	if s := m.messages[i].Swap; s != nil {
		fromAction = s.FromAction
	}
	m.messages[i].Resolved = true
	m.status = "Swap cancelled"
	log.WithField("from_action", fromAction).Info("swap cancelled")
	m.refresh()
}

func (m *Model) postTweet() tea.Cmd {
	i := m.activeIndex(message.KindTweet)
	if i < 0 || m.backend == nil {
		return nil
	}
	id, content := m.messages[i].ID, m.messages[i].Text
	ctx, backend := m.ctx, m.backend
	m.status = "Posting tweet..."
	return func() tea.Msg {
		return tweetPostedMsg{id: id, err: backend.PostTweet(ctx, content)}
	}
}

func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if setter, ok := m.backend.(baseURLSetter); ok && setter.BaseURL() != strings.TrimRight(cfg.Backend.URL, "/") {
		setter.SetBaseURL(cfg.Backend.URL)
		m.status = "Backend changed to " + cfg.Backend.URL
	}
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
}

func (m Model) renderMessages() string {
	if m.showingSuggestions() {
		return m.suggestions.View()
	}

	var b strings.Builder
	for i, msg := range m.messages {
		b.WriteString(m.renderer.Header(msg, m.selectedAgent))
		b.WriteString("\n")
		active := m.isActive(i)
		if msg.ID == m.hotelFormID && active {
			b.WriteString(m.hotelForm.View())
		} else {
			b.WriteString(m.body(msg, active))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

// body returns the rendered body of msg, rendering it at most once per
// active state.
func (m Model) body(msg message.ChatMessage, active bool) string {
	k := bodyKey{id: msg.ID, active: active}
	if out, ok := m.bodies[k]; ok {
		return out
	}
	out := m.renderer.Render(msg, render.Options{Active: active})
	m.bodies[k] = out
	return out
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.showHelp {
		return placeModal(m.width, m.height, m.renderHelp())
	}
	if m.showSettings {
		return placeModal(m.width, m.height, m.settings.View())
	}
	if m.hotelForm.ModalOpen() {
		return placeModal(m.width, m.height, m.hotelForm.ModalView())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Morpheus Agents"))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	status := "Agent: " + m.catalog.DisplayName(m.selectedAgent)
	if m.waiting {
		status += " | Thinking..."
	}
	if m.status != "" {
		status += " | " + m.status
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("Press F1 or Esc to close"))
	return b.String()
}
