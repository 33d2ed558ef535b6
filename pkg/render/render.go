// Package render turns chat messages into terminal text. Every message is
// rendered by exactly one branch, chosen from its Kind.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/shawkym/moragents-tui/pkg/catalog"
	"github.com/shawkym/moragents-tui/pkg/log"
	"github.com/shawkym/moragents-tui/pkg/message"
)

// UserHeader is shown above messages typed by the user.
const UserHeader = "Me"

// MissingHotelSearch is shown when a hotel message carries no payload.
const MissingHotelSearch = "Error: Hotel search data is not available."

// TweetLimit is the maximum tweet length.
const TweetLimit = 280

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	userHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	staleCardStyle = cardStyle.
			BorderForeground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))
)

// Config configures a Renderer.
type Config struct {
	// Style is a glamour standard style name (dark, light, notty, ...).
	Style    string
	WordWrap int
	Catalog  *catalog.Catalog
}

// Options apply to a single Render call.
type Options struct {
	// Active marks the most recent actionable message of its kind. Only
	// active swap, claim, tweet and hotel views show enabled controls.
	Active bool
}

// Renderer renders messages. It is not safe for concurrent use; the TUI
// calls it from its event loop only.
type Renderer struct {
	md      *glamour.TermRenderer
	catalog *catalog.Catalog
}

// New creates a Renderer.
func New(cfg Config) (*Renderer, error) {
	if cfg.Style == "" {
		cfg.Style = "dark"
	}
	if cfg.WordWrap <= 0 {
		cfg.WordWrap = 80
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}

	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(cfg.Style),
		glamour.WithWordWrap(cfg.WordWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return &Renderer{md: md, catalog: cfg.Catalog}, nil
}

// Markdown renders markdown text. On failure the source text is returned.
func (r *Renderer) Markdown(text string) string {
	out, err := r.md.Render(text)
	if err != nil {
		log.WithError(err).Warn("markdown rendering failed")
		return text
	}
	return out
}

// HeaderName returns "Me" for user messages and otherwise the human name of
// the selected agent.
func (r *Renderer) HeaderName(msg message.ChatMessage, selectedAgent string) string {
	if msg.IsUser() {
		return UserHeader
	}
	return r.catalog.DisplayName(selectedAgent)
}

// Header renders the styled header line for msg.
func (r *Renderer) Header(msg message.ChatMessage, selectedAgent string) string {
	name := r.HeaderName(msg, selectedAgent)
	if msg.IsUser() {
		return userHeaderStyle.Render(name)
	}
	return headerStyle.Render(name)
}

// Render renders the body of msg. The output depends only on msg and
// opts, so callers may cache it.
func (r *Renderer) Render(msg message.ChatMessage, opts Options) string {
	switch msg.Kind {
	case message.KindText:
		return r.Markdown(msg.Text)
	case message.KindTweet:
		return Tweet(msg.Text, opts.Active)
	case message.KindImage:
		return r.image(msg.Image)
	case message.KindCryptoData:
		if msg.CryptoData == nil {
			return errorStyle.Render("Error: Crypto data is not available.")
		}
		return r.Markdown(msg.CryptoData.Data)
	case message.KindBase:
		if msg.Base == nil {
			return errorStyle.Render("Error: Base message is not available.")
		}
		return r.Markdown(msg.Base.Message)
	case message.KindHotelSearch:
		if msg.HotelSearch == nil {
			return errorStyle.Render(MissingHotelSearch)
		}
		return HotelSearch(*msg.HotelSearch, opts.Active)
	case message.KindSwap:
		return Swap(msg.Swap, opts.Active)
	case message.KindClaim:
		return Claim(msg.Claim, opts.Active)
	default:
		return Raw(msg.Raw)
	}
}

func (r *Renderer) image(img *message.Image) string {
	if img == nil {
		return errorStyle.Render("Error: Image data is not available.")
	}
	return fmt.Sprintf("Successfully generated image with %s", img.Service)
}

// Raw renders a payload as indented JSON.
func Raw(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// Tweet renders a tweet card with its character count.
func Tweet(text string, active bool) string {
	count := utf8.RuneCountInString(text)
	counter := fmt.Sprintf("%d/%d characters", count, TweetLimit)
	if count > TweetLimit {
		counter = errorStyle.Render(counter)
	} else {
		counter = mutedStyle.Render(counter)
	}

	lines := []string{text, "", counter}
	style := staleCardStyle
	if active {
		style = cardStyle
		lines = append(lines, mutedStyle.Render("[ctrl+p] post tweet"))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// HotelSearch renders a read-only summary of a hotel search draft.
func HotelSearch(s message.HotelSearch, active bool) string {
	rows := [][2]string{
		{"City", s.City},
		{"Check-in", s.CheckIn},
		{"Check-out", s.CheckOut},
		{"Adults", fmt.Sprint(s.Adults)},
		{"Children", fmt.Sprint(s.Children)},
		{"Rooms", fmt.Sprint(s.Rooms)},
		{"Currency", s.Currency},
		{"Price range", s.PriceRange},
		{"Rating", s.Rating},
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Hotel Search"))
	for _, row := range rows {
		value := row[1]
		if value == "" {
			value = mutedStyle.Render("-")
		}
		fmt.Fprintf(&b, "\n%-12s %s", row[0]+":", value)
	}

	style := staleCardStyle
	if active {
		style = cardStyle
	}
	return style.Render(b.String())
}

// Swap renders a swap confirmation view.
func Swap(s *message.Swap, active bool) string {
	if s == nil {
		return errorStyle.Render("Error: Swap data is not available.")
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Swap"))
	fmt.Fprintf(&b, "\n%s %s -> %s %s", formatAmount(s.SrcAmount), s.Src, formatAmount(s.DstAmount), s.Dst)
	if s.Status != "" {
		fmt.Fprintf(&b, "\nStatus: %s", s.Status)
	}
	return actionCard(b.String(), active, "[ctrl+y] confirm swap  [ctrl+n] cancel")
}

// Claim renders a reward claim confirmation view.
func Claim(c *message.Claim, active bool) string {
	if c == nil {
		return errorStyle.Render("Error: Claim data is not available.")
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Claim Rewards"))
	for _, tx := range c.Transactions {
		fmt.Fprintf(&b, "\nPool %d", tx.Pool)
	}
	if c.Status != "" {
		fmt.Fprintf(&b, "\nStatus: %s", c.Status)
	}
	return actionCard(b.String(), active, "[ctrl+y] claim")
}

func actionCard(body string, active bool, controls string) string {
	if !active {
		return staleCardStyle.Render(body + "\n" + mutedStyle.Render("(no longer active)"))
	}
	return cardStyle.Render(body + "\n" + mutedStyle.Render(controls))
}

func formatAmount(v float64) string {
	s := fmt.Sprintf("%.6f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
