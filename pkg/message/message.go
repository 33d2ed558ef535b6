// Package message defines chat messages exchanged with the crypto-assistant
// backend. Content is a tagged union: Kind names which payload is set.
package message

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser        Role = "user"
	RoleAssistant   Role = "assistant"
	RoleSwap        Role = "swap"
	RoleClaim       Role = "claim"
	RoleHotelFinder Role = "hotel_finder"
	RoleSystem      Role = "system"
)

// Kind is the discriminant of a message's content.
type Kind string

const (
	KindText        Kind = "text"
	KindTweet       Kind = "tweet"
	KindImage       Kind = "image"
	KindCryptoData  Kind = "crypto_data"
	KindHotelSearch Kind = "hotel_search"
	KindBase        Kind = "base"
	KindSwap        Kind = "swap"
	KindClaim       Kind = "claim"
	KindRaw         Kind = "raw"
)

// Agent tags with dedicated content shapes.
const (
	AgentTweetSizzler = "tweet sizzler"
	AgentImagen       = "imagen"
	AgentCryptoData   = "crypto data"
	AgentBase         = "base"
)

// ChatMessage is one entry of a conversation.
// Exactly one payload field matching Kind is set; Text carries the
// content of KindText and KindTweet.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	AgentName string    `json:"agentName,omitempty"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
	// Resolved is set once the user acted on the message (confirmed or
	// cancelled a swap, confirmed a claim, posted a tweet).
	Resolved bool `json:"resolved,omitempty"`

	Text        string          `json:"text,omitempty"`
	Image       *Image          `json:"image,omitempty"`
	CryptoData  *CryptoData     `json:"cryptoData,omitempty"`
	HotelSearch *HotelSearch    `json:"hotelSearch,omitempty"`
	Base        *Base           `json:"base,omitempty"`
	Swap        *Swap           `json:"swap,omitempty"`
	Claim       *Claim          `json:"claim,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}

// NewText builds a plain text message.
func NewText(role Role, agentName, text string) ChatMessage {
	kind := KindText
	if agentName == AgentTweetSizzler {
		kind = KindTweet
	}
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		AgentName: agentName,
		Kind:      kind,
		CreatedAt: time.Now(),
		Text:      text,
	}
}

// NewUserText builds a message typed by the user.
func NewUserText(text string) ChatMessage {
	return NewText(RoleUser, "", text)
}

// NewHotelSearch builds a hotel_finder message carrying a search draft.
func NewHotelSearch(agentName string, search HotelSearch) ChatMessage {
	return ChatMessage{
		ID:          uuid.NewString(),
		Role:        RoleHotelFinder,
		AgentName:   agentName,
		Kind:        KindHotelSearch,
		CreatedAt:   time.Now(),
		HotelSearch: &search,
	}
}

// IsUser reports whether the user wrote the message.
func (m ChatMessage) IsUser() bool {
	return m.Role == RoleUser
}

// Payload returns the value carried for the message's kind.
func (m ChatMessage) Payload() interface{} {
	switch m.Kind {
	case KindText, KindTweet:
		return m.Text
	case KindImage:
		return m.Image
	case KindCryptoData:
		return m.CryptoData
	case KindHotelSearch:
		return m.HotelSearch
	case KindBase:
		return m.Base
	case KindSwap:
		return m.Swap
	case KindClaim:
		return m.Claim
	default:
		return m.Raw
	}
}

// Validate checks that the payload for Kind is present.
func (m ChatMessage) Validate() error {
	missing := false
	switch m.Kind {
	case KindText, KindTweet:
	case KindImage:
		missing = m.Image == nil
	case KindCryptoData:
		missing = m.CryptoData == nil
	case KindHotelSearch:
		missing = m.HotelSearch == nil
	case KindBase:
		missing = m.Base == nil
	case KindSwap:
		missing = m.Swap == nil
	case KindClaim:
		missing = m.Claim == nil
	case KindRaw:
	default:
		return fmt.Errorf("unknown message kind %q", m.Kind)
	}
	if missing {
		return fmt.Errorf("message %s: %s payload is missing", m.ID, m.Kind)
	}
	return nil
}
