package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WireMessage is the backend's message shape. Content is either a JSON
// string or an object whose layout depends on Role and AgentName.
type WireMessage struct {
	Role      Role            `json:"role"`
	AgentName string          `json:"agentName,omitempty"`
	Content   json.RawMessage `json:"content"`
}

// Classify picks the Kind for a wire message. Predicates run in order
// and the first match wins, so plain text always beats role or agent tags.
func Classify(role Role, agentName string, content json.RawMessage) Kind {
	if isJSONString(content) {
		if agentName == AgentTweetSizzler {
			return KindTweet
		}
		return KindText
	}

	switch {
	case agentName == AgentImagen:
		return KindImage
	case agentName == AgentCryptoData:
		return KindCryptoData
	case role == RoleHotelFinder:
		return KindHotelSearch
	case agentName == AgentBase:
		return KindBase
	case role == RoleSwap:
		return KindSwap
	case role == RoleClaim:
		return KindClaim
	}
	return KindRaw
}

// FromWire converts a backend message into a ChatMessage, decoding the
// payload for its kind. A payload that does not decode degrades to KindRaw.
func FromWire(w WireMessage) ChatMessage {
	msg := ChatMessage{
		ID:        uuid.NewString(),
		Role:      w.Role,
		AgentName: w.AgentName,
		Kind:      Classify(w.Role, w.AgentName, w.Content),
		CreatedAt: time.Now(),
	}

	var err error
	switch msg.Kind {
	case KindText, KindTweet:
		err = json.Unmarshal(w.Content, &msg.Text)
	case KindImage:
		err = decodeNonNull(w.Content, &msg.Image)
	case KindCryptoData:
		err = decodeNonNull(w.Content, &msg.CryptoData)
	case KindHotelSearch:
		err = decodeNonNull(w.Content, &msg.HotelSearch)
	case KindBase:
		err = decodeNonNull(w.Content, &msg.Base)
	case KindSwap:
		err = decodeNonNull(w.Content, &msg.Swap)
	case KindClaim:
		err = decodeNonNull(w.Content, &msg.Claim)
	}

	if err != nil || msg.Kind == KindRaw {
		msg.Kind = KindRaw
		msg.Text = ""
		msg.Raw = append(json.RawMessage(nil), w.Content...)
	}
	return msg
}

// DecodeWire parses a backend response body into a ChatMessage.
func DecodeWire(data []byte) (ChatMessage, error) {
	var w WireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return ChatMessage{}, fmt.Errorf("failed to decode message: %w", err)
	}
	return FromWire(w), nil
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}

// decodeNonNull leaves the hotel form's "data is not available" case
// intact: a null payload keeps the kind but no value.
func decodeNonNull(raw json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return json.Unmarshal(raw, v)
}
