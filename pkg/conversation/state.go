// Package conversation saves chat transcripts so a session can be resumed.
package conversation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shawkym/moragents-tui/pkg/log"
	"github.com/shawkym/moragents-tui/pkg/message"
)

// StateVersion is the transcript file format version.
const StateVersion = "1.0"

// State is a saved chat transcript.
type State struct {
	// Version is the state file format version
	Version string `json:"version"`

	// SavedAt is when the state was saved
	SavedAt time.Time `json:"saved_at"`

	// ChatID is the backend conversation id, sent again on resume
	ChatID string `json:"chat_id,omitempty"`

	// SelectedAgent is the agent whose name headed assistant messages
	SelectedAgent string `json:"selected_agent,omitempty"`

	// Messages is the conversation history
	Messages []message.ChatMessage `json:"messages"`

	Metadata StateMetadata `json:"metadata"`
}

// StateMetadata contains metadata about a saved transcript.
type StateMetadata struct {
	TotalMessages int       `json:"total_messages"`
	UserMessages  int       `json:"user_messages"`
	StartedAt     time.Time `json:"started_at"`
	// TotalDuration is the session length in milliseconds
	TotalDuration int64  `json:"total_duration_ms"`
	Description   string `json:"description,omitempty"`
}

// NewState creates a transcript from a finished session.
func NewState(chatID, selectedAgent string, messages []message.ChatMessage, startedAt time.Time) *State {
	users := 0
	for _, m := range messages {
		if m.IsUser() {
			users++
		}
	}
	return &State{
		Version:       StateVersion,
		SavedAt:       time.Now(),
		ChatID:        chatID,
		SelectedAgent: selectedAgent,
		Messages:      messages,
		Metadata: StateMetadata{
			TotalMessages: len(messages),
			UserMessages:  users,
			StartedAt:     startedAt,
			TotalDuration: time.Since(startedAt).Milliseconds(),
		},
	}
}

// Save writes the transcript to a file.
// The file is created with 0600 permissions (read/write for owner only).
func (s *State) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.WithError(err).WithField("directory", dir).Error("failed to create transcript directory")
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		log.WithError(err).Error("failed to marshal transcript")
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		log.WithError(err).WithField("path", path).Error("failed to write transcript file")
		return fmt.Errorf("failed to write state file: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"path":      path,
		"messages":  len(s.Messages),
		"file_size": len(data),
	}).Info("transcript saved")

	return nil
}

// LoadState loads a transcript. Messages whose payload does not match their
// kind are kept; the renderer shows an inline error for them.
func LoadState(path string) (*State, error) {
	log.WithField("path", path).Debug("loading transcript")

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("failed to read transcript file")
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		log.WithError(err).WithField("path", path).Error("failed to parse transcript file")
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	invalid := 0
	for _, m := range state.Messages {
		if err := m.Validate(); err != nil {
			invalid++
		}
	}

	log.WithFields(map[string]interface{}{
		"path":     path,
		"version":  state.Version,
		"messages": len(state.Messages),
		"invalid":  invalid,
		"saved_at": state.SavedAt,
	}).Info("transcript loaded")

	return &state, nil
}

// GenerateStateFileName generates a filename for a transcript.
// Format: transcript-YYYYMMDD-HHMMSS.json
func GenerateStateFileName() string {
	return fmt.Sprintf("transcript-%s.json", time.Now().Format("20060102-150405"))
}

// ListStates lists saved transcripts in a directory, oldest first.
func ListStates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read state directory: %w", err)
	}

	states := make([]string, 0)
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			states = append(states, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(states)

	return states, nil
}

// StateInfo contains summary information about a saved transcript.
type StateInfo struct {
	Path          string
	SavedAt       time.Time
	StartedAt     time.Time
	Messages      int
	UserMessages  int
	SelectedAgent string
	ChatID        string
}

// GetStateInfo reads summary information from a transcript file.
func GetStateInfo(path string) (*StateInfo, error) {
	state, err := LoadState(path)
	if err != nil {
		return nil, err
	}

	return &StateInfo{
		Path:          path,
		SavedAt:       state.SavedAt,
		StartedAt:     state.Metadata.StartedAt,
		Messages:      len(state.Messages),
		UserMessages:  state.Metadata.UserMessages,
		SelectedAgent: state.SelectedAgent,
		ChatID:        state.ChatID,
	}, nil
}
