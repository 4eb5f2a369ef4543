package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/bitgrid/internal/logger"
)

const fileName = "ui-state.json"

// UIState holds persistent UI preferences that carry across runs.
type UIState struct {
	Help HelpState `json:"help"`
}

// HelpState holds the key help panel preference.
type HelpState struct {
	Expanded bool `json:"expanded"`
}

// DefaultUIState returns the state used when nothing was saved yet.
func DefaultUIState() *UIState {
	return &UIState{}
}

// DefaultDir returns $XDG_STATE_HOME/bitgrid, or ~/.local/state/bitgrid.
// It returns "" when neither location can be determined.
func DefaultDir() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "bitgrid")
}

// Load reads the UI state from dir. Returns the default state if the file
// doesn't exist or can't be parsed.
func Load(dir string) *UIState {
	path := filepath.Join(dir, fileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultUIState()
	}
	if err != nil {
		logger.Warn("Failed to read UI state file: %v", err)
		return DefaultUIState()
	}

	var s UIState
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Warn("Failed to parse UI state JSON: %v", err)
		return DefaultUIState()
	}
	return &s
}

// Save writes the UI state to dir, creating it if needed.
func Save(dir string, s *UIState) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing UI state file: %w", err)
	}

	logger.Debug("UI state saved to %s", path)
	return nil
}
