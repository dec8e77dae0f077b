package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmllorens/cartero/log"
)

const StateFileName = "state.json"

// AppState is the persistent UI state, separate from configuration: the
// config is what the user set, the state is what the app remembers.
type AppState interface {
	// GetHelpScreensSeen returns the bitmask of seen help screens.
	GetHelpScreensSeen() uint32
	// SetHelpScreensSeen persists the bitmask of seen help screens.
	SetHelpScreensSeen(seen uint32) error
	// GetLastDir returns the directory the browser last showed.
	GetLastDir() string
	// SetLastDir persists the directory the browser last showed.
	SetLastDir(dir string) error
}

// State implements AppState backed by a JSON file in the config dir.
type State struct {
	HelpScreensSeen uint32 `json:"help_screens_seen"`
	LastDir         string `json:"last_dir"`
}

// DefaultState returns the default empty state.
func DefaultState() *State {
	return &State{}
}

// LoadState loads the saved state, falling back to defaults on any
// error. A corrupt state file costs remembered positions, nothing more.
func LoadState() *State {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultState()
	}
	statePath := filepath.Join(configDir, StateFileName)

	data, err := os.ReadFile(statePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WarningLog.Printf("failed to read state file: %v", err)
		}
		return DefaultState()
	}

	state := DefaultState()
	if err := json.Unmarshal(data, state); err != nil {
		log.WarningLog.Printf("failed to parse state file: %v", err)
		return DefaultState()
	}
	return state
}

// SaveState writes the state file, creating the config dir when needed.
func SaveState(state *State) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	return os.WriteFile(filepath.Join(configDir, StateFileName), data, 0o644)
}

func (s *State) GetHelpScreensSeen() uint32 {
	return s.HelpScreensSeen
}

func (s *State) SetHelpScreensSeen(seen uint32) error {
	s.HelpScreensSeen = seen
	return SaveState(s)
}

func (s *State) GetLastDir() string {
	return s.LastDir
}

func (s *State) SetLastDir(dir string) error {
	s.LastDir = dir
	return SaveState(s)
}
