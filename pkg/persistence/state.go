package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// StateFileName is the state file name inside a state directory.
const StateFileName = "link.json"

// LinkState contains the persisted state of a panel link.
type LinkState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Controller is the last controller the link connected to.
	Controller *KnownController `json:"controller,omitempty"`

	// Restarts counts controller restarts seen over all sessions.
	Restarts int `json:"restarts,omitempty"`
}

// KnownController identifies a controller endpoint.
type KnownController struct {
	// Endpoint is a serial device path or a host:port address.
	Endpoint string `json:"endpoint"`

	// Instance is the mDNS instance name when the endpoint was discovered.
	Instance string `json:"instance,omitempty"`

	// Board and Firmware are taken from the discovery TXT records.
	Board    string `json:"board,omitempty"`
	Firmware string `json:"firmware,omitempty"`

	// LastSeenAt is when the controller last answered.
	LastSeenAt time.Time `json:"last_seen_at,omitempty"`
}

// LinkStateStore manages persistence of link state to a JSON file.
type LinkStateStore struct {
	mu   sync.Mutex
	path string
}

// NewLinkStateStore creates a store for the file at path.
func NewLinkStateStore(path string) *LinkStateStore {
	return &LinkStateStore{path: path}
}

// NewDirStore creates a store for StateFileName inside dir.
func NewDirStore(dir string) *LinkStateStore {
	return NewLinkStateStore(filepath.Join(dir, StateFileName))
}

// Path returns the state file path.
func (s *LinkStateStore) Path() string {
	return s.path
}

// Save persists the link state to disk. The file is replaced atomically.
func (s *LinkStateStore) Save(state *LinkState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the link state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *LinkStateStore) Load() (*LinkState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &LinkState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}

	return state, nil
}

// Update loads the state, applies fn and saves the result. A missing file
// starts from an empty state.
func (s *LinkStateStore) Update(fn func(state *LinkState)) error {
	state, err := s.Load()
	if err != nil {
		return err
	}
	if state == nil {
		state = &LinkState{}
	}
	fn(state)
	state.SavedAt = time.Time{}
	return s.Save(state)
}

// Clear removes the state file.
func (s *LinkStateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
