package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/subscription"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// State is the on-disk form of the catalogue.
type State struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Places are the stored places, ordered by ID.
	Places []subscription.Place `json:"places,omitempty"`

	// Subscriptions are stored without their resolved place.
	Subscriptions []subscription.Subscription `json:"subscriptions,omitempty"`
}

func stateOf(places map[string]subscription.Place, subs map[string]subscription.Subscription) *State {
	st := &State{
		Places:        make([]subscription.Place, 0, len(places)),
		Subscriptions: make([]subscription.Subscription, 0, len(subs)),
	}
	for _, p := range places {
		st.Places = append(st.Places, p)
	}
	sort.Slice(st.Places, func(i, j int) bool { return st.Places[i].ID < st.Places[j].ID })
	for _, s := range subs {
		st.Subscriptions = append(st.Subscriptions, s.Clone())
	}
	sortSubscriptions(st.Subscriptions)
	return st
}

// FileStore is a MemoryStore that writes the whole catalogue to a JSON
// file on every change.
type FileStore struct {
	*MemoryStore
	path string
}

// OpenFileStore loads the state file at path. A missing file yields an
// empty store; the file is created on the first write.
func OpenFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store: file store needs a path")
	}

	fs := &FileStore{path: path}
	state, err := fs.Load()
	if err != nil {
		return nil, fmt.Errorf("store: load %s: %w", path, err)
	}
	if state != nil && state.Version > StateVersion {
		return nil, fmt.Errorf("store: %s has unsupported version %d", path, state.Version)
	}

	fs.MemoryStore = newMemory(state)
	fs.MemoryStore.save = fs.Save
	fs.MemoryStore.hub.publish(fs.MemoryStore.list())
	return fs, nil
}

// Path returns the state file path.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes state to disk through a temporary file.
func (s *FileStore) Save(state *State) error {
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

// Load reads the state file.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &State{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	return state, nil
}

var _ Store = (*FileStore)(nil)
