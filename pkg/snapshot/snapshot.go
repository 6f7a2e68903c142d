package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/regmap-project/regmap-go/pkg/register"
)

// StateVersion is the current version of the snapshot file format.
const StateVersion = 1

// SpaceState contains the persisted raw values of a register space.
type SpaceState struct {
	// Version is the snapshot file format version.
	Version int `yaml:"version"`

	// SavedAt is when the snapshot was taken.
	SavedAt time.Time `yaml:"savedAt"`

	// Space is the register space name.
	Space string `yaml:"space"`

	// Registers holds one entry per register, in offset order.
	Registers []RegisterState `yaml:"registers"`
}

// RegisterState is the persisted value of a single register.
type RegisterState struct {
	// Name is the register name.
	Name string `yaml:"name"`

	// Offset is the register offset within the space.
	Offset uint64 `yaml:"offset"`

	// Value is the raw register value.
	Value uint32 `yaml:"value"`
}

// Capture records the current raw values of every register in the space.
func Capture(space *register.Space) *SpaceState {
	state := &SpaceState{
		Version: StateVersion,
		SavedAt: time.Now(),
		Space:   space.Name(),
	}
	for _, entry := range space.Entries() {
		state.Registers = append(state.Registers, RegisterState{
			Name:   entry.Register.Name(),
			Offset: entry.Offset,
			Value:  entry.Register.Value(),
		})
	}
	return state
}

// Apply restores persisted raw values into the space and marks the restored
// registers clean. Every snapshot entry must name a register present in the
// space at the same offset; a mismatch means the snapshot belongs to a
// different layout.
func Apply(state *SpaceState, space *register.Space) error {
	for _, rs := range state.Registers {
		reg, ok := space.ByName(rs.Name)
		if !ok {
			return fmt.Errorf("snapshot register %s not present in space %s", rs.Name, space.Name())
		}
		offset, _ := space.OffsetOf(rs.Name)
		if offset != rs.Offset {
			return fmt.Errorf("snapshot register %s at offset 0x%02X, space has it at 0x%02X",
				rs.Name, rs.Offset, offset)
		}
		if err := reg.SetValue(rs.Value); err != nil {
			return fmt.Errorf("restoring %s: %w", rs.Name, err)
		}
		reg.ClearDirty()
	}
	return nil
}

// Store manages persistence of space snapshots to a YAML file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a new snapshot store.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save persists the space state to disk.
func (s *Store) Save(state *SpaceState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the space state from disk.
// Returns nil, nil if the file doesn't exist (no snapshot yet).
func (s *Store) Load() (*SpaceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &SpaceState{}
	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, err
	}

	return state, nil
}

// Clear removes the snapshot file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
