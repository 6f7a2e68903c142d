package register

import (
	"errors"
	"fmt"
)

// Space errors.
var (
	// ErrDuplicateOffset indicates two registers at the same offset.
	ErrDuplicateOffset = errors.New("duplicate register offset")

	// ErrDuplicateRegister indicates two registers with the same name.
	ErrDuplicateRegister = errors.New("duplicate register name")

	// ErrNilRegister indicates an attempt to add a nil register.
	ErrNilRegister = errors.New("register must not be nil")
)

// SpaceEntry is one register at its byte offset within a space.
type SpaceEntry struct {
	// Offset is the register's byte offset within the space.
	Offset uint64

	// Register is the register instance at that offset.
	Register *Register
}

// Space is a named block of registers at unique byte offsets with unique
// register names, mirroring a hardware register block. Entries keep their
// insertion order. Like Register, a Space performs no locking.
type Space struct {
	name     string
	entries  []SpaceEntry
	byName   map[string]int
	byOffset map[uint64]int
}

// NewSpace creates an empty register space.
func NewSpace(name string) *Space {
	return &Space{
		name:     name,
		byName:   make(map[string]int),
		byOffset: make(map[uint64]int),
	}
}

// Name returns the space's name.
func (s *Space) Name() string {
	return s.name
}

// Len returns the number of registers in the space.
func (s *Space) Len() int {
	return len(s.entries)
}

// AddRegister places a register at a byte offset. Offsets and register
// names must be unique within the space.
func (s *Space) AddRegister(offset uint64, reg *Register) error {
	if reg == nil {
		return ErrNilRegister
	}
	if _, exists := s.byOffset[offset]; exists {
		return fmt.Errorf("%w: 0x%x", ErrDuplicateOffset, offset)
	}
	name := reg.Name()
	if _, exists := s.byName[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRegister, name)
	}

	s.entries = append(s.entries, SpaceEntry{Offset: offset, Register: reg})
	s.byName[name] = len(s.entries) - 1
	s.byOffset[offset] = len(s.entries) - 1
	return nil
}

// ByName looks up a register by its layout name.
func (s *Space) ByName(name string) (*Register, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.entries[i].Register, true
}

// At looks up a register by its byte offset.
func (s *Space) At(offset uint64) (*Register, bool) {
	i, ok := s.byOffset[offset]
	if !ok {
		return nil, false
	}
	return s.entries[i].Register, true
}

// OffsetOf returns the byte offset of the named register.
func (s *Space) OffsetOf(name string) (uint64, bool) {
	i, ok := s.byName[name]
	if !ok {
		return 0, false
	}
	return s.entries[i].Offset, true
}

// Entries returns a copy of the space's entries in insertion order.
func (s *Space) Entries() []SpaceEntry {
	out := make([]SpaceEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
