package bus

import (
	"context"
	"errors"
	"fmt"

	"github.com/regmap-project/regmap-go/pkg/register"
)

// ErrUnknownRegister is returned when a named register is not part of the
// bound space.
var ErrUnknownRegister = errors.New("register not present in space")

// Binding ties a register space to the bus it is mapped over. Sync and Flush
// move whole raw values; field-level manipulation stays on the registers
// themselves.
type Binding struct {
	space *register.Space
	bus   Bus
}

// NewBinding binds space to bus.
func NewBinding(space *register.Space, bus Bus) *Binding {
	return &Binding{space: space, bus: bus}
}

// Space returns the bound register space.
func (b *Binding) Space() *register.Space {
	return b.space
}

// Bus returns the underlying bus.
func (b *Binding) Bus() Bus {
	return b.bus
}

// Sync reads every register of the space from the bus into the model and
// marks the registers clean. A bus that hands back a value wider than the
// register aborts the sync.
func (b *Binding) Sync(ctx context.Context) error {
	for _, entry := range b.space.Entries() {
		if err := b.syncEntry(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// SyncRegister reads the named register from the bus into the model.
func (b *Binding) SyncRegister(ctx context.Context, name string) error {
	reg, ok := b.space.ByName(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRegister, name)
	}
	offset, _ := b.space.OffsetOf(name)
	return b.syncEntry(ctx, register.SpaceEntry{Offset: offset, Register: reg})
}

func (b *Binding) syncEntry(ctx context.Context, entry register.SpaceEntry) error {
	reg := entry.Register
	value, err := b.bus.Read(ctx, entry.Offset, reg.Width())
	if err != nil {
		return fmt.Errorf("syncing %s: %w", reg.Name(), err)
	}
	if err := reg.SetValue(value); err != nil {
		return fmt.Errorf("syncing %s: %w", reg.Name(), err)
	}
	reg.ClearDirty()
	return nil
}

// Flush writes every locally modified register back to the bus and marks it
// clean. Registers without local changes are skipped.
func (b *Binding) Flush(ctx context.Context) error {
	for _, entry := range b.space.Entries() {
		if !entry.Register.Dirty() {
			continue
		}
		if err := b.flushEntry(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// FlushRegister writes the named register back to the bus whether or not it
// has local changes.
func (b *Binding) FlushRegister(ctx context.Context, name string) error {
	reg, ok := b.space.ByName(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRegister, name)
	}
	offset, _ := b.space.OffsetOf(name)
	return b.flushEntry(ctx, register.SpaceEntry{Offset: offset, Register: reg})
}

func (b *Binding) flushEntry(ctx context.Context, entry register.SpaceEntry) error {
	reg := entry.Register
	if err := b.bus.Write(ctx, entry.Offset, reg.Width(), reg.Value()); err != nil {
		return fmt.Errorf("flushing %s: %w", reg.Name(), err)
	}
	reg.ClearDirty()
	return nil
}
