package register

import (
	"errors"
	"fmt"

	"github.com/regmap-project/regmap-go/pkg/bitfield"
)

// Field access errors.
var (
	// ErrFieldNotFound indicates a field name the layout does not declare.
	ErrFieldNotFound = errors.New("field not found")

	// ErrFieldNotReadable indicates a get on a field whose permission
	// excludes reading.
	ErrFieldNotReadable = errors.New("field is not readable")

	// ErrFieldNotWritable indicates a set on a field whose permission
	// excludes writing.
	ErrFieldNotWritable = errors.New("field is not writable")

	// ErrValueExceedsWidth indicates a raw value wider than the register.
	ErrValueExceedsWidth = errors.New("value exceeds register width")
)

// Register is one register value: a raw unsigned integer of the layout's
// width plus the shared, immutable layout describing its fields.
//
// A Register is created with a raw value of zero, holds no external
// resources, and performs no locking; see the package documentation for the
// concurrency contract.
type Register struct {
	layout *Layout
	raw    uint32
	dirty  bool
}

// New creates a register with raw value 0. The layout must come from
// NewLayout or MustLayout.
func New(layout *Layout) *Register {
	return &Register{layout: layout}
}

// Layout returns the register's layout.
func (r *Register) Layout() *Layout {
	return r.layout
}

// Name returns the layout's register name.
func (r *Register) Name() string {
	return r.layout.Name()
}

// Width returns the register's bit width.
func (r *Register) Width() Width {
	return r.layout.Width()
}

// Value returns the full raw value. It never fails and performs no
// permission checks; whole-register reads are the sink-side handoff.
func (r *Register) Value() uint32 {
	return r.raw
}

// SetValue replaces the raw value wholesale, without permission checks;
// whole-register writes are the source-side handoff. A value exceeding the
// register's width fails with ErrValueExceedsWidth and leaves the raw value
// unchanged.
func (r *Register) SetValue(value uint32) error {
	if value > r.layout.Width().Max() {
		return fmt.Errorf("%w: 0x%x in a %s register", ErrValueExceedsWidth, value, r.layout.Width())
	}
	if r.raw != value {
		r.raw = value
		r.dirty = true
	}
	return nil
}

// Clear sets the raw value to 0. It never fails.
func (r *Register) Clear() {
	if r.raw != 0 {
		r.raw = 0
		r.dirty = true
	}
}

// Dirty reports whether the raw value has changed since the last
// ClearDirty. It tracks the local side of the two-step handoff to a
// register-value sink: a flush is only needed while Dirty is true.
func (r *Register) Dirty() bool {
	return r.dirty
}

// ClearDirty marks the register as in sync with its source or sink.
func (r *Register) ClearDirty() {
	r.dirty = false
}

// Get returns the named field's value, right-aligned to bit 0. It fails
// with ErrFieldNotFound for unknown names and ErrFieldNotReadable when the
// field's permission excludes reading; on failure no meaningful value is
// returned.
func (r *Register) Get(name string) (uint32, error) {
	f, err := r.field(name)
	if err != nil {
		return 0, err
	}
	if !f.Access.CanRead() {
		return 0, fmt.Errorf("%w: %s.%s", ErrFieldNotReadable, r.layout.Name(), name)
	}
	return bitfield.Extract(r.raw, f.Start, f.End), nil
}

// GetInternal returns the named field's value without the permission
// check. It is the device-side accessor for owners of the register state,
// such as simulators and serving agents.
func (r *Register) GetInternal(name string) (uint32, error) {
	f, err := r.field(name)
	if err != nil {
		return 0, err
	}
	return bitfield.Extract(r.raw, f.Start, f.End), nil
}

// Set writes the named field, leaving all other bits unchanged. It fails
// with ErrFieldNotFound for unknown names, ErrFieldNotWritable when the
// field's permission excludes writing, and bitfield.ErrValueTooWide when
// the value does not fit the field. On any failure the raw value is
// unchanged.
func (r *Register) Set(name string, value uint32) error {
	f, err := r.field(name)
	if err != nil {
		return err
	}
	if !f.Access.CanWrite() {
		return fmt.Errorf("%w: %s.%s", ErrFieldNotWritable, r.layout.Name(), name)
	}
	return r.inject(f, name, value)
}

// SetInternal writes the named field without the permission check, keeping
// the existence and range checks. It is the device-side mutator used to
// model hardware updating its own read-only fields.
func (r *Register) SetInternal(name string, value uint32) error {
	f, err := r.field(name)
	if err != nil {
		return err
	}
	return r.inject(f, name, value)
}

// inject commits a validated field write and tracks dirtiness.
func (r *Register) inject(f FieldSpec, name string, value uint32) error {
	raw, err := bitfield.Inject(r.raw, f.Start, f.End, value)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", r.layout.Name(), name, err)
	}
	if raw != r.raw {
		r.raw = raw
		r.dirty = true
	}
	return nil
}

// field resolves a field name against the layout.
func (r *Register) field(name string) (FieldSpec, error) {
	f, ok := r.layout.Field(name)
	if !ok {
		return FieldSpec{}, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, r.layout.Name(), name)
	}
	return f, nil
}
