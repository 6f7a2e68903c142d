package register

import (
	"errors"
	"fmt"

	"github.com/regmap-project/regmap-go/pkg/bitfield"
)

// Width is a register's bit width. Only 16 and 32 are valid.
type Width uint8

const (
	// Width16 is a 16-bit register.
	Width16 Width = 16

	// Width32 is a 32-bit register.
	Width32 Width = 32
)

// Valid reports whether w is a supported register width.
func (w Width) Valid() bool {
	return w == Width16 || w == Width32
}

// Bits returns the width as a bit count.
func (w Width) Bits() uint8 {
	return uint8(w)
}

// Bytes returns the width as a byte count.
func (w Width) Bytes() int {
	return int(w) / 8
}

// Max returns the largest raw value a register of this width can hold.
func (w Width) Max() uint32 {
	if w == Width16 {
		return bitfield.Max16
	}
	return bitfield.Max32
}

// String returns the width as a human-readable label.
func (w Width) String() string {
	return fmt.Sprintf("%d-bit", uint8(w))
}

// EnumValue is a named constant a field may hold. Enumerated values inform
// code generation and documentation only; the engine does not constrain
// field writes to them.
type EnumValue struct {
	// Name identifies the value within its field.
	Name string

	// Value is the field value the name stands for.
	Value uint32

	// Description explains the value.
	Description string
}

// FieldSpec is the static descriptor of one bit field: a contiguous,
// inclusive bit range [Start, End] with an access permission.
type FieldSpec struct {
	// Name identifies the field within its register.
	Name string

	// Start is the field's least significant bit position, 0-indexed.
	Start uint8

	// End is the field's most significant bit position, inclusive.
	End uint8

	// Access is the field's permission. The zero value is AccessNone;
	// definitions that omit a permission should use AccessReadWrite.
	Access Access

	// Description explains the field.
	Description string

	// Values lists named constants for the field, if any.
	Values []EnumValue
}

// Width returns the field's bit count.
func (f FieldSpec) Width() uint8 {
	return bitfield.Width(f.Start, f.End)
}

// Layout construction errors.
var (
	// ErrInvalidWidth indicates a register width other than 16 or 32.
	ErrInvalidWidth = errors.New("register width must be 16 or 32")

	// ErrInvalidBitRange indicates a reversed or out-of-width bit range.
	ErrInvalidBitRange = errors.New("invalid bit range")

	// ErrInvalidAccess indicates an access value outside the four defined states.
	ErrInvalidAccess = errors.New("invalid access value")

	// ErrEmptyName indicates a missing register or field name.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrDuplicateField indicates two fields with the same name in one layout.
	ErrDuplicateField = errors.New("duplicate field name")
)

// Layout is an immutable, validated register type: a name, a width, and an
// ordered collection of field descriptors. One Layout is shared by any
// number of Register instances.
type Layout struct {
	name   string
	width  Width
	fields []FieldSpec
	index  map[string]int
}

// NewLayout validates the field descriptors and builds a layout.
//
// It rejects invalid widths, empty names, reversed bit ranges, ranges
// exceeding the register width, invalid access values, and duplicate field
// names. Overlapping ranges are permitted.
func NewLayout(name string, width Width, fields []FieldSpec) (*Layout, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: register", ErrEmptyName)
	}
	if !width.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWidth, uint8(width))
	}

	l := &Layout{
		name:   name,
		width:  width,
		fields: make([]FieldSpec, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: field %d of %s", ErrEmptyName, i, name)
		}
		if f.Start > f.End {
			return nil, fmt.Errorf("%w: field %s has start %d > end %d", ErrInvalidBitRange, f.Name, f.Start, f.End)
		}
		if f.End >= width.Bits() {
			return nil, fmt.Errorf("%w: field %s ends at bit %d of a %s register", ErrInvalidBitRange, f.Name, f.End, width)
		}
		if !f.Access.Valid() {
			return nil, fmt.Errorf("%w: field %s", ErrInvalidAccess, f.Name)
		}
		if _, exists := l.index[f.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, f.Name)
		}

		l.fields[i] = f
		l.index[f.Name] = i
	}

	return l, nil
}

// MustLayout is like NewLayout but panics on error. It is intended for
// static definitions, in particular generated code, where a malformed
// definition is a programming error that must surface before any register
// instance exists.
func MustLayout(name string, width Width, fields []FieldSpec) *Layout {
	l, err := NewLayout(name, width, fields)
	if err != nil {
		panic(fmt.Sprintf("register: invalid layout %s: %v", name, err))
	}
	return l
}

// Name returns the register type's name.
func (l *Layout) Name() string {
	return l.name
}

// Width returns the register's bit width.
func (l *Layout) Width() Width {
	return l.width
}

// NumFields returns the number of declared fields.
func (l *Layout) NumFields() int {
	return len(l.fields)
}

// Fields returns a copy of the field descriptors in definition order.
func (l *Layout) Fields() []FieldSpec {
	out := make([]FieldSpec, len(l.fields))
	copy(out, l.fields)
	return out
}

// Field looks up a field descriptor by name.
func (l *Layout) Field(name string) (FieldSpec, bool) {
	i, ok := l.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return l.fields[i], true
}
