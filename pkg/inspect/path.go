// Package inspect provides register inspection and display utilities.
//
// The inspect package offers a unified surface for:
//   - Parsing path expressions (e.g., "linkControl/linkDisable")
//   - Parsing user-supplied values (decimal, hex, binary)
//   - Formatting registers and fields for display
package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Path errors.
var (
	ErrEmptyPath     = errors.New("empty path")
	ErrInvalidPath   = errors.New("invalid path format")
	ErrInvalidNumber = errors.New("invalid numeric value")
)

// Path represents a parsed inspection path.
// Format: register or register/field
type Path struct {
	// Register is the register name.
	Register string

	// Field is the field name (empty when IsPartial).
	Field string

	// IsPartial indicates the path doesn't include a field
	// (used for inspect operations that show all fields).
	IsPartial bool

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path string into a Path struct.
//
// Supported formats:
//   - "register/field" - one field
//   - "register" - partial (for listing fields)
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}

	// Check for invalid patterns
	if strings.HasPrefix(input, "/") || strings.HasSuffix(input, "/") || strings.Contains(input, "//") {
		return nil, ErrInvalidPath
	}

	parts := strings.Split(input, "/")
	p := &Path{Raw: input}

	switch len(parts) {
	case 1:
		p.Register = parts[0]
		p.IsPartial = true
	case 2:
		p.Register = parts[0]
		p.Field = parts[1]
	default:
		return nil, fmt.Errorf("%w: %q has %d segments, want register or register/field",
			ErrInvalidPath, input, len(parts))
	}

	return p, nil
}

// String returns the path as a string.
func (p *Path) String() string {
	if p.IsPartial {
		return p.Register
	}
	return p.Register + "/" + p.Field
}

// ParseValue parses a register or field value from a string.
// Accepts decimal, hex (0x prefix) and binary (0b prefix) forms.
func ParseValue(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidNumber)
	}

	var v uint64
	var err error

	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err = strconv.ParseUint(s[2:], 16, 32)
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		v, err = strconv.ParseUint(s[2:], 2, 32)
	default:
		v, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, s)
	}
	return uint32(v), nil
}
