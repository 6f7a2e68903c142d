package bitfield

import (
	"errors"
	"fmt"
)

// Full-width maximum values for the supported register widths.
const (
	// Max16 is the largest value a 16-bit register can hold.
	Max16 uint32 = 0xFFFF

	// Max32 is the largest value a 32-bit register can hold.
	Max32 uint32 = 0xFFFFFFFF
)

// ErrValueTooWide indicates a value that does not fit in a field's bit width.
var ErrValueTooWide = errors.New("value does not fit in field")

// Width returns the number of bits in the inclusive range [start, end].
func Width(start, end uint8) uint8 {
	return end - start + 1
}

// Mask returns a value with ones in exactly the bit positions [start, end].
//
// The shift amount 31-(end-start) stays within [0, 31] for any valid range,
// so a field reaching the top bit never shifts by the full integer width.
func Mask(start, end uint8) uint32 {
	return (Max32 >> (31 - uint32(end-start))) << start
}

// Extract returns the value of bits [start, end] of raw, right-aligned to
// bit 0. It has no error conditions; the range is a definitional invariant
// guaranteed by the caller.
func Extract(raw uint32, start, end uint8) uint32 {
	return (raw >> start) & (Max32 >> (31 - uint32(end-start)))
}

// Fits reports whether value is representable in a field spanning
// [start, end].
func Fits(value uint32, start, end uint8) bool {
	w := Width(start, end)
	if w >= 32 {
		return true
	}
	return value < 1<<w
}

// Inject returns raw with bits [start, end] replaced by value and all other
// bits preserved. If value does not fit in the field's width it returns raw
// unmodified and ErrValueTooWide.
func Inject(raw uint32, start, end uint8, value uint32) (uint32, error) {
	if !Fits(value, start, end) {
		return raw, fmt.Errorf("%w: 0x%x exceeds %d bits", ErrValueTooWide, value, Width(start, end))
	}

	cleared := raw &^ Mask(start, end)
	return cleared | value<<start, nil
}
