// Package bitfield implements the bit-range arithmetic that underpins
// register field access.
//
// # Bit Ranges
//
// A field occupies a contiguous, inclusive bit range [start, end] within a
// raw register value, with bit 0 the least significant bit:
//
//	             end         start
//	              v            v
//	raw:  31 .... 11 10 9 8 7 6 .... 0
//	              [  field bits  ]
//
// Extract returns the field's bits right-aligned to bit 0. Inject replaces
// exactly the field's bits, preserving every other bit of the raw value, and
// rejects values that do not fit in the field's width.
//
// # Contracts
//
// Callers guarantee start <= end and end below the register's bit width.
// These are definitional invariants of a register layout, validated once when
// the layout is constructed (see package register), not on every call. Inject
// validates only the value, which is runtime input.
//
// # Shift Safety
//
// Mask construction uses the form max >> (31 - (end - start)). With the full
// 32-bit maximum and end <= 31 the shift amount stays within [0, 31], so the
// width-1 top-bit case (end == 15 on a 16-bit register, end == 31 on a 32-bit
// register) involves no shift by the integer's full bit width.
package bitfield
