// Package register implements the typed register model.
//
// # Model Hierarchy
//
// The model is a 3-level hierarchy:
//
//	Space > Register > Field
//
// A Space is a named block of registers at unique byte offsets, mirroring a
// hardware register block such as a PCIe capability structure. A Register is
// one fixed-width (16- or 32-bit) raw value described by a Layout. A Layout
// names the register's fields: contiguous bit ranges, each with an access
// permission.
//
//	Space (pcieExpressCapability)
//	├── 0x0C linkCapabilities (32-bit)
//	│   ├── maxLinkSpeed   [3:0]   readWrite
//	│   ├── aspmSupport    [11:10] readWrite
//	│   └── portNumber     [31:24] readWrite
//	├── 0x10 linkControl (16-bit)
//	│   ├── rootCompletionBoundary [3] read
//	│   └── linkDisable            [4] readWrite
//	└── 0x12 linkStatus (16-bit)
//
// # Layouts
//
// A Layout is built once from field descriptors and is immutable afterwards.
// Construction rejects malformed definitions: invalid width, reversed or
// out-of-width bit ranges, empty or duplicate field names, unknown access
// values. Overlapping ranges are permitted; fields are views onto the same
// raw bits, and a write to one overlapping field replaces the shared bits.
// Any number of Registers may share one Layout.
//
// # Access Control
//
// Each field carries an Access permission:
//   - AccessNone: neither readable nor writable by field name
//   - AccessRead: readable only
//   - AccessWrite: writable only
//   - AccessReadWrite: both (the default)
//
// Get and Set enforce the permission and report violations as distinct
// errors, never as in-band values. GetInternal and SetInternal bypass the
// permission check for the device side of the model (simulators, agents)
// while keeping existence and range checks.
//
// # Whole-Register Access
//
// Value, SetValue and Clear operate on the raw value without permission
// checks; they are the handoff points to a register-value source or sink
// (package bus). Bits not covered by any field remain present in the raw
// value and are preserved across field writes.
//
// # Concurrency
//
// Registers, Layouts after construction, and Spaces perform no locking and
// no I/O. A Register represents one in-memory snapshot of a register value
// and is intended for a single goroutine; owners that share instances must
// serialize access.
package register
