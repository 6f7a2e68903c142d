// Package schema parses declarative YAML register definitions and builds
// validated layouts from them.
//
// One YAML document describes one register:
//
//	register: linkControl
//	width: 16
//	offset: 0x10
//	description: Link Control register.
//	fields:
//	  - name: aspmControl
//	    start: 0
//	    end: 1
//	    access: readWrite
//	  - name: rootCompletionBoundary
//	    bit: 3
//	    access: read
//
// "bit: N" is shorthand for a single-bit field. A field without an access
// entry defaults to readWrite. Offsets are optional and only required when
// definitions are assembled into a register space.
//
// The same definitions feed the regmap-gen code generator, the regmap-docgen
// datasheet generator, and runtime construction via BuildLayout/BuildSpace.
package schema
