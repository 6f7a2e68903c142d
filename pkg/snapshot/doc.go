// Package snapshot provides register space state persistence.
//
// This package handles the YAML serialization of space state (raw register
// values by name and offset) so that a simulated device survives restarts
// and interesting register states can be carried between tools. The field
// layouts themselves are not persisted; they come from definitions.
package snapshot
