// Package bus abstracts the backing store a register space is mapped over.
//
// A Bus moves raw register values between the model and whatever sits behind
// it: test memory, a remote agent, or an instrumented decorator. The model
// side stays synchronous; Sync pulls device state into the registers and
// Flush pushes locally modified registers back out.
package bus
