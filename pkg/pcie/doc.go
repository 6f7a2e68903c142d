// Package pcie provides typed register wrappers for the PCI Express
// Capability structure's Link registers.
//
// The wrapper types and layouts in the *_gen.go files are generated by
// regmap-gen from the YAML definitions under defs/; regenerate with:
//
//	regmap-gen -defs pkg/pcie/defs -output pkg/pcie -package pcie
//
// # Registers
//
//   - linkCapabilities (32-bit, offset 0x0C): static link capabilities
//   - linkControl (16-bit, offset 0x10): link control, permission-checked
//   - linkStatus (16-bit, offset 0x12): link status, read-only fields
//
// # Usage
//
// Registers are created individually or grouped as a CapabilitySet at
// their architected offsets:
//
//	set := pcie.NewCapabilitySet()
//	set.Bind(bus.NewMemBus())
//
//	if err := set.SyncAll(ctx); err != nil {
//	    return err
//	}
//
//	speed, err := set.LinkCapabilities.MaxLinkSpeed()
//
// Field accessors go through the permission-gated paths; writing a
// read-only field such as linkControl's rootCompletionBoundary fails with
// register.ErrFieldNotWritable. Device-side code (simulators, agents)
// mutates gated fields through the embedded Register's SetInternal:
//
//	set.LinkStatus.SetInternal(pcie.LinkStatusFieldLinkTraining, 1)
package pcie
