// Command pcie-example walks the PCI Express Link registers through the
// library's core flows over an in-memory bus.
//
// This example shows how to:
//   - Build the Link capability set and bind it to a bus
//   - Drive a 32-bit register through raw writes and masked field writes
//   - Hit the permission gate on a read-only field
//   - Flush local changes to the bus and sync device-side changes back
//   - Decode a synced register with the inspect formatter
//
// Usage:
//
//	go run ./cmd/pcie-example
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/regmap-project/regmap-go/pkg/bus"
	"github.com/regmap-project/regmap-go/pkg/inspect"
	"github.com/regmap-project/regmap-go/pkg/pcie"
	"github.com/regmap-project/regmap-go/pkg/register"
)

func main() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	log.Println("PCIe Link Register Walkthrough")
	log.Println("==============================")

	set := pcie.NewCapabilitySet()
	mem := bus.NewMemBus()
	set.Bind(mem)

	walkRawAndFields(set)
	walkPermissions(set)
	walkBusRoundTrip(set, mem)

	log.Println("Done.")
}

// walkRawAndFields drives the 32-bit linkCapabilities register through a
// raw write, field extraction, a clear, and two masked field writes.
func walkRawAndFields(set *pcie.CapabilitySet) {
	caps := set.LinkCapabilities

	log.Println("")
	log.Println("--- linkCapabilities: raw values and masked fields ---")

	if err := caps.SetValue(0xDEADBEEF); err != nil {
		log.Fatalf("SetValue failed: %v", err)
	}
	log.Printf("SetValue(0xDEADBEEF)         raw = %s", inspect.FormatHex(caps.Value(), caps.Width()))

	aspm, err := caps.AspmSupport()
	if err != nil {
		log.Fatalf("AspmSupport failed: %v", err)
	}
	log.Printf("AspmSupport()                = %d (%s)", aspm, enumName(caps.Register, pcie.LinkCapabilitiesFieldAspmSupport, aspm))

	caps.Clear()
	log.Printf("Clear()                      raw = %s", inspect.FormatHex(caps.Value(), caps.Width()))

	if err := caps.SetMaxLinkSpeed(0xF); err != nil {
		log.Fatalf("SetMaxLinkSpeed failed: %v", err)
	}
	log.Printf("SetMaxLinkSpeed(0xF)         raw = %s", inspect.FormatHex(caps.Value(), caps.Width()))

	if err := caps.SetPortNumber(0xFF); err != nil {
		log.Fatalf("SetPortNumber failed: %v", err)
	}
	log.Printf("SetPortNumber(0xFF)          raw = %s", inspect.FormatHex(caps.Value(), caps.Width()))
}

// walkPermissions shows the access gate on the 16-bit linkControl register.
// Reads of read-only fields pass; writes are denied and leave the register
// untouched.
func walkPermissions(set *pcie.CapabilitySet) {
	control := set.LinkControl

	log.Println("")
	log.Println("--- linkControl: field permissions ---")

	err := control.SetRootCompletionBoundary(1)
	if !errors.Is(err, register.ErrFieldNotWritable) {
		log.Fatalf("Expected a not-writable error, got: %v", err)
	}
	log.Printf("SetRootCompletionBoundary(1) denied: %v", err)
	log.Printf("                             raw = %s (unchanged)", inspect.FormatHex(control.Value(), control.Width()))

	if err := control.SetLinkDisable(1); err != nil {
		log.Fatalf("SetLinkDisable failed: %v", err)
	}
	disabled, err := control.LinkDisable()
	if err != nil {
		log.Fatalf("LinkDisable failed: %v", err)
	}
	log.Printf("SetLinkDisable(1)            raw = %s, LinkDisable() = %d", inspect.FormatHex(control.Value(), control.Width()), disabled)

	// Re-enable the link before the bus walkthrough.
	if err := control.SetLinkDisable(0); err != nil {
		log.Fatalf("SetLinkDisable failed: %v", err)
	}
}

// walkBusRoundTrip flushes local state to the bus, lets the device side
// finish link training in bus memory, and syncs the result back.
func walkBusRoundTrip(set *pcie.CapabilitySet, mem *bus.MemBus) {
	ctx := context.Background()

	log.Println("")
	log.Println("--- bus: flush, device-side training, sync ---")

	if err := set.LinkControl.SetRetrainLink(1); err != nil {
		log.Fatalf("SetRetrainLink failed: %v", err)
	}
	if err := set.FlushAll(ctx); err != nil {
		log.Fatalf("FlushAll failed: %v", err)
	}
	log.Printf("FlushAll()                   bus[0x%02X] = 0x%04X", pcie.LinkControlOffset, mem.Peek(pcie.LinkControlOffset))

	// The device completes training: Gen3, x8 lanes, data link active.
	trained := pcie.LinkStatusCurrentLinkSpeedGen3 | 8<<4 | 1<<13
	mem.Poke(pcie.LinkStatusOffset, trained)
	log.Printf("Device trains the link       bus[0x%02X] = 0x%04X", pcie.LinkStatusOffset, trained)

	if err := set.SyncAll(ctx); err != nil {
		log.Fatalf("SyncAll failed: %v", err)
	}

	speed, err := set.LinkStatus.CurrentLinkSpeed()
	if err != nil {
		log.Fatalf("CurrentLinkSpeed failed: %v", err)
	}
	width, err := set.LinkStatus.NegotiatedWidth()
	if err != nil {
		log.Fatalf("NegotiatedWidth failed: %v", err)
	}
	log.Printf("SyncAll()                    speed = Gen%d (%s), width = x%d", speed,
		enumName(set.LinkStatus.Register, pcie.LinkStatusFieldCurrentLinkSpeed, speed), width)

	formatter := inspect.NewFormatter()
	formatter.ShowDescriptions = true
	fmt.Println()
	fmt.Print(formatter.FormatRegister(set.LinkStatus.Register))
}

// enumName resolves a field value to its symbolic name, when one is defined.
func enumName(reg *register.Register, field string, value uint32) string {
	spec, ok := reg.Layout().Field(field)
	if !ok {
		return "unknown field"
	}
	if name := inspect.FormatEnumName(spec, value); name != "" {
		return name
	}
	return "unnamed"
}
