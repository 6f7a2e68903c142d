package pcie

import (
	"context"
	"errors"

	"github.com/regmap-project/regmap-go/pkg/bus"
	"github.com/regmap-project/regmap-go/pkg/register"
)

// SpaceName is the name of the register space holding the Link registers.
const SpaceName = "pcieCapability"

// ErrNotBound is returned by sync and flush operations before Bind.
var ErrNotBound = errors.New("capability set is not bound to a bus")

// CapabilitySet groups the Link registers of one PCI Express Capability
// structure at their architected offsets.
type CapabilitySet struct {
	LinkCapabilities *LinkCapabilities
	LinkControl      *LinkControl
	LinkStatus       *LinkStatus

	space   *register.Space
	binding *bus.Binding
}

// NewCapabilitySet creates the three Link registers and collects them into
// a space at their architected offsets. The set starts unbound; reads and
// writes stay local until Bind.
func NewCapabilitySet() *CapabilitySet {
	set := &CapabilitySet{
		LinkCapabilities: NewLinkCapabilities(),
		LinkControl:      NewLinkControl(),
		LinkStatus:       NewLinkStatus(),
	}

	space := register.NewSpace(SpaceName)
	// Offsets and names are static and distinct; AddRegister cannot fail.
	_ = space.AddRegister(LinkCapabilitiesOffset, set.LinkCapabilities.Register)
	_ = space.AddRegister(LinkControlOffset, set.LinkControl.Register)
	_ = space.AddRegister(LinkStatusOffset, set.LinkStatus.Register)
	set.space = space

	return set
}

// Space returns the set's register space.
func (c *CapabilitySet) Space() *register.Space {
	return c.space
}

// Bind attaches the set to a bus for sync and flush.
func (c *CapabilitySet) Bind(b bus.Bus) {
	c.binding = bus.NewBinding(c.space, b)
}

// SyncAll pulls all three registers from the bound bus, replacing local
// state and clearing dirty flags.
func (c *CapabilitySet) SyncAll(ctx context.Context) error {
	if c.binding == nil {
		return ErrNotBound
	}
	return c.binding.Sync(ctx)
}

// FlushAll pushes locally modified registers to the bound bus and clears
// their dirty flags. Unmodified registers are not written.
func (c *CapabilitySet) FlushAll(ctx context.Context) error {
	if c.binding == nil {
		return ErrNotBound
	}
	return c.binding.Flush(ctx)
}
