package bus

import (
	"context"

	"github.com/regmap-project/regmap-go/pkg/register"
)

// Bus reads and writes raw register values by offset.
// Implemented by MemBus, remote.Client and trace.InstrumentedBus.
type Bus interface {
	// Read returns the value of the register cell at offset, masked to width.
	Read(ctx context.Context, offset uint64, width register.Width) (uint32, error)

	// Write stores value into the register cell at offset, masked to width.
	Write(ctx context.Context, offset uint64, width register.Width, value uint32) error
}

// Compile-time interface satisfaction check.
var _ Bus = (*MemBus)(nil)
