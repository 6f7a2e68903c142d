package bus

import (
	"context"
	"sync"

	"github.com/regmap-project/regmap-go/pkg/register"
)

// MemBus is an in-memory bus backed by a sparse cell map. Reads of offsets
// that were never written return zero, like uninitialized memory. Values are
// masked to the access width on both read and write.
//
// MemBus is safe for concurrent use and is what the agent simulation and the
// test suites run against.
type MemBus struct {
	mu    sync.RWMutex
	cells map[uint64]uint32
}

// NewMemBus creates an empty in-memory bus.
func NewMemBus() *MemBus {
	return &MemBus{cells: make(map[uint64]uint32)}
}

// Read returns the cell at offset, masked to width.
func (b *MemBus) Read(ctx context.Context, offset uint64, width register.Width) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cells[offset] & width.Max(), nil
}

// Write stores value into the cell at offset, masked to width.
func (b *MemBus) Write(ctx context.Context, offset uint64, width register.Width, value uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.cells[offset] = value & width.Max()
	return nil
}

// Poke stores a value directly, bypassing the Bus contract. It is the
// device-side backdoor the agent simulation uses to mutate hardware state
// underneath the model.
func (b *MemBus) Poke(offset uint64, value uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cells[offset] = value
}

// Peek returns the stored cell value without width masking.
func (b *MemBus) Peek(offset uint64) uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cells[offset]
}

// Reset drops all cells.
func (b *MemBus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cells = make(map[uint64]uint32)
}
