package trace

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/regmap-project/regmap-go/pkg/bus"
	"github.com/regmap-project/regmap-go/pkg/register"
)

// InstrumentedBus wraps a bus and records every raw transfer that crosses
// it. Failures are recorded with the error inline; capture never changes the
// outcome of a transfer.
type InstrumentedBus struct {
	inner     bus.Bus
	recorder  Recorder
	captureID string
	space     string
	role      Role
}

// NewInstrumentedBus wraps inner with capture. A fresh capture ID is
// generated for the session. A nil recorder disables capture.
func NewInstrumentedBus(inner bus.Bus, recorder Recorder, space string) *InstrumentedBus {
	if recorder == nil {
		recorder = NoopRecorder{}
	}
	return &InstrumentedBus{
		inner:     inner,
		recorder:  recorder,
		captureID: uuid.NewString(),
		space:     space,
	}
}

// SetRole marks subsequent events with role. The default is RoleHost.
func (b *InstrumentedBus) SetRole(role Role) {
	b.role = role
}

// SetCaptureID replaces the generated capture ID. Use it to keep one
// capture session across bus swaps, such as a host moving between a local
// and a remote bus while recording.
func (b *InstrumentedBus) SetCaptureID(id string) {
	b.captureID = id
}

// CaptureID returns the capture session identifier.
func (b *InstrumentedBus) CaptureID() string {
	return b.captureID
}

// Read performs the read on the wrapped bus and records it.
func (b *InstrumentedBus) Read(ctx context.Context, offset uint64, width register.Width) (uint32, error) {
	start := time.Now()
	value, err := b.inner.Read(ctx, offset, width)
	b.record(BusOpRead, offset, width, value, err, time.Since(start))
	return value, err
}

// Write performs the write on the wrapped bus and records it.
func (b *InstrumentedBus) Write(ctx context.Context, offset uint64, width register.Width, value uint32) error {
	start := time.Now()
	err := b.inner.Write(ctx, offset, width, value)
	b.record(BusOpWrite, offset, width, value, err, time.Since(start))
	return err
}

func (b *InstrumentedBus) record(op BusOp, offset uint64, width register.Width, value uint32, err error, elapsed time.Duration) {
	busEvent := &BusEvent{
		Op:      op,
		Offset:  offset,
		Width:   uint8(width),
		Value:   value,
		Elapsed: &elapsed,
	}
	if err != nil {
		busEvent.Err = err.Error()
	}
	b.recorder.Record(Event{
		Timestamp: time.Now(),
		CaptureID: b.captureID,
		Role:      b.role,
		Kind:      KindBus,
		Space:     b.space,
		Bus:       busEvent,
	})
}

// Compile-time interface satisfaction check.
var _ bus.Bus = (*InstrumentedBus)(nil)
