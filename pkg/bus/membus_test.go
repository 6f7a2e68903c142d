package bus

import (
	"context"
	"testing"

	"github.com/regmap-project/regmap-go/pkg/register"
)

func TestMemBusReadWrite(t *testing.T) {
	ctx := context.Background()
	b := NewMemBus()

	// Unbacked cells read as zero.
	got, err := b.Read(ctx, 0x0C, register.Width32)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got != 0 {
		t.Errorf("unbacked read = %#x, want 0", got)
	}

	if err := b.Write(ctx, 0x0C, register.Width32, 0xDEADBEEF); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err = b.Read(ctx, 0x0C, register.Width32)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("read = %#x, want 0xDEADBEEF", got)
	}
}

func TestMemBusWidthMasking(t *testing.T) {
	ctx := context.Background()
	b := NewMemBus()

	// A 16-bit write truncates to the low half.
	if err := b.Write(ctx, 0x10, register.Width16, 0xDEADBEEF); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := b.Peek(0x10); got != 0xBEEF {
		t.Errorf("stored = %#x, want 0xBEEF", got)
	}

	// A 16-bit read of a wide cell sees only the low half.
	b.Poke(0x12, 0xCAFEBABE)
	got, err := b.Read(ctx, 0x12, register.Width16)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got != 0xBABE {
		t.Errorf("read = %#x, want 0xBABE", got)
	}
}

func TestMemBusPokePeek(t *testing.T) {
	b := NewMemBus()
	b.Poke(0x20, 0xFFFF0000)
	if got := b.Peek(0x20); got != 0xFFFF0000 {
		t.Errorf("Peek = %#x, want 0xFFFF0000", got)
	}

	b.Reset()
	if got := b.Peek(0x20); got != 0 {
		t.Errorf("Peek after Reset = %#x, want 0", got)
	}
}

func TestMemBusCancelledContext(t *testing.T) {
	b := NewMemBus()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := b.Read(ctx, 0, register.Width32); err == nil {
		t.Error("Read with cancelled context should fail")
	}
	if err := b.Write(ctx, 0, register.Width32, 1); err == nil {
		t.Error("Write with cancelled context should fail")
	}
}

func TestMemBusConcurrent(t *testing.T) {
	ctx := context.Background()
	b := NewMemBus()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			_ = b.Write(ctx, uint64(i%8), register.Width32, uint32(i))
		}
	}()
	for i := 0; i < 1000; i++ {
		_, _ = b.Read(ctx, uint64(i%8), register.Width32)
	}
	<-done
}
