package pcie

import (
	"context"
	"errors"
	"testing"

	"github.com/regmap-project/regmap-go/pkg/bitfield"
	"github.com/regmap-project/regmap-go/pkg/bus"
	"github.com/regmap-project/regmap-go/pkg/register"
)

func TestLinkCapabilities(t *testing.T) {
	caps := NewLinkCapabilities()

	t.Run("Layout", func(t *testing.T) {
		if caps.Name() != "linkCapabilities" {
			t.Errorf("expected name linkCapabilities, got %s", caps.Name())
		}
		if caps.Width() != register.Width32 {
			t.Errorf("expected 32-bit width, got %v", caps.Width())
		}
		if caps.Layout().NumFields() != 11 {
			t.Errorf("expected 11 fields, got %d", caps.Layout().NumFields())
		}
	})

	t.Run("ReadFieldsFromRaw", func(t *testing.T) {
		if err := caps.SetValue(0xDEADBEEF); err != nil {
			t.Fatalf("SetValue failed: %v", err)
		}

		aspm, err := caps.AspmSupport()
		if err != nil {
			t.Fatalf("AspmSupport failed: %v", err)
		}
		if aspm != 0b11 {
			t.Errorf("expected aspmSupport 0b11, got 0b%b", aspm)
		}

		speed, err := caps.MaxLinkSpeed()
		if err != nil {
			t.Fatalf("MaxLinkSpeed failed: %v", err)
		}
		if speed != 0xF {
			t.Errorf("expected maxLinkSpeed 0xF, got 0x%X", speed)
		}

		port, err := caps.PortNumber()
		if err != nil {
			t.Fatalf("PortNumber failed: %v", err)
		}
		if port != 0xDE {
			t.Errorf("expected portNumber 0xDE, got 0x%X", port)
		}
	})

	t.Run("ClearAndRebuild", func(t *testing.T) {
		caps.Clear()
		if caps.Value() != 0 {
			t.Fatalf("expected raw 0 after Clear, got 0x%08X", caps.Value())
		}

		if err := caps.SetMaxLinkSpeed(0xF); err != nil {
			t.Fatalf("SetMaxLinkSpeed failed: %v", err)
		}
		if caps.Value() != 0x0000000F {
			t.Errorf("expected raw 0x0000000F, got 0x%08X", caps.Value())
		}

		if err := caps.SetPortNumber(0xFF); err != nil {
			t.Fatalf("SetPortNumber failed: %v", err)
		}
		if caps.Value() != 0xFF00000F {
			t.Errorf("expected raw 0xFF00000F, got 0x%08X", caps.Value())
		}
	})

	t.Run("OversizedFieldValue", func(t *testing.T) {
		before := caps.Value()
		if err := caps.SetMaxLinkSpeed(0x10); !errors.Is(err, bitfield.ErrValueTooWide) {
			t.Errorf("expected ErrValueTooWide, got %v", err)
		}
		if caps.Value() != before {
			t.Errorf("raw changed on failed set: 0x%08X -> 0x%08X", before, caps.Value())
		}
	})

	t.Run("EnumConstants", func(t *testing.T) {
		if err := caps.SetMaxLinkSpeed(LinkCapabilitiesMaxLinkSpeedGen3); err != nil {
			t.Fatalf("SetMaxLinkSpeed failed: %v", err)
		}
		speed, err := caps.MaxLinkSpeed()
		if err != nil {
			t.Fatalf("MaxLinkSpeed failed: %v", err)
		}
		if speed != LinkCapabilitiesMaxLinkSpeedGen3 {
			t.Errorf("expected Gen3 (0x03), got 0x%02X", speed)
		}
	})
}

func TestLinkControl(t *testing.T) {
	ctl := NewLinkControl()

	t.Run("Layout", func(t *testing.T) {
		if ctl.Width() != register.Width16 {
			t.Errorf("expected 16-bit width, got %v", ctl.Width())
		}
		if ctl.Layout().NumFields() != 10 {
			t.Errorf("expected 10 fields, got %d", ctl.Layout().NumFields())
		}
	})

	t.Run("ReadOnlyFieldRejectsWrite", func(t *testing.T) {
		if err := ctl.SetRootCompletionBoundary(1); !errors.Is(err, register.ErrFieldNotWritable) {
			t.Errorf("expected ErrFieldNotWritable, got %v", err)
		}
		if ctl.Value() != 0 {
			t.Errorf("raw changed on denied write: 0x%04X", ctl.Value())
		}
	})

	t.Run("ReadWriteField", func(t *testing.T) {
		if err := ctl.SetLinkDisable(1); err != nil {
			t.Fatalf("SetLinkDisable failed: %v", err)
		}
		if ctl.Value() != 0b10000 {
			t.Errorf("expected raw 0b10000, got 0b%b", ctl.Value())
		}

		v, err := ctl.LinkDisable()
		if err != nil {
			t.Fatalf("LinkDisable failed: %v", err)
		}
		if v != 1 {
			t.Errorf("expected linkDisable 1, got %d", v)
		}
	})

	t.Run("WriteOnlyField", func(t *testing.T) {
		if err := ctl.SetRetrainLink(1); err != nil {
			t.Fatalf("SetRetrainLink failed: %v", err)
		}
		if _, err := ctl.RetrainLink(); !errors.Is(err, register.ErrFieldNotReadable) {
			t.Errorf("expected ErrFieldNotReadable, got %v", err)
		}
	})

	t.Run("AspmControlEnum", func(t *testing.T) {
		if err := ctl.SetAspmControl(LinkControlAspmControlL1); err != nil {
			t.Fatalf("SetAspmControl failed: %v", err)
		}
		v, err := ctl.AspmControl()
		if err != nil {
			t.Fatalf("AspmControl failed: %v", err)
		}
		if v != LinkControlAspmControlL1 {
			t.Errorf("expected L1 (0x02), got 0x%02X", v)
		}
	})

	t.Run("DeviceSideReadOfWriteOnlyField", func(t *testing.T) {
		v, err := ctl.GetInternal(LinkControlFieldRetrainLink)
		if err != nil {
			t.Fatalf("GetInternal failed: %v", err)
		}
		if v != 1 {
			t.Errorf("expected retrainLink 1, got %d", v)
		}
	})
}

func TestLinkStatus(t *testing.T) {
	st := NewLinkStatus()

	t.Run("FieldsAreReadOnly", func(t *testing.T) {
		if err := st.SetCurrentLinkSpeed(1); !errors.Is(err, register.ErrFieldNotWritable) {
			t.Errorf("expected ErrFieldNotWritable, got %v", err)
		}
		if err := st.SetDataLinkLayerActive(1); !errors.Is(err, register.ErrFieldNotWritable) {
			t.Errorf("expected ErrFieldNotWritable, got %v", err)
		}
	})

	t.Run("DeviceSideUpdate", func(t *testing.T) {
		if err := st.SetInternal(LinkStatusFieldCurrentLinkSpeed, LinkStatusCurrentLinkSpeedGen2); err != nil {
			t.Fatalf("SetInternal failed: %v", err)
		}
		if err := st.SetInternal(LinkStatusFieldDataLinkLayerActive, 1); err != nil {
			t.Fatalf("SetInternal failed: %v", err)
		}

		speed, err := st.CurrentLinkSpeed()
		if err != nil {
			t.Fatalf("CurrentLinkSpeed failed: %v", err)
		}
		if speed != LinkStatusCurrentLinkSpeedGen2 {
			t.Errorf("expected Gen2 (0x02), got 0x%02X", speed)
		}

		active, err := st.DataLinkLayerActive()
		if err != nil {
			t.Fatalf("DataLinkLayerActive failed: %v", err)
		}
		if active != 1 {
			t.Errorf("expected dataLinkLayerActive 1, got %d", active)
		}
	})
}

func TestDefinitionsMatchGeneratedLayouts(t *testing.T) {
	defs, err := Definitions()
	if err != nil {
		t.Fatalf("Definitions failed: %v", err)
	}

	generated := map[string]*register.Layout{
		"linkCapabilities": LinkCapabilitiesLayout,
		"linkControl":      LinkControlLayout,
		"linkStatus":       LinkStatusLayout,
	}
	if len(defs) != len(generated) {
		t.Fatalf("got %d definitions, want %d", len(defs), len(generated))
	}

	for _, def := range defs {
		want, ok := generated[def.Register]
		if !ok {
			t.Fatalf("no generated layout for definition %s", def.Register)
		}

		built, err := def.BuildLayout()
		if err != nil {
			t.Fatalf("BuildLayout(%s) failed: %v", def.Register, err)
		}

		if built.Width() != want.Width() {
			t.Errorf("%s: width %v, want %v", def.Register, built.Width(), want.Width())
		}
		if built.NumFields() != want.NumFields() {
			t.Fatalf("%s: %d fields, want %d", def.Register, built.NumFields(), want.NumFields())
		}

		wantFields := want.Fields()
		for i, f := range built.Fields() {
			w := wantFields[i]
			if f.Name != w.Name || f.Start != w.Start || f.End != w.End || f.Access != w.Access {
				t.Errorf("%s field %d: got %s [%d:%d] %v, want %s [%d:%d] %v",
					def.Register, i, f.Name, f.End, f.Start, f.Access, w.Name, w.End, w.Start, w.Access)
			}
			if len(f.Values) != len(w.Values) {
				t.Errorf("%s field %s: %d enum values, want %d", def.Register, f.Name, len(f.Values), len(w.Values))
				continue
			}
			for j, v := range f.Values {
				if v != w.Values[j] {
					t.Errorf("%s field %s value %d: got %+v, want %+v", def.Register, f.Name, j, v, w.Values[j])
				}
			}
		}
	}
}

func TestNewSpace(t *testing.T) {
	space, err := NewSpace()
	if err != nil {
		t.Fatalf("NewSpace failed: %v", err)
	}

	if space.Name() != SpaceName {
		t.Errorf("space name = %q, want %q", space.Name(), SpaceName)
	}
	if space.Len() != 3 {
		t.Fatalf("space has %d registers, want 3", space.Len())
	}

	offsets := map[string]uint64{
		"linkCapabilities": LinkCapabilitiesOffset,
		"linkControl":      LinkControlOffset,
		"linkStatus":       LinkStatusOffset,
	}
	for name, offset := range offsets {
		reg, ok := space.At(offset)
		if !ok {
			t.Errorf("no register at offset 0x%02X", offset)
			continue
		}
		if reg.Name() != name {
			t.Errorf("register at 0x%02X is %s, want %s", offset, reg.Name(), name)
		}
	}
}

func TestCapabilitySet(t *testing.T) {
	t.Run("UnboundSyncFails", func(t *testing.T) {
		set := NewCapabilitySet()
		if err := set.SyncAll(context.Background()); !errors.Is(err, ErrNotBound) {
			t.Errorf("expected ErrNotBound, got %v", err)
		}
		if err := set.FlushAll(context.Background()); !errors.Is(err, ErrNotBound) {
			t.Errorf("expected ErrNotBound, got %v", err)
		}
	})

	t.Run("SyncAll", func(t *testing.T) {
		mem := bus.NewMemBus()
		mem.Poke(LinkCapabilitiesOffset, 0x01000D03)
		mem.Poke(LinkStatusOffset, 0x2103)

		set := NewCapabilitySet()
		set.Bind(mem)
		if err := set.SyncAll(context.Background()); err != nil {
			t.Fatalf("SyncAll failed: %v", err)
		}

		speed, err := set.LinkCapabilities.MaxLinkSpeed()
		if err != nil {
			t.Fatalf("MaxLinkSpeed failed: %v", err)
		}
		if speed != LinkCapabilitiesMaxLinkSpeedGen3 {
			t.Errorf("expected maxLinkSpeed Gen3, got 0x%02X", speed)
		}

		port, err := set.LinkCapabilities.PortNumber()
		if err != nil {
			t.Fatalf("PortNumber failed: %v", err)
		}
		if port != 1 {
			t.Errorf("expected portNumber 1, got %d", port)
		}

		active, err := set.LinkStatus.DataLinkLayerActive()
		if err != nil {
			t.Fatalf("DataLinkLayerActive failed: %v", err)
		}
		if active != 1 {
			t.Errorf("expected dataLinkLayerActive 1, got %d", active)
		}

		if set.LinkCapabilities.Dirty() || set.LinkControl.Dirty() || set.LinkStatus.Dirty() {
			t.Error("registers should be clean after SyncAll")
		}
	})

	t.Run("FlushAllWritesOnlyDirty", func(t *testing.T) {
		mem := bus.NewMemBus()
		set := NewCapabilitySet()
		set.Bind(mem)

		if err := set.LinkControl.SetLinkDisable(1); err != nil {
			t.Fatalf("SetLinkDisable failed: %v", err)
		}
		if err := set.FlushAll(context.Background()); err != nil {
			t.Fatalf("FlushAll failed: %v", err)
		}

		if got := mem.Peek(LinkControlOffset); got != 0b10000 {
			t.Errorf("bus linkControl = 0x%04X, want 0x0010", got)
		}
		if got := mem.Peek(LinkStatusOffset); got != 0 {
			t.Errorf("bus linkStatus = 0x%04X, want 0 (register was clean)", got)
		}
		if set.LinkControl.Dirty() {
			t.Error("linkControl should be clean after FlushAll")
		}
	})

	t.Run("SpaceEntries", func(t *testing.T) {
		set := NewCapabilitySet()
		entries := set.Space().Entries()
		if len(entries) != 3 {
			t.Fatalf("space has %d entries, want 3", len(entries))
		}
		if entries[0].Offset != LinkCapabilitiesOffset || entries[2].Offset != LinkStatusOffset {
			t.Errorf("entries out of order: %#x, %#x, %#x",
				entries[0].Offset, entries[1].Offset, entries[2].Offset)
		}
	})
}
