package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/regmap-project/regmap-go/pkg/register"
)

func TestParseRegisterDef_LinkControl(t *testing.T) {
	yaml := `
register: linkControl
width: 16
offset: 0x10
description: "Link Control register"
fields:
  - name: aspmControl
    start: 0
    end: 1
    access: readWrite
    description: "ASPM control"
    values:
      - { name: disabled, value: 0b00 }
      - { name: l0sEntryEnabled, value: 0b01 }
      - { name: l1EntryEnabled, value: 0b10 }
      - { name: l0sAndL1Enabled, value: 0b11 }
  - name: rootCompletionBoundary
    bit: 3
    access: read
  - name: linkDisable
    bit: 4
`
	def, err := ParseRegisterDef([]byte(yaml))
	if err != nil {
		t.Fatalf("ParseRegisterDef failed: %v", err)
	}

	if def.Register != "linkControl" {
		t.Errorf("register = %q, want linkControl", def.Register)
	}
	if def.Width != 16 {
		t.Errorf("width = %d, want 16", def.Width)
	}
	if def.Offset == nil || *def.Offset != 0x10 {
		t.Errorf("offset = %v, want 0x10", def.Offset)
	}
	if def.Description != "Link Control register" {
		t.Errorf("description = %q, want %q", def.Description, "Link Control register")
	}
	if len(def.Fields) != 3 {
		t.Fatalf("len(fields) = %d, want 3", len(def.Fields))
	}

	aspm := def.Fields[0]
	if aspm.Name != "aspmControl" {
		t.Errorf("fields[0].name = %q, want aspmControl", aspm.Name)
	}
	if aspm.Start == nil || *aspm.Start != 0 || aspm.End == nil || *aspm.End != 1 {
		t.Errorf("fields[0] range = %v..%v, want 0..1", aspm.Start, aspm.End)
	}
	if aspm.Access != "readWrite" {
		t.Errorf("fields[0].access = %q, want readWrite", aspm.Access)
	}
	if len(aspm.Values) != 4 {
		t.Fatalf("len(fields[0].values) = %d, want 4", len(aspm.Values))
	}
	if aspm.Values[3].Name != "l0sAndL1Enabled" || aspm.Values[3].Value != 0b11 {
		t.Errorf("values[3] = %+v, want l0sAndL1Enabled/0b11", aspm.Values[3])
	}

	rcb := def.Fields[1]
	if rcb.Bit == nil || *rcb.Bit != 3 {
		t.Errorf("fields[1].bit = %v, want 3", rcb.Bit)
	}
	if rcb.Start != nil || rcb.End != nil {
		t.Error("fields[1] should not carry start/end")
	}

	// No access entry: the omitted token is the readWrite default.
	if def.Fields[2].Access != "" {
		t.Errorf("fields[2].access = %q, want empty", def.Fields[2].Access)
	}
}

func TestParseRegisterDef_NoOffset(t *testing.T) {
	yaml := `
register: scratch
width: 32
fields:
  - name: value
    start: 0
    end: 31
`
	def, err := ParseRegisterDef([]byte(yaml))
	if err != nil {
		t.Fatalf("ParseRegisterDef failed: %v", err)
	}
	if def.Offset != nil {
		t.Errorf("offset = %v, want nil", def.Offset)
	}
}

func TestParseRegisterDef_MissingName(t *testing.T) {
	yaml := `
width: 16
fields:
  - name: something
    bit: 0
`
	if _, err := ParseRegisterDef([]byte(yaml)); err == nil {
		t.Fatal("expected error for missing register name")
	}
}

func TestParseRegisterDef_BadYAML(t *testing.T) {
	if _, err := ParseRegisterDef([]byte("register: [broken")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestParseAccess(t *testing.T) {
	tests := []struct {
		token string
		want  register.Access
	}{
		{"", register.AccessReadWrite},
		{"none", register.AccessNone},
		{"read", register.AccessRead},
		{"write", register.AccessWrite},
		{"readWrite", register.AccessReadWrite},
	}
	for _, tt := range tests {
		got, err := ParseAccess(tt.token)
		if err != nil {
			t.Errorf("ParseAccess(%q) failed: %v", tt.token, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAccess(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}

	if _, err := ParseAccess("readOnly"); err == nil {
		t.Error("expected error for unknown access token")
	}
}

func TestValidate(t *testing.T) {
	u8 := func(v uint8) *uint8 { return &v }

	tests := []struct {
		name string
		def  RawRegisterDef
	}{
		{
			"missing register name",
			RawRegisterDef{Width: 16},
		},
		{
			"bad width",
			RawRegisterDef{Register: "r", Width: 24},
		},
		{
			"field without name",
			RawRegisterDef{Register: "r", Width: 16, Fields: []RawFieldDef{
				{Bit: u8(0)},
			}},
		},
		{
			"bit and start together",
			RawRegisterDef{Register: "r", Width: 16, Fields: []RawFieldDef{
				{Name: "f", Bit: u8(0), Start: u8(0)},
			}},
		},
		{
			"start without end",
			RawRegisterDef{Register: "r", Width: 16, Fields: []RawFieldDef{
				{Name: "f", Start: u8(0)},
			}},
		},
		{
			"no bit spec at all",
			RawRegisterDef{Register: "r", Width: 16, Fields: []RawFieldDef{
				{Name: "f"},
			}},
		},
		{
			"unknown access token",
			RawRegisterDef{Register: "r", Width: 16, Fields: []RawFieldDef{
				{Name: "f", Bit: u8(0), Access: "rw"},
			}},
		},
		{
			"enum value without name",
			RawRegisterDef{Register: "r", Width: 16, Fields: []RawFieldDef{
				{Name: "f", Start: u8(0), End: u8(1), Values: []RawEnumValue{{Value: 1}}},
			}},
		},
		{
			"duplicate enum value name",
			RawRegisterDef{Register: "r", Width: 16, Fields: []RawFieldDef{
				{Name: "f", Start: u8(0), End: u8(1), Values: []RawEnumValue{
					{Name: "a", Value: 0},
					{Name: "a", Value: 1},
				}},
			}},
		},
		{
			"enum value exceeds field width",
			RawRegisterDef{Register: "r", Width: 16, Fields: []RawFieldDef{
				{Name: "f", Start: u8(0), End: u8(1), Values: []RawEnumValue{{Name: "big", Value: 4}}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.def.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_FullWidthEnum(t *testing.T) {
	u8 := func(v uint8) *uint8 { return &v }
	def := RawRegisterDef{Register: "r", Width: 32, Fields: []RawFieldDef{
		{Name: "all", Start: u8(0), End: u8(31), Values: []RawEnumValue{
			{Name: "max", Value: 0xFFFFFFFF},
		}},
	}}
	if err := def.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestBuildLayout(t *testing.T) {
	yaml := `
register: linkStatus
width: 16
offset: 0x12
fields:
  - name: currentLinkSpeed
    start: 0
    end: 3
    access: read
  - name: negotiatedWidth
    start: 4
    end: 9
    access: read
  - name: linkTraining
    bit: 11
    access: read
  - name: scratch
    bit: 15
`
	def, err := ParseRegisterDef([]byte(yaml))
	if err != nil {
		t.Fatalf("ParseRegisterDef failed: %v", err)
	}

	layout, err := def.BuildLayout()
	if err != nil {
		t.Fatalf("BuildLayout failed: %v", err)
	}

	if layout.Name() != "linkStatus" {
		t.Errorf("name = %q, want linkStatus", layout.Name())
	}
	if layout.Width() != register.Width16 {
		t.Errorf("width = %v, want %v", layout.Width(), register.Width16)
	}
	if layout.NumFields() != 4 {
		t.Fatalf("fields = %d, want 4", layout.NumFields())
	}

	speed, ok := layout.Field("currentLinkSpeed")
	if !ok {
		t.Fatal("currentLinkSpeed not found")
	}
	if speed.Start != 0 || speed.End != 3 {
		t.Errorf("currentLinkSpeed range = %d..%d, want 0..3", speed.Start, speed.End)
	}
	if speed.Access != register.AccessRead {
		t.Errorf("currentLinkSpeed access = %v, want read", speed.Access)
	}

	training, ok := layout.Field("linkTraining")
	if !ok {
		t.Fatal("linkTraining not found")
	}
	if training.Start != 11 || training.End != 11 {
		t.Errorf("linkTraining range = %d..%d, want 11..11", training.Start, training.End)
	}

	// Omitted access token builds as readWrite.
	scratch, ok := layout.Field("scratch")
	if !ok {
		t.Fatal("scratch not found")
	}
	if scratch.Access != register.AccessReadWrite {
		t.Errorf("scratch access = %v, want readWrite", scratch.Access)
	}
}

func TestBuildLayout_RangeErrors(t *testing.T) {
	u8 := func(v uint8) *uint8 { return &v }

	def := RawRegisterDef{Register: "r", Width: 16, Fields: []RawFieldDef{
		{Name: "f", Start: u8(5), End: u8(2)},
	}}
	if _, err := def.BuildLayout(); !errors.Is(err, register.ErrInvalidBitRange) {
		t.Errorf("inverted range error = %v, want ErrInvalidBitRange", err)
	}

	def = RawRegisterDef{Register: "r", Width: 16, Fields: []RawFieldDef{
		{Name: "f", Bit: u8(16)},
	}}
	if _, err := def.BuildLayout(); !errors.Is(err, register.ErrInvalidBitRange) {
		t.Errorf("out-of-width bit error = %v, want ErrInvalidBitRange", err)
	}

	def = RawRegisterDef{Register: "r", Width: 16, Fields: []RawFieldDef{
		{Name: "f", Bit: u8(0)},
		{Name: "f", Bit: u8(1)},
	}}
	if _, err := def.BuildLayout(); !errors.Is(err, register.ErrDuplicateField) {
		t.Errorf("duplicate field error = %v, want ErrDuplicateField", err)
	}
}

func TestBuildLayout_EnumValues(t *testing.T) {
	yaml := `
register: linkCapabilities
width: 32
fields:
  - name: maxLinkSpeed
    start: 0
    end: 3
    access: read
    values:
      - { name: gen1, value: 1, description: "2.5 GT/s" }
      - { name: gen2, value: 2, description: "5.0 GT/s" }
      - { name: gen3, value: 3, description: "8.0 GT/s" }
`
	def, err := ParseRegisterDef([]byte(yaml))
	if err != nil {
		t.Fatalf("ParseRegisterDef failed: %v", err)
	}
	layout, err := def.BuildLayout()
	if err != nil {
		t.Fatalf("BuildLayout failed: %v", err)
	}

	speed, _ := layout.Field("maxLinkSpeed")
	if len(speed.Values) != 3 {
		t.Fatalf("len(values) = %d, want 3", len(speed.Values))
	}
	if speed.Values[1].Name != "gen2" || speed.Values[1].Value != 2 {
		t.Errorf("values[1] = %+v, want gen2/2", speed.Values[1])
	}
	if speed.Values[2].Description != "8.0 GT/s" {
		t.Errorf("values[2].description = %q, want %q", speed.Values[2].Description, "8.0 GT/s")
	}
}

func TestBuildSpace(t *testing.T) {
	off := func(v uint64) *uint64 { return &v }
	u8 := func(v uint8) *uint8 { return &v }

	// Definitions arrive out of offset order on purpose.
	defs := []*RawRegisterDef{
		{Register: "linkControl", Width: 16, Offset: off(0x10), Fields: []RawFieldDef{
			{Name: "linkDisable", Bit: u8(4)},
		}},
		{Register: "linkCapabilities", Width: 32, Offset: off(0x0C), Fields: []RawFieldDef{
			{Name: "maxLinkSpeed", Start: u8(0), End: u8(3), Access: "read"},
		}},
	}

	space, err := BuildSpace("pcieCapability", defs)
	if err != nil {
		t.Fatalf("BuildSpace failed: %v", err)
	}

	if space.Name() != "pcieCapability" {
		t.Errorf("name = %q, want pcieCapability", space.Name())
	}
	if space.Len() != 2 {
		t.Fatalf("len = %d, want 2", space.Len())
	}

	entries := space.Entries()
	if entries[0].Offset != 0x0C || entries[0].Register.Name() != "linkCapabilities" {
		t.Errorf("entries[0] = 0x%02X/%s, want 0x0C/linkCapabilities", entries[0].Offset, entries[0].Register.Name())
	}
	if entries[1].Offset != 0x10 || entries[1].Register.Name() != "linkControl" {
		t.Errorf("entries[1] = 0x%02X/%s, want 0x10/linkControl", entries[1].Offset, entries[1].Register.Name())
	}

	reg, ok := space.At(0x10)
	if !ok {
		t.Fatal("register at 0x10 not found")
	}
	if err := reg.Set("linkDisable", 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if reg.Value() != 0b10000 {
		t.Errorf("raw = %#x, want 0b10000", reg.Value())
	}
}

func TestBuildSpace_MissingOffset(t *testing.T) {
	u8 := func(v uint8) *uint8 { return &v }
	defs := []*RawRegisterDef{
		{Register: "floating", Width: 16, Fields: []RawFieldDef{{Name: "f", Bit: u8(0)}}},
	}
	if _, err := BuildSpace("s", defs); err == nil {
		t.Fatal("expected error for definition without offset")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("link_control.yaml", "register: linkControl\nwidth: 16\n")
	write("link_status.yml", "register: linkStatus\nwidth: 16\n")
	write("notes.txt", "not a definition")

	defs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("len(defs) = %d, want 2", len(defs))
	}
	if defs[0].Register != "linkControl" {
		t.Errorf("defs[0] = %q, want linkControl", defs[0].Register)
	}
	if defs[1].Register != "linkStatus" {
		t.Errorf("defs[1] = %q, want linkStatus", defs[1].Register)
	}
}

func TestLoadDir_BadDefinition(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("width: 16\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Fatal("expected error for definition without register name")
	}
}

func TestSummary(t *testing.T) {
	off := func(v uint64) *uint64 { return &v }
	u8 := func(v uint8) *uint8 { return &v }

	def := RawRegisterDef{Register: "linkControl", Width: 16, Offset: off(0x10), Fields: []RawFieldDef{
		{Name: "linkDisable", Bit: u8(4)},
	}}
	if got, want := def.Summary(), "linkControl (16-bit, offset 0x10, 1 fields)"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}

	def.Offset = nil
	if got, want := def.Summary(), "linkControl (16-bit, 1 fields)"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestFieldNames(t *testing.T) {
	u8 := func(v uint8) *uint8 { return &v }
	def := RawRegisterDef{Register: "r", Width: 16, Fields: []RawFieldDef{
		{Name: "b", Bit: u8(0)},
		{Name: "a", Bit: u8(1)},
	}}
	names := def.FieldNames()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Errorf("FieldNames() = %v, want [b a] in declaration order", names)
	}
}
