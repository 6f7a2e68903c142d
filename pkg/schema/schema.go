package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/regmap-project/regmap-go/pkg/register"
)

// RawRegisterDef is the YAML shape of a register definition file.
type RawRegisterDef struct {
	Register    string        `yaml:"register"`
	Width       uint8         `yaml:"width"`
	Offset      *uint64       `yaml:"offset"`
	Description string        `yaml:"description"`
	Fields      []RawFieldDef `yaml:"fields"`
}

// RawFieldDef is the YAML shape of a single field entry.
//
// Either Bit or the Start/End pair must be given, never both. Bit and Start
// are pointers so that bit 0 is distinguishable from an absent entry.
type RawFieldDef struct {
	Name        string         `yaml:"name"`
	Bit         *uint8         `yaml:"bit"`
	Start       *uint8         `yaml:"start"`
	End         *uint8         `yaml:"end"`
	Access      string         `yaml:"access"`
	Description string         `yaml:"description"`
	Values      []RawEnumValue `yaml:"values"`
}

// RawEnumValue names one defined value of a field.
type RawEnumValue struct {
	Name        string `yaml:"name"`
	Value       uint32 `yaml:"value"`
	Description string `yaml:"description"`
}

// ParseRegisterDef parses a YAML register definition from raw bytes.
func ParseRegisterDef(data []byte) (*RawRegisterDef, error) {
	var def RawRegisterDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing register definition: %w", err)
	}

	if def.Register == "" {
		return nil, fmt.Errorf("register definition has no register name")
	}

	return &def, nil
}

// LoadRegisterDef reads and parses a YAML register definition file.
func LoadRegisterDef(path string) (*RawRegisterDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading register definition: %w", err)
	}

	def, err := ParseRegisterDef(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return def, nil
}

// LoadDir loads every .yaml/.yml register definition in dir, sorted by file
// name. Other files are ignored.
func LoadDir(dir string) ([]*RawRegisterDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading definition directory: %w", err)
	}

	var defs []*RawRegisterDef
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		def, err := LoadRegisterDef(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	return defs, nil
}

// ParseAccess maps a definition access token to a register access mode. The
// empty token means readWrite, the definitional default.
func ParseAccess(token string) (register.Access, error) {
	switch token {
	case "":
		return register.AccessReadWrite, nil
	case "none":
		return register.AccessNone, nil
	case "read":
		return register.AccessRead, nil
	case "write":
		return register.AccessWrite, nil
	case "readWrite":
		return register.AccessReadWrite, nil
	default:
		return register.AccessNone, fmt.Errorf("unknown access token %q", token)
	}
}

// Validate checks the definition for structural problems that the layout
// constructor cannot see: missing names, malformed bit specs, unknown access
// tokens and enum values that cannot fit their field.
func (d *RawRegisterDef) Validate() error {
	if d.Register == "" {
		return fmt.Errorf("register definition has no register name")
	}
	if d.Width != 16 && d.Width != 32 {
		return fmt.Errorf("register %s: width must be 16 or 32, got %d", d.Register, d.Width)
	}

	for i, f := range d.Fields {
		if f.Name == "" {
			return fmt.Errorf("register %s: field %d has no name", d.Register, i)
		}
		if _, _, err := f.bitRange(); err != nil {
			return fmt.Errorf("register %s: field %s: %w", d.Register, f.Name, err)
		}
		if _, err := ParseAccess(f.Access); err != nil {
			return fmt.Errorf("register %s: field %s: %w", d.Register, f.Name, err)
		}

		start, end, _ := f.bitRange()
		width := end - start + 1
		seen := make(map[string]bool, len(f.Values))
		for _, v := range f.Values {
			if v.Name == "" {
				return fmt.Errorf("register %s: field %s: enum value 0x%x has no name", d.Register, f.Name, v.Value)
			}
			if seen[v.Name] {
				return fmt.Errorf("register %s: field %s: duplicate enum value name %q", d.Register, f.Name, v.Name)
			}
			seen[v.Name] = true
			if width < 32 && v.Value >= 1<<width {
				return fmt.Errorf("register %s: field %s: enum value %s (0x%x) exceeds %d bits",
					d.Register, f.Name, v.Name, v.Value, width)
			}
		}
	}

	return nil
}

// bitRange resolves the Bit shorthand against the Start/End pair.
func (f *RawFieldDef) bitRange() (start, end uint8, err error) {
	switch {
	case f.Bit != nil && (f.Start != nil || f.End != nil):
		return 0, 0, fmt.Errorf("bit and start/end are mutually exclusive")
	case f.Bit != nil:
		return *f.Bit, *f.Bit, nil
	case f.Start == nil && f.End == nil:
		return 0, 0, fmt.Errorf("field needs either bit or start/end")
	case f.Start == nil || f.End == nil:
		return 0, 0, fmt.Errorf("start and end must be given together")
	default:
		return *f.Start, *f.End, nil
	}
}

// BuildLayout validates the definition and converts it into a register
// layout. Bit-range and duplicate-name checks are performed by the layout
// constructor.
func (d *RawRegisterDef) BuildLayout() (*register.Layout, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	fields := make([]register.FieldSpec, 0, len(d.Fields))
	for _, f := range d.Fields {
		start, end, err := f.bitRange()
		if err != nil {
			return nil, fmt.Errorf("register %s: field %s: %w", d.Register, f.Name, err)
		}
		access, err := ParseAccess(f.Access)
		if err != nil {
			return nil, fmt.Errorf("register %s: field %s: %w", d.Register, f.Name, err)
		}

		var values []register.EnumValue
		for _, v := range f.Values {
			values = append(values, register.EnumValue{
				Name:        v.Name,
				Value:       v.Value,
				Description: v.Description,
			})
		}

		fields = append(fields, register.FieldSpec{
			Name:        f.Name,
			Start:       start,
			End:         end,
			Access:      access,
			Description: f.Description,
			Values:      values,
		})
	}

	layout, err := register.NewLayout(d.Register, register.Width(d.Width), fields)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", d.Register, err)
	}

	return layout, nil
}

// BuildSpace assembles definitions into a register space. Every definition
// must carry an offset. Registers are added in ascending offset order
// regardless of the order definitions were loaded in.
func BuildSpace(name string, defs []*RawRegisterDef) (*register.Space, error) {
	for _, def := range defs {
		if def.Offset == nil {
			return nil, fmt.Errorf("register %s has no offset, cannot place it in space %s", def.Register, name)
		}
	}

	ordered := make([]*RawRegisterDef, len(defs))
	copy(ordered, defs)
	sort.Slice(ordered, func(i, j int) bool { return *ordered[i].Offset < *ordered[j].Offset })

	space := register.NewSpace(name)
	for _, def := range ordered {
		layout, err := def.BuildLayout()
		if err != nil {
			return nil, err
		}
		if err := space.AddRegister(*def.Offset, register.New(layout)); err != nil {
			return nil, fmt.Errorf("space %s: %w", name, err)
		}
	}

	return space, nil
}

// FieldNames returns the field names of the definition in declaration order.
func (d *RawRegisterDef) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Summary returns a short one-line description of the definition for logs
// and tool output.
func (d *RawRegisterDef) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d-bit", d.Register, d.Width)
	if d.Offset != nil {
		fmt.Fprintf(&b, ", offset 0x%02X", *d.Offset)
	}
	fmt.Fprintf(&b, ", %d fields)", len(d.Fields))
	return b.String()
}
