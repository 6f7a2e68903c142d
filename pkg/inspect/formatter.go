package inspect

import (
	"fmt"
	"strings"

	"github.com/regmap-project/regmap-go/pkg/register"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowDescriptions includes field descriptions in tables
	ShowDescriptions bool

	// ShowRanges includes bit ranges alongside field names
	ShowRanges bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowDescriptions: false,
		ShowRanges:       true,
		IndentWidth:      2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatHex formats a raw value as zero-padded hex for its width.
func FormatHex(value uint32, width register.Width) string {
	if width == register.Width16 {
		return fmt.Sprintf("0x%04X", value)
	}
	return fmt.Sprintf("0x%08X", value)
}

// FormatBinary formats a raw value as nibble-grouped binary for its width.
func FormatBinary(value uint32, width register.Width) string {
	bits := int(width.Bits())
	var sb strings.Builder
	sb.WriteString("0b")
	for i := bits - 1; i >= 0; i-- {
		if value&(1<<uint(i)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
		if i > 0 && i%4 == 0 {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// FormatRange formats a bit range in hardware notation: "[4]" for single
// bits, "[9:4]" for multi-bit fields (high bit first).
func FormatRange(start, end uint8) string {
	if start == end {
		return fmt.Sprintf("[%d]", start)
	}
	return fmt.Sprintf("[%d:%d]", end, start)
}

// FormatAccess formats an access mode for display.
func FormatAccess(access register.Access) string {
	switch access {
	case register.AccessNone:
		return "none"
	case register.AccessRead:
		return "read-only"
	case register.AccessWrite:
		return "write-only"
	case register.AccessReadWrite:
		return "read-write"
	default:
		return fmt.Sprintf("access(%d)", access)
	}
}

// FormatEnumName returns the symbolic name of a field value, when the field
// defines one.
func FormatEnumName(spec register.FieldSpec, value uint32) string {
	for _, ev := range spec.Values {
		if ev.Value == value {
			return ev.Name
		}
	}
	return ""
}

// FieldRow represents a formatted field for display.
type FieldRow struct {
	Name   string
	Range  string
	Value  string
	Access string
	Desc   string
}

// FormatFieldTable formats a list of fields as an aligned table.
func (f *Formatter) FormatFieldTable(rows []FieldRow) string {
	if len(rows) == 0 {
		return "  (no fields)\n"
	}

	nameW, rangeW, valueW := 0, 0, 0
	for _, row := range rows {
		if len(row.Name) > nameW {
			nameW = len(row.Name)
		}
		if len(row.Range) > rangeW {
			rangeW = len(row.Range)
		}
		if len(row.Value) > valueW {
			valueW = len(row.Value)
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("  %-*s", nameW, row.Name))
		if f.ShowRanges {
			sb.WriteString(fmt.Sprintf("  %-*s", rangeW, row.Range))
		}
		sb.WriteString(fmt.Sprintf("  %-*s  %s", valueW, row.Value, row.Access))
		if f.ShowDescriptions && row.Desc != "" {
			sb.WriteString("  " + row.Desc)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatRegister renders a register header and its field table. Field values
// come from the model regardless of read permission; the access column shows
// what a bus master would be allowed to do.
func (f *Formatter) FormatRegister(reg *register.Register) string {
	var sb strings.Builder
	raw := reg.Value()
	sb.WriteString(fmt.Sprintf("%s (%s) = %s  %s\n",
		reg.Name(), reg.Width(), FormatHex(raw, reg.Width()), FormatBinary(raw, reg.Width())))

	rows := make([]FieldRow, 0, reg.Layout().NumFields())
	for _, spec := range reg.Layout().Fields() {
		value, _ := reg.GetInternal(spec.Name)
		valueText := fmt.Sprintf("0x%X", value)
		if name := FormatEnumName(spec, value); name != "" {
			valueText += " (" + name + ")"
		}
		rows = append(rows, FieldRow{
			Name:   spec.Name,
			Range:  FormatRange(spec.Start, spec.End),
			Value:  valueText,
			Access: FormatAccess(spec.Access),
			Desc:   spec.Description,
		})
	}
	sb.WriteString(f.FormatFieldTable(rows))
	return sb.String()
}

// FormatSpaceSummary renders a one-line-per-register overview of a space.
func (f *Formatter) FormatSpaceSummary(space *register.Space) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%d registers)\n", space.Name(), space.Len()))
	for _, entry := range space.Entries() {
		reg := entry.Register
		dirty := ""
		if reg.Dirty() {
			dirty = "  *"
		}
		sb.WriteString(fmt.Sprintf("  0x%02X  %-24s %s%s\n",
			entry.Offset, reg.Name(), FormatHex(reg.Value(), reg.Width()), dirty))
	}
	return sb.String()
}
