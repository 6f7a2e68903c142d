package main

import (
	"fmt"
	"strings"

	"github.com/regmap-project/regmap-go/pkg/register"
)

const mermaidFence = "```"

// PacketDiagram returns a fenced Mermaid packet-beta diagram of a register's
// bit layout. Every bit from 0 to width-1 is covered; bits no field claims
// render as reserved runs. When fields overlap, the first field in layout
// order owns the shared bits and later fields keep only their remainder.
func PacketDiagram(layout *register.Layout) string {
	bits := int(layout.Width().Bits())

	// First field in layout order claims each bit.
	owner := make([]int, bits)
	for i := range owner {
		owner[i] = -1
	}
	fields := layout.Fields()
	for fi, f := range fields {
		for bit := int(f.Start); bit <= int(f.End) && bit < bits; bit++ {
			if owner[bit] == -1 {
				owner[bit] = fi
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%smermaid\n", mermaidFence)
	b.WriteString("packet-beta\n")
	fmt.Fprintf(&b, "title %s (%s)\n", layout.Name(), layout.Width())

	for start := 0; start < bits; {
		end := start
		for end+1 < bits && owner[end+1] == owner[start] {
			end++
		}

		label := "(reserved)"
		if owner[start] >= 0 {
			label = fields[owner[start]].Name
		}
		if start == end {
			fmt.Fprintf(&b, "%d: \"%s\"\n", start, label)
		} else {
			fmt.Fprintf(&b, "%d-%d: \"%s\"\n", start, end, label)
		}

		start = end + 1
	}

	fmt.Fprintf(&b, "%s\n", mermaidFence)
	return b.String()
}

// SpaceMapDiagram returns a fenced Mermaid graph of the register map:
// the space node on top, one node per register annotated with its offset.
func SpaceMapDiagram(m *DocModel) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%smermaid\ngraph TD\n", mermaidFence)
	spaceID := sanitizeMermaidID(m.SpaceName)
	fmt.Fprintf(&b, "    %s[\"%s\"]\n", spaceID, m.SpaceName)

	for _, doc := range m.Registers {
		regID := sanitizeMermaidID(doc.Name)
		if doc.Offset != nil {
			fmt.Fprintf(&b, "    %s[\"%s<br/><small>0x%02X</small>\"]\n", regID, doc.Name, *doc.Offset)
		} else {
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", regID, doc.Name)
		}
		fmt.Fprintf(&b, "    %s --> %s\n", spaceID, regID)
	}

	fmt.Fprintf(&b, "%s\n", mermaidFence)
	return b.String()
}

// sanitizeMermaidID replaces characters that are invalid in Mermaid IDs.
func sanitizeMermaidID(s string) string {
	r := strings.NewReplacer(
		" ", "_",
		"-", "_",
		".", "_",
		"/", "_",
	)
	return r.Replace(s)
}
