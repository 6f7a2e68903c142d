package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/regmap-project/regmap-go/pkg/inspect"
	"github.com/regmap-project/regmap-go/pkg/register"
)

// GenerateRegisterPage produces the Markdown datasheet for one register.
func GenerateRegisterPage(doc RegisterDoc) string {
	var b strings.Builder

	writeRegisterHeader(&b, doc)

	b.WriteString("## Bit Layout\n\n")
	b.WriteString(PacketDiagram(doc.Layout))
	b.WriteString("\n")

	writeRegisterFields(&b, doc.Layout)
	writeRegisterEnums(&b, doc.Layout)

	return b.String()
}

func writeRegisterHeader(b *strings.Builder, doc RegisterDoc) {
	fmt.Fprintf(b, "# %s\n\n", doc.Name)

	if doc.Description != "" {
		fmt.Fprintf(b, "> %s\n\n", strings.TrimSpace(doc.Description))
	}

	fmt.Fprintf(b, "| | |\n|---|---|\n")
	if doc.Offset != nil {
		fmt.Fprintf(b, "| **Offset** | 0x%02X |\n", *doc.Offset)
	}
	fmt.Fprintf(b, "| **Width** | %s |\n", doc.Layout.Width())
	fmt.Fprintf(b, "| **Fields** | %d |\n", doc.Layout.NumFields())
	b.WriteString("\n")
}

func writeRegisterFields(b *strings.Builder, layout *register.Layout) {
	b.WriteString("## Fields\n\n")
	b.WriteString("| Bits | Name | Access | Description |\n")
	b.WriteString("|------|------|--------|-------------|\n")

	for _, f := range layout.Fields() {
		fmt.Fprintf(b, "| %s | `%s` | %s | %s |\n",
			inspect.FormatRange(f.Start, f.End),
			f.Name,
			inspect.FormatAccess(f.Access),
			firstLine(f.Description),
		)
	}
	b.WriteString("\n")
}

func writeRegisterEnums(b *strings.Builder, layout *register.Layout) {
	var enumFields []register.FieldSpec
	for _, f := range layout.Fields() {
		if len(f.Values) > 0 {
			enumFields = append(enumFields, f)
		}
	}
	if len(enumFields) == 0 {
		return
	}

	b.WriteString("## Enumerated Values\n\n")

	for _, f := range enumFields {
		fmt.Fprintf(b, "### %s\n\n", f.Name)

		b.WriteString("| Value | Name | Description |\n")
		b.WriteString("|------:|------|-------------|\n")
		for _, val := range f.Values {
			fmt.Fprintf(b, "| 0x%02X | `%s` | %s |\n",
				val.Value,
				val.Name,
				val.Description,
			)
		}
		b.WriteString("\n")
	}
}

// GenerateIndexPage produces the register map index page.
func GenerateIndexPage(m *DocModel) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Register Map\n\n", m.SpaceName)

	b.WriteString("| Offset | Register | Width | Fields | Description |\n")
	b.WriteString("|-------:|----------|-------|-------:|-------------|\n")
	for _, doc := range m.Registers {
		offset := "-"
		if doc.Offset != nil {
			offset = fmt.Sprintf("0x%02X", *doc.Offset)
		}
		fmt.Fprintf(&b, "| %s | [%s](%s.md) | %s | %d | %s |\n",
			offset,
			doc.Name,
			registerSlug(doc.Name),
			doc.Layout.Width(),
			doc.Layout.NumFields(),
			firstLine(doc.Description),
		)
	}
	b.WriteString("\n")

	b.WriteString("## Space Layout\n\n")
	b.WriteString(SpaceMapDiagram(m))

	return b.String()
}

// generateAll writes the index page and one datasheet per register to
// outputDir.
func generateAll(m *DocModel, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	for _, doc := range m.Registers {
		content := GenerateRegisterPage(doc)
		slug := registerSlug(doc.Name)
		path := filepath.Join(outputDir, slug+".md")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", slug, err)
		}
	}

	indexPath := filepath.Join(outputDir, "index.md")
	if err := os.WriteFile(indexPath, []byte(GenerateIndexPage(m)), 0o644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}

	return nil
}
