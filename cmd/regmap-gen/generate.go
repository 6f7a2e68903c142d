package main

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/regmap-project/regmap-go/pkg/register"
	"github.com/regmap-project/regmap-go/pkg/schema"
)

// GenerateRegister produces the Go source for one register definition:
// field name constants, enum value constants, the validated layout, and
// a typed wrapper with per-field accessors. The output is unformatted;
// callers run it through goimports before writing.
func GenerateRegister(def *schema.RawRegisterDef, pkg string) (string, error) {
	layout, err := def.BuildLayout()
	if err != nil {
		return "", err
	}

	data := buildRegisterData(def, layout, pkg)

	var b strings.Builder
	renderTemplate(&b, "header", data)
	if data.HasOffset {
		renderTemplate(&b, "offset", data)
	}
	renderTemplate(&b, "fieldNames", data)
	for _, f := range data.Fields {
		if len(f.Values) > 0 {
			renderTemplate(&b, "enumConsts", f)
		}
	}
	renderTemplate(&b, "layout", data)
	renderTemplate(&b, "wrapper", data)
	renderTemplate(&b, "accessors", data)

	return b.String(), nil
}

func buildRegisterData(def *schema.RawRegisterDef, layout *register.Layout, pkg string) registerData {
	goName := goTitleCase(layout.Name())

	data := registerData{
		Package:     pkg,
		Name:        layout.Name(),
		GoName:      goName,
		Recv:        strings.ToLower(goName[:1]),
		WidthExpr:   fmt.Sprintf("register.Width%d", layout.Width().Bits()),
		Description: def.Description,
	}
	if def.Offset != nil {
		data.HasOffset = true
		data.OffsetExpr = fmt.Sprintf("0x%02X", *def.Offset)
	}

	for _, spec := range layout.Fields() {
		data.Fields = append(data.Fields, buildFieldData(goName, spec))
	}
	return data
}

func buildFieldData(regGoName string, spec register.FieldSpec) fieldData {
	fieldGo := goTitleCase(spec.Name)

	f := fieldData{
		Name:        spec.Name,
		GoName:      fieldGo,
		ConstName:   regGoName + "Field" + fieldGo,
		Start:       spec.Start,
		End:         spec.End,
		Range:       bitRange(spec.Start, spec.End),
		AccessExpr:  accessExpr(spec.Access),
		Description: spec.Description,
	}

	for _, v := range spec.Values {
		f.Values = append(f.Values, enumData{
			Name:        v.Name,
			ConstName:   regGoName + fieldGo + enumValueSuffix(v.Name),
			ValueExpr:   fmt.Sprintf("0x%02X", v.Value),
			Description: v.Description,
		})
	}
	return f
}

// goTitleCase converts "maxLinkSpeed" to "MaxLinkSpeed" and
// "link_disable" to "LinkDisable".
func goTitleCase(name string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		if r == '_' || r == '-' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// enumValueSuffix converts "GEN1" to "Gen1" and "L0S_L1" to "L0sL1".
func enumValueSuffix(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	return b.String()
}

// firstLower lowercases the first rune of s.
func firstLower(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// bitRange renders "[end:start]" for multi-bit fields and "[bit]" for
// single-bit fields, most significant bit first.
func bitRange(start, end uint8) string {
	if end > start {
		return fmt.Sprintf("[%d:%d]", end, start)
	}
	return fmt.Sprintf("[%d]", start)
}

func accessExpr(a register.Access) string {
	switch a {
	case register.AccessNone:
		return "register.AccessNone"
	case register.AccessRead:
		return "register.AccessRead"
	case register.AccessWrite:
		return "register.AccessWrite"
	default:
		return "register.AccessReadWrite"
	}
}
