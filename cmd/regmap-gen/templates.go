package main

import (
	"fmt"
	"strings"
	"text/template"
)

// funcMap provides helper functions available to all templates.
var funcMap = template.FuncMap{
	"firstLower": firstLower,
	"quote":      func(s string) string { return fmt.Sprintf("%q", s) },
}

// templates holds all parsed code generation templates. Bodies are
// unindented; goimports formats the rendered output.
var templates = template.Must(template.New("").Funcs(funcMap).Parse(
	headerTmpl +
		offsetTmpl +
		fieldNamesTmpl +
		enumConstsTmpl +
		layoutTmpl +
		wrapperTmpl +
		accessorsTmpl,
))

// renderTemplate executes a named template into the builder.
func renderTemplate(b *strings.Builder, name string, data any) {
	if err := templates.ExecuteTemplate(b, name, data); err != nil {
		panic(fmt.Sprintf("template %s: %v", name, err))
	}
}

// --- Template data types ---

// registerData holds pre-computed data for one register definition.
type registerData struct {
	Package     string
	Name        string
	GoName      string
	Recv        string
	WidthExpr   string
	HasOffset   bool
	OffsetExpr  string
	Description string
	Fields      []fieldData
}

// fieldData holds pre-computed data for one field.
type fieldData struct {
	Name        string
	GoName      string
	ConstName   string
	Start       uint8
	End         uint8
	Range       string
	AccessExpr  string
	Description string
	Values      []enumData
}

// enumData holds pre-computed data for one named field value.
type enumData struct {
	Name        string
	ConstName   string
	ValueExpr   string
	Description string
}

// --- Template definitions ---

const headerTmpl = `{{define "header"}}// Code generated by regmap-gen. DO NOT EDIT.

package {{.Package}}

import (
"github.com/regmap-project/regmap-go/pkg/register"
)

{{end}}`

const offsetTmpl = `{{define "offset"}}// {{.GoName}}Offset is the {{.Name}} register's byte offset within its space.
const {{.GoName}}Offset uint64 = {{.OffsetExpr}}

{{end}}`

const fieldNamesTmpl = `{{define "fieldNames"}}// {{.Name}} field names.
const (
{{- range .Fields}}
{{.ConstName}} = {{quote .Name}}
{{- end}}
)

{{end}}`

const enumConstsTmpl = `{{define "enumConsts"}}// {{.Name}} values.
const (
{{- range .Values}}
{{- if .Description}}
// {{.ConstName}} {{firstLower .Description}}
{{- end}}
{{.ConstName}} uint32 = {{.ValueExpr}}
{{- end}}
)

{{end}}`

const layoutTmpl = `{{define "layout"}}// {{.GoName}}Layout is the validated {{.Name}} register layout.
var {{.GoName}}Layout = register.MustLayout({{quote .Name}}, {{.WidthExpr}}, []register.FieldSpec{
{{- range .Fields}}
{
Name: {{quote .Name}},
Start: {{.Start}},
End: {{.End}},
Access: {{.AccessExpr}},
{{- if .Description}}
Description: {{quote .Description}},
{{- end}}
{{- if .Values}}
Values: []register.EnumValue{
{{- range .Values}}
{Name: {{quote .Name}}, Value: {{.ValueExpr}}{{if .Description}}, Description: {{quote .Description}}{{end}}},
{{- end}}
},
{{- end}}
},
{{- end}}
})

{{end}}`

const wrapperTmpl = `{{define "wrapper"}}// {{.GoName}} wraps a Register with typed {{.Name}} field accessors.
{{- if .Description}}
// {{.Description}}
{{- end}}
type {{.GoName}} struct {
*register.Register
}

// New{{.GoName}} creates a new {{.Name}} register with raw value 0.
func New{{.GoName}}() *{{.GoName}} {
return &{{.GoName}}{Register: register.New({{.GoName}}Layout)}
}

{{end}}`

const accessorsTmpl = `{{define "accessors"}}
{{- range .Fields}}
// {{.GoName}} returns the {{.Name}} field {{.Range}}.
func ({{$.Recv}} *{{$.GoName}}) {{.GoName}}() (uint32, error) {
return {{$.Recv}}.Get({{.ConstName}})
}

// Set{{.GoName}} sets the {{.Name}} field {{.Range}}.
func ({{$.Recv}} *{{$.GoName}}) Set{{.GoName}}(value uint32) error {
return {{$.Recv}}.Set({{.ConstName}}, value)
}

{{end}}
{{- end}}`
