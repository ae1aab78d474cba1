package main

import (
	"bytes"
	"text/template"
)

var templates = template.Must(template.New("tables").Parse(tablesTmpl))

const tablesTmpl = `// Code generated by bs-tablegen from {{.Source}}. DO NOT EDIT.

package {{.Package}}
{{range .Tables}}{{if .Constants}}
// {{.Name}} names.
const (
{{- range .Constants}}
	{{.Ident}} = {{printf "%q" .Value}}
{{- end}}
)
{{end}}{{end}}
{{- range .Tables}}
// {{.Name}} {{if .Doc}}lists {{.Doc}}{{else}}is the {{.Name}} table{{end}}.
{{- if not .Wire}}
// It is a membership set; its indices are not wire values.
{{- end}}
var {{.Name}} = NewTable({{printf "%q" .Name}},
{{- range .Entries}}
	{{.}},
{{- end}}
)
{{end}}`

// Generate renders the tables source. source names the YAML file in the
// generated header.
func Generate(r *Resolved, pkg, source string) (string, error) {
	var buf bytes.Buffer
	err := templates.Execute(&buf, struct {
		Package string
		Source  string
		Tables  []Table
	}{pkg, source, r.Tables})
	return buf.String(), err
}
