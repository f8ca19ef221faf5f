package main

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

type tableEntry struct {
	Key string
	ID  string
}

type keyEntry struct {
	Key   string
	Ident string
}

type tableData struct {
	Package string
	Groups  []RawFieldGroup
	Sorted  []tableEntry
	Keys    []keyEntry
}

var funcMap = template.FuncMap{
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}

var tableTmpl = template.Must(template.New("table").Funcs(funcMap).Parse(`// Code generated by paneldue-fieldgen. DO NOT EDIT.

package {{.Package}}

import "github.com/paneldue/paneldue-go/pkg/wire"

// Field identifiers, grouped by the response that carries them.
const (
	Unknown FieldID = iota
{{- range .Groups}}

	// {{.Name}}
{{- range .Fields}}
	{{.ID}}
{{- end}}
{{- end}}

	numFields
)

var fieldPaths = [numFields]string{
	"",
{{- range .Groups}}{{range .Fields}}
	{{quote .Path}},
{{- end}}{{end}}
}

// table is sorted by lower-cased path.
var table = []entry{
{{- range .Sorted}}
	{ {{- quote .Key}}, {{.ID -}} },
{{- end}}
}

// keyTable is sorted by key.
var keyTable = []keyEntry{
	{"", wire.SubsystemNone},
{{- range .Keys}}
	{ {{- quote .Key}}, wire.{{.Ident -}} },
{{- end}}
}
`))

// Generate renders the table source for def.
func Generate(def *RawFieldDefs, pkg string) (string, error) {
	data := tableData{Package: pkg, Groups: def.Groups}

	for _, g := range def.Groups {
		for _, f := range g.Fields {
			data.Sorted = append(data.Sorted, tableEntry{Key: strings.ToLower(f.Path), ID: f.ID})
		}
	}
	sort.Slice(data.Sorted, func(i, j int) bool { return data.Sorted[i].Key < data.Sorted[j].Key })

	for _, k := range def.Keys {
		data.Keys = append(data.Keys, keyEntry{Key: strings.ToLower(k), Ident: "Subsystem" + goTitleCase(k)})
	}
	sort.Slice(data.Keys, func(i, j int) bool { return data.Keys[i].Key < data.Keys[j].Key })

	var buf bytes.Buffer
	if err := tableTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// goTitleCase converts "boards" to "Boards".
func goTitleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
