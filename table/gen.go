package table

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"go/format"
	"io"
	"text/template"

	"github.com/go-edgebit/ioctl/ioc"
	"golang.org/x/exp/slices"
)

// importPath is the package generated bindings refer to for typed entries.
const importPath = "github.com/go-edgebit/ioctl"

var goTemplate = template.Must(template.New("go").Parse(`
{{- define "macro" }}{{ if .Raw }}raw{{ else }}{{ .Fields.Format }}{{ end }}{{ end -}}
// Code generated by ioc gen from {{ .Source }}; DO NOT EDIT.
// sha256 {{ .SHA256 }}

//go:build {{ .Constraint }}

package {{ .Package }}
{{ if .Typed }}
import "{{ .ImportPath }}"
{{ end }}
// {{ .Name }} ioctl request codes for the {{ .Layout }} layout.
const (
{{- range .Resolved }}{{ if not .Entry.Type }}
	{{ .Entry.Name }} = {{ .Code.Hex }} // {{ template "macro" . }}
{{- end }}{{ end }}
)
{{ if .Typed }}
// Requests whose argument type is declared in this package.
var (
{{- range .Resolved }}{{ if .Entry.Type }}
	{{ .Entry.Name }} = ioctl.PtrOf[{{ .Entry.Type }}](ioctl.FromRaw({{ .Code.Hex }})) // {{ template "macro" . }}
{{- end }}{{ end }}
)
{{ end }}`))

// WriteGo writes a gofmt'ed Go file declaring a constant per entry, encoded
// for layout and guarded by layout's build constraint. Entries with a Type
// become ioctl.Ptr variables of that type instead.
func (table *Table) WriteGo(w io.Writer, layout ioc.Layout) error {
	resolved, err := table.Resolve(layout)
	if err != nil {
		return err
	}

	defs := table.parsed

	pkg := defs.Package
	if pkg == "" {
		pkg = defs.Name
	}

	source := table.sourcePath
	if source == "" {
		source = defs.Name
	}

	typed := slices.IndexFunc(resolved, func(r Resolved) bool {
		return r.Entry.Type != ""
	}) >= 0

	buf := &bytes.Buffer{}
	err = goTemplate.Execute(buf, map[string]any{
		"Source":     source,
		"SHA256":     hex.EncodeToString(table.SHA256()),
		"Constraint": layout.BuildConstraint(),
		"Package":    pkg,
		"Name":       defs.Name,
		"Layout":     layout.Name(),
		"Resolved":   resolved,
		"Typed":      typed,
		"ImportPath": importPath,
	})
	if err != nil {
		return err
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("formatting generated code: %w", err)
	}

	_, err = w.Write(src)
	return err
}
