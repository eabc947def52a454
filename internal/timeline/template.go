package timeline

import (
	"bytes"
	"os"
	"text/template"
)

const defaultTemplate = `{{.Circuit}} ({{.Method}}{{if .Padded}}, padded{{end}}): {{.Duration}} dt over {{.Instructions}} instructions
{{- range .Wires}}
{{.Wire}}: busy {{.Busy}} idle {{.Idle}}
{{- range .Slots}}
  [{{.Start}}, {{.Stop}}) {{.Label}}{{if .Critical}} *{{end}}
{{- end}}
{{- end}}
`

// Render formats the report with the template at templatePath, or with
// a plain text layout when templatePath is empty.
func Render(r *Report, templatePath string) (string, error) {
	tmplStr := defaultTemplate
	if templatePath != "" {
		content, err := os.ReadFile(templatePath)
		if err != nil {
			return "", err
		}
		tmplStr = string(content)
	}

	tmpl, err := template.New("timeline").Parse(tmplStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}
