package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/nhle/issue-tracker/internal/model"
)

var pageTemplate = template.Must(template.New("issues").Parse(`<!DOCTYPE html>
<html>
<head>
	<title>{{.Title}}</title>
	<meta charset="UTF-8">
	<style>
		body { padding: 20px; font-family: sans-serif; }
		table { width: 100%; border-collapse: collapse; margin-top: 20px; }
		th, td { padding: 10px; border: 1px solid #ddd; text-align: left; }
		thead tr { background-color: #f2f2f2; }
	</style>
</head>
<body>
	<h1>{{.Title}}</h1>
{{- if .Rows}}
	<table>
		<thead>
			<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
		</thead>
		<tbody>
{{- range .Rows}}
			<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
		</tbody>
	</table>
{{- else}}
	<p>{{.Empty}}</p>
{{- end}}
</body>
</html>
`))

// HTML writes a standalone page with the issues table. With no issues the
// page carries NoIssuesText and no table element.
func HTML(w io.Writer, issues []model.Issue, f Formatter) error {
	data := struct {
		Title   string
		Empty   string
		Columns []string
		Rows    [][]string
	}{
		Title:   Title,
		Empty:   NoIssuesText,
		Columns: Columns,
		Rows:    Rows(issues, f),
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}
