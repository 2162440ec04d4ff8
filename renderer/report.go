package renderer

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/riskret"
)

//go:embed templates/*.md
var templates embed.FS

// Markdown renders the report as a markdown document: a title, the window, and one table row
// per instrument followed by the portfolio row.
func Markdown(r *riskret.Report) string {
	partials := map[string]string{
		"report_title": "report_title.md",
		"report_table": "report_table.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}

// Table renders only the summary table of the report.
func Table(r *riskret.Report) string {
	return renderTemplate("report_table", "report_table.md", nil, r)
}

// JSON writes the report rows as indented JSON.
func JSON(w io.Writer, r *riskret.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
