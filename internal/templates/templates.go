package templates

import (
	"html/template"
	"io/fs"
	"path"
)

// ParseReportTemplates parses the report page and error templates.
func ParseReportTemplates(webFS fs.FS) (*template.Template, error) {
	return template.New("report").
		Funcs(TemplateFuncMap()).
		ParseFS(webFS,
			path.Join("web/templates", "report.gohtml"),
			path.Join("web/templates", "error.gohtml"),
		)
}
