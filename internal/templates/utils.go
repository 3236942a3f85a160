package templates

import (
	htmltemplate "html/template"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/gi8lino/sprintreport/internal/issue"
	"github.com/gi8lino/sprintreport/internal/report"
)

// TemplateFuncMap returns all helper functions for HTML templates.
func TemplateFuncMap() htmltemplate.FuncMap {
	fm := sprig.HtmlFuncMap()
	fm["number"] = report.FormatNumber
	fm["statusClass"] = statusClass
	return fm
}

// TextFuncMap returns all helper functions for text templates.
func TextFuncMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["number"] = report.FormatNumber
	return fm
}

// statusClass maps a status name to a CSS class.
func statusClass(status string) string {
	switch s := issue.ParseStatus(status); {
	case s.IsDone():
		return "done"
	case s.Rank() < 0:
		return "unknown"
	default:
		return "open"
	}
}
