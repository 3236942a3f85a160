package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/gi8lino/sprintreport/internal/report"
)

// DefaultSummaryTemplate renders the same line as report.Summary.
const DefaultSummaryTemplate = `Goal Completion: {{ number .Percent }}% ({{ number .Done }} points out of {{ number .Total }})`

// SummaryData is passed to the summary template.
type SummaryData struct {
	Sprint  string
	Done    float64
	NotDone float64
	Total   float64
	Percent float64
}

// SummaryFunc compiles text into a report.SummaryFunc. Empty text uses DefaultSummaryTemplate.
func SummaryFunc(text string) (report.SummaryFunc, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultSummaryTemplate
	}
	tmpl, err := template.New("summary").Funcs(TextFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse summary template: %w", err)
	}

	return func(sprintName string, t report.Totals) (string, error) {
		var buf bytes.Buffer
		err := tmpl.Execute(&buf, SummaryData{
			Sprint:  sprintName,
			Done:    t.Done,
			NotDone: t.NotDone(),
			Total:   t.Total,
			Percent: t.Percent(),
		})
		if err != nil {
			return "", fmt.Errorf("render summary: %w", err)
		}
		return strings.TrimSpace(buf.String()), nil
	}, nil
}
