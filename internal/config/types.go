package config

import "github.com/gi8lino/sprintreport/internal/issue"

// Config is the optional YAML configuration of a report run.
type Config struct {
	Fields          issue.FieldNames `yaml:"fields"`          // display names of projected fields
	GoalLabels      []string         `yaml:"goalLabels"`      // labels added by init-goal
	MissingPoints   string           `yaml:"missingPoints"`   // "zero" or "reject"
	Concurrency     int              `yaml:"concurrency"`     // parallel issue fetches
	SummaryTemplate string           `yaml:"summaryTemplate"` // text/template for the summary line
}
