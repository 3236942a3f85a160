package config

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/gi8lino/sprintreport/internal/issue"
	"github.com/gi8lino/sprintreport/internal/report"
	"github.com/gi8lino/sprintreport/internal/sprint"

	"gopkg.in/yaml.v3"
)

// Default values
const (
	defaultConcurrency = 4
	maxConcurrency     = 32
)

// LoadConfig reads the YAML config at path. An empty path yields the zero Config.
func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// ValidateConfig fills defaults and checks the config for consistency.
// funcs are the template functions summaryTemplate may use.
func ValidateConfig(cfg *Config, funcs template.FuncMap) error {
	setDefaults(cfg)

	var errs []string

	if _, err := report.ParseMissingPoints(cfg.MissingPoints); err != nil {
		errs = append(errs, fmt.Sprintf("missingPoints: %q must be %q or %q", cfg.MissingPoints, report.MissingPointsZero, report.MissingPointsReject))
	}

	if cfg.Concurrency < 1 || cfg.Concurrency > maxConcurrency {
		errs = append(errs, fmt.Sprintf("concurrency: %d out of range (1-%d)", cfg.Concurrency, maxConcurrency))
	}

	seen := map[string]bool{}
	for i, l := range cfg.GoalLabels {
		switch {
		case strings.TrimSpace(l) == "":
			errs = append(errs, fmt.Sprintf("goalLabels[%d]: label is empty", i))
		case strings.ContainsAny(l, " \t"):
			errs = append(errs, fmt.Sprintf("goalLabels[%d]: label %q must not contain whitespace", i, l))
		case seen[l]:
			errs = append(errs, fmt.Sprintf("goalLabels[%d]: duplicate label %q", i, l))
		}
		seen[l] = true
	}

	if cfg.SummaryTemplate != "" {
		if _, err := template.New("summary").Funcs(funcs).Parse(cfg.SummaryTemplate); err != nil {
			errs = append(errs, fmt.Sprintf("summaryTemplate: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// setDefault assigns dst to val only if *dst is empty.
func setDefault(dst *string, val string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = val
	}
}

// setDefaults fills in missing fields with default values.
func setDefaults(cfg *Config) {
	def := issue.DefaultFieldNames()
	setDefault(&cfg.Fields.Summary, def.Summary)
	setDefault(&cfg.Fields.Assignee, def.Assignee)
	setDefault(&cfg.Fields.Labels, def.Labels)
	setDefault(&cfg.Fields.Status, def.Status)
	setDefault(&cfg.Fields.StoryPoints, def.StoryPoints)
	setDefault(&cfg.Fields.PointsSpent, def.PointsSpent)

	setDefault(&cfg.MissingPoints, string(report.MissingPointsZero))

	if len(cfg.GoalLabels) == 0 {
		cfg.GoalLabels = append([]string(nil), sprint.DefaultGoalLabels...)
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = defaultConcurrency
	}
}
