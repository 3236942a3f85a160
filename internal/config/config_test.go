package config_test

import (
	"path/filepath"
	"testing"
	"text/template"

	"github.com/gi8lino/sprintreport/internal/config"
	"github.com/gi8lino/sprintreport/internal/issue"
	"github.com/gi8lino/sprintreport/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty path yields zero config", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, config.Config{}, cfg)
	})

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		testutils.MustWriteFile(t, path, `
fields:
  storyPoints: Estimate
goalLabels: [committed]
missingPoints: reject
concurrency: 8
summaryTemplate: "{{ .Sprint }}: {{ .Percent }}%"
`)

		cfg, err := config.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "Estimate", cfg.Fields.StoryPoints)
		assert.Equal(t, []string{"committed"}, cfg.GoalLabels)
		assert.Equal(t, "reject", cfg.MissingPoints)
		assert.Equal(t, 8, cfg.Concurrency)
		assert.Equal(t, "{{ .Sprint }}: {{ .Percent }}%", cfg.SummaryTemplate)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := config.LoadConfig("/nope/does-not-exist.yaml")
		require.Error(t, err)
		assert.EqualError(t, err, "read config: open /nope/does-not-exist.yaml: no such file or directory")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		testutils.MustWriteFile(t, path, "concurrency: [1, 2")

		_, err := config.LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("fills defaults", func(t *testing.T) {
		t.Parallel()

		cfg := config.Config{}
		require.NoError(t, config.ValidateConfig(&cfg, nil))

		assert.Equal(t, issue.DefaultFieldNames(), cfg.Fields)
		assert.Equal(t, []string{"sprint-goal", "original-sprint-goal"}, cfg.GoalLabels)
		assert.Equal(t, "zero", cfg.MissingPoints)
		assert.Equal(t, 4, cfg.Concurrency)
	})

	t.Run("keeps overrides", func(t *testing.T) {
		t.Parallel()

		cfg := config.Config{Fields: issue.FieldNames{Status: "State"}, Concurrency: 1}
		require.NoError(t, config.ValidateConfig(&cfg, nil))

		assert.Equal(t, "State", cfg.Fields.Status)
		assert.Equal(t, "Summary", cfg.Fields.Summary)
		assert.Equal(t, 1, cfg.Concurrency)
	})

	t.Run("collects all errors", func(t *testing.T) {
		t.Parallel()

		cfg := config.Config{
			MissingPoints: "nan",
			Concurrency:   -1,
			GoalLabels:    []string{"a", "", "a", "b c"},
		}

		err := config.ValidateConfig(&cfg, nil)

		require.Error(t, err)
		assert.EqualError(t, err, `config validation failed:
  - missingPoints: "nan" must be "zero" or "reject"
  - concurrency: -1 out of range (1-32)
  - goalLabels[1]: label is empty
  - goalLabels[2]: duplicate label "a"
  - goalLabels[3]: label "b c" must not contain whitespace`)
	})

	t.Run("summary template uses funcs", func(t *testing.T) {
		t.Parallel()

		funcs := template.FuncMap{"pct": func(f float64) string { return "" }}
		cfg := config.Config{SummaryTemplate: `{{ pct .Percent }}`}

		require.NoError(t, config.ValidateConfig(&cfg, funcs))
	})

	t.Run("broken summary template", func(t *testing.T) {
		t.Parallel()

		cfg := config.Config{SummaryTemplate: `{{ .Percent `}

		err := config.ValidateConfig(&cfg, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "summaryTemplate:")
	})
}
