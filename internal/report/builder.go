package report

import (
	"context"

	"github.com/gi8lino/sprintreport/internal/issue"
)

// Source loads the normalized issues of a sprint.
type Source interface {
	Issues(ctx context.Context, sprintName string) ([]issue.Issue, error)
}

// SummaryFunc formats the completion summary of a sprint.
type SummaryFunc func(sprintName string, t Totals) (string, error)

// Builder produces reports for sprints looked up by name.
type Builder struct {
	src       Source
	policy    MissingPoints
	summarize SummaryFunc
}

// NewBuilder returns a Builder. A nil summarize uses Summary.
func NewBuilder(src Source, policy MissingPoints, summarize SummaryFunc) *Builder {
	if summarize == nil {
		summarize = func(_ string, t Totals) (string, error) { return Summary(t), nil }
	}
	if policy == "" {
		policy = MissingPointsZero
	}
	return &Builder{src: src, policy: policy, summarize: summarize}
}

// Sheet is a computed report: rows (summary rows included) and totals.
type Sheet struct {
	Sprint string
	Rows   []Row
	Totals Totals
}

// SprintSheet loads the sprint and computes its rows and totals.
func (b *Builder) SprintSheet(ctx context.Context, sprintName string) (Sheet, error) {
	issues, err := b.src.Issues(ctx, sprintName)
	if err != nil {
		return Sheet{}, err
	}
	t, err := Compute(issues, b.policy)
	if err != nil {
		return Sheet{}, err
	}
	return Sheet{Sprint: sprintName, Rows: Rows(issues, t), Totals: t}, nil
}

// SprintReport returns the tab-separated report of the sprint.
func (b *Builder) SprintReport(ctx context.Context, sprintName string) (string, error) {
	sheet, err := b.SprintSheet(ctx, sprintName)
	if err != nil {
		return "", err
	}
	return FormatTSV(sheet.Rows), nil
}

// PointsSummary returns the completion summary of the sprint.
func (b *Builder) PointsSummary(ctx context.Context, sprintName string) (string, error) {
	issues, err := b.src.Issues(ctx, sprintName)
	if err != nil {
		return "", err
	}
	t, err := Compute(issues, b.policy)
	if err != nil {
		return "", err
	}
	return b.Summarize(sprintName, t)
}

// Summarize formats already computed totals with the configured SummaryFunc.
func (b *Builder) Summarize(sprintName string, t Totals) (string, error) {
	return b.summarize(sprintName, t)
}
