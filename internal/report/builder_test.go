package report_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gi8lino/sprintreport/internal/issue"
	"github.com/gi8lino/sprintreport/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	issues []issue.Issue
	err    error
	asked  []string
}

func (f *fakeSource) Issues(_ context.Context, name string) ([]issue.Issue, error) {
	f.asked = append(f.asked, name)
	return f.issues, f.err
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	issues := []issue.Issue{
		mk("A-1", "Done", "a", pts(3)),
		mk("A-2", "Done", "a", pts(5)),
		mk("A-3", "Open", "a", pts(2)),
	}

	t.Run("sprint report", func(t *testing.T) {
		t.Parallel()

		src := &fakeSource{issues: issues}
		b := report.NewBuilder(src, "", nil)

		got, err := b.SprintReport(context.Background(), "S1")

		require.NoError(t, err)
		want, _ := report.Generate(issues, report.MissingPointsZero)
		assert.Equal(t, want, got)
		assert.Equal(t, []string{"S1"}, src.asked)
	})

	t.Run("points summary", func(t *testing.T) {
		t.Parallel()

		b := report.NewBuilder(&fakeSource{issues: issues}, report.MissingPointsZero, nil)

		got, err := b.PointsSummary(context.Background(), "S1")

		require.NoError(t, err)
		assert.Equal(t, "Goal Completion: 80% (8 points out of 10)", got)
	})

	t.Run("custom summary func", func(t *testing.T) {
		t.Parallel()

		b := report.NewBuilder(&fakeSource{issues: issues}, report.MissingPointsZero,
			func(name string, t report.Totals) (string, error) {
				return name + ": " + report.FormatNumber(t.Percent()), nil
			})

		got, err := b.PointsSummary(context.Background(), "S1")

		require.NoError(t, err)
		assert.Equal(t, "S1: 80", got)
	})

	t.Run("sheet carries totals", func(t *testing.T) {
		t.Parallel()

		b := report.NewBuilder(&fakeSource{issues: issues}, report.MissingPointsZero, nil)

		sheet, err := b.SprintSheet(context.Background(), "S1")

		require.NoError(t, err)
		assert.Equal(t, "S1", sheet.Sprint)
		assert.Len(t, sheet.Rows, 7)
		assert.Equal(t, report.Totals{Done: 8, Total: 10}, sheet.Totals)
	})

	t.Run("source errors propagate", func(t *testing.T) {
		t.Parallel()

		b := report.NewBuilder(&fakeSource{err: errors.New("boom")}, report.MissingPointsZero, nil)

		_, err := b.SprintReport(context.Background(), "S1")
		require.EqualError(t, err, "boom")

		_, err = b.PointsSummary(context.Background(), "S1")
		require.EqualError(t, err, "boom")
	})
}
