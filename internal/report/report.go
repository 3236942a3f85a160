package report

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gi8lino/sprintreport/internal/issue"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MissingPoints selects how issues without story points are aggregated.
type MissingPoints string

const (
	MissingPointsZero   MissingPoints = "zero"   // count as 0
	MissingPointsReject MissingPoints = "reject" // fail the report
)

// ErrMissingPoints is returned under MissingPointsReject.
var ErrMissingPoints = errors.New("issues without story points")

// ParseMissingPoints validates a policy name. An empty name selects MissingPointsZero.
func ParseMissingPoints(s string) (MissingPoints, error) {
	switch p := MissingPoints(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return MissingPointsZero, nil
	case MissingPointsZero, MissingPointsReject:
		return p, nil
	default:
		return "", fmt.Errorf("invalid missing points policy %q: must be %q or %q", s, MissingPointsZero, MissingPointsReject)
	}
}

// Row is one line of the report: key, summary, assignee, status, points, points spent.
type Row [6]string

// Totals aggregates story points of a sprint.
type Totals struct {
	Done  float64
	Total float64
}

// NotDone returns the points not yet completed.
func (t Totals) NotDone() float64 { return t.Total - t.Done }

// Percent returns Done as a percentage of Total, or 0 for an empty sprint.
func (t Totals) Percent() float64 {
	if t.Total == 0 {
		return 0
	}
	return t.Done / t.Total * 100
}

// Sort returns a copy of issues ordered by status rank, then assignee.
// Assignees are compared with English collation; ties keep input order.
func Sort(issues []issue.Issue) []issue.Issue {
	out := slices.Clone(issues)
	col := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b issue.Issue) int {
		if c := cmp.Compare(a.State().Rank(), b.State().Rank()); c != 0 {
			return c
		}
		return col.CompareString(a.Assignee, b.Assignee)
	})
	return out
}

// Compute sums points over done issues and over all issues.
func Compute(issues []issue.Issue, policy MissingPoints) (Totals, error) {
	var (
		t       Totals
		missing []string
	)
	for _, iss := range issues {
		if iss.Points == nil {
			missing = append(missing, iss.Key)
			continue
		}
		t.Total += *iss.Points
		if iss.State().IsDone() {
			t.Done += *iss.Points
		}
	}
	if policy == MissingPointsReject && len(missing) > 0 {
		return Totals{}, fmt.Errorf("%w: %s", ErrMissingPoints, strings.Join(missing, ", "))
	}
	return t, nil
}

// Rows projects sorted issues into report rows followed by the four summary rows.
func Rows(issues []issue.Issue, t Totals) []Row {
	sorted := Sort(issues)
	rows := make([]Row, 0, len(sorted)+4)
	for _, iss := range sorted {
		rows = append(rows, Row{
			iss.Key,
			iss.Summary,
			iss.Assignee,
			iss.Status,
			formatOptional(iss.Points),
			formatOptional(iss.PointsSpent),
		})
	}
	return append(rows,
		Row{"", "Done", "", "", FormatNumber(t.Done), ""},
		Row{"", "Not done", "", "", FormatNumber(t.NotDone()), ""},
		Row{"", "Total", "", "", FormatNumber(t.Total), ""},
		Row{"", "% Complete", "", "", FormatNumber(t.Percent()), ""},
	)
}

// Generate renders the sprint report as tab-separated lines.
// The input slice is not modified, so repeated calls yield identical output.
func Generate(issues []issue.Issue, policy MissingPoints) (string, error) {
	t, err := Compute(issues, policy)
	if err != nil {
		return "", err
	}
	return FormatTSV(Rows(issues, t)), nil
}

// FormatTSV joins cells with tabs and rows with newlines.
func FormatTSV(rows []Row) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Join(r[:], "\t")
	}
	return strings.Join(lines, "\n")
}

// Summary returns the one-line completion summary.
func Summary(t Totals) string {
	return fmt.Sprintf("Goal Completion: %s%% (%s points out of %s)",
		FormatNumber(t.Percent()), FormatNumber(t.Done), FormatNumber(t.Total))
}

// FormatNumber renders f in its shortest decimal form.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatOptional renders an absent number as an empty cell.
func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return FormatNumber(*f)
}
