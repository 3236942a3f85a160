package issue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/gi8lino/sprintreport/internal/jira"
)

// Unassigned is shown for issues without an assignee.
const Unassigned = "(Unassigned)"

// ErrMissingStatus is returned for issues whose Status field is absent or has no name.
var ErrMissingStatus = errors.New("missing status")

// FieldNames are the display names of the fields projected into an Issue.
type FieldNames struct {
	Summary     string `yaml:"summary"`
	Assignee    string `yaml:"assignee"`
	Labels      string `yaml:"labels"`
	Status      string `yaml:"status"`
	StoryPoints string `yaml:"storyPoints"`
	PointsSpent string `yaml:"pointsSpent"`
}

// DefaultFieldNames returns the display names used by a stock Jira instance.
func DefaultFieldNames() FieldNames {
	return FieldNames{
		Summary:     "Summary",
		Assignee:    "Assignee",
		Labels:      "Labels",
		Status:      "Status",
		StoryPoints: "Story Points",
		PointsSpent: "Points Spent",
	}
}

// Issue is the flat, normalized form of a fetched issue.
type Issue struct {
	Key         string
	Summary     string
	Assignee    string
	Labels      []string
	Status      string
	Points      *float64
	PointsSpent *float64
	Raw         map[string]json.RawMessage // display name -> raw value
}

// State returns the Status the issue's status name maps to.
func (i Issue) State() Status { return ParseStatus(i.Status) }

// named is the {"name": ...} shape shared by users and statuses.
type named struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Simplify maps a RawIssue into an Issue using the display names in fields.
// Field IDs without a display name are dropped. When several IDs share a display
// name, the first non-null value in field ID order wins.
func Simplify(raw jira.RawIssue, fields FieldNames) (Issue, error) {
	out := Issue{
		Key: raw.Key,
		Raw: make(map[string]json.RawMessage, len(raw.Fields)),
	}
	for _, id := range slices.Sorted(maps.Keys(raw.Fields)) {
		name, ok := raw.Names[id]
		if !ok || name == "" {
			continue
		}
		if _, set := out.present(name); set {
			continue
		}
		out.Raw[name] = raw.Fields[id]
	}

	if v, ok := out.present(fields.Summary); ok {
		if err := json.Unmarshal(v, &out.Summary); err != nil {
			return Issue{}, fmt.Errorf("%s: decode %s: %w", raw.Key, fields.Summary, err)
		}
	}

	out.Assignee = Unassigned
	if v, ok := out.present(fields.Assignee); ok {
		var user named
		if err := json.Unmarshal(v, &user); err != nil {
			return Issue{}, fmt.Errorf("%s: decode %s: %w", raw.Key, fields.Assignee, err)
		}
		switch {
		case user.Name != "":
			out.Assignee = user.Name
		case user.DisplayName != "":
			out.Assignee = user.DisplayName
		}
	}

	if v, ok := out.present(fields.Labels); ok {
		if err := json.Unmarshal(v, &out.Labels); err != nil {
			return Issue{}, fmt.Errorf("%s: decode %s: %w", raw.Key, fields.Labels, err)
		}
	}

	v, ok := out.present(fields.Status)
	if !ok {
		return Issue{}, fmt.Errorf("%s: %w", raw.Key, ErrMissingStatus)
	}
	var status named
	if err := json.Unmarshal(v, &status); err != nil {
		return Issue{}, fmt.Errorf("%s: decode %s: %w", raw.Key, fields.Status, err)
	}
	if status.Name == "" {
		return Issue{}, fmt.Errorf("%s: %w", raw.Key, ErrMissingStatus)
	}
	out.Status = status.Name

	var err error
	if out.Points, err = out.number(fields.StoryPoints); err != nil {
		return Issue{}, fmt.Errorf("%s: %w", raw.Key, err)
	}
	if out.PointsSpent, err = out.number(fields.PointsSpent); err != nil {
		return Issue{}, fmt.Errorf("%s: %w", raw.Key, err)
	}

	return out, nil
}

// present returns the raw value for name unless it is absent or JSON null.
func (i Issue) present(name string) (json.RawMessage, bool) {
	v, ok := i.Raw[name]
	if !ok || len(v) == 0 || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, false
	}
	return v, true
}

// number decodes the named field as a number; nil when absent.
func (i Issue) number(name string) (*float64, error) {
	v, ok := i.present(name)
	if !ok {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &f, nil
}
