package jira

import "encoding/json"

// Board is an agile board as listed by /rest/agile/1.0/board.
type Board struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Sprint is a sprint as listed by /rest/agile/1.0/board/{id}/sprint.
type Sprint struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
}

// IssueRef is one entry of a sprint's issue listing.
type IssueRef struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// LookupID returns the ID used to fetch the issue, falling back to its key.
func (r IssueRef) LookupID() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Key
}

// RawIssue is a single issue fetched with expand=names.
// Fields are keyed by field ID; Names maps field ID to its display name.
type RawIssue struct {
	ID     string                     `json:"id"`
	Key    string                     `json:"key"`
	Fields map[string]json.RawMessage `json:"fields"`
	Names  map[string]string          `json:"names"`
}

// labelUpdate is the edit body adding labels through the "update" verb.
type labelUpdate struct {
	Update struct {
		Labels []map[string]string `json:"labels"`
	} `json:"update"`
}

// newLabelUpdate returns an edit body adding a single label.
func newLabelUpdate(label string) labelUpdate {
	var u labelUpdate
	u.Update.Labels = []map[string]string{{"add": label}}
	return u
}
