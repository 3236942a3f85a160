package jira_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gi8lino/sprintreport/internal/jira"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *jira.Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	return jira.NewClient(base, jira.NewBasicAuth("me@example.com", "tok"), false, 2*time.Second)
}

func TestClient_GetIssue(t *testing.T) {
	t.Parallel()

	t.Run("decodes fields and names", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("GET /rest/api/2/issue/{id}", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "10001", r.PathValue("id"))
			assert.Equal(t, "names", r.URL.Query().Get("expand"))
			w.Write([]byte(`{"id":"10001","key":"ABC-1","fields":{"f1":"Fix bug"},"names":{"f1":"Summary"}}`)) // nolint:errcheck
		})
		client := newTestClient(t, mux)

		issue, err := client.GetIssue(context.Background(), "10001")

		require.NoError(t, err)
		assert.Equal(t, "ABC-1", issue.Key)
		assert.Equal(t, "Summary", issue.Names["f1"])
		assert.JSONEq(t, `"Fix bug"`, string(issue.Fields["f1"]))
	})

	t.Run("wraps errors with the issue id", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.NotFoundHandler())

		_, err := client.GetIssue(context.Background(), "ABC-9")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "get issue ABC-9")
	})
}

func TestClient_AddLabel(t *testing.T) {
	t.Parallel()

	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /rest/api/2/issue/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ABC-1", r.PathValue("id"))
		assert.Equal(t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &got))
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, mux)

	err := client.AddLabel(context.Background(), "ABC-1", "sprint-goal")

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"update": map[string]any{
			"labels": []any{map[string]any{"add": "sprint-goal"}},
		},
	}, got)
}

func TestClient_Listings(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/agile/1.0/board", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("startAt"))
		w.Write([]byte(`{"values":[{"id":1,"name":"Team A"},{"id":2,"name":"Team B"}]}`)) // nolint:errcheck
	})
	mux.HandleFunc("GET /rest/agile/1.0/board/{id}/sprint", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.PathValue("id"))
		w.Write([]byte(`{"values":[{"id":20,"name":"S2","state":"active"}]}`)) // nolint:errcheck
	})
	mux.HandleFunc("GET /rest/agile/1.0/sprint/{id}/issue", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "20", r.PathValue("id"))
		w.Write([]byte(`{"issues":[{"id":"10001","key":"ABC-1"}]}`)) // nolint:errcheck
	})
	client := newTestClient(t, mux)

	t.Run("boards", func(t *testing.T) {
		t.Parallel()

		boards, err := client.GetAllBoards(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []jira.Board{{ID: 1, Name: "Team A"}, {ID: 2, Name: "Team B"}}, boards)
	})

	t.Run("sprints", func(t *testing.T) {
		t.Parallel()

		sprints, err := client.GetAllSprintsForBoard(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, []jira.Sprint{{ID: 20, Name: "S2", State: "active"}}, sprints)
	})

	t.Run("sprint issues", func(t *testing.T) {
		t.Parallel()

		issues, err := client.GetIssuesForSprint(context.Background(), 20)
		require.NoError(t, err)
		assert.Equal(t, []jira.IssueRef{{ID: "10001", Key: "ABC-1"}}, issues)
	})
}
