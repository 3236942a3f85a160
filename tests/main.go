package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/containeroo/tinyflags"
	"gopkg.in/yaml.v3"
)

// Fixture is the mock Jira content.
type Fixture struct {
	Port        int               `yaml:"port"`
	PageSize    int               `yaml:"pageSize"`
	RandomDelay bool              `yaml:"randomDelay"`
	Names       map[string]string `yaml:"names"` // field ID -> display name, sent with every issue
	Boards      []Board           `yaml:"boards"`
}

// Board is one agile board with its sprints.
type Board struct {
	ID      int      `yaml:"id"`
	Name    string   `yaml:"name"`
	Sprints []Sprint `yaml:"sprints"`
}

// Sprint lists the issues it contains.
type Sprint struct {
	ID     int     `yaml:"id"`
	Name   string  `yaml:"name"`
	State  string  `yaml:"state"`
	Issues []Issue `yaml:"issues"`
}

// Issue carries raw field values keyed by field ID.
type Issue struct {
	ID     string         `yaml:"id"`
	Key    string         `yaml:"key"`
	Fields map[string]any `yaml:"fields"`
}

// mock serves a Fixture and keeps label edits in memory.
type mock struct {
	fx     Fixture
	mu     sync.Mutex
	labels map[string][]string // issue key -> added labels
}

// main starts the mock Jira server for manual runs of sprintreport.
func main() {
	var (
		flagFixture string
		flagLogBody bool
	)

	tf := tinyflags.NewFlagSet("mock-jira", tinyflags.ExitOnError)
	tf.StringVar(&flagFixture, "fixture", "", "Path to the mock Jira fixture yaml (required)").Value()
	tf.BoolVar(&flagLogBody, "log-body", false, "Log request bodies of issue edits")

	if err := tf.Parse(os.Args[1:]); err != nil {
		log.Fatal("flag parse error:", err)
	}
	if strings.TrimSpace(flagFixture) == "" {
		log.Fatal("missing required --fixture=<path to yaml>")
	}

	fx, err := loadFixture(flagFixture)
	if err != nil {
		log.Fatalf("fixture error: %v", err)
	}

	m := &mock{fx: fx, labels: map[string][]string{}}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/agile/1.0/board", m.boards)
	mux.HandleFunc("GET /rest/agile/1.0/board/{id}/sprint", m.sprints)
	mux.HandleFunc("GET /rest/agile/1.0/sprint/{id}/issue", m.sprintIssues)
	mux.HandleFunc("GET /rest/api/2/issue/{id}", m.issue)
	mux.HandleFunc("PUT /rest/api/2/issue/{id}", func(w http.ResponseWriter, r *http.Request) {
		m.edit(w, r, flagLogBody)
	})

	var h http.Handler = mux
	if fx.RandomDelay {
		h = withRandomDelay(mux, 200, 1000)
	}

	addr := ":" + strconv.Itoa(fx.Port)
	log.Printf("Mock Jira listening on %s (%d boards)", addr, len(fx.Boards))
	log.Fatal(http.ListenAndServe(addr, h))
}

// loadFixture reads the fixture and applies defaults.
func loadFixture(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, err
	}
	var fx Fixture
	dec := yaml.NewDecoder(strings.NewReader(string(raw)))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return Fixture{}, err
	}

	if fx.Port == 0 {
		fx.Port = 8081
	}
	if fx.PageSize <= 0 {
		fx.PageSize = 50
	}
	for _, b := range fx.Boards {
		for _, s := range b.Sprints {
			for _, is := range s.Issues {
				if is.ID == "" || is.Key == "" {
					return Fixture{}, fmt.Errorf("sprint %q: issue needs id and key", s.Name)
				}
			}
		}
	}
	return fx, nil
}

func (m *mock) boards(w http.ResponseWriter, r *http.Request) {
	items := make([]any, 0, len(m.fx.Boards))
	for _, b := range m.fx.Boards {
		items = append(items, map[string]any{"id": b.ID, "name": b.Name, "type": "scrum"})
	}
	m.writePage(w, r, "values", items)
}

func (m *mock) sprints(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	i := slices.IndexFunc(m.fx.Boards, func(b Board) bool { return b.ID == id })
	if i < 0 {
		http.Error(w, "board not found", http.StatusNotFound)
		return
	}
	items := []any{}
	for _, s := range m.fx.Boards[i].Sprints {
		items = append(items, map[string]any{"id": s.ID, "name": s.Name, "state": s.State})
	}
	m.writePage(w, r, "values", items)
}

func (m *mock) sprintIssues(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	s, ok := m.findSprint(id)
	if !ok {
		http.Error(w, "sprint not found", http.StatusNotFound)
		return
	}
	items := []any{}
	for _, is := range s.Issues {
		items = append(items, map[string]any{"id": is.ID, "key": is.Key})
	}
	m.writePage(w, r, "issues", items)
}

func (m *mock) issue(w http.ResponseWriter, r *http.Request) {
	is, ok := m.findIssue(r.PathValue("id"))
	if !ok {
		http.Error(w, `{"errorMessages":["Issue does not exist"]}`, http.StatusNotFound)
		return
	}

	fields := make(map[string]any, len(is.Fields)+1)
	for k, v := range is.Fields {
		fields[k] = v
	}
	m.mu.Lock()
	if added := m.labels[is.Key]; len(added) > 0 {
		labels, _ := fields["labels"].([]any)
		for _, l := range added {
			labels = append(labels, l)
		}
		fields["labels"] = labels
	}
	m.mu.Unlock()

	resp := map[string]any{"id": is.ID, "key": is.Key, "fields": fields}
	if r.URL.Query().Get("expand") == "names" {
		resp["names"] = m.fx.Names
	}
	writeJSON(w, http.StatusOK, resp)
}

func (m *mock) edit(w http.ResponseWriter, r *http.Request, logBody bool) {
	is, ok := m.findIssue(r.PathValue("id"))
	if !ok {
		http.Error(w, "issue not found", http.StatusNotFound)
		return
	}
	var body struct {
		Update struct {
			Labels []struct {
				Add string `json:"add"`
			} `json:"labels"`
		} `json:"update"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if logBody {
		log.Printf("edit %s: %+v", is.Key, body)
	}

	m.mu.Lock()
	for _, op := range body.Update.Labels {
		if op.Add != "" && !slices.Contains(m.labels[is.Key], op.Add) {
			m.labels[is.Key] = append(m.labels[is.Key], op.Add)
		}
	}
	m.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// findSprint returns the sprint with the given ID on any board.
func (m *mock) findSprint(id int) (Sprint, bool) {
	for _, b := range m.fx.Boards {
		for _, s := range b.Sprints {
			if s.ID == id {
				return s, true
			}
		}
	}
	return Sprint{}, false
}

// findIssue looks an issue up by ID or key.
func (m *mock) findIssue(idOrKey string) (Issue, bool) {
	for _, b := range m.fx.Boards {
		for _, s := range b.Sprints {
			for _, is := range s.Issues {
				if is.ID == idOrKey || is.Key == idOrKey {
					return is, true
				}
			}
		}
	}
	return Issue{}, false
}

// writePage serves one startAt/maxResults window of items under key.
func (m *mock) writePage(w http.ResponseWriter, r *http.Request, key string, items []any) {
	start, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
	limit, err := strconv.Atoi(r.URL.Query().Get("maxResults"))
	if err != nil || limit <= 0 || limit > m.fx.PageSize {
		limit = m.fx.PageSize
	}
	start = min(max(start, 0), len(items))
	end := min(start+limit, len(items))

	writeJSON(w, http.StatusOK, map[string]any{
		"startAt":    start,
		"maxResults": limit,
		"total":      len(items),
		"isLast":     end == len(items),
		key:          items[start:end],
	})
}

// withRandomDelay sleeps a random duration in [minMs,maxMs) before each request.
func withRandomDelay(next http.Handler, minMs, maxMs int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(minMs+rand.Intn(maxMs-minMs)) * time.Millisecond)
		log.Printf("%s %s", r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
