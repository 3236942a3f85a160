package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// PageSize is the page length the API returns by default.
// A page shorter than this ends pagination.
const PageSize = 50

// DefaultResultsKey holds the page items on most agile endpoints.
const DefaultResultsKey = "values"

// JSONGetter fetches a path and decodes the JSON response.
type JSONGetter interface {
	GetJSON(ctx context.Context, path string, out any) error
}

// GetPaginated fetches every page of path and concatenates page[resultsKey] in order.
// Each request carries startAt=<items so far>; a page with fewer than PageSize items is the last.
func GetPaginated[T any](ctx context.Context, g JSONGetter, path, resultsKey string) ([]T, error) {
	if resultsKey == "" {
		resultsKey = DefaultResultsKey
	}
	base, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path: %w", err)
	}

	results := []T{}
	for {
		var page map[string]json.RawMessage
		if err := g.GetJSON(ctx, withStartAt(base, len(results)), &page); err != nil {
			return nil, err
		}

		raw, ok := page[resultsKey]
		if !ok {
			return nil, fmt.Errorf("missing %q in page at startAt=%d", resultsKey, len(results))
		}
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode %q at startAt=%d: %w", resultsKey, len(results), err)
		}
		results = append(results, items...)

		if len(items) < PageSize {
			return results, nil
		}
	}
}

// withStartAt returns base with startAt set, keeping any existing query parameters.
func withStartAt(base *url.URL, startAt int) string {
	u := *base
	q := u.Query()
	q.Set("startAt", strconv.Itoa(startAt))
	u.RawQuery = q.Encode()
	return u.String()
}
