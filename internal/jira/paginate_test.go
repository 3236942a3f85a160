package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedGetter serves total items in windows of PageSize and records every requested path.
type pagedGetter struct {
	key   string
	total int
	paths []string
	err   error
}

func (p *pagedGetter) GetJSON(_ context.Context, path string, out any) error {
	p.paths = append(p.paths, path)
	if p.err != nil {
		return p.err
	}
	u, err := url.Parse(path)
	if err != nil {
		return err
	}
	start, _ := strconv.Atoi(u.Query().Get("startAt"))
	items := []map[string]any{}
	for i := start; i < p.total && i < start+PageSize; i++ {
		items = append(items, map[string]any{"id": i, "name": fmt.Sprintf("item-%d", i)})
	}
	raw, _ := json.Marshal(map[string]any{p.key: items, "startAt": start, "maxResults": PageSize})
	return json.Unmarshal(raw, out)
}

func TestGetPaginated(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 1, 49, 50, 51, 100} {
		t.Run(fmt.Sprintf("%d items", size), func(t *testing.T) {
			t.Parallel()

			g := &pagedGetter{key: "values", total: size}
			boards, err := GetPaginated[Board](context.Background(), g, "rest/agile/1.0/board", "")

			require.NoError(t, err)
			require.Len(t, boards, size)
			for i, b := range boards {
				assert.Equal(t, i, b.ID)
			}
			assert.Len(t, g.paths, (size+1+PageSize-1)/PageSize)
		})
	}

	t.Run("startAt follows accumulated count", func(t *testing.T) {
		t.Parallel()

		g := &pagedGetter{key: "issues", total: 120}
		_, err := GetPaginated[IssueRef](context.Background(), g, "rest/agile/1.0/sprint/7/issue", "issues")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"rest/agile/1.0/sprint/7/issue?startAt=0",
			"rest/agile/1.0/sprint/7/issue?startAt=50",
			"rest/agile/1.0/sprint/7/issue?startAt=100",
		}, g.paths)
	})

	t.Run("keeps existing query parameters", func(t *testing.T) {
		t.Parallel()

		g := &pagedGetter{key: "values", total: 3}
		_, err := GetPaginated[Sprint](context.Background(), g, "rest/agile/1.0/board/1/sprint?state=active", "values")

		require.NoError(t, err)
		assert.Equal(t, []string{"rest/agile/1.0/board/1/sprint?startAt=0&state=active"}, g.paths)
	})

	t.Run("missing results key", func(t *testing.T) {
		t.Parallel()

		g := &pagedGetter{key: "other", total: 3}
		_, err := GetPaginated[Board](context.Background(), g, "rest/agile/1.0/board", "values")

		require.Error(t, err)
		assert.EqualError(t, err, `missing "values" in page at startAt=0`)
	})

	t.Run("propagates fetch error", func(t *testing.T) {
		t.Parallel()

		g := &pagedGetter{key: "values", err: errors.New("boom")}
		_, err := GetPaginated[Board](context.Background(), g, "rest/agile/1.0/board", "values")

		require.Error(t, err)
		assert.EqualError(t, err, "boom")
	})
}
