package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetIssue fetches a single issue with its field display names expanded.
func (c *Client) GetIssue(ctx context.Context, issueID string) (RawIssue, error) {
	var issue RawIssue
	if err := c.GetJSON(ctx, "rest/api/2/issue/"+url.PathEscape(issueID)+"?expand=names", &issue); err != nil {
		return RawIssue{}, fmt.Errorf("get issue %s: %w", issueID, err)
	}
	return issue, nil
}

// EditIssue sends an edit body for the issue.
func (c *Client) EditIssue(ctx context.Context, issueID string, editBody any) error {
	if err := c.PutJSON(ctx, "rest/api/2/issue/"+url.PathEscape(issueID), editBody); err != nil {
		return fmt.Errorf("edit issue %s: %w", issueID, err)
	}
	return nil
}

// AddLabel adds a single label to the issue.
func (c *Client) AddLabel(ctx context.Context, issueID, label string) error {
	return c.EditIssue(ctx, issueID, newLabelUpdate(label))
}

// GetAllBoards lists every board visible to the caller.
func (c *Client) GetAllBoards(ctx context.Context) ([]Board, error) {
	boards, err := GetPaginated[Board](ctx, c, "rest/agile/1.0/board", DefaultResultsKey)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

// GetAllSprintsForBoard lists every sprint of a board.
func (c *Client) GetAllSprintsForBoard(ctx context.Context, boardID int) ([]Sprint, error) {
	path := "rest/agile/1.0/board/" + strconv.Itoa(boardID) + "/sprint"
	sprints, err := GetPaginated[Sprint](ctx, c, path, DefaultResultsKey)
	if err != nil {
		return nil, fmt.Errorf("list sprints for board %d: %w", boardID, err)
	}
	return sprints, nil
}

// GetIssuesForSprint lists the issues of a sprint.
func (c *Client) GetIssuesForSprint(ctx context.Context, sprintID int) ([]IssueRef, error) {
	path := "rest/agile/1.0/sprint/" + strconv.Itoa(sprintID) + "/issue"
	issues, err := GetPaginated[IssueRef](ctx, c, path, "issues")
	if err != nil {
		return nil, fmt.Errorf("list issues for sprint %d: %w", sprintID, err)
	}
	return issues, nil
}
