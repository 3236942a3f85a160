package sprint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gi8lino/sprintreport/internal/issue"
	"github.com/gi8lino/sprintreport/internal/jira"

	"golang.org/x/sync/errgroup"
)

// ErrSprintNotFound is returned when no board has a sprint with the requested name.
var ErrSprintNotFound = errors.New("sprint not found")

// DefaultGoalLabels are added by InitializeGoal when none are configured.
var DefaultGoalLabels = []string{"sprint-goal", "original-sprint-goal"}

// API is the subset of the Jira client the sprint service needs.
type API interface {
	GetAllBoards(ctx context.Context) ([]jira.Board, error)
	GetAllSprintsForBoard(ctx context.Context, boardID int) ([]jira.Sprint, error)
	GetIssuesForSprint(ctx context.Context, sprintID int) ([]jira.IssueRef, error)
	GetIssue(ctx context.Context, issueID string) (jira.RawIssue, error)
	AddLabel(ctx context.Context, issueID, label string) error
}

// Options tunes a Service.
type Options struct {
	Fields      issue.FieldNames
	GoalLabels  []string
	Concurrency int // parallel issue fetches; values < 1 mean sequential
}

// Service resolves sprints by name and loads their issues.
type Service struct {
	api    API
	opts   Options
	logger *slog.Logger
}

// NewService returns a Service backed by api.
func NewService(api API, opts Options, logger *slog.Logger) *Service {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if len(opts.GoalLabels) == 0 {
		opts.GoalLabels = DefaultGoalLabels
	}
	if opts.Fields == (issue.FieldNames{}) {
		opts.Fields = issue.DefaultFieldNames()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{api: api, opts: opts, logger: logger}
}

// FindSprintID searches every board's sprints in listing order and returns the ID of
// the first sprint named exactly name.
func (s *Service) FindSprintID(ctx context.Context, name string) (int, error) {
	boards, err := s.api.GetAllBoards(ctx)
	if err != nil {
		return 0, err
	}
	for _, board := range boards {
		sprints, err := s.api.GetAllSprintsForBoard(ctx, board.ID)
		if err != nil {
			return 0, err
		}
		for _, sp := range sprints {
			if sp.Name == name {
				s.logger.Debug("sprint resolved", "name", name, "id", sp.ID, "board", board.ID)
				return sp.ID, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrSprintNotFound, name)
}

// Issues returns the normalized issues of the named sprint in listing order.
func (s *Service) Issues(ctx context.Context, name string) ([]issue.Issue, error) {
	s.logger.Info("finding sprint", "name", name)
	id, err := s.FindSprintID(ctx, name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("getting issues", "sprint", name, "id", id)
	refs, err := s.api.GetIssuesForSprint(ctx, id)
	if err != nil {
		return nil, err
	}

	results := make([]issue.Issue, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			raw, err := s.api.GetIssue(gctx, ref.LookupID())
			if err != nil {
				return err
			}
			iss, err := issue.Simplify(raw, s.opts.Fields)
			if err != nil {
				return err
			}
			results[i] = iss
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("issues loaded", "sprint", name, "count", len(results))
	return results, nil
}

// InitializeGoal labels every issue of the named sprint with the goal labels.
// Requests are sent one at a time; labels already applied stay applied on failure.
// It returns the number of labels added.
func (s *Service) InitializeGoal(ctx context.Context, name string) (int, error) {
	id, err := s.FindSprintID(ctx, name)
	if err != nil {
		return 0, err
	}
	refs, err := s.api.GetIssuesForSprint(ctx, id)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, ref := range refs {
		for _, label := range s.opts.GoalLabels {
			if err := s.api.AddLabel(ctx, ref.Key, label); err != nil {
				return added, err
			}
			added++
		}
		s.logger.Debug("goal labels added", "issue", ref.Key)
	}
	s.logger.Info("sprint goal initialized", "sprint", name, "issues", len(refs), "labels", added)
	return added, nil
}
