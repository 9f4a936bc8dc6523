package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgscore/pkg/identity"
	"github.com/matzehuels/pkgscore/pkg/integrations"
	"github.com/matzehuels/pkgscore/pkg/scorecard"
)

const (
	defaultIssueWindow = 30 * 24 * time.Hour
	defaultMaxIssues   = 30
)

// maintainerAssociations are the comment author associations that count as
// a maintainer response.
var maintainerAssociations = map[string]bool{
	"OWNER":        true,
	"MEMBER":       true,
	"COLLABORATOR": true,
	"CONTRIBUTOR":  true,
}

// ResponsiveMaintainer scores how quickly maintainers respond to new issues.
type ResponsiveMaintainer struct {
	provider  Provider
	now       func() time.Time
	window    time.Duration
	maxIssues int
}

// NewResponsiveMaintainer creates the ResponsiveMaintainer evaluator.
func NewResponsiveMaintainer(p Provider, opts Options) *ResponsiveMaintainer {
	e := &ResponsiveMaintainer{
		provider:  p,
		now:       opts.Now,
		window:    opts.IssueWindow,
		maxIssues: opts.MaxIssues,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.window <= 0 {
		e.window = defaultIssueWindow
	}
	if e.maxIssues <= 0 {
		e.maxIssues = defaultMaxIssues
	}
	return e
}

func (e *ResponsiveMaintainer) Metric() scorecard.Metric { return scorecard.ResponsiveMaintainer }

func (e *ResponsiveMaintainer) Evaluate(ctx context.Context, id identity.Identity) Result {
	return settle(ctx, e.Metric(), id, e.measure)
}

func (e *ResponsiveMaintainer) measure(ctx context.Context, id identity.Identity) (Result, error) {
	logger := log.FromContext(ctx).With("repo", id.String())
	var sw stopwatch

	since := e.now().Add(-e.window)
	issues, err := timed(&sw, func() ([]integrations.Issue, error) {
		return e.provider.Issues(ctx, id.Owner, id.Repo, integrations.IssueQuery{
			State: "all",
			Since: since,
			Limit: e.maxIssues,
		})
	})
	if err != nil {
		return Result{}, err
	}
	if len(issues) == 0 {
		logger.Debug("no issues in window", "since", since.Format(time.DateOnly))
		return Result{Score: 1, Latency: sw.total}, nil
	}

	var (
		total     time.Duration
		responded int
		errs      []error
	)
	for _, issue := range issues {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		comments, err := timed(&sw, func() ([]integrations.Comment, error) {
			return e.provider.IssueComments(ctx, id.Owner, id.Repo, issue.Number)
		})
		if err != nil {
			logger.Debug("issue comments unavailable", "issue", issue.Number, "err", err)
			errs = append(errs, err)
			continue
		}
		if d, ok := firstResponse(issue, comments); ok {
			total += d
			responded++
		}
	}

	if len(errs) == len(issues) {
		return Result{}, errors.Join(errs...)
	}
	if responded == 0 {
		logger.Debug("no maintainer responses", "issues", len(issues))
		return Result{Score: 0, Latency: sw.total}, nil
	}

	avg := total.Hours() / float64(responded)
	return Result{Score: ResponseScore(avg), Latency: sw.total}, nil
}

// firstResponse returns the delay between the issue's creation and the
// earliest maintainer comment.
func firstResponse(issue integrations.Issue, comments []integrations.Comment) (time.Duration, bool) {
	var first time.Time
	for _, c := range comments {
		if !maintainerAssociations[c.AuthorAssociation] {
			continue
		}
		if first.IsZero() || c.CreatedAt.Before(first) {
			first = c.CreatedAt
		}
	}
	if first.IsZero() {
		return 0, false
	}
	return max(first.Sub(issue.CreatedAt), 0), true
}

// ResponseScore maps the average response time in hours to a score.
func ResponseScore(avgHours float64) float64 {
	switch {
	case avgHours <= 72:
		return 1
	case avgHours <= 168:
		return 0.7
	case avgHours <= 336:
		return 0.4
	default:
		return 0
	}
}
