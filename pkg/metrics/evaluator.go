// Package metrics implements the five metric evaluators.
//
// Every evaluator satisfies [Evaluator]: it receives a resolved
// [identity.Identity], talks to the repository data provider, and returns its
// own [Result]. Evaluators never see the scorecard and never fail: any error
// or panic inside an evaluator becomes the defaulted result {0, 0, err}.
//
// Latency is the summed wall-clock duration of all provider calls an
// evaluator makes; CPU-bound scoring is not included.
package metrics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgscore/pkg/identity"
	"github.com/matzehuels/pkgscore/pkg/integrations"
	"github.com/matzehuels/pkgscore/pkg/scorecard"
)

// Result is the outcome of one evaluator.
type Result struct {
	Score   float64
	Latency time.Duration
	Err     error // non-nil marks a defaulted result
}

// Defaulted returns the error default {0, 0, err}.
func Defaulted(err error) Result {
	return Result{Err: err}
}

// Dimension converts r for [scorecard.Scorecard.Apply].
func (r Result) Dimension() scorecard.Dimension {
	return scorecard.Dimension{Score: r.Score, Latency: r.Latency, Err: r.Err}
}

// Evaluator scores one metric of a repository. Implementations hold no
// per-call state and are safe for concurrent use.
type Evaluator interface {
	Metric() scorecard.Metric
	Evaluate(ctx context.Context, id identity.Identity) Result
}

// Provider is the repository data provider. [github.Client] implements it.
// Missing resources are reported with [integrations.ErrNotFound].
//
// [github.Client]: github.com/matzehuels/pkgscore/pkg/integrations/github.Client
type Provider interface {
	FetchReadme(ctx context.Context, owner, repo string) (string, error)
	FetchRepo(ctx context.Context, owner, repo string) (*integrations.Repository, error)
	FetchFile(ctx context.Context, owner, repo, path string) (string, error)
	ListContents(ctx context.Context, owner, repo, path string) ([]integrations.ContentItem, error)
	Contributors(ctx context.Context, owner, repo string) ([]integrations.Contributor, error)
	Issues(ctx context.Context, owner, repo string, q integrations.IssueQuery) ([]integrations.Issue, error)
	IssueComments(ctx context.Context, owner, repo string, number int) ([]integrations.Comment, error)
}

// Options tunes the evaluators built by [All].
type Options struct {
	// AllowedLicenses overrides [DefaultAllowedLicenses].
	AllowedLicenses []string
	// Now overrides the clock used for the issue window.
	Now func() time.Time
	// IssueWindow is how far back ResponsiveMaintainer looks (default 30 days).
	IssueWindow time.Duration
	// MaxIssues bounds the comment fetches of ResponsiveMaintainer (default 30).
	MaxIssues int
}

// All returns one evaluator per metric, in report order.
func All(p Provider, opts Options) []Evaluator {
	return []Evaluator{
		NewRampUp(p),
		NewCorrectness(p),
		NewBusFactor(p),
		NewResponsiveMaintainer(p, opts),
		NewLicense(p, opts.AllowedLicenses),
	}
}

// measureFunc is the fallible core of an evaluator.
type measureFunc func(ctx context.Context, id identity.Identity) (Result, error)

// settle runs measure inside the evaluator's failure boundary.
func settle(ctx context.Context, m scorecard.Metric, id identity.Identity, measure measureFunc) (res Result) {
	logger := log.FromContext(ctx).With("metric", m, "repo", id.String())

	defer func() {
		if r := recover(); r != nil {
			res = Defaulted(fmt.Errorf("%s: panic: %v", m, r))
			logger.Error("evaluator panicked", "panic", r)
		}
	}()

	res, err := measure(ctx, id)
	if err != nil {
		logger.Warn("metric defaulted", "err", err)
		return Defaulted(fmt.Errorf("%s: %w", m, err))
	}

	res.Score = clamp01(res.Score)
	res.Err = nil
	logger.Debug("metric evaluated", "score", scorecard.Round(res.Score), "latency", res.Latency)
	return res
}

// stopwatch accumulates the duration of external calls.
type stopwatch struct {
	total time.Duration
}

// timed runs fn and adds its duration to sw.
func timed[T any](sw *stopwatch, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	sw.total += time.Since(start)
	return v, err
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
