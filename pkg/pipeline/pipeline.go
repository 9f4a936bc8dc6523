// Package pipeline runs package evaluations for pkgscore.
//
// This package implements the resolve → evaluate → score flow that both the
// CLI and the HTTP server use. By centralizing it here, every entry point
// applies the same timeouts, weights and defaulting rules.
//
// # Architecture
//
// One evaluation has four stages:
//
//  1. Resolve: map the input URL to a GitHub owner/repo (fatal on failure)
//  2. Evaluate: run all metric evaluators concurrently, each under its own
//     deadline, and wait for every result or its deadline
//  3. Score: apply the results to a fresh scorecard and compute the net score
//  4. Report: serialize the scorecard and hand it to the report store
//
// Evaluators never touch the scorecard. The runner is its only writer and
// writes only after the barrier.
//
// # Usage
//
//	runner, err := pipeline.New(pipeline.Options{
//	    Resolver:   identity.NewResolver(npmClient),
//	    Evaluators: metrics.All(githubClient, metrics.Options{}),
//	    Logger:     logger,
//	})
//	if err != nil {
//	    return err
//	}
//	line, err := runner.EvaluateModule(ctx, "https://github.com/expressjs/express")
//
// Batch mode reads newline-delimited URLs and writes one report per line in
// input order:
//
//	summary, err := runner.Batch(ctx, os.Stdin, os.Stdout)
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgscore/pkg/identity"
	"github.com/matzehuels/pkgscore/pkg/metrics"
	"github.com/matzehuels/pkgscore/pkg/scorecard"
	"github.com/matzehuels/pkgscore/pkg/store"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultMetricTimeout bounds each evaluator.
	DefaultMetricTimeout = 30 * time.Second

	// DefaultConcurrency is the number of packages a batch evaluates at once.
	DefaultConcurrency = 4
)

// ErrMetricTimeout is the error of a metric whose evaluator missed its deadline.
var ErrMetricTimeout = errors.New("metric timed out")

// Resolver maps an input URL to a repository identity. [identity.Resolver]
// implements it.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (identity.Identity, error)
}

// =============================================================================
// Options - Runner Configuration
// =============================================================================

// Options configures a [Runner].
type Options struct {
	Resolver   Resolver
	Evaluators []metrics.Evaluator

	// Weights defaults to [scorecard.DefaultWeights] when zero.
	Weights scorecard.Weights
	// MetricTimeout defaults to [DefaultMetricTimeout].
	MetricTimeout time.Duration
	// Concurrency bounds batch parallelism (default [DefaultConcurrency]).
	Concurrency int

	// Store receives every finished scorecard. Defaults to [store.NullStore].
	Store  store.Store
	Logger *log.Logger
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Resolver == nil {
		return fmt.Errorf("resolver is required")
	}
	if len(o.Evaluators) == 0 {
		return fmt.Errorf("at least one evaluator is required")
	}
	seen := make(map[scorecard.Metric]bool, len(o.Evaluators))
	for _, e := range o.Evaluators {
		m := e.Metric()
		if !m.Valid() {
			return fmt.Errorf("unknown metric %q", m)
		}
		if seen[m] {
			return fmt.Errorf("duplicate evaluator for %s", m)
		}
		seen[m] = true
	}

	if o.Weights == (scorecard.Weights{}) {
		o.Weights = scorecard.DefaultWeights()
	}
	if err := o.Weights.Validate(); err != nil {
		return err
	}
	if o.MetricTimeout < 0 {
		return fmt.Errorf("negative metric timeout: %s", o.MetricTimeout)
	}
	if o.MetricTimeout == 0 {
		o.MetricTimeout = DefaultMetricTimeout
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Store == nil {
		o.Store = store.NullStore{}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}
