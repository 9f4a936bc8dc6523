package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgscore/pkg/identity"
	"github.com/matzehuels/pkgscore/pkg/metrics"
	"github.com/matzehuels/pkgscore/pkg/observability"
	"github.com/matzehuels/pkgscore/pkg/scorecard"
	"github.com/matzehuels/pkgscore/pkg/store"
)

// Runner evaluates packages.
//
// The Runner holds no per-evaluation state: multiple goroutines can safely
// share one Runner. Each evaluation gets its own scorecard.
type Runner struct {
	resolver    Resolver
	evaluators  []metrics.Evaluator
	weights     scorecard.Weights
	timeout     time.Duration
	concurrency int
	store       store.Store
	logger      *log.Logger
}

// New creates a runner from opts.
func New(opts Options) (*Runner, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &Runner{
		resolver:    opts.Resolver,
		evaluators:  opts.Evaluators,
		weights:     opts.Weights,
		timeout:     opts.MetricTimeout,
		concurrency: opts.Concurrency,
		store:       opts.Store,
		logger:      opts.Logger,
	}, nil
}

// Weights returns the weights used for the net score.
func (r *Runner) Weights() scorecard.Weights { return r.weights }

// MetricTimeout returns the per-evaluator deadline.
func (r *Runner) MetricTimeout() time.Duration { return r.timeout }

// Evaluate runs the full evaluation of rawURL. Only resolution failures are
// returned as errors; metric failures are recorded as defaulted dimensions
// of the returned scorecard. A logger attached to ctx with log.WithContext
// takes precedence over the runner's logger.
func (r *Runner) Evaluate(ctx context.Context, rawURL string) (*scorecard.Scorecard, error) {
	return r.evaluate(ctx, rawURL, r.loggerFor(ctx))
}

func (r *Runner) loggerFor(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(log.ContextKey).(*log.Logger); ok && l != nil {
		return l
	}
	return r.logger
}

// EvaluateModule evaluates rawURL and returns its report as one JSON line.
func (r *Runner) EvaluateModule(ctx context.Context, rawURL string) (string, error) {
	sc, err := r.Evaluate(ctx, rawURL)
	if err != nil {
		return "", err
	}
	data, err := Render(sc, FormatJSON)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *Runner) evaluate(ctx context.Context, rawURL string, logger *log.Logger) (*scorecard.Scorecard, error) {
	start := time.Now()
	hooks := observability.Evaluation()
	logger = logger.With("url", rawURL)
	ctx = log.WithContext(ctx, logger)

	hooks.OnEvaluateStart(ctx, rawURL)

	// Stage 1: Resolve
	id, err := r.resolver.Resolve(ctx, rawURL)
	if err != nil {
		hooks.OnEvaluateComplete(ctx, rawURL, 0, time.Since(start), err)
		return nil, fmt.Errorf("resolve: %w", err)
	}
	logger.Debug("resolved", "repo", id.String())

	// Stage 2: Evaluate
	results := r.runEvaluators(ctx, id)

	// Stage 3: Score
	sc := scorecard.New(rawURL, id.Owner, id.Repo)
	for i, e := range r.evaluators {
		m, res := e.Metric(), results[i]
		if err := sc.Apply(m, res.Dimension()); err != nil {
			logger.Warn("metric defaulted", "metric", m, "err", err)
			res = metrics.Defaulted(err)
			_ = sc.Apply(m, res.Dimension())
		}
		hooks.OnMetricComplete(ctx, string(m), res.Score, res.Latency, res.Err)
	}
	if err := sc.ComputeNetScore(r.weights); err != nil {
		hooks.OnEvaluateComplete(ctx, rawURL, 0, time.Since(start), err)
		return nil, fmt.Errorf("net score: %w", err)
	}

	// Stage 4: Report
	if err := r.store.Save(ctx, sc); err != nil {
		logger.Warn("could not store report", "err", err)
	}

	logger.Info("evaluated",
		"net_score", scorecard.Round(sc.NetScore()),
		"defaulted", len(sc.Defaulted()),
		"duration", time.Since(start).Round(time.Millisecond))
	hooks.OnEvaluateComplete(ctx, rawURL, sc.NetScore(), time.Since(start), nil)
	return sc, nil
}

// runEvaluators fans out one goroutine per evaluator and returns their
// results in evaluator order once each has finished or hit its deadline.
func (r *Runner) runEvaluators(ctx context.Context, id identity.Identity) []metrics.Result {
	results := make([]metrics.Result, len(r.evaluators))

	var wg sync.WaitGroup
	for i, e := range r.evaluators {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.runOne(ctx, e, id)
		}()
	}
	wg.Wait()
	return results
}

// runOne waits for e or its deadline, whichever comes first. An evaluator
// that misses the deadline keeps running in the background; its result is
// dropped.
func (r *Runner) runOne(ctx context.Context, e metrics.Evaluator, id identity.Identity) metrics.Result {
	mctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan metrics.Result, 1)
	go func() {
		done <- e.Evaluate(mctx, id)
	}()

	select {
	case res := <-done:
		return res
	case <-mctx.Done():
		err := ErrMetricTimeout
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", ErrMetricTimeout, ctx.Err())
		}
		log.FromContext(ctx).Warn("metric defaulted", "metric", e.Metric(), "err", err, "timeout", r.timeout)
		return metrics.Defaulted(err)
	}
}

// Close releases the report store.
func (r *Runner) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
