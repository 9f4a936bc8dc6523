package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pkgscore/pkg/scorecard"
)

// BatchSummary counts the outcomes of a batch run.
type BatchSummary struct {
	RunID     string
	Total     int
	Evaluated int
	// Failed counts URLs that could not be evaluated at all.
	Failed int
	// Defaulted counts defaulted metrics across all evaluated packages.
	Defaulted int
}

type batchItem struct {
	sc  *scorecard.Scorecard
	err error
}

// Batch evaluates every URL read from in and writes one JSON report per
// line to out, in input order. Packages are evaluated concurrently, bounded
// by the runner's concurrency. A URL that cannot be evaluated is logged and
// skipped; only read and write failures abort the batch.
func (r *Runner) Batch(ctx context.Context, in io.Reader, out io.Writer) (BatchSummary, error) {
	urls, err := ParseURLList(in)
	if err != nil {
		return BatchSummary{}, err
	}

	sum := BatchSummary{RunID: uuid.NewString(), Total: len(urls)}
	logger := r.loggerFor(ctx).With("run", sum.RunID)
	logger.Info("batch started", "urls", len(urls), "concurrency", r.concurrency)

	ctx, cancel := context.WithCancel(ctx)

	slots := make([]chan batchItem, len(urls))
	for i := range slots {
		slots[i] = make(chan batchItem, 1)
	}

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		for i, u := range urls {
			if ctx.Err() != nil {
				return
			}
			g.Go(func() error {
				sc, err := r.evaluate(ctx, u, logger)
				slots[i] <- batchItem{sc: sc, err: err}
				return nil
			})
		}
	}()
	// Stop dispatching and wait for in-flight evaluations on every return path.
	defer func() {
		cancel()
		<-dispatched
		_ = g.Wait()
	}()

	// Results are drained in input order; later packages may finish first
	// and wait in their buffered slot.
	for i, u := range urls {
		var item batchItem
		select {
		case item = <-slots[i]:
		case <-ctx.Done():
			return sum, ctx.Err()
		}
		if item.err != nil {
			sum.Failed++
			logger.Error("could not evaluate", "url", u, "err", item.err)
			continue
		}
		sum.Evaluated++
		sum.Defaulted += len(item.sc.Defaulted())

		line, err := Render(item.sc, FormatJSON)
		if err != nil {
			return sum, err
		}
		if _, err := fmt.Fprintf(out, "%s\n", line); err != nil {
			return sum, fmt.Errorf("write report: %w", err)
		}
	}

	logger.Info("batch finished",
		"evaluated", sum.Evaluated,
		"failed", sum.Failed,
		"defaulted_metrics", sum.Defaulted)
	return sum, nil
}
