package metrics

import (
	"context"

	"github.com/matzehuels/pkgscore/pkg/identity"
	"github.com/matzehuels/pkgscore/pkg/integrations"
	"github.com/matzehuels/pkgscore/pkg/scorecard"
)

// BusFactor scores how evenly commits are spread across contributors.
type BusFactor struct {
	provider Provider
}

// NewBusFactor creates the BusFactor evaluator.
func NewBusFactor(p Provider) *BusFactor {
	return &BusFactor{provider: p}
}

func (e *BusFactor) Metric() scorecard.Metric { return scorecard.BusFactor }

func (e *BusFactor) Evaluate(ctx context.Context, id identity.Identity) Result {
	return settle(ctx, e.Metric(), id, e.measure)
}

func (e *BusFactor) measure(ctx context.Context, id identity.Identity) (Result, error) {
	var sw stopwatch
	contributors, err := timed(&sw, func() ([]integrations.Contributor, error) {
		return e.provider.Contributors(ctx, id.Owner, id.Repo)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Score: BusFactorScore(contributors), Latency: sw.total}, nil
}

// BusFactorScore maps the top contributor's share of all contributions to a
// score. No contributors scores 0.
func BusFactorScore(contributors []integrations.Contributor) float64 {
	total, top := 0, 0
	for _, c := range contributors {
		if c.Contributions <= 0 {
			continue
		}
		total += c.Contributions
		top = max(top, c.Contributions)
	}
	if total == 0 {
		return 0
	}

	share := float64(top) / float64(total)
	switch {
	case share >= 0.8:
		return 0
	case share >= 0.6:
		return 0.2
	case share >= 0.4:
		return 0.5
	default:
		return 1
	}
}
