package metrics

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgscore/pkg/identity"
	"github.com/matzehuels/pkgscore/pkg/integrations"
	"github.com/matzehuels/pkgscore/pkg/markdown"
	"github.com/matzehuels/pkgscore/pkg/scorecard"
)

// ReadmeSections are the headings RampUp looks for.
var ReadmeSections = []string{
	"Installation",
	"Usage",
	"Contributing",
	"License",
	"Getting Started",
	"Documentation",
	"Support",
}

const (
	sectionWeight    = 0.15
	codeBonusMany    = 0.3 // >= 3 fenced code blocks
	codeBonusSome    = 0.2 // 1-2 fenced code blocks
	linkBonus        = 0.1 // more than linkThreshold links
	linkThreshold    = 5
	lintBonusClean   = 0.1  // no lint issues
	lintBonusMinor   = 0.05 // up to minorLintIssues issues
	minorLintIssues  = 3
	manyCodeExamples = 3
)

// RampUp scores how easy it is to start using a package from its README.
type RampUp struct {
	provider Provider
}

// NewRampUp creates the RampUp evaluator.
func NewRampUp(p Provider) *RampUp {
	return &RampUp{provider: p}
}

func (e *RampUp) Metric() scorecard.Metric { return scorecard.RampUp }

func (e *RampUp) Evaluate(ctx context.Context, id identity.Identity) Result {
	return settle(ctx, e.Metric(), id, e.measure)
}

func (e *RampUp) measure(ctx context.Context, id identity.Identity) (Result, error) {
	var sw stopwatch
	readme, err := timed(&sw, func() (string, error) {
		return e.provider.FetchReadme(ctx, id.Owner, id.Repo)
	})
	if errors.Is(err, integrations.ErrNotFound) || (err == nil && strings.TrimSpace(readme) == "") {
		log.FromContext(ctx).Debug("no README found", "repo", id.String())
		return Result{Latency: sw.total}, nil
	}
	if err != nil {
		return Result{}, err
	}

	return Result{
		Score:   ScoreReadme(markdown.Analyze([]byte(readme))),
		Latency: sw.total,
	}, nil
}

// ScoreReadme scores an analysed README: section coverage plus bonuses for
// code examples, links and lint cleanliness, clamped to [0, 1].
func ScoreReadme(a markdown.Analysis) float64 {
	score := 0.0
	for _, s := range ReadmeSections {
		if a.HasSection(s) {
			score += sectionWeight
		}
	}

	switch {
	case a.CodeBlocks >= manyCodeExamples:
		score += codeBonusMany
	case a.CodeBlocks > 0:
		score += codeBonusSome
	}

	if a.Links > linkThreshold {
		score += linkBonus
	}

	switch n := len(a.Issues); {
	case n == 0:
		score += lintBonusClean
	case n <= minorLintIssues:
		score += lintBonusMinor
	}

	return clamp01(score)
}
