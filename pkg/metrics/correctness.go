package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgscore/pkg/identity"
	"github.com/matzehuels/pkgscore/pkg/integrations"
	"github.com/matzehuels/pkgscore/pkg/scorecard"
)

const (
	testScriptCredit = 0.5
	neutralBugCredit = 0.5
)

// npmDefaultTestScript is what `npm init` writes when no test runner is set up.
const npmDefaultTestScript = "no test specified"

// Correctness combines two independent signals: a test script in
// package.json and the share of bug-labelled issues still open.
type Correctness struct {
	provider Provider
}

// NewCorrectness creates the Correctness evaluator.
func NewCorrectness(p Provider) *Correctness {
	return &Correctness{provider: p}
}

func (e *Correctness) Metric() scorecard.Metric { return scorecard.Correctness }

func (e *Correctness) Evaluate(ctx context.Context, id identity.Identity) Result {
	return settle(ctx, e.Metric(), id, e.measure)
}

func (e *Correctness) measure(ctx context.Context, id identity.Identity) (Result, error) {
	logger := log.FromContext(ctx).With("repo", id.String())
	var sw stopwatch

	testScore, testErr := e.testScript(ctx, id, &sw)
	if testErr != nil {
		logger.Warn("test script check failed", "err", testErr)
	}

	bugScore, bugErr := e.bugRatio(ctx, id, &sw)
	if bugErr != nil {
		logger.Warn("bug issue check failed", "err", bugErr)
	}

	if testErr != nil && bugErr != nil {
		return Result{}, errors.Join(testErr, bugErr)
	}
	return Result{Score: testScore + bugScore, Latency: sw.total}, nil
}

func (e *Correctness) testScript(ctx context.Context, id identity.Identity, sw *stopwatch) (float64, error) {
	raw, err := timed(sw, func() (string, error) {
		return e.provider.FetchFile(ctx, id.Owner, id.Repo, "package.json")
	})
	if errors.Is(err, integrations.ErrNotFound) {
		log.FromContext(ctx).Debug("no package.json", "repo", id.String())
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if HasTestScript([]byte(raw)) {
		return testScriptCredit, nil
	}
	return 0, nil
}

// HasTestScript reports whether a package.json declares a real test script.
// The npm init placeholder does not count.
func HasTestScript(manifest []byte) bool {
	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(manifest, &pkg); err != nil {
		return false
	}
	script := strings.TrimSpace(pkg.Scripts["test"])
	return script != "" && !strings.Contains(script, npmDefaultTestScript)
}

func (e *Correctness) bugRatio(ctx context.Context, id identity.Identity, sw *stopwatch) (float64, error) {
	bugs, err := timed(sw, func() ([]integrations.Issue, error) {
		return e.provider.Issues(ctx, id.Owner, id.Repo, integrations.IssueQuery{Labels: "bug", State: "all"})
	})
	if err != nil {
		return 0, fmt.Errorf("list bug issues: %w", err)
	}

	open := 0
	for _, b := range bugs {
		if b.State == "open" {
			open++
		}
	}
	return BugScore(open, len(bugs)), nil
}

// BugScore maps the open/total ratio of bug issues to credit. A repository
// without bug issues gets neutral credit.
func BugScore(open, total int) float64 {
	if total == 0 {
		return neutralBugCredit
	}
	ratio := float64(open) / float64(total)
	switch {
	case ratio >= 0.5:
		return 0
	case ratio >= 0.3:
		return 0.1
	case ratio >= 0.1:
		return 0.3
	default:
		return 0.5
	}
}
