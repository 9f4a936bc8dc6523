package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgscore/pkg/identity"
	"github.com/matzehuels/pkgscore/pkg/integrations"
	"github.com/matzehuels/pkgscore/pkg/markdown"
	"github.com/matzehuels/pkgscore/pkg/scorecard"
)

// DefaultAllowedLicenses are the SPDX identifiers and license names that
// score 1.
var DefaultAllowedLicenses = []string{
	"MIT",
	"LGPL-2.1",
	"LGPL-3.0",
	"Apache-1.0",
	"Apache-1.1",
	"Apache-2.0",
	"BSD-2-Clause",
	"BSD-3-Clause",
	"ISC",
	"MIT License",
	"GNU Lesser General Public License",
	"Apache License",
}

// licenseFilePattern matches root files that usually hold the license text.
// Names are upper-cased before matching.
const licenseFilePattern = "{LICENSE,LICENCE,COPYING}*"

// noAssertion is GitHub's SPDX id for a license file it could not classify.
const noAssertion = "NOASSERTION"

// License checks the package license against an allow-list. Sources are
// tried in order: the repository's detected SPDX id, the README text, and
// the root license file.
type License struct {
	provider Provider
	allowed  []string
}

// NewLicense creates the License evaluator. A nil allow-list selects
// [DefaultAllowedLicenses].
func NewLicense(p Provider, allowed []string) *License {
	if len(allowed) == 0 {
		allowed = DefaultAllowedLicenses
	}
	return &License{provider: p, allowed: allowed}
}

func (e *License) Metric() scorecard.Metric { return scorecard.License }

func (e *License) Evaluate(ctx context.Context, id identity.Identity) Result {
	return settle(ctx, e.Metric(), id, e.measure)
}

func (e *License) measure(ctx context.Context, id identity.Identity) (Result, error) {
	logger := log.FromContext(ctx).With("repo", id.String())
	var sw stopwatch
	var errs []error

	repo, err := timed(&sw, func() (*integrations.Repository, error) {
		return e.provider.FetchRepo(ctx, id.Owner, id.Repo)
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("repository record: %w", err))
	} else if spdx := repo.License; spdx != "" && spdx != noAssertion {
		if e.isAllowedID(spdx) {
			return Result{Score: 1, Latency: sw.total}, nil
		}
		logger.Warn("unapproved license", "license", spdx)
		return Result{Score: 0, Latency: sw.total}, nil
	}

	readme, err := timed(&sw, func() (string, error) {
		return e.provider.FetchReadme(ctx, id.Owner, id.Repo)
	})
	switch {
	case err == nil:
		if name, ok := e.findAllowed(readme); ok {
			logger.Debug("approved license found in README", "license", name)
			return Result{Score: 1, Latency: sw.total}, nil
		}
	case !errors.Is(err, integrations.ErrNotFound):
		errs = append(errs, fmt.Errorf("readme: %w", err))
	}

	text, err := e.licenseFile(ctx, id, &sw)
	switch {
	case err == nil && text != "":
		if name, ok := e.findAllowed(text); ok {
			logger.Debug("approved license found in license file", "license", name)
			return Result{Score: 1, Latency: sw.total}, nil
		}
	case err != nil && !errors.Is(err, integrations.ErrNotFound):
		errs = append(errs, fmt.Errorf("license file: %w", err))
	}

	// Every source failed: nothing was actually checked.
	if len(errs) == 3 {
		return Result{}, errors.Join(errs...)
	}
	logger.Warn("no approved license found")
	return Result{Score: 0, Latency: sw.total}, nil
}

// licenseFile returns the text of the first root file matching
// licenseFilePattern, or "" when there is none.
func (e *License) licenseFile(ctx context.Context, id identity.Identity, sw *stopwatch) (string, error) {
	items, err := timed(sw, func() ([]integrations.ContentItem, error) {
		return e.provider.ListContents(ctx, id.Owner, id.Repo, "")
	})
	if err != nil {
		return "", err
	}

	for _, item := range items {
		if item.Type != "file" {
			continue
		}
		if ok, _ := doublestar.Match(licenseFilePattern, strings.ToUpper(item.Name)); !ok {
			continue
		}
		return timed(sw, func() (string, error) {
			return e.provider.FetchFile(ctx, id.Owner, id.Repo, item.Path)
		})
	}
	return "", nil
}

func (e *License) isAllowedID(spdx string) bool {
	for _, a := range e.allowed {
		if strings.EqualFold(a, spdx) {
			return true
		}
	}
	return false
}

func (e *License) findAllowed(text string) (string, bool) {
	for _, a := range e.allowed {
		if markdown.ContainsTermFold(text, a) {
			return a, true
		}
	}
	return "", false
}
