package identity

import (
	"context"
	"errors"
	"net/url"
	"strings"

	pkgerrors "github.com/matzehuels/pkgscore/pkg/errors"
	"github.com/matzehuels/pkgscore/pkg/integrations"
	"github.com/matzehuels/pkgscore/pkg/integrations/github"
	"github.com/matzehuels/pkgscore/pkg/integrations/npm"
)

// PackageLookup returns the source repository URL recorded for an npm
// package. [npm.Client] implements it.
type PackageLookup interface {
	RepositoryURL(ctx context.Context, name string) (string, error)
}

var (
	githubHosts = map[string]bool{"github.com": true, "www.github.com": true}
	npmHosts    = map[string]bool{"npmjs.com": true, "www.npmjs.com": true}
)

// Resolver turns package URLs into identities.
type Resolver struct {
	packages PackageLookup
}

// NewResolver creates a resolver. packages may be nil, in which case npm URLs
// fail with an UNSUPPORTED error.
func NewResolver(packages PackageLookup) *Resolver {
	return &Resolver{packages: packages}
}

// Resolve maps rawURL to its repository identity.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (Identity, error) {
	raw := strings.TrimSpace(rawURL)
	if err := pkgerrors.ValidateURL(raw); err != nil {
		return Identity{}, err
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Identity{}, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidURL, err, "invalid URL %q", raw)
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case githubHosts[host]:
		owner, repo, err := splitRepoPath(u.Path)
		if err != nil {
			return Identity{}, err
		}
		return Identity{SourceURL: raw, Owner: owner, Repo: repo}, nil

	case npmHosts[host]:
		owner, repo, err := r.resolveNpm(ctx, u)
		if err != nil {
			return Identity{}, err
		}
		return Identity{SourceURL: raw, Owner: owner, Repo: repo}, nil

	default:
		return Identity{}, pkgerrors.New(pkgerrors.ErrCodeInvalidURL, "unsupported host %q: expected github.com or npmjs.com", u.Hostname())
	}
}

func (r *Resolver) resolveNpm(ctx context.Context, u *url.URL) (owner, repo string, err error) {
	name, err := PackageName(u)
	if err != nil {
		return "", "", err
	}
	if r.packages == nil {
		return "", "", pkgerrors.New(pkgerrors.ErrCodeUnsupported, "npm lookups are not configured")
	}

	repoURL, err := r.packages.RepositoryURL(ctx, name)
	switch {
	case errors.Is(err, npm.ErrRepositoryMissing):
		return "", "", pkgerrors.Wrap(pkgerrors.ErrCodeRepositoryURLMissing, err, "repository URL not found in npm package data")
	case errors.Is(err, integrations.ErrNotFound):
		return "", "", pkgerrors.Wrap(pkgerrors.ErrCodePackageNotFound, err, "npm package %q not found", name)
	case errors.Is(err, integrations.ErrRateLimited):
		return "", "", pkgerrors.Wrap(pkgerrors.ErrCodeRateLimited, err, "npm registry rate limit exceeded")
	case err != nil:
		return "", "", pkgerrors.Wrap(pkgerrors.ErrCodeNetwork, err, "failed to fetch npm package %q", name)
	}

	normalized := integrations.NormalizeRepoURL(repoURL)
	ru, err := url.Parse(normalized)
	if err != nil || !githubHosts[strings.ToLower(ru.Hostname())] {
		return "", "", pkgerrors.New(pkgerrors.ErrCodeInvalidURL, "npm package %q is not hosted on GitHub: %s", name, repoURL)
	}
	return splitRepoPath(ru.Path)
}

// PackageName extracts the npm package name from a web URL such as
// https://www.npmjs.com/package/@scope/name. Version suffixes
// ("/v/1.2.3") are ignored.
func PackageName(u *url.URL) (string, error) {
	rest, ok := strings.CutPrefix(u.Path, "/package/")
	if !ok || rest == "" {
		return "", pkgerrors.New(pkgerrors.ErrCodeInvalidURL, "npm URL must have the form https://www.npmjs.com/package/<name>")
	}

	segs := strings.Split(strings.Trim(rest, "/"), "/")
	name := segs[0]
	if strings.HasPrefix(name, "@") {
		if len(segs) < 2 || segs[1] == "" {
			return "", pkgerrors.New(pkgerrors.ErrCodeInvalidURL, "incomplete scoped package name %q", name)
		}
		name += "/" + segs[1]
	}

	if err := pkgerrors.ValidateNpmPackageName(name); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.ErrCodeInvalidURL, err, "invalid npm package name %q", name)
	}
	return name, nil
}

// splitRepoPath takes owner and repo from the first two path segments and
// strips one trailing ".git".
func splitRepoPath(path string) (owner, repo string, err error) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) < 2 || segs[0] == "" || segs[1] == "" {
		return "", "", pkgerrors.New(pkgerrors.ErrCodeInvalidURL, "GitHub URL must have the form https://github.com/<owner>/<repo>")
	}

	owner = segs[0]
	repo = strings.TrimSuffix(segs[1], ".git")
	if err := github.ValidateRepoRef(owner, repo); err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.ErrCodeInvalidURL, err, "invalid repository %s/%s", owner, repo)
	}
	return owner, repo, nil
}
