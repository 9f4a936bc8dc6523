// Package integrations provides HTTP clients for the external data providers.
//
// # Overview
//
// Each provider has its own subpackage:
//
//   - [github]: GitHub REST API, the repository data provider (README,
//     license, contributors, issues, manifests)
//   - [npm]: npm registry, the package metadata provider (repository URL)
//
// # Client Pattern
//
// Provider clients embed the shared [Client]:
//
//	gh := github.NewClient(github.Options{Token: token})
//	readme, err := gh.FetchReadme(ctx, "expressjs", "express")
//
// The shared client handles:
//   - default headers (Accept, Authorization, User-Agent)
//   - optional response caching via [cache.Cache] (disabled by default)
//   - retry with backoff for transient failures
//   - status mapping: 404 -> [ErrNotFound], exhausted rate limit ->
//     [ErrRateLimited], 5xx and transport failures -> [ErrNetwork]
//   - HTTP events reported to [observability.HTTP]
//
// [github]: github.com/matzehuels/pkgscore/pkg/integrations/github
// [npm]: github.com/matzehuels/pkgscore/pkg/integrations/npm
// [cache.Cache]: github.com/matzehuels/pkgscore/pkg/cache.Cache
// [observability.HTTP]: github.com/matzehuels/pkgscore/pkg/observability.HTTP
package integrations
