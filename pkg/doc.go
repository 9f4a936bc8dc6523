// Package pkg provides the core libraries for pkgscore package trust scoring.
//
// # Overview
//
// pkgscore takes a GitHub repository URL or an npm package URL and produces a
// scorecard: one score in [0, 1] per quality metric plus a weighted net score.
// The pkg directory is organized into four main areas:
//
//  1. Domain logic ([scorecard], [metrics], [policy], [identity])
//  2. Infrastructure ([cache], [store], [observability], [errors], [httputil])
//  3. External API clients ([integrations], [integrations/github], [integrations/npm])
//  4. Orchestration ([pipeline])
//
// # Architecture
//
// The typical data flow for a single URL:
//
//	GitHub or npm URL
//	         ↓
//	    [identity] (resolve to owner/repo, via the npm registry if needed)
//	         ↓
//	    [metrics] (evaluators run concurrently, one timeout each)
//	         ↓
//	    [scorecard] (apply results, compute net score)
//	         ↓
//	    NDJSON / YAML / table output, optional [store] persistence
//
// # Quick Start
//
//	gh := github.NewClient(github.Options{Token: os.Getenv("GITHUB_TOKEN")})
//	reg := npm.NewClient(npm.Options{})
//
//	runner, err := pipeline.New(pipeline.Options{
//	    Resolver:   identity.NewResolver(reg),
//	    Evaluators: metrics.All(gh, metrics.Options{}),
//	})
//	if err != nil {
//	    return err
//	}
//	sc, err := runner.Evaluate(ctx, "https://github.com/expressjs/express")
//
// # Main Packages
//
// [scorecard] - The metric catalogue, weights, and the Scorecard aggregate.
// A Scorecard is written by a single goroutine and its net score is computed
// exactly once.
//
// [metrics] - One Evaluator per metric (ramp-up, correctness, bus factor,
// responsive maintainer, license). Evaluators never fail the pipeline; a
// failure yields a defaulted result scored 0.
//
// [markdown] - README analysis and lint rules used by the ramp-up metric.
//
// [policy] - TOML policy files (weights, metric timeout, license allow-list)
// with hot reload.
//
// [pipeline] - Resolve, evaluate and render. Batch mode evaluates many URLs
// with bounded concurrency while preserving input order.
//
// [cache] - HTTP response caching (null, memory, file, redis).
//
// [store] - Report persistence (null, file, MongoDB).
//
// [observability] - Hook registries and a Prometheus text collector.
//
// [scorecard]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/scorecard
// [metrics]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/metrics
// [markdown]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/markdown
// [policy]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/policy
// [identity]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/identity
// [cache]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/httputil
// [integrations]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/integrations
// [integrations/github]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/integrations/github
// [integrations/npm]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/integrations/npm
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pkgscore/pkg/pipeline
package pkg
