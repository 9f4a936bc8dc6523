// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// [Client] is the repository data provider used by the metric evaluators.
// It fetches, for an owner/repo pair:
//
//   - the README as raw text ([Client.FetchReadme])
//   - the repository record, including the detected SPDX license ([Client.FetchRepo])
//   - a single file such as package.json ([Client.FetchFile])
//   - the root directory listing ([Client.ListContents])
//   - human contributors with commit counts ([Client.Contributors])
//   - issues filtered by label, state and creation time ([Client.Issues])
//   - issue comments with author association ([Client.IssueComments])
//
// # Usage
//
//	client := github.NewClient(github.Options{Token: os.Getenv("GITHUB_TOKEN")})
//	contributors, err := client.Contributors(ctx, "expressjs", "express")
//
// # Authentication
//
// A GitHub personal access token is optional but recommended to avoid rate
// limits. Without a token, the client is limited to 60 requests/hour.
// With a token, the limit is 5000 requests/hour. Exhausted limits surface as
// [integrations.ErrRateLimited].
//
// # Errors
//
// Missing resources are reported with [integrations.ErrNotFound] wrapped with
// the resource name, so callers can use errors.Is.
package github
