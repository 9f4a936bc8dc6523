// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// This package is the package metadata provider: it fetches package
// documents from the npm registry (https://registry.npmjs.org) and extracts
// the source repository URL so an npm package can be scored by its GitHub
// repository.
//
// # Usage
//
//	client := npm.NewClient(npm.Options{})
//	repo, err := client.RepositoryURL(ctx, "express")
//	// repo == "https://github.com/expressjs/express"
//
// Repository URLs are normalized with [integrations.NormalizeRepoURL]
// (git+, git://, git@github.com: prefixes and the .git suffix are handled).
// A document without a repository yields [ErrRepositoryMissing].
//
// # Scoped packages
//
// Scoped names such as "@babel/core" are supported; the registry path escapes
// the slash ("/@babel%2Fcore").
package npm
