package npm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/pkgscore/pkg/cache"
	"github.com/matzehuels/pkgscore/pkg/integrations"
)

// DefaultRegistryURL is the public npm registry API endpoint.
const DefaultRegistryURL = "https://registry.npmjs.org"

// ErrRepositoryMissing is returned when a package document has no repository URL.
var ErrRepositoryMissing = errors.New("repository URL not found in npm package data")

// Options configures a [Client].
type Options struct {
	RegistryURL string        // default DefaultRegistryURL
	Cache       cache.Cache   // nil disables caching
	CacheTTL    time.Duration // lifetime of cached responses
	Refresh     bool          // bypass cached responses
}

// PackageInfo holds the package document fields used to locate the source.
type PackageInfo struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Repository string `json:"repository"` // normalized, "" when absent
	HomePage   string `json:"homepage,omitempty"`
	License    string `json:"license,omitempty"`
}

// Client is the package metadata provider backed by the npm registry.
type Client struct {
	*integrations.Client
	baseURL string
	refresh bool
}

// NewClient creates an npm registry client.
func NewClient(opts Options) *Client {
	base := strings.TrimSuffix(opts.RegistryURL, "/")
	if base == "" {
		base = DefaultRegistryURL
	}
	return &Client{
		Client:  integrations.NewClient(opts.Cache, "npm:", opts.CacheTTL, map[string]string{"Accept": "application/json"}),
		baseURL: base,
		refresh: opts.Refresh,
	}
}

// RegistryURL returns the registry document URL of a package. Scoped names
// keep their "@"; the slash is escaped as the registry expects.
func (c *Client) RegistryURL(pkg string) string {
	if strings.HasPrefix(pkg, "@") {
		return c.baseURL + "/" + strings.Replace(pkg, "/", "%2F", 1)
	}
	return c.baseURL + "/" + pkg
}

// FetchPackage retrieves the package document from the registry.
func (c *Client) FetchPackage(ctx context.Context, pkg string) (*PackageInfo, error) {
	pkg = strings.TrimSpace(pkg)

	var info PackageInfo
	err := c.Cached(ctx, pkg, c.refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// RepositoryURL returns the normalized repository URL of pkg, or
// [ErrRepositoryMissing] when the document carries none.
func (c *Client) RepositoryURL(ctx context.Context, pkg string) (string, error) {
	info, err := c.FetchPackage(ctx, pkg)
	if err != nil {
		return "", err
	}
	if info.Repository == "" {
		return "", fmt.Errorf("%w: %s", ErrRepositoryMissing, pkg)
	}
	return info.Repository, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data registryResponse
	if err := c.Get(ctx, c.RegistryURL(pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, pkg)
		}
		return err
	}

	*info = PackageInfo{
		Name:       data.Name,
		Version:    data.DistTags.Latest,
		Repository: integrations.NormalizeRepoURL(extractField(data.Repository, "url")),
		HomePage:   data.HomePage,
		License:    extractField(data.License, "type"),
	}

	// Older documents only carry the repository on the version record.
	if v, ok := data.Versions[data.DistTags.Latest]; ok {
		if info.Repository == "" {
			info.Repository = integrations.NormalizeRepoURL(extractField(v.Repository, "url"))
		}
		if info.License == "" {
			info.License = extractField(v.License, "type")
		}
	}
	return nil
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

type registryResponse struct {
	Name       string                    `json:"name"`
	DistTags   distTags                  `json:"dist-tags"`
	Repository any                       `json:"repository"`
	License    any                       `json:"license"`
	HomePage   string                    `json:"homepage"`
	Versions   map[string]versionDetails `json:"versions"`
}

type distTags struct {
	Latest string `json:"latest"`
}

type versionDetails struct {
	License    any `json:"license"`
	Repository any `json:"repository"`
}
