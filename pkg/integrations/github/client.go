package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/pkgscore/pkg/cache"
	"github.com/matzehuels/pkgscore/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

const (
	perPage  = 100
	maxPages = 10
)

// Options configures a [Client].
type Options struct {
	Token    string        // optional personal access token
	BaseURL  string        // default DefaultBaseURL
	Cache    cache.Cache   // nil disables caching
	CacheTTL time.Duration // lifetime of cached responses
	Refresh  bool          // bypass cached responses
}

// Client provides access to the GitHub API for repository data.
// It handles HTTP requests with caching, automatic retries, and optional
// authentication. Client is safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	refresh bool
}

// NewClient creates a GitHub API client.
// Cached responses are scoped by a hash of the token, so data fetched with one
// credential is never served to another.
func NewClient(opts Options) *Client {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if opts.Token != "" {
		headers["Authorization"] = "Bearer " + opts.Token
	}

	base := strings.TrimSuffix(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	client := integrations.NewClient(opts.Cache, "github:", opts.CacheTTL, headers)
	client.SetKeyer(cache.NewScopedKeyer(nil, cache.TokenScope(opts.Token)))

	return &Client{
		Client:  client,
		baseURL: base,
		refresh: opts.Refresh,
	}
}

func (c *Client) repoURL(owner, repo, suffix string) string {
	return fmt.Sprintf("%s/repos/%s/%s%s", c.baseURL, url.PathEscape(owner), url.PathEscape(repo), suffix)
}

// FetchReadme returns the raw text of the repository README.
// A repository without a README yields [integrations.ErrNotFound].
func (c *Client) FetchReadme(ctx context.Context, owner, repo string) (string, error) {
	var text string
	err := c.Cached(ctx, "readme:"+owner+"/"+repo, c.refresh, &text, func() error {
		var err error
		text, err = c.GetText(ctx, c.repoURL(owner, repo, "/readme"),
			map[string]string{"Accept": "application/vnd.github.raw"})
		return err
	})
	if err != nil {
		return "", wrapNotFound(err, "readme of %s/%s", owner, repo)
	}
	return text, nil
}

// FetchRepo retrieves the repository record.
func (c *Client) FetchRepo(ctx context.Context, owner, repo string) (*integrations.Repository, error) {
	var r integrations.Repository
	err := c.Cached(ctx, "repo:"+owner+"/"+repo, c.refresh, &r, func() error {
		var data repoResponse
		if err := c.Get(ctx, c.repoURL(owner, repo, ""), &data); err != nil {
			return err
		}
		r = integrations.Repository{
			FullName:      data.FullName,
			DefaultBranch: data.DefaultBranch,
			Archived:      data.Archived,
		}
		if data.License != nil {
			r.License = data.License.SPDXID
		}
		return nil
	})
	if err != nil {
		return nil, wrapNotFound(err, "github repo %s/%s", owner, repo)
	}
	return &r, nil
}

// FetchFile retrieves the content of a file at path, decoded from base64.
func (c *Client) FetchFile(ctx context.Context, owner, repo, path string) (string, error) {
	var content string
	err := c.Cached(ctx, "file:"+owner+"/"+repo+"/"+path, c.refresh, &content, func() error {
		var data contentResponse
		if err := c.Get(ctx, c.repoURL(owner, repo, "/contents/"+path), &data); err != nil {
			return err
		}
		if data.Type != "" && data.Type != "file" {
			return fmt.Errorf("%w: %s is a %s", integrations.ErrNotFound, path, data.Type)
		}
		raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(data.Content, "\n", ""))
		if err != nil {
			return fmt.Errorf("decode content of %s: %w", path, err)
		}
		content = string(raw)
		return nil
	})
	if err != nil {
		return "", wrapNotFound(err, "file %s in %s/%s", path, owner, repo)
	}
	return content, nil
}

// ListContents lists the files and directories at path ("" for the root).
func (c *Client) ListContents(ctx context.Context, owner, repo, path string) ([]integrations.ContentItem, error) {
	var items []integrations.ContentItem
	err := c.Cached(ctx, "contents:"+owner+"/"+repo+"/"+path, c.refresh, &items, func() error {
		var data []contentResponse
		if err := c.Get(ctx, c.repoURL(owner, repo, "/contents/"+path), &data); err != nil {
			return err
		}
		items = make([]integrations.ContentItem, len(data))
		for i, d := range data {
			items[i] = integrations.ContentItem{Name: d.Name, Path: d.Path, Type: d.Type, Size: d.Size}
		}
		return nil
	})
	if err != nil {
		return nil, wrapNotFound(err, "contents of %s/%s", owner, repo)
	}
	return items, nil
}

// Contributors lists human contributors with their commit counts, most
// active first. Bot accounts are excluded; at most one page of 100 is read.
func (c *Client) Contributors(ctx context.Context, owner, repo string) ([]integrations.Contributor, error) {
	var result []integrations.Contributor
	err := c.Cached(ctx, "contributors:"+owner+"/"+repo, c.refresh, &result, func() error {
		var data []contributorResponse
		u := c.repoURL(owner, repo, fmt.Sprintf("/contributors?per_page=%d", perPage))
		if err := c.Get(ctx, u, &data); err != nil {
			return err
		}
		result = result[:0]
		for _, cr := range data {
			if cr.Type == "Bot" || strings.HasSuffix(cr.Login, "[bot]") {
				continue
			}
			result = append(result, integrations.Contributor{
				Login:         cr.Login,
				Contributions: cr.Contributions,
			})
		}
		return nil
	})
	if err != nil {
		return nil, wrapNotFound(err, "contributors of %s/%s", owner, repo)
	}
	return result, nil
}

// Issues lists repository issues matching q, following pagination.
// Pull requests are filtered out. GitHub's since filter applies to the update
// time, so issues created before q.Since are dropped client-side.
func (c *Client) Issues(ctx context.Context, owner, repo string, q integrations.IssueQuery) ([]integrations.Issue, error) {
	state := q.State
	if state == "" {
		state = "all"
	}

	params := url.Values{}
	params.Set("state", state)
	params.Set("per_page", fmt.Sprint(perPage))
	if q.Labels != "" {
		params.Set("labels", q.Labels)
	}
	if !q.Since.IsZero() {
		params.Set("since", q.Since.UTC().Format(time.RFC3339))
	}

	key := fmt.Sprintf("issues:%s/%s:%s:%d", owner, repo, params.Encode(), q.Limit)

	var issues []integrations.Issue
	err := c.Cached(ctx, key, c.refresh, &issues, func() error {
		issues = issues[:0]
		for page := 1; page <= maxPages; page++ {
			params.Set("page", fmt.Sprint(page))
			var data []issueResponse
			if err := c.Get(ctx, c.repoURL(owner, repo, "/issues?"+params.Encode()), &data); err != nil {
				return err
			}
			for _, d := range data {
				if d.PullRequest != nil {
					continue
				}
				if !q.Since.IsZero() && d.CreatedAt.Before(q.Since) {
					continue
				}
				issues = append(issues, integrations.Issue{
					Number:    d.Number,
					State:     d.State,
					CreatedAt: d.CreatedAt,
					Comments:  d.Comments,
				})
				if q.Limit > 0 && len(issues) >= q.Limit {
					return nil
				}
			}
			if len(data) < perPage {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapNotFound(err, "issues of %s/%s", owner, repo)
	}
	return issues, nil
}

// IssueComments lists the first page of comments on an issue, oldest first.
func (c *Client) IssueComments(ctx context.Context, owner, repo string, number int) ([]integrations.Comment, error) {
	var comments []integrations.Comment
	key := fmt.Sprintf("comments:%s/%s#%d", owner, repo, number)
	err := c.Cached(ctx, key, c.refresh, &comments, func() error {
		var data []commentResponse
		u := c.repoURL(owner, repo, fmt.Sprintf("/issues/%d/comments?per_page=%d", number, perPage))
		if err := c.Get(ctx, u, &data); err != nil {
			return err
		}
		comments = make([]integrations.Comment, len(data))
		for i, d := range data {
			comments[i] = integrations.Comment{AuthorAssociation: d.AuthorAssociation, CreatedAt: d.CreatedAt}
		}
		return nil
	})
	if err != nil {
		return nil, wrapNotFound(err, "comments of %s/%s#%d", owner, repo, number)
	}
	return comments, nil
}

func wrapNotFound(err error, format string, args ...any) error {
	if errors.Is(err, integrations.ErrNotFound) {
		return fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
	}
	return err
}
