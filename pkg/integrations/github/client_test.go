package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/pkgscore/pkg/buildinfo"
	"github.com/matzehuels/pkgscore/pkg/cache"
	"github.com/matzehuels/pkgscore/pkg/integrations"
)

func testClient(t *testing.T, handler http.HandlerFunc, opts Options) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	opts.BaseURL = server.URL
	return NewClient(opts)
}

func TestNewClient(t *testing.T) {
	c := NewClient(Options{})
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}

	c = NewClient(Options{BaseURL: "http://example.test/"})
	if c.baseURL != "http://example.test" {
		t.Errorf("trailing slash not trimmed: %q", c.baseURL)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var auth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(repoResponse{FullName: "o/r"})
	}, Options{Token: "secret"})

	if _, err := c.FetchRepo(context.Background(), "o", "r"); err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestUserAgentIsVersioned(t *testing.T) {
	var ua string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(repoResponse{FullName: "o/r"})
	}, Options{})

	if _, err := c.FetchRepo(context.Background(), "o", "r"); err != nil {
		t.Fatal(err)
	}
	if want := buildinfo.UserAgent(); ua != want {
		t.Errorf("User-Agent = %q, want %q", ua, want)
	}
}

func TestFetchReadme(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/owner/repo/readme":
			if got := r.Header.Get("Accept"); got != "application/vnd.github.raw" {
				t.Errorf("Accept = %q, want raw", got)
			}
			w.Write([]byte("# Title\n\n## Installation\n"))
		default:
			http.NotFound(w, r)
		}
	}, Options{})

	text, err := c.FetchReadme(context.Background(), "owner", "repo")
	if err != nil {
		t.Fatalf("FetchReadme: %v", err)
	}
	if !strings.Contains(text, "## Installation") {
		t.Errorf("unexpected README text %q", text)
	}

	_, err = c.FetchReadme(context.Background(), "owner", "missing")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("missing README error = %v, want ErrNotFound", err)
	}
}

func TestFetchRepoLicense(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"spdx", `{"full_name":"o/r","license":{"spdx_id":"MIT"}}`, "MIT"},
		{"no license", `{"full_name":"o/r","license":null}`, ""},
		{"noassertion", `{"full_name":"o/r","license":{"spdx_id":"NOASSERTION"}}`, "NOASSERTION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}, Options{})
			repo, err := c.FetchRepo(context.Background(), "o", "r")
			if err != nil {
				t.Fatal(err)
			}
			if repo.License != tt.want {
				t.Errorf("License = %q, want %q", repo.License, tt.want)
			}
		})
	}
}

func TestFetchFile(t *testing.T) {
	pkg := `{"scripts":{"test":"jest"}}`
	encoded := base64.StdEncoding.EncodeToString([]byte(pkg))
	// GitHub wraps base64 content at 60 columns.
	wrapped := encoded[:10] + "\n" + encoded[10:]

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/o/r/contents/package.json" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(contentResponse{Name: "package.json", Type: "file", Content: wrapped, Encoding: "base64"})
	}, Options{})

	got, err := c.FetchFile(context.Background(), "o", "r", "package.json")
	if err != nil {
		t.Fatalf("FetchFile: %v", err)
	}
	if got != pkg {
		t.Errorf("FetchFile = %q, want %q", got, pkg)
	}

	if _, err := c.FetchFile(context.Background(), "o", "r", "missing.json"); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestListContents(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]contentResponse{
			{Name: "LICENSE", Path: "LICENSE", Type: "file", Size: 1070},
			{Name: "src", Path: "src", Type: "dir"},
		})
	}, Options{})

	items, err := c.ListContents(context.Background(), "o", "r", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Name != "LICENSE" || items[1].Type != "dir" {
		t.Errorf("ListContents = %+v", items)
	}
}

func TestContributorsExcludesBots(t *testing.T) {
	var perPageParam string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		perPageParam = r.URL.Query().Get("per_page")
		json.NewEncoder(w).Encode([]contributorResponse{
			{Login: "alice", Contributions: 80, Type: "User"},
			{Login: "dependabot[bot]", Contributions: 50, Type: "Bot"},
			{Login: "renovate[bot]", Contributions: 40, Type: "User"},
			{Login: "bob", Contributions: 20, Type: "User"},
		})
	}, Options{})

	got, err := c.Contributors(context.Background(), "o", "r")
	if err != nil {
		t.Fatal(err)
	}
	if perPageParam != "100" {
		t.Errorf("per_page = %q, want 100", perPageParam)
	}
	if len(got) != 2 || got[0].Login != "alice" || got[1].Login != "bob" {
		t.Errorf("Contributors = %+v", got)
	}
}

func TestIssuesPaginationAndFiltering(t *testing.T) {
	now := time.Now().UTC()
	since := now.Add(-30 * 24 * time.Hour)

	var pages []string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		pages = append(pages, q.Get("page"))
		if q.Get("labels") != "bug" || q.Get("state") != "all" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		var out []map[string]any
		if q.Get("page") == "1" {
			for i := 0; i < perPage; i++ {
				item := map[string]any{"number": i + 1, "state": "open", "created_at": now.Add(-time.Hour)}
				if i%10 == 0 {
					item["pull_request"] = map[string]string{"url": "x"}
				}
				out = append(out, item)
			}
		} else {
			out = append(out,
				map[string]any{"number": 1000, "state": "closed", "created_at": now.Add(-time.Hour)},
				map[string]any{"number": 1001, "state": "closed", "created_at": since.Add(-time.Hour)},
			)
		}
		json.NewEncoder(w).Encode(out)
	}, Options{})

	issues, err := c.Issues(context.Background(), "o", "r", integrations.IssueQuery{Labels: "bug", Since: since})
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Errorf("fetched pages %v, want 2", pages)
	}
	// 100 on page 1 minus 10 pull requests, plus 1 recent issue on page 2.
	if len(issues) != 91 {
		t.Errorf("got %d issues, want 91", len(issues))
	}
}

func TestIssuesLimit(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var out []map[string]any
		for i := 0; i < perPage; i++ {
			out = append(out, map[string]any{"number": i + 1, "state": "open", "created_at": time.Now()})
		}
		json.NewEncoder(w).Encode(out)
	}, Options{})

	issues, err := c.Issues(context.Background(), "o", "r", integrations.IssueQuery{Limit: 30})
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 30 {
		t.Errorf("got %d issues, want 30", len(issues))
	}
}

func TestIssueComments(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/o/r/issues/7/comments" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode([]commentResponse{{AuthorAssociation: "MEMBER", CreatedAt: created}})
	}, Options{})

	comments, err := c.IssueComments(context.Background(), "o", "r", 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 1 || comments[0].AuthorAssociation != "MEMBER" || !comments[0].CreatedAt.Equal(created) {
		t.Errorf("IssueComments = %+v", comments)
	}
}

func TestCachedResponsesScopedByToken(t *testing.T) {
	calls := 0
	handler := func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(repoResponse{FullName: "o/r"})
	}
	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	shared, _ := cache.NewMemoryCache(16)
	a := NewClient(Options{BaseURL: server.URL, Cache: shared, CacheTTL: time.Hour, Token: "a"})
	b := NewClient(Options{BaseURL: server.URL, Cache: shared, CacheTTL: time.Hour, Token: "b"})

	ctx := context.Background()
	_, _ = a.FetchRepo(ctx, "o", "r")
	_, _ = a.FetchRepo(ctx, "o", "r")
	if calls != 1 {
		t.Errorf("second fetch with same token should hit cache, calls = %d", calls)
	}
	_, _ = b.FetchRepo(ctx, "o", "r")
	if calls != 2 {
		t.Errorf("fetch with other token should miss cache, calls = %d", calls)
	}
}

func TestValidateRepoRef(t *testing.T) {
	tests := []struct {
		owner, repo string
		wantErr     bool
	}{
		{"expressjs", "express", false},
		{"a", "b.js", false},
		{"", "repo", true},
		{"-bad", "repo", true},
		{"owner", "", true},
		{"owner", "..", true},
		{"owner", "with space", true},
	}
	for _, tt := range tests {
		err := ValidateRepoRef(tt.owner, tt.repo)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRepoRef(%q, %q) = %v, wantErr %v", tt.owner, tt.repo, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidRepoRef) {
			t.Errorf("error should wrap ErrInvalidRepoRef: %v", err)
		}
	}
}
