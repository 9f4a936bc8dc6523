package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/pkgscore/pkg/identity"
	"github.com/matzehuels/pkgscore/pkg/integrations"
)

var testID = identity.Identity{SourceURL: "https://github.com/owner/repo", Owner: "owner", Repo: "repo"}

// fakeProvider serves canned data. Each call sleeps for delay.
type fakeProvider struct {
	mu    sync.Mutex
	calls map[string]int

	delay time.Duration

	readme    string
	readmeErr error

	repo    *integrations.Repository
	repoErr error

	files   map[string]string
	fileErr error

	contents    []integrations.ContentItem
	contentsErr error

	contributors    []integrations.Contributor
	contributorsErr error

	issues    []integrations.Issue
	bugs      []integrations.Issue
	issuesErr error
	lastQuery integrations.IssueQuery

	comments    map[int][]integrations.Comment
	commentsErr map[int]error

	panicOn string
}

func (f *fakeProvider) record(name string) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
	f.mu.Unlock()
	if f.panicOn == name {
		panic("boom")
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
}

func (f *fakeProvider) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeProvider) FetchReadme(ctx context.Context, owner, repo string) (string, error) {
	f.record("readme")
	if f.readmeErr != nil {
		return "", f.readmeErr
	}
	if f.readme == "" {
		return "", integrations.ErrNotFound
	}
	return f.readme, nil
}

func (f *fakeProvider) FetchRepo(ctx context.Context, owner, repo string) (*integrations.Repository, error) {
	f.record("repo")
	if f.repoErr != nil {
		return nil, f.repoErr
	}
	if f.repo == nil {
		return &integrations.Repository{FullName: owner + "/" + repo}, nil
	}
	return f.repo, nil
}

func (f *fakeProvider) FetchFile(ctx context.Context, owner, repo, path string) (string, error) {
	f.record("file")
	if f.fileErr != nil {
		return "", f.fileErr
	}
	content, ok := f.files[path]
	if !ok {
		return "", integrations.ErrNotFound
	}
	return content, nil
}

func (f *fakeProvider) ListContents(ctx context.Context, owner, repo, path string) ([]integrations.ContentItem, error) {
	f.record("contents")
	return f.contents, f.contentsErr
}

func (f *fakeProvider) Contributors(ctx context.Context, owner, repo string) ([]integrations.Contributor, error) {
	f.record("contributors")
	return f.contributors, f.contributorsErr
}

func (f *fakeProvider) Issues(ctx context.Context, owner, repo string, q integrations.IssueQuery) ([]integrations.Issue, error) {
	f.record("issues")
	f.mu.Lock()
	f.lastQuery = q
	f.mu.Unlock()
	if f.issuesErr != nil {
		return nil, f.issuesErr
	}
	if q.Labels == "bug" {
		return f.bugs, nil
	}
	return f.issues, nil
}

func (f *fakeProvider) IssueComments(ctx context.Context, owner, repo string, number int) ([]integrations.Comment, error) {
	f.record("comments")
	if err := f.commentsErr[number]; err != nil {
		return nil, err
	}
	return f.comments[number], nil
}

func contributors(counts ...int) []integrations.Contributor {
	out := make([]integrations.Contributor, len(counts))
	for i, c := range counts {
		out[i] = integrations.Contributor{Login: string(rune('a' + i)), Contributions: c}
	}
	return out
}
