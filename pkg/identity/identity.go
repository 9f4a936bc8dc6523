// Package identity resolves package URLs to the GitHub repository that is
// scored.
//
// Two URL shapes are accepted:
//
//	https://github.com/<owner>/<repo>[.git]
//	https://www.npmjs.com/package/<name>
//
// npm URLs are redirected through the package metadata provider, which
// returns the repository URL recorded in the package document. Resolution
// failures are the only fatal errors of an evaluation and carry one of the
// codes [errors.ErrCodeInvalidURL], [errors.ErrCodeRepositoryURLMissing],
// [errors.ErrCodePackageNotFound] or [errors.ErrCodeNetwork].
//
// [errors.ErrCodeInvalidURL]: github.com/matzehuels/pkgscore/pkg/errors.ErrCodeInvalidURL
// [errors.ErrCodeRepositoryURLMissing]: github.com/matzehuels/pkgscore/pkg/errors.ErrCodeRepositoryURLMissing
// [errors.ErrCodePackageNotFound]: github.com/matzehuels/pkgscore/pkg/errors.ErrCodePackageNotFound
// [errors.ErrCodeNetwork]: github.com/matzehuels/pkgscore/pkg/errors.ErrCodeNetwork
package identity

// Identity is the canonical repository a URL resolves to. It is created once
// per evaluation and never modified.
type Identity struct {
	SourceURL string // the URL as submitted, trimmed
	Owner     string
	Repo      string
}

// String returns "owner/repo".
func (i Identity) String() string {
	return i.Owner + "/" + i.Repo
}

// RepositoryURL returns the canonical GitHub web URL.
func (i Identity) RepositoryURL() string {
	return "https://github.com/" + i.Owner + "/" + i.Repo
}
