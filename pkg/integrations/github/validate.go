package github

import (
	"errors"
	"regexp"
)

var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ErrInvalidRepoRef is returned for owner or repository names GitHub would reject.
var ErrInvalidRepoRef = errors.New("invalid repository reference")

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return errors.Join(ErrInvalidRepoRef, errors.New("owner is required"))
	}
	if !validOwner.MatchString(owner) {
		return errors.Join(ErrInvalidRepoRef, errors.New("owner must be 1-39 alphanumeric characters or hyphens, not starting with a hyphen"))
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if repo == "" {
		return errors.Join(ErrInvalidRepoRef, errors.New("repo is required"))
	}
	if repo == "." || repo == ".." || !validRepo.MatchString(repo) {
		return errors.Join(ErrInvalidRepoRef, errors.New("repo must be 1-100 alphanumeric characters, hyphens, underscores, or dots"))
	}
	return nil
}

// ValidateRepoRef validates both owner and repo parameters.
func ValidateRepoRef(owner, repo string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	return ValidateRepo(repo)
}
