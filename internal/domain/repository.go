// Package domain defines the core data model for escritorio: repositories,
// working directory status, diffs, branches, and commits. Types here are
// plain data with no I/O; the git and store packages produce and consume them.
package domain

// GitHubRepository describes the remote-hosted repository a local repository
// is associated with, when that association is known.
type GitHubRepository struct {
	Owner         string
	Name          string
	CloneURL      string
	DefaultBranch string
	Private       bool
}

// Repository identifies a local working directory and, optionally, its
// remote-hosted descriptor. Repository values are immutable: a changed
// GitHub association produces a new value via WithGitHubRepository.
type Repository struct {
	// Path is the absolute path to the working directory.
	Path string
	// GitHub is the associated hosted repository, nil when unknown.
	GitHub *GitHubRepository
}

// NewRepository creates a Repository for the given working directory path.
func NewRepository(path string) Repository {
	return Repository{Path: path}
}

// WithGitHubRepository returns a copy of the repository with the given
// hosted-repository association. The receiver is not mutated.
func (r Repository) WithGitHubRepository(gh *GitHubRepository) Repository {
	out := r
	if gh != nil {
		cp := *gh
		out.GitHub = &cp
	} else {
		out.GitHub = nil
	}
	return out
}
