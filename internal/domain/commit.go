package domain

import "time"

// CommitIdentity is the author or committer identity on a commit.
type CommitIdentity struct {
	Name  string
	Email string
	Date  time.Time
}

// Commit is one commit in the repository's history. Commits are immutable
// once created; history is an ordered SHA list with a separate SHA->Commit
// map so detail can be populated lazily.
type Commit struct {
	// SHA is the full 40-hex lowercase object ID.
	SHA string
	// Summary is the first line of the commit message.
	Summary string
	// Body is the rest of the message, without the summary line.
	Body string
	// Author is the authoring identity and timestamp.
	Author CommitIdentity
}

// ShortSHA returns the abbreviated object ID used for display.
func (c Commit) ShortSHA() string {
	if len(c.SHA) < 8 {
		return c.SHA
	}
	return c.SHA[:8]
}
