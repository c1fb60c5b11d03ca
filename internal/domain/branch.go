package domain

// BranchKind distinguishes local branches from remote-tracking ones.
type BranchKind int

// Branch kinds.
const (
	BranchLocal BranchKind = iota
	BranchRemote
)

// Branch is one ref from the repository's branch list.
type Branch struct {
	// Name is the short ref name ("main", "origin/main").
	Name string
	// Upstream is the short name of the tracking ref, empty when none.
	Upstream string
	// TipSHA is the full 40-hex SHA of the branch tip.
	TipSHA string
	// TipSummary is the subject line of the tip commit.
	TipSummary string
	// Kind is local or remote.
	Kind BranchKind
}

// HasUpstream reports whether the branch tracks an upstream ref.
// Branches without one report no ahead/behind counts and are excluded
// from fast-forward eligibility.
func (b Branch) HasUpstream() bool {
	return b.Upstream != ""
}

// AheadBehind holds the commit counts between a branch and its upstream.
type AheadBehind struct {
	// Ahead is the number of commits the branch has that the upstream lacks.
	Ahead int
	// Behind is the number of commits the upstream has that the branch lacks.
	Behind int
}
