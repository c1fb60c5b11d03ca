package domain

// FileStatus represents the kind of change a file has in the working tree.
type FileStatus int

// File status constants, covering every porcelain code the status parser
// accepts. Unknown codes are a parse error upstream, never mapped here.
const (
	StatusNew FileStatus = iota
	StatusModified
	StatusDeleted
	StatusRenamed
	StatusCopied
	StatusConflicted
)

// String returns the single-letter display code for the status.
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "A"
	case StatusModified:
		return "M"
	case StatusDeleted:
		return "D"
	case StatusRenamed:
		return "R"
	case StatusCopied:
		return "C"
	case StatusConflicted:
		return "U"
	default:
		return "?"
	}
}

// FileChange is one changed path in the working tree together with the
// user's line-selection state for it.
type FileChange struct {
	// Path is the file path relative to the repository root.
	Path string
	// OldPath is the original path for renamed or copied files.
	OldPath string
	// Status is the kind of change.
	Status FileStatus
	// Selection records which of the file's changed lines are included
	// in the next commit.
	Selection DiffSelection
}

// ID returns the composite identity used to match files across status
// refreshes. Path alone is not enough: a delete-then-recreate at the same
// path must read as a new file, not inherit stale selection state.
func (f FileChange) ID() string {
	return f.Status.String() + "\x00" + f.Path
}

// TriState is the derived "include all" flag for a set of files:
// every file fully included, every file fully excluded, or a mixture.
type TriState int

// TriState values.
const (
	// TriStateMixed means some but not all changes are included.
	TriStateMixed TriState = iota
	// TriStateAll means every file is fully included.
	TriStateAll
	// TriStateNone means every file is fully excluded.
	TriStateNone
)

// WorkingDirectoryStatus is the ordered list of changed files in the
// working tree. The include-all flag is always derived from the file list
// via IncludeAll, never stored, so it cannot drift.
type WorkingDirectoryStatus struct {
	Files []FileChange
}

// IncludeAll recomputes the tri-state include-all flag from the file list.
// An empty list resolves to TriStateAll: with nothing to exclude, the
// degenerate case reads as "everything included".
func (s WorkingDirectoryStatus) IncludeAll() TriState {
	if len(s.Files) == 0 {
		return TriStateAll
	}

	allIncluded := true
	noneIncluded := true
	for _, f := range s.Files {
		if f.Selection.Kind() != SelectionAll {
			allIncluded = false
		}
		if f.Selection.Kind() != SelectionNone {
			noneIncluded = false
		}
	}

	switch {
	case allIncluded:
		return TriStateAll
	case noneIncluded:
		return TriStateNone
	default:
		return TriStateMixed
	}
}

// FindByID returns the file with the given composite identity, if present.
func (s WorkingDirectoryStatus) FindByID(id string) (FileChange, bool) {
	for _, f := range s.Files {
		if f.ID() == id {
			return f, true
		}
	}
	return FileChange{}, false
}
