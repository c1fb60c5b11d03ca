package domain

// DiffKind discriminates the closed set of diff representations.
type DiffKind int

// Diff kinds.
const (
	// DiffText is a parsed unified diff with hunks and lines.
	DiffText DiffKind = iota
	// DiffBinary is an opaque binary change with no line data.
	DiffBinary
	// DiffImage is a binary change to a recognized image format, carrying
	// before/after image payloads.
	DiffImage
	// DiffSubmodule is a submodule pointer update rendered as a summary
	// instead of raw text.
	DiffSubmodule
)

// LineType classifies one line of a text diff.
type LineType int

// Line types per standard unified-diff semantics.
const (
	LineContext LineType = iota
	LineAdd
	LineDelete
	LineHunkHeader
)

// DiffLine is a single line of a text diff. Old and new line numbers are
// 1-based; zero means the line does not exist on that side.
type DiffLine struct {
	// Text is the raw line including its +/-/space prefix.
	Text string
	// Type classifies the line.
	Type LineType
	// OldNumber is the line number in the old file, 0 for additions.
	OldNumber int
	// NewNumber is the line number in the new file, 0 for deletions.
	NewNumber int
	// NoTrailingNewline is set when the source diff marked this line with
	// "\ No newline at end of file".
	NoTrailingNewline bool
}

// Selectable reports whether the line can be individually included in or
// excluded from a commit. Only additions and deletions are selectable.
func (l DiffLine) Selectable() bool {
	return l.Type == LineAdd || l.Type == LineDelete
}

// Content returns the line text without its diff prefix.
func (l DiffLine) Content() string {
	if len(l.Text) == 0 {
		return ""
	}
	return l.Text[1:]
}

// Hunk is a contiguous block of a text diff covering a range of lines in
// both the old and new file versions.
type Hunk struct {
	// Header is the raw "@@ -a,b +c,d @@ ..." line.
	Header string
	// OldStart and OldCount are the old-side range from the header.
	OldStart int
	OldCount int
	// NewStart and NewCount are the new-side range from the header.
	NewStart int
	NewCount int
	// Lines are the hunk's lines, starting with the header line itself.
	Lines []DiffLine
}

// ImageContents holds one side of an image diff as base64-encoded bytes.
type ImageContents struct {
	Base64    string
	MediaType string
}

// SubmoduleChange summarizes a submodule pointer update.
type SubmoduleChange struct {
	// From is the previous commit SHA, empty when the submodule is new.
	From string
	// To is the new commit SHA, empty when the submodule was removed.
	To string
}

// Diff is the structured representation of one file's changes: either a
// parsed text diff, an opaque binary marker, an image before/after pair,
// or a submodule pointer update.
type Diff struct {
	Kind DiffKind

	// Hunks is populated for DiffText.
	Hunks []Hunk

	// Previous and Current are populated for DiffImage. Previous is nil
	// when the file did not exist before, Current when it no longer does.
	Previous *ImageContents
	Current  *ImageContents

	// Submodule is populated for DiffSubmodule.
	Submodule *SubmoduleChange
}

// Lines returns the diff's lines flattened across hunks, in source order.
// Selection line indices refer to positions in this slice.
func (d Diff) Lines() []DiffLine {
	var out []DiffLine
	for _, h := range d.Hunks {
		out = append(out, h.Lines...)
	}
	return out
}

// SelectableIndices returns the indices of addable/deletable lines in the
// flattened line list. Partial selections are constrained to this set.
func (d Diff) SelectableIndices() []int {
	var out []int
	for i, line := range d.Lines() {
		if line.Selectable() {
			out = append(out, i)
		}
	}
	return out
}
