// Package git provides Git operations for escritorio.
// This file materializes synthetic patches for partially selected files.
package git

import (
	"fmt"
	"strings"

	"github.com/curillo/escritorio/internal/domain"
	escerrors "github.com/curillo/escritorio/internal/errors"
)

// FormatPatch builds a unified diff containing exactly the selected changes
// of a file, suitable for `git apply --cached --unidiff-zero`. Unselected
// additions are dropped; unselected deletions are downgraded to context so
// the old side still matches HEAD; hunk headers are recomputed. Hunks with
// no selected change are omitted entirely.
func FormatPatch(file domain.FileChange, diff domain.Diff) (string, error) {
	if diff.Kind != domain.DiffText && diff.Kind != domain.DiffSubmodule {
		return "", fmt.Errorf("cannot format patch for non-text diff of %s: %w",
			file.Path, escerrors.ErrParse)
	}

	var body strings.Builder
	globalIdx := 0
	delta := 0
	emitted := 0

	for _, hunk := range diff.Hunks {
		hunkBody, oldCount, newCount, selected := formatHunk(hunk, file.Selection, globalIdx)
		globalIdx += len(hunk.Lines)
		if !selected {
			continue
		}

		newStart := hunk.OldStart + delta
		if oldCount == 0 {
			// Pure insertion: the old side anchors after oldStart.
			newStart++
		}
		fmt.Fprintf(&body, "@@ -%d,%d +%d,%d @@\n", hunk.OldStart, oldCount, newStart, newCount)
		body.WriteString(hunkBody)
		delta += newCount - oldCount
		emitted++
	}

	if emitted == 0 {
		return "", fmt.Errorf("no lines selected in %s: %w", file.Path, escerrors.ErrNothingToCommit)
	}

	return patchHeader(file) + body.String(), nil
}

// formatHunk renders one hunk's body with the selection applied and returns
// the recomputed side counts plus whether any change was selected.
func formatHunk(hunk domain.Hunk, sel domain.DiffSelection, baseIdx int) (body string, oldCount, newCount int, selected bool) {
	var b strings.Builder

	for i, line := range hunk.Lines {
		idx := baseIdx + i
		switch line.Type {
		case domain.LineHunkHeader:
			// Recomputed by the caller.
		case domain.LineContext:
			b.WriteString(line.Text)
			b.WriteByte('\n')
			oldCount++
			newCount++
		case domain.LineAdd:
			if sel.IsSelected(idx) {
				b.WriteString(line.Text)
				b.WriteByte('\n')
				newCount++
				selected = true
			}
		case domain.LineDelete:
			if sel.IsSelected(idx) {
				b.WriteString(line.Text)
				b.WriteByte('\n')
				oldCount++
				selected = true
			} else {
				// Keep the old content in place on both sides.
				b.WriteString(" " + line.Content())
				b.WriteByte('\n')
				oldCount++
				newCount++
			}
		}
	}

	return b.String(), oldCount, newCount, selected
}

// patchHeader builds the file header lines for a synthetic patch.
func patchHeader(file domain.FileChange) string {
	oldPath := file.Path
	if file.OldPath != "" {
		oldPath = file.OldPath
	}

	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", oldPath, file.Path)

	switch file.Status {
	case domain.StatusNew:
		b.WriteString("new file mode 100644\n")
		b.WriteString("--- /dev/null\n")
		fmt.Fprintf(&b, "+++ b/%s\n", file.Path)
	case domain.StatusDeleted:
		fmt.Fprintf(&b, "--- a/%s\n", oldPath)
		fmt.Fprintf(&b, "+++ b/%s\n", file.Path)
	default:
		fmt.Fprintf(&b, "--- a/%s\n", oldPath)
		fmt.Fprintf(&b, "+++ b/%s\n", file.Path)
	}

	return b.String()
}
