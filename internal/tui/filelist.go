package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/curillo/escritorio/internal/domain"
)

// selectionGlyph returns the three-character include marker for a file:
// [x] fully included, [~] partially included, [ ] excluded.
func selectionGlyph(sel domain.DiffSelection) string {
	switch sel.Kind() {
	case domain.SelectionAll:
		return "[x]"
	case domain.SelectionPartial:
		return "[~]"
	default:
		return "[ ]"
	}
}

// renderFileList renders the changed-files pane. The cursor row is
// highlighted when the pane has focus. Rows are truncated to width.
func renderFileList(status domain.WorkingDirectoryStatus, cursor int, width, height int, focused bool) string {
	if len(status.Files) == 0 {
		return footerStyle.Render("no changes")
	}

	top := 0
	if cursor >= height && height > 0 {
		top = cursor - height + 1
	}

	var b strings.Builder
	for i := top; i < len(status.Files) && i-top < height; i++ {
		f := status.Files[i]

		label := f.Path
		if f.OldPath != "" {
			label = f.OldPath + " -> " + f.Path
		}
		row := selectionGlyph(f.Selection) + " " + f.Status.String() + " " + label
		row = runewidth.Truncate(row, width, "…")

		if i == cursor && focused {
			row = cursorRowStyle.Render(row)
		}
		b.WriteString(row)
		if i < len(status.Files)-1 && i-top < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// clampCursor keeps a cursor inside [0, n). An empty list clamps to 0.
func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
