package tui

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/curillo/escritorio/internal/domain"
)

// renderDiff renders a diff into display lines. For text diffs each
// selectable line carries an include marker; the cursor row is
// highlighted when the pane has focus. Non-text diffs render a summary.
func renderDiff(diff domain.Diff, sel domain.DiffSelection, cursor, width int, focused bool) []string {
	switch diff.Kind {
	case domain.DiffBinary:
		return []string{footerStyle.Render("binary file, no preview")}
	case domain.DiffImage:
		return renderImageSummary(diff)
	case domain.DiffSubmodule:
		return renderSubmoduleSummary(diff)
	}

	lines := diff.Lines()
	if len(lines) == 0 {
		return []string{footerStyle.Render("no changes")}
	}

	out := make([]string, 0, len(lines))
	for i, line := range lines {
		out = append(out, renderDiffLine(line, i, sel, cursor, width, focused))
	}
	return out
}

// renderDiffLine renders one line of a text diff.
func renderDiffLine(line domain.DiffLine, index int, sel domain.DiffSelection, cursor, width int, focused bool) string {
	marker := "   "
	if line.Selectable() {
		if sel.IsSelected(index) {
			marker = "[x]"
		} else {
			marker = "[ ]"
		}
	}

	text := runewidth.Truncate(marker+" "+line.Text, width, "…")
	if line.NoTrailingNewline {
		text += " \\"
	}

	if focused && index == cursor {
		return cursorRowStyle.Render(text)
	}

	switch line.Type {
	case domain.LineAdd:
		return addedLineStyle.Render(text)
	case domain.LineDelete:
		return removedLineStyle.Render(text)
	case domain.LineHunkHeader:
		return hunkHeaderStyle.Render(text)
	default:
		return text
	}
}

// renderImageSummary describes an image change without drawing it.
func renderImageSummary(diff domain.Diff) []string {
	describe := func(label string, img *domain.ImageContents) string {
		if img == nil {
			return footerStyle.Render(label + ": none")
		}
		size := base64.StdEncoding.DecodedLen(len(img.Base64))
		return fmt.Sprintf("%s: %s, %d bytes", label, img.MediaType, size)
	}
	return []string{
		describe("before", diff.Previous),
		describe("after", diff.Current),
	}
}

// renderSubmoduleSummary describes a submodule pointer update.
func renderSubmoduleSummary(diff domain.Diff) []string {
	sub := diff.Submodule
	if sub == nil {
		return []string{footerStyle.Render("submodule change")}
	}
	from, to := sub.From, sub.To
	if from == "" {
		from = "(new)"
	}
	if to == "" {
		to = "(removed)"
	}
	return []string{fmt.Sprintf("submodule %s -> %s", shortSHA(from), shortSHA(to))}
}

// shortSHA abbreviates a 40-hex SHA for display; other strings pass
// through unchanged.
func shortSHA(s string) string {
	if len(s) == 40 && !strings.ContainsAny(s, " (") {
		return s[:8]
	}
	return s
}

// nextSelectable returns the nearest selectable line index moving from
// cursor in direction dir (+1 or -1). It returns cursor when no
// selectable line exists in that direction.
func nextSelectable(lines []domain.DiffLine, cursor, dir int) int {
	for i := cursor + dir; i >= 0 && i < len(lines); i += dir {
		if lines[i].Selectable() {
			return i
		}
	}
	return cursor
}
