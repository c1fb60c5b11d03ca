// Package git provides Git operations for escritorio.
// This file parses raw unified-diff text into the structured domain model.
package git

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/curillo/escritorio/internal/domain"
)

// hunkHeaderRe matches "@@ -a,b +c,d @@ ..." with the count halves optional
// per unified-diff rules (an omitted count means 1).
var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// submoduleLineRe matches the one-line records of a submodule pointer update.
var submoduleLineRe = regexp.MustCompile(`^[+-]Subproject commit ([0-9a-f]{40})$`)

// maxSubmoduleHunkLines is the largest changed-line count a hunk can have
// and still read as a submodule pointer update.
const maxSubmoduleHunkLines = 3

// ParseDiff parses the raw payload of a diff-family command invoked with
// --patch-with-raw -z. When a NUL-separated summary precedes the patch,
// only the final record is consumed. Binary markers short-circuit to a
// binary diff without line-level parsing.
func ParseDiff(raw []byte) (domain.Diff, error) {
	text := string(raw)

	// --patch-with-raw -z emits raw summary records separated by NUL
	// before the patch text; the patch is the final record.
	if idx := strings.LastIndexByte(text, '\x00'); idx >= 0 {
		text = text[idx+1:]
	}

	if isBinaryDiff(text) {
		return domain.Diff{Kind: domain.DiffBinary}, nil
	}

	hunks, err := parseHunks(text)
	if err != nil {
		return domain.Diff{}, err
	}

	diff := domain.Diff{Kind: domain.DiffText, Hunks: hunks}
	if sub, ok := detectSubmoduleChange(hunks); ok {
		return domain.Diff{Kind: domain.DiffSubmodule, Hunks: hunks, Submodule: sub}, nil
	}
	return diff, nil
}

// isBinaryDiff reports whether the patch text declares binary content.
func isBinaryDiff(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "@@ ") {
			return false
		}
		if strings.HasPrefix(line, "Binary files ") && strings.HasSuffix(line, " differ") {
			return true
		}
		if strings.HasPrefix(line, "GIT binary patch") {
			return true
		}
	}
	return false
}

// parseHunks parses the hunk sections of a text diff. File header lines
// before the first hunk are skipped. Each +/-/space line advances exactly
// one of (old, new, both) counters; a run that does not match the declared
// counts is a parse error, not silently ignored.
func parseHunks(text string) ([]domain.Hunk, error) {
	var hunks []domain.Hunk
	var current *domain.Hunk

	oldLine, newLine := 0, 0
	oldRemaining, newRemaining := 0, 0

	lines := strings.Split(text, "\n")
	// A trailing empty element after the final newline is not a diff line.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for _, line := range lines {
		if header := hunkHeaderRe.FindStringSubmatch(line); header != nil {
			if current != nil && (oldRemaining > 0 || newRemaining > 0) {
				return nil, newParseError("hunk shorter than declared counts", current.Header)
			}
			hunk, err := newHunkFromHeader(line, header)
			if err != nil {
				return nil, err
			}
			hunks = append(hunks, hunk)
			current = &hunks[len(hunks)-1]
			oldLine, newLine = hunk.OldStart, hunk.NewStart
			oldRemaining, newRemaining = hunk.OldCount, hunk.NewCount
			continue
		}

		if current == nil {
			// File header lines (diff --git, index, ---, +++) precede
			// the first hunk.
			continue
		}

		if strings.HasPrefix(line, "\\") {
			// "\ No newline at end of file" annotates the previous line
			// and does not advance either counter.
			if len(current.Lines) > 1 {
				current.Lines[len(current.Lines)-1].NoTrailingNewline = true
			}
			continue
		}

		if oldRemaining == 0 && newRemaining == 0 {
			return nil, newParseError("diff line outside declared hunk counts", line)
		}

		var dl domain.DiffLine
		switch {
		case strings.HasPrefix(line, "+"):
			if newRemaining == 0 {
				return nil, newParseError("addition exceeds declared new-side count", line)
			}
			dl = domain.DiffLine{Text: line, Type: domain.LineAdd, NewNumber: newLine}
			newLine++
			newRemaining--
		case strings.HasPrefix(line, "-"):
			if oldRemaining == 0 {
				return nil, newParseError("deletion exceeds declared old-side count", line)
			}
			dl = domain.DiffLine{Text: line, Type: domain.LineDelete, OldNumber: oldLine}
			oldLine++
			oldRemaining--
		case line == "" || strings.HasPrefix(line, " "):
			if oldRemaining == 0 || newRemaining == 0 {
				return nil, newParseError("context line exceeds declared counts", line)
			}
			if line == "" {
				// Some git versions emit empty context lines without the
				// leading space.
				line = " "
			}
			dl = domain.DiffLine{Text: line, Type: domain.LineContext, OldNumber: oldLine, NewNumber: newLine}
			oldLine++
			newLine++
			oldRemaining--
			newRemaining--
		default:
			return nil, newParseError("unexpected line in hunk body", line)
		}

		current.Lines = append(current.Lines, dl)
	}

	if current != nil && (oldRemaining > 0 || newRemaining > 0) {
		return nil, newParseError("hunk shorter than declared counts", current.Header)
	}

	return hunks, nil
}

// newHunkFromHeader builds a hunk from a matched "@@" header line.
// The header itself is the hunk's first line.
func newHunkFromHeader(line string, match []string) (domain.Hunk, error) {
	oldStart, err := strconv.Atoi(match[1])
	if err != nil {
		return domain.Hunk{}, newParseError("bad old start in hunk header", line)
	}
	newStart, err := strconv.Atoi(match[3])
	if err != nil {
		return domain.Hunk{}, newParseError("bad new start in hunk header", line)
	}

	oldCount, newCount := 1, 1
	if match[2] != "" {
		if oldCount, err = strconv.Atoi(match[2]); err != nil {
			return domain.Hunk{}, newParseError("bad old count in hunk header", line)
		}
	}
	if match[4] != "" {
		if newCount, err = strconv.Atoi(match[4]); err != nil {
			return domain.Hunk{}, newParseError("bad new count in hunk header", line)
		}
	}

	return domain.Hunk{
		Header:   line,
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
		Lines:    []domain.DiffLine{{Text: line, Type: domain.LineHunkHeader}},
	}, nil
}

// detectSubmoduleChange reports whether the parsed hunks plausibly
// represent a submodule pointer update: a single hunk of at most three
// changed lines, each matching the subproject-commit form. Coincidental
// content can misfire; text gives no stronger signal.
func detectSubmoduleChange(hunks []domain.Hunk) (*domain.SubmoduleChange, bool) {
	if len(hunks) != 1 {
		return nil, false
	}
	body := hunks[0].Lines[1:]
	if len(body) == 0 || len(body) > maxSubmoduleHunkLines {
		return nil, false
	}

	var change domain.SubmoduleChange
	for _, line := range body {
		m := submoduleLineRe.FindStringSubmatch(line.Text)
		if m == nil {
			return nil, false
		}
		if line.Type == domain.LineDelete {
			change.From = m[1]
		} else {
			change.To = m[1]
		}
	}
	return &change, true
}

// DiffText reconstitutes display text for a parsed diff. A line whose
// source lacked a terminating newline gets a normalized line ending so
// downstream text rendering behaves consistently.
func DiffText(d domain.Diff) string {
	var b strings.Builder
	for _, line := range d.Lines() {
		b.WriteString(line.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
