package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curillo/escritorio/internal/domain"
)

// sampleDiff builds a one-hunk text diff: header, context, delete, add.
func sampleDiff() domain.Diff {
	return domain.Diff{
		Kind: domain.DiffText,
		Hunks: []domain.Hunk{{
			Header:   "@@ -1,2 +1,2 @@",
			OldStart: 1, OldCount: 2, NewStart: 1, NewCount: 2,
			Lines: []domain.DiffLine{
				{Text: "@@ -1,2 +1,2 @@", Type: domain.LineHunkHeader},
				{Text: " one", Type: domain.LineContext, OldNumber: 1, NewNumber: 1},
				{Text: "-two", Type: domain.LineDelete, OldNumber: 2},
				{Text: "+TWO", Type: domain.LineAdd, NewNumber: 2},
			},
		}},
	}
}

func TestRenderDiff(t *testing.T) {
	t.Run("selectable lines carry include markers", func(t *testing.T) {
		lines := renderDiff(sampleDiff(), domain.SelectAll(), 0, 80, false)
		require.Len(t, lines, 4)

		assert.NotContains(t, lines[0], "[x]")
		assert.NotContains(t, lines[1], "[x]")
		assert.Contains(t, lines[2], "[x] -two")
		assert.Contains(t, lines[3], "[x] +TWO")
	})

	t.Run("excluded lines show empty markers", func(t *testing.T) {
		sel := domain.NewPartialSelection(map[int]bool{2: true, 3: false})
		lines := renderDiff(sampleDiff(), sel, 0, 80, false)

		assert.Contains(t, lines[2], "[x] -two")
		assert.Contains(t, lines[3], "[ ] +TWO")
	})

	t.Run("no-newline marker is visible", func(t *testing.T) {
		diff := sampleDiff()
		diff.Hunks[0].Lines[3].NoTrailingNewline = true
		lines := renderDiff(diff, domain.SelectAll(), 0, 80, false)
		assert.Contains(t, lines[3], `\`)
	})

	t.Run("binary diff renders a notice", func(t *testing.T) {
		lines := renderDiff(domain.Diff{Kind: domain.DiffBinary},
			domain.SelectAll(), 0, 80, false)
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "binary file")
	})

	t.Run("image diff summarizes both sides", func(t *testing.T) {
		diff := domain.Diff{
			Kind:    domain.DiffImage,
			Current: &domain.ImageContents{Base64: "aGVsbG8=", MediaType: "image/png"},
		}
		lines := renderDiff(diff, domain.SelectAll(), 0, 80, false)
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "before: none")
		assert.Contains(t, lines[1], "image/png")
	})

	t.Run("submodule diff shows short pointers", func(t *testing.T) {
		diff := domain.Diff{
			Kind: domain.DiffSubmodule,
			Submodule: &domain.SubmoduleChange{
				From: "aabbccddeeff00112233445566778899aabbccdd",
				To:   "",
			},
		}
		lines := renderDiff(diff, domain.SelectAll(), 0, 80, false)
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "aabbccdd ->")
		assert.Contains(t, lines[0], "(removed)")
	})
}

func TestNextSelectable(t *testing.T) {
	lines := sampleDiff().Lines()

	assert.Equal(t, 2, nextSelectable(lines, 0, 1))
	assert.Equal(t, 3, nextSelectable(lines, 2, 1))
	assert.Equal(t, 2, nextSelectable(lines, 3, -1))
	assert.Equal(t, 3, nextSelectable(lines, 3, 1), "stays put at the end")
}
