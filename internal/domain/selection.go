package domain

import "sort"

// SelectionKind discriminates the three selection states a file can be in.
type SelectionKind int

// Selection kinds. The zero value is SelectionAll so a freshly discovered
// file change defaults to fully included.
const (
	// SelectionAll includes every changed line.
	SelectionAll SelectionKind = iota
	// SelectionNone includes no changed line.
	SelectionNone
	// SelectionPartial includes an explicit per-line subset.
	SelectionPartial
)

// DiffSelection records which changed lines of a file are included in the
// next commit. Values are immutable: every mutation returns a new selection,
// which makes superseded-state checks in the store plain value comparisons.
//
// For a partial selection the line map holds one entry per selectable line
// index in the file's current diff. Indices are positions in the flattened
// hunk line list (see Diff.SelectableIndices).
type DiffSelection struct {
	kind  SelectionKind
	lines map[int]bool
}

// SelectAll returns a selection including every changed line.
func SelectAll() DiffSelection {
	return DiffSelection{kind: SelectionAll}
}

// SelectNone returns a selection including no changed line.
func SelectNone() DiffSelection {
	return DiffSelection{kind: SelectionNone}
}

// NewPartialSelection builds a selection from an explicit per-line map.
// The map is copied. A uniform map collapses to SelectionAll or
// SelectionNone so kind comparisons stay meaningful.
func NewPartialSelection(lines map[int]bool) DiffSelection {
	if len(lines) == 0 {
		return SelectNone()
	}

	cp := make(map[int]bool, len(lines))
	allTrue := true
	allFalse := true
	for idx, included := range lines {
		cp[idx] = included
		if included {
			allFalse = false
		} else {
			allTrue = false
		}
	}

	switch {
	case allTrue:
		return SelectAll()
	case allFalse:
		return SelectNone()
	default:
		return DiffSelection{kind: SelectionPartial, lines: cp}
	}
}

// Kind returns the selection kind.
func (s DiffSelection) Kind() SelectionKind {
	return s.kind
}

// IsSelected reports whether the selectable line at index is included.
func (s DiffSelection) IsSelected(index int) bool {
	switch s.kind {
	case SelectionAll:
		return true
	case SelectionNone:
		return false
	case SelectionPartial:
		return s.lines[index]
	default:
		return false
	}
}

// SelectedLines returns the sorted indices of included lines for a partial
// selection. For SelectionAll and SelectionNone the caller should consult
// the diff directly; this returns nil.
func (s DiffSelection) SelectedLines() []int {
	if s.kind != SelectionPartial {
		return nil
	}
	out := make([]int, 0, len(s.lines))
	for idx, included := range s.lines {
		if included {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}

// WithLineSelection returns a new selection with the line at index toggled
// to the given inclusion. selectable is the full set of selectable indices
// in the current diff; an All or None selection is expanded over it before
// the single line is changed.
func (s DiffSelection) WithLineSelection(index int, included bool, selectable []int) DiffSelection {
	lines := make(map[int]bool, len(selectable))
	for _, idx := range selectable {
		lines[idx] = s.IsSelected(idx)
	}
	if _, ok := lines[index]; !ok {
		// Not a selectable line in the current diff; nothing to change.
		return s
	}
	lines[index] = included
	return NewPartialSelection(lines)
}

// WithSelectableLines constrains a selection to the selectable indices of a
// freshly loaded diff. Stale indices are dropped rather than left as
// selected-but-nonexistent; indices new to the diff default to excluded.
// All and None selections are unaffected.
func (s DiffSelection) WithSelectableLines(selectable []int) DiffSelection {
	if s.kind != SelectionPartial {
		return s
	}
	lines := make(map[int]bool, len(selectable))
	for _, idx := range selectable {
		lines[idx] = s.lines[idx]
	}
	return NewPartialSelection(lines)
}

// Equal reports whether two selections are identical, including per-line
// state for partial selections.
func (s DiffSelection) Equal(other DiffSelection) bool {
	if s.kind != other.kind {
		return false
	}
	if s.kind != SelectionPartial {
		return true
	}
	if len(s.lines) != len(other.lines) {
		return false
	}
	for idx, included := range s.lines {
		got, ok := other.lines[idx]
		if !ok || got != included {
			return false
		}
	}
	return true
}
