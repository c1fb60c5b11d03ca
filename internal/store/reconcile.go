// Package store holds the application state layer: the status reconciler,
// the per-repository state store, and the aggregate application store the
// UI observes.
package store

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/curillo/escritorio/internal/domain"
)

// pathCollator orders file paths for display: locale-aware and
// case-insensitive, so "README" and "readme" sort together.
//
//nolint:gochecknoglobals // Immutable collation table
var pathCollator = collate.New(language.Und, collate.IgnoreCase)

// Reconcile merges a fresh status against the previous in-memory one.
// Files are matched by composite identity (path + change kind), so a
// delete-then-recreate at the same path reads as a new file instead of
// inheriting stale selection state. Matched files carry their selection
// forward; with clearSelections set (used right after a successful
// commit) they reset to none instead, since the old selection indices
// point into a diff that no longer exists. Files only present in the
// fresh status keep their default full selection.
func Reconcile(previous, fresh domain.WorkingDirectoryStatus, clearSelections bool) domain.WorkingDirectoryStatus {
	prevByID := make(map[string]domain.FileChange, len(previous.Files))
	for _, f := range previous.Files {
		prevByID[f.ID()] = f
	}

	files := make([]domain.FileChange, len(fresh.Files))
	copy(files, fresh.Files)

	for i := range files {
		old, ok := prevByID[files[i].ID()]
		if !ok {
			continue
		}
		if clearSelections {
			files[i].Selection = domain.SelectNone()
		} else {
			files[i].Selection = old.Selection
		}
	}

	sort.SliceStable(files, func(i, j int) bool {
		return pathCollator.CompareString(files[i].Path, files[j].Path) < 0
	})

	return domain.WorkingDirectoryStatus{Files: files}
}

// ConstrainSelection drops selection line indices that are no longer
// selectable in the file's latest diff. Stale indices must never survive
// a diff refresh as selected-but-nonexistent lines.
func ConstrainSelection(file domain.FileChange, diff domain.Diff) domain.FileChange {
	file.Selection = file.Selection.WithSelectableLines(diff.SelectableIndices())
	return file
}

// ResolveSelectedFile re-resolves a selected-file identity against a new
// status. A vanished file (committed or reverted) falls back to the first
// file in the list; ok is false only when the list is empty.
func ResolveSelectedFile(status domain.WorkingDirectoryStatus, previousID string) (string, bool) {
	if previousID != "" {
		if _, ok := status.FindByID(previousID); ok {
			return previousID, true
		}
	}
	if len(status.Files) > 0 {
		return status.Files[0].ID(), true
	}
	return "", false
}
