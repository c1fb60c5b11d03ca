package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileChangeID(t *testing.T) {
	modified := FileChange{Path: "app/main.go", Status: StatusModified}
	recreated := FileChange{Path: "app/main.go", Status: StatusNew}

	// Same path, different change kind: distinct identities, so a
	// delete-then-recreate does not inherit stale selection state.
	assert.NotEqual(t, modified.ID(), recreated.ID())
	assert.Equal(t, modified.ID(), FileChange{Path: "app/main.go", Status: StatusModified}.ID())
}

func TestIncludeAllTriState(t *testing.T) {
	partial := NewPartialSelection(map[int]bool{0: true, 1: false})

	tests := []struct {
		name  string
		files []FileChange
		want  TriState
	}{
		{
			name:  "empty list resolves to all",
			files: nil,
			want:  TriStateAll,
		},
		{
			name: "every file fully included",
			files: []FileChange{
				{Path: "a", Selection: SelectAll()},
				{Path: "b", Selection: SelectAll()},
			},
			want: TriStateAll,
		},
		{
			name: "every file fully excluded",
			files: []FileChange{
				{Path: "a", Selection: SelectNone()},
				{Path: "b", Selection: SelectNone()},
			},
			want: TriStateNone,
		},
		{
			name: "mixed full and none",
			files: []FileChange{
				{Path: "a", Selection: SelectAll()},
				{Path: "b", Selection: SelectNone()},
			},
			want: TriStateMixed,
		},
		{
			name: "single partial file is mixed",
			files: []FileChange{
				{Path: "a", Selection: partial},
			},
			want: TriStateMixed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := WorkingDirectoryStatus{Files: tt.files}
			assert.Equal(t, tt.want, s.IncludeAll())
		})
	}
}

func TestFindByID(t *testing.T) {
	s := WorkingDirectoryStatus{Files: []FileChange{
		{Path: "a.go", Status: StatusModified},
		{Path: "b.go", Status: StatusNew},
	}}

	got, ok := s.FindByID(FileChange{Path: "b.go", Status: StatusNew}.ID())
	assert.True(t, ok)
	assert.Equal(t, "b.go", got.Path)

	_, ok = s.FindByID(FileChange{Path: "b.go", Status: StatusDeleted}.ID())
	assert.False(t, ok)
}
