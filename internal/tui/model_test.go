package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curillo/escritorio/internal/domain"
	"github.com/curillo/escritorio/internal/settings"
	"github.com/curillo/escritorio/internal/store"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	app := store.NewAppStore(settings.NewMemory())
	t.Cleanup(app.Shutdown)

	m := New(context.Background(), app)
	t.Cleanup(m.Close)
	return m
}

// withRepoState injects a repository snapshot directly, bypassing git.
func withRepoState(m *Model, state *store.State) {
	m.state.SelectedRepository = &state.Repository
	m.state.RepositoryState = state
}

func TestModel(t *testing.T) {
	t.Run("renders placeholder without a repository", func(t *testing.T) {
		m := newTestModel(t)
		assert.Contains(t, m.View(), "no repository open")
	})

	t.Run("quit key quits", func(t *testing.T) {
		m := newTestModel(t)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("tab toggles pane focus", func(t *testing.T) {
		m := newTestModel(t)
		assert.Equal(t, paneFiles, m.focus)

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, paneDiff, m.focus)

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, paneFiles, m.focus)
	})

	t.Run("commit prompt opens and cancels", func(t *testing.T) {
		m := newTestModel(t)

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
		assert.Equal(t, modeCommit, m.mode)
		assert.Contains(t, m.View(), "Commit")

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		assert.Equal(t, modeNormal, m.mode)
	})

	t.Run("main view shows branch and changes", func(t *testing.T) {
		m := newTestModel(t)
		withRepoState(m, &store.State{
			Repository:    domain.Repository{Path: "/tmp/demo"},
			CurrentBranch: "main",
			AheadBehind:   &domain.AheadBehind{Ahead: 1, Behind: 2},
			Status: domain.WorkingDirectoryStatus{Files: []domain.FileChange{
				{Path: "a.go", Status: domain.StatusModified},
			}},
		})
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

		view := m.View()
		assert.Contains(t, view, "/tmp/demo")
		assert.Contains(t, view, "main")
		assert.Contains(t, view, "a.go")
	})

	t.Run("cursor follows the selected file across refreshes", func(t *testing.T) {
		m := newTestModel(t)
		files := []domain.FileChange{
			{Path: "a.go", Status: domain.StatusModified},
			{Path: "b.go", Status: domain.StatusModified},
		}
		withRepoState(m, &store.State{
			Status:         domain.WorkingDirectoryStatus{Files: files},
			SelectedFileID: files[1].ID(),
		})

		m.syncCursors()
		assert.Equal(t, 1, m.fileCursor)
	})

	t.Run("branch picker lists local branches", func(t *testing.T) {
		m := newTestModel(t)
		withRepoState(m, &store.State{
			CurrentBranch: "main",
			Branches: []domain.Branch{
				{Name: "main", Kind: domain.BranchLocal},
				{Name: "feature", Kind: domain.BranchLocal},
				{Name: "origin/main", Kind: domain.BranchRemote},
			},
		})

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
		assert.Equal(t, modeBranches, m.mode)

		view := m.View()
		assert.Contains(t, view, "* main")
		assert.Contains(t, view, "feature")
		assert.NotContains(t, view, "origin/main")
	})
}
