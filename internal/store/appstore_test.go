package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curillo/escritorio/internal/domain"
	escerrors "github.com/curillo/escritorio/internal/errors"
	"github.com/curillo/escritorio/internal/settings"
)

// newTestAppStore wires an AppStore whose repositories open onto fakes.
func newTestAppStore(fakes map[string]*fakeGit) (*AppStore, *settings.Memory) {
	mem := settings.NewMemory()
	app := NewAppStore(mem, withOpenClient(
		func(_ context.Context, path string) (gitService, error) {
			f, ok := fakes[path]
			if !ok {
				return nil, escerrors.ErrNotGitRepo
			}
			return f, nil
		},
	))
	return app, mem
}

func TestAppStoreRepositories(t *testing.T) {
	ctx := context.Background()

	t.Run("add and select", func(t *testing.T) {
		fake := newFakeGit()
		fake.status = domain.WorkingDirectoryStatus{Files: []domain.FileChange{
			change("a.txt", domain.StatusModified),
		}}
		fake.diffs["a.txt"] = textDiffFor(1)
		fake.defaultBranch = "main"
		app, mem := newTestAppStore(map[string]*fakeGit{"/repo": fake})

		require.True(t, app.AddRepository(ctx, "/repo"))
		require.True(t, app.SelectRepository(ctx, "/repo"))

		state := app.Snapshot()
		require.Len(t, state.Repositories, 1)
		require.NotNil(t, state.SelectedRepository)
		assert.Equal(t, "/repo", state.SelectedRepository.Path)
		require.NotNil(t, state.RepositoryState)
		assert.Len(t, state.RepositoryState.Status.Files, 1)

		// The selection persists for the next session.
		last, ok := mem.Get(settings.KeyLastRepository)
		require.True(t, ok)
		assert.Equal(t, "/repo", last)
	})

	t.Run("adding a non-repository posts an error", func(t *testing.T) {
		app, _ := newTestAppStore(map[string]*fakeGit{})

		assert.False(t, app.AddRepository(ctx, "/not-a-repo"))

		state := app.Snapshot()
		require.Len(t, state.Errors, 1)
		assert.ErrorIs(t, state.Errors[0].Err, escerrors.ErrNotGitRepo)
		assert.Empty(t, state.Repositories)
	})

	t.Run("adding twice is a no-op", func(t *testing.T) {
		fake := newFakeGit()
		app, _ := newTestAppStore(map[string]*fakeGit{"/repo": fake})

		require.True(t, app.AddRepository(ctx, "/repo"))
		require.True(t, app.AddRepository(ctx, "/repo"))
		assert.Len(t, app.Snapshot().Repositories, 1)
	})

	t.Run("selecting an unknown repository posts an error", func(t *testing.T) {
		app, _ := newTestAppStore(map[string]*fakeGit{})

		assert.False(t, app.SelectRepository(ctx, "/missing"))
		state := app.Snapshot()
		require.Len(t, state.Errors, 1)
		assert.ErrorIs(t, state.Errors[0].Err, escerrors.ErrRepositoryNotFound)
	})

	t.Run("close clears selection", func(t *testing.T) {
		fake := newFakeGit()
		app, _ := newTestAppStore(map[string]*fakeGit{"/repo": fake})
		require.True(t, app.AddRepository(ctx, "/repo"))
		require.True(t, app.SelectRepository(ctx, "/repo"))

		app.CloseRepository("/repo")

		state := app.Snapshot()
		assert.Empty(t, state.Repositories)
		assert.Nil(t, state.SelectedRepository)
		assert.Nil(t, state.RepositoryState)
	})

	t.Run("restore last repository", func(t *testing.T) {
		fake := newFakeGit()
		app, mem := newTestAppStore(map[string]*fakeGit{"/repo": fake})
		require.NoError(t, mem.Set(settings.KeyLastRepository, "/repo"))

		require.True(t, app.RestoreLastRepository(ctx))

		state := app.Snapshot()
		require.NotNil(t, state.SelectedRepository)
		assert.Equal(t, "/repo", state.SelectedRepository.Path)
	})

	t.Run("restore with no remembered repository", func(t *testing.T) {
		app, _ := newTestAppStore(map[string]*fakeGit{})
		assert.False(t, app.RestoreLastRepository(ctx))
	})
}

func TestAppStoreActionsRequireSelection(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestAppStore(map[string]*fakeGit{})

	assert.False(t, app.RefreshStatus(ctx))
	assert.False(t, app.Commit(ctx, "nope"))
	assert.False(t, app.Push(ctx))

	state := app.Snapshot()
	require.Len(t, state.Errors, 3)
	for _, e := range state.Errors {
		assert.ErrorIs(t, e.Err, escerrors.ErrRepositoryNotFound)
	}
}

func TestAppStoreActionsDelegate(t *testing.T) {
	ctx := context.Background()

	fake := newFakeGit()
	fake.status = domain.WorkingDirectoryStatus{Files: []domain.FileChange{
		change("a.txt", domain.StatusModified),
	}}
	fake.diffs["a.txt"] = textDiffFor(1)
	fake.branches = []domain.Branch{
		{Name: "main", Upstream: "origin/main", Kind: domain.BranchLocal},
	}
	fake.current = "main"
	fake.defaultBranch = "main"
	app, _ := newTestAppStore(map[string]*fakeGit{"/repo": fake})
	require.True(t, app.AddRepository(ctx, "/repo"))
	require.True(t, app.SelectRepository(ctx, "/repo"))

	require.True(t, app.Commit(ctx, "from the app store"))
	require.Len(t, fake.commitMessages, 1)
	assert.Equal(t, "from the app store", fake.commitMessages[0])

	require.True(t, app.Pull(ctx))
	require.True(t, app.Fetch(ctx))
	assert.Empty(t, app.Snapshot().Errors)
}

func TestAppStoreErrorQueue(t *testing.T) {
	app, _ := newTestAppStore(map[string]*fakeGit{})

	app.PostError(escerrors.ErrNetwork)
	app.PostError(escerrors.ErrAuthFailed)

	state := app.Snapshot()
	require.Len(t, state.Errors, 2)
	assert.ErrorIs(t, state.Errors[0].Err, escerrors.ErrNetwork)
	assert.ErrorIs(t, state.Errors[1].Err, escerrors.ErrAuthFailed)
	assert.NotEqual(t, state.Errors[0].ID, state.Errors[1].ID)

	app.DismissError(state.Errors[0].ID)

	state = app.Snapshot()
	require.Len(t, state.Errors, 1)
	assert.ErrorIs(t, state.Errors[0].Err, escerrors.ErrAuthFailed)

	// Posting nil is ignored.
	app.PostError(nil)
	assert.Len(t, app.Snapshot().Errors, 1)
}

func TestAppStoreSubscription(t *testing.T) {
	ctx := context.Background()

	fake := newFakeGit()
	app, _ := newTestAppStore(map[string]*fakeGit{"/repo": fake})

	token, ch := app.Subscribe()
	require.True(t, app.AddRepository(ctx, "/repo"))

	select {
	case <-ch:
	default:
		t.Fatal("subscriber not notified of repository add")
	}

	app.Unsubscribe(token)
	app.PostError(escerrors.ErrNetwork)

	select {
	case <-ch:
		t.Fatal("unsubscribed channel still signaled")
	default:
	}
}
