package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	t.Run("missing file is an empty store", func(t *testing.T) {
		store, err := NewFile(filepath.Join(t.TempDir(), "settings.yaml"))
		require.NoError(t, err)

		_, ok := store.Get(KeyLastRepository)
		assert.False(t, ok)
	})

	t.Run("empty path is rejected", func(t *testing.T) {
		_, err := NewFile("")
		require.Error(t, err)
	})

	t.Run("set persists across reload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")

		store, err := NewFile(path)
		require.NoError(t, err)
		require.NoError(t, store.Set(KeyLastRepository, "/work/project"))
		require.NoError(t, store.Set(KeySidebarWidth, "42"))

		reloaded, err := NewFile(path)
		require.NoError(t, err)

		v, ok := reloaded.Get(KeyLastRepository)
		require.True(t, ok)
		assert.Equal(t, "/work/project", v)

		v, ok = reloaded.Get(KeySidebarWidth)
		require.True(t, ok)
		assert.Equal(t, "42", v)
	})

	t.Run("set overwrites previous value", func(t *testing.T) {
		store, err := NewFile(filepath.Join(t.TempDir(), "settings.yaml"))
		require.NoError(t, err)

		require.NoError(t, store.Set(KeyLastRepository, "first"))
		require.NoError(t, store.Set(KeyLastRepository, "second"))

		v, ok := store.Get(KeyLastRepository)
		require.True(t, ok)
		assert.Equal(t, "second", v)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o600))

		_, err := NewFile(path)
		require.Error(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()

	_, ok := store.Get("missing")
	assert.False(t, ok)

	require.NoError(t, store.Set("k", "v"))
	v, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}
