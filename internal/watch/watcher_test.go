package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCountingWatcher(t *testing.T, dir string) (*Watcher, *atomic.Int64) {
	t.Helper()

	var count atomic.Int64
	w, err := New(dir, func() { count.Add(1) },
		WithDebounce(30*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w, &count
}

func TestWatcher(t *testing.T) {
	t.Run("file change triggers one settled callback", func(t *testing.T) {
		dir := t.TempDir()
		_, count := newCountingWatcher(t, dir)

		// A burst of writes should coalesce into a single callback.
		for i := 0; i < 5; i++ {
			require.NoError(t, os.WriteFile(
				filepath.Join(dir, "a.txt"), []byte("x"), 0o600))
		}

		require.Eventually(t, func() bool {
			return count.Load() >= 1
		}, time.Second, 10*time.Millisecond)

		time.Sleep(100 * time.Millisecond)
		assert.Less(t, count.Load(), int64(5), "burst must coalesce")
	})

	t.Run("changes in new subdirectories are seen", func(t *testing.T) {
		dir := t.TempDir()
		_, count := newCountingWatcher(t, dir)

		sub := filepath.Join(dir, "nested")
		require.NoError(t, os.Mkdir(sub, 0o750))

		require.Eventually(t, func() bool {
			return count.Load() >= 1
		}, time.Second, 10*time.Millisecond)
		first := count.Load()

		require.NoError(t, os.WriteFile(
			filepath.Join(sub, "inner.txt"), []byte("x"), 0o600))

		require.Eventually(t, func() bool {
			return count.Load() > first
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("git internals are ignored except HEAD", func(t *testing.T) {
		dir := t.TempDir()
		gitDir := filepath.Join(dir, ".git")
		require.NoError(t, os.MkdirAll(filepath.Join(gitDir, "objects"), 0o750))
		require.NoError(t, os.WriteFile(
			filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o600))

		_, count := newCountingWatcher(t, dir)

		// Object database churn must not wake the application.
		require.NoError(t, os.WriteFile(
			filepath.Join(gitDir, "objects", "pack-new"), []byte("x"), 0o600))
		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, int64(0), count.Load())

		// A HEAD change is an external checkout and must wake it.
		require.NoError(t, os.WriteFile(
			filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/other\n"), 0o600))
		require.Eventually(t, func() bool {
			return count.Load() >= 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		dir := t.TempDir()
		w, _ := newCountingWatcher(t, dir)

		require.NoError(t, w.Close())
		require.NoError(t, w.Close())
	})
}
