package git

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curillo/escritorio/internal/domain"
)

// tinyPNG is a 1x1 transparent PNG.
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestDiffForFile(t *testing.T) {
	ctx := context.Background()

	t.Run("modified tracked file", func(t *testing.T) {
		repoPath := setupTestRepo(t)
		createFile(t, repoPath, "app.go", "package main\n\nfunc main() {}\n")
		commitAll(t, repoPath, "initial commit")
		createFile(t, repoPath, "app.go", "package main\n\nfunc main() { run() }\n")
		client := newTestClient(t, repoPath)

		status, err := client.Status(ctx)
		require.NoError(t, err)
		require.Len(t, status.Files, 1)

		diff, err := client.DiffForFile(ctx, status.Files[0])
		require.NoError(t, err)
		assert.Equal(t, domain.DiffText, diff.Kind)
		require.Len(t, diff.Hunks, 1)

		text := DiffText(diff)
		assert.Contains(t, text, "-func main() {}\n")
		assert.Contains(t, text, "+func main() { run() }\n")
	})

	t.Run("untracked file diffs as all additions", func(t *testing.T) {
		repoPath := setupTestRepo(t)
		createFile(t, repoPath, "base.txt", "base\n")
		commitAll(t, repoPath, "initial commit")
		createFile(t, repoPath, "fresh.txt", "alpha\nbeta\n")
		client := newTestClient(t, repoPath)

		status, err := client.Status(ctx)
		require.NoError(t, err)
		require.Len(t, status.Files, 1)
		require.Equal(t, domain.StatusNew, status.Files[0].Status)

		diff, err := client.DiffForFile(ctx, status.Files[0])
		require.NoError(t, err)
		assert.Equal(t, domain.DiffText, diff.Kind)
		require.Len(t, diff.Hunks, 1)

		adds := 0
		for _, line := range diff.Hunks[0].Lines {
			if line.Type == domain.LineAdd {
				adds++
			}
		}
		assert.Equal(t, 2, adds)
	})

	t.Run("new image file yields an image diff", func(t *testing.T) {
		repoPath := setupTestRepo(t)
		createFile(t, repoPath, "base.txt", "base\n")
		commitAll(t, repoPath, "initial commit")
		require.NoError(t, os.WriteFile(filepath.Join(repoPath, "logo.png"), tinyPNG, 0o600))
		client := newTestClient(t, repoPath)

		status, err := client.Status(ctx)
		require.NoError(t, err)
		require.Len(t, status.Files, 1)

		diff, err := client.DiffForFile(ctx, status.Files[0])
		require.NoError(t, err)
		assert.Equal(t, domain.DiffImage, diff.Kind)
		assert.Nil(t, diff.Previous)
		require.NotNil(t, diff.Current)
		assert.Equal(t, "image/png", diff.Current.MediaType)
		assert.Equal(t, base64.StdEncoding.EncodeToString(tinyPNG), diff.Current.Base64)
	})

	t.Run("modified image carries before and after", func(t *testing.T) {
		repoPath := setupTestRepo(t)
		require.NoError(t, os.WriteFile(filepath.Join(repoPath, "logo.png"), tinyPNG, 0o600))
		commitAll(t, repoPath, "add logo")
		changed := append(append([]byte{}, tinyPNG...), 0x00, 0x01)
		require.NoError(t, os.WriteFile(filepath.Join(repoPath, "logo.png"), changed, 0o600))
		client := newTestClient(t, repoPath)

		status, err := client.Status(ctx)
		require.NoError(t, err)
		require.Len(t, status.Files, 1)

		diff, err := client.DiffForFile(ctx, status.Files[0])
		require.NoError(t, err)
		assert.Equal(t, domain.DiffImage, diff.Kind)
		require.NotNil(t, diff.Previous)
		require.NotNil(t, diff.Current)
		assert.Equal(t, base64.StdEncoding.EncodeToString(tinyPNG), diff.Previous.Base64)
		assert.Equal(t, base64.StdEncoding.EncodeToString(changed), diff.Current.Base64)
	})

	t.Run("non-image binary stays a binary diff", func(t *testing.T) {
		repoPath := setupTestRepo(t)
		createFile(t, repoPath, "base.txt", "base\n")
		commitAll(t, repoPath, "initial commit")
		require.NoError(t, os.WriteFile(filepath.Join(repoPath, "blob.bin"),
			[]byte{0x00, 0x01, 0x02, 0xff}, 0o600))
		client := newTestClient(t, repoPath)

		status, err := client.Status(ctx)
		require.NoError(t, err)
		require.Len(t, status.Files, 1)

		diff, err := client.DiffForFile(ctx, status.Files[0])
		require.NoError(t, err)
		assert.Equal(t, domain.DiffBinary, diff.Kind)
	})
}

func TestDiffForCommittedFile(t *testing.T) {
	ctx := context.Background()

	repoPath := setupTestRepo(t)
	createFile(t, repoPath, "app.go", "v1\n")
	commitAll(t, repoPath, "first")
	createFile(t, repoPath, "app.go", "v2\n")
	commitAll(t, repoPath, "second")
	client := newTestClient(t, repoPath)

	commits, err := client.Log(ctx, 1)
	require.NoError(t, err)
	require.Len(t, commits, 1)

	diff, err := client.DiffForCommittedFile(ctx, commits[0].SHA, "app.go")
	require.NoError(t, err)
	assert.Equal(t, domain.DiffText, diff.Kind)

	text := DiffText(diff)
	assert.Contains(t, text, "-v1\n")
	assert.Contains(t, text, "+v2\n")
}
