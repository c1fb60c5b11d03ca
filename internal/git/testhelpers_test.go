package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestRepo creates a temporary git repository for testing.
// Returns the path to the repo.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	runGit(t, tmpDir, "init", "--initial-branch=main")
	runGit(t, tmpDir, "config", "user.email", "test@escritorio.local")
	runGit(t, tmpDir, "config", "user.name", "Escritorio Test")
	runGit(t, tmpDir, "config", "commit.gpgsign", "false")

	return tmpDir
}

// runGit runs a git command in dir and fails the test on error.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.CommandContext(context.Background(), "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, out)
	return string(out)
}

// createFile creates a file with content in the repo.
func createFile(t *testing.T, repoPath, filename, content string) {
	t.Helper()
	path := filepath.Join(repoPath, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// commitAll stages and commits all changes with the given message.
func commitAll(t *testing.T, repoPath, message string) {
	t.Helper()
	runGit(t, repoPath, "add", "-A")
	runGit(t, repoPath, "commit", "-m", message)
}

// newTestClient creates a Client for an initialized test repo.
func newTestClient(t *testing.T, repoPath string) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), repoPath)
	require.NoError(t, err)
	return client
}
