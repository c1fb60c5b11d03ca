package git

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	escerrors "github.com/curillo/escritorio/internal/errors"
)

func TestParseLog(t *testing.T) {
	sha := strings.Repeat("1", 40)

	record := func(fields ...string) string {
		return strings.Join(fields, logFieldSep) + logRecordSep
	}

	t.Run("single commit", func(t *testing.T) {
		input := record(sha, "fix parser", "Longer body.\n",
			"Ada Lovelace", "ada@example.com", "2026-08-01T10:30:00+02:00") + "\n"

		commits, err := parseLog(input)
		require.NoError(t, err)
		require.Len(t, commits, 1)

		c := commits[0]
		assert.Equal(t, sha, c.SHA)
		assert.Equal(t, "11111111", c.ShortSHA())
		assert.Equal(t, "fix parser", c.Summary)
		assert.Equal(t, "Longer body.", c.Body)
		assert.Equal(t, "Ada Lovelace", c.Author.Name)
		assert.Equal(t, "ada@example.com", c.Author.Email)
		assert.Equal(t, 2026, c.Author.Date.Year())
	})

	t.Run("multiple commits preserve order", func(t *testing.T) {
		other := strings.Repeat("2", 40)
		input := record(sha, "newest", "", "A", "a@x", "2026-08-02T00:00:00Z") + "\n" +
			record(other, "older", "", "B", "b@x", "2026-08-01T00:00:00Z") + "\n"

		commits, err := parseLog(input)
		require.NoError(t, err)
		require.Len(t, commits, 2)
		assert.Equal(t, "newest", commits[0].Summary)
		assert.Equal(t, "older", commits[1].Summary)
	})

	t.Run("body may contain newlines and separator-free text", func(t *testing.T) {
		input := record(sha, "subject", "para one\n\npara two\n", "A", "a@x",
			"2026-08-01T00:00:00Z")

		commits, err := parseLog(input)
		require.NoError(t, err)
		require.Len(t, commits, 1)
		assert.Equal(t, "para one\n\npara two", commits[0].Body)
	})

	t.Run("empty output", func(t *testing.T) {
		commits, err := parseLog("")
		require.NoError(t, err)
		assert.Empty(t, commits)
	})

	t.Run("malformed records", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
		}{
			{"too few fields", record(sha, "subject", "body")},
			{"bad sha", record("nothex", "s", "b", "A", "a@x", "2026-08-01T00:00:00Z")},
			{"bad date", record(sha, "s", "b", "A", "a@x", "yesterday")},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := parseLog(tt.input)
				require.Error(t, err)
				assert.ErrorIs(t, err, escerrors.ErrParse)
			})
		}
	})
}

func TestClientLog(t *testing.T) {
	ctx := context.Background()

	t.Run("returns commits newest first", func(t *testing.T) {
		repoPath := setupTestRepo(t)
		createFile(t, repoPath, "a.txt", "a\n")
		commitAll(t, repoPath, "first")
		createFile(t, repoPath, "b.txt", "b\n")
		commitAll(t, repoPath, "second")
		client := newTestClient(t, repoPath)

		commits, err := client.Log(ctx, 0)
		require.NoError(t, err)
		require.Len(t, commits, 2)
		assert.Equal(t, "second", commits[0].Summary)
		assert.Equal(t, "first", commits[1].Summary)
		assert.NotEmpty(t, commits[0].Author.Email)
		assert.WithinDuration(t, time.Now(), commits[0].Author.Date, time.Minute)
	})

	t.Run("limit caps the result", func(t *testing.T) {
		repoPath := setupTestRepo(t)
		createFile(t, repoPath, "a.txt", "a\n")
		commitAll(t, repoPath, "first")
		createFile(t, repoPath, "b.txt", "b\n")
		commitAll(t, repoPath, "second")
		client := newTestClient(t, repoPath)

		commits, err := client.Log(ctx, 1)
		require.NoError(t, err)
		require.Len(t, commits, 1)
		assert.Equal(t, "second", commits[0].Summary)
	})

	t.Run("repository with no commits has empty history", func(t *testing.T) {
		repoPath := setupTestRepo(t)
		client := newTestClient(t, repoPath)

		commits, err := client.Log(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, commits)
	})

	t.Run("single commit lookup", func(t *testing.T) {
		repoPath := setupTestRepo(t)
		createFile(t, repoPath, "a.txt", "a\n")
		commitAll(t, repoPath, "only commit")
		client := newTestClient(t, repoPath)

		commits, err := client.Log(ctx, 1)
		require.NoError(t, err)
		require.Len(t, commits, 1)

		commit, err := client.Commit(ctx, commits[0].SHA)
		require.NoError(t, err)
		assert.Equal(t, "only commit", commit.Summary)
		assert.Equal(t, commits[0].SHA, commit.SHA)
	})
}

func TestAheadBehind(t *testing.T) {
	ctx := context.Background()

	t.Run("no upstream is an error", func(t *testing.T) {
		repoPath := setupTestRepo(t)
		createFile(t, repoPath, "a.txt", "a\n")
		commitAll(t, repoPath, "first")
		client := newTestClient(t, repoPath)

		_, err := client.AheadBehind(ctx, "main", "")
		require.ErrorIs(t, err, escerrors.ErrNoUpstream)
	})

	t.Run("counts commits on each side", func(t *testing.T) {
		repoPath := setupTestRepo(t)
		createFile(t, repoPath, "a.txt", "a\n")
		commitAll(t, repoPath, "base")
		// Simulate an upstream with a local branch: main gains two commits
		// over "upstream", upstream gains one.
		runGit(t, repoPath, "branch", "upstream")
		createFile(t, repoPath, "b.txt", "b\n")
		commitAll(t, repoPath, "main one")
		createFile(t, repoPath, "c.txt", "c\n")
		commitAll(t, repoPath, "main two")
		runGit(t, repoPath, "checkout", "upstream")
		createFile(t, repoPath, "d.txt", "d\n")
		commitAll(t, repoPath, "upstream one")
		runGit(t, repoPath, "checkout", "main")
		client := newTestClient(t, repoPath)

		ab, err := client.AheadBehind(ctx, "main", "upstream")
		require.NoError(t, err)
		assert.Equal(t, 2, ab.Ahead)
		assert.Equal(t, 1, ab.Behind)
	})
}
