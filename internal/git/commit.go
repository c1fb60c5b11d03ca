// Package git provides Git operations for escritorio.
// This file implements commit creation with whole-file and per-line staging.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/curillo/escritorio/internal/ctxutil"
	"github.com/curillo/escritorio/internal/domain"
	escerrors "github.com/curillo/escritorio/internal/errors"
)

// CreateCommit stages exactly the included changes of the given files and
// creates a commit with the message. Fully included files are staged
// wholesale; partially selected files are staged by applying a synthetic
// patch to the index. Staging is atomic: any failure partway through
// resets the index so no commit is created with partial content.
func (c *Client) CreateCommit(ctx context.Context, message string, files []domain.FileChange) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}
	if message == "" {
		return "", fmt.Errorf("commit message cannot be empty: %w", escerrors.ErrEmptyValue)
	}

	included := includedFiles(files)
	if len(included) == 0 {
		return "", escerrors.ErrNothingToCommit
	}

	// Start from a clean index so only the selection below is staged.
	if err := c.resetIndex(ctx); err != nil {
		return "", err
	}

	if err := c.stageFiles(ctx, included); err != nil {
		// Roll the index back so the failure leaves no partial staging.
		_ = c.resetIndex(ctx)
		return "", err
	}

	// --cleanup=strip removes trailing whitespace and surrounding blank lines.
	if _, err := c.run(ctx, "commit", "-m", message, "--cleanup=strip"); err != nil {
		_ = c.resetIndex(ctx)
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	result, err := c.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve new commit: %w", err)
	}
	return result.TrimmedText(), nil
}

// includedFiles filters out files with nothing selected.
func includedFiles(files []domain.FileChange) []domain.FileChange {
	var out []domain.FileChange
	for _, f := range files {
		if f.Selection.Kind() != domain.SelectionNone {
			out = append(out, f)
		}
	}
	return out
}

// stageFiles stages each included file: whole-file for full selections,
// synthetic patch for partial ones.
func (c *Client) stageFiles(ctx context.Context, files []domain.FileChange) error {
	for _, file := range files {
		if err := ctxutil.Canceled(ctx); err != nil {
			return err
		}

		if file.Selection.Kind() == domain.SelectionAll {
			// -A handles additions, modifications, and deletions alike.
			if _, err := c.run(ctx, "add", "-A", "--", file.Path); err != nil {
				return fmt.Errorf("failed to stage %s: %w", file.Path, err)
			}
			continue
		}

		if err := c.stagePartial(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

// stagePartial stages only the selected lines of a file by applying a
// synthetic patch to the index.
func (c *Client) stagePartial(ctx context.Context, file domain.FileChange) error {
	diff, err := c.DiffForFile(ctx, file)
	if err != nil {
		return fmt.Errorf("failed to load diff for partial staging of %s: %w", file.Path, err)
	}

	patch, err := FormatPatch(file, diff)
	if err != nil {
		return err
	}

	_, err = c.runWithOptions(ctx,
		RunOptions{Stdin: strings.NewReader(patch)},
		"apply", "--cached", "--unidiff-zero", "--whitespace=nowarn", "-")
	if err != nil {
		return fmt.Errorf("failed to apply partial selection for %s: %w", file.Path, err)
	}
	return nil
}

// resetIndex unstages everything, tolerating the unborn-HEAD case of a
// repository with no commits yet.
func (c *Client) resetIndex(ctx context.Context) error {
	_, err := c.run(ctx, "reset", "HEAD", "--", ".")
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not a valid ref") ||
			strings.Contains(strings.ToLower(err.Error()), "unknown revision") {
			return nil
		}
		return fmt.Errorf("failed to reset index: %w", err)
	}
	return nil
}
