// Package git provides Git operations for escritorio.
// This file fetches diffs for working-directory and committed files,
// including image before/after payloads for recognized formats.
package git

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/curillo/escritorio/internal/ctxutil"
	"github.com/curillo/escritorio/internal/domain"
)

// imageMediaTypes maps recognized image extensions to their media type.
// Binary diffs for these extensions are rendered as before/after images.
var imageMediaTypes = map[string]string{ //nolint:gochecknoglobals // Fixed extension table
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// DiffForFile returns the structured diff for one working-directory file.
// New files are diffed against the null tree; everything else against HEAD.
func (c *Client) DiffForFile(ctx context.Context, file domain.FileChange) (domain.Diff, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return domain.Diff{}, err
	}

	raw, err := c.rawDiffForFile(ctx, file)
	if err != nil {
		return domain.Diff{}, err
	}

	diff, err := ParseDiff(raw)
	if err != nil {
		return domain.Diff{}, err
	}

	if diff.Kind == domain.DiffBinary {
		if img, ok := c.imageDiffForFile(ctx, file); ok {
			return img, nil
		}
	}

	return diff, nil
}

// rawDiffForFile runs the diff command for a working-directory file.
func (c *Client) rawDiffForFile(ctx context.Context, file domain.FileChange) ([]byte, error) {
	var result *RunResult
	var err error

	if file.Status == domain.StatusNew {
		// Untracked files have no HEAD side; diff against /dev/null.
		// --no-index exits 1 when the files differ, which is expected.
		result, err = c.runWithOptions(ctx,
			RunOptions{ExpectedErrors: map[int]struct{}{1: {}}},
			"diff", "--no-ext-diff", "--no-index", "--patch-with-raw", "-z", "--",
			os.DevNull, file.Path)
	} else {
		result, err = c.run(ctx,
			"diff", "HEAD", "--no-ext-diff", "--patch-with-raw", "-z", "--", file.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diff for %s: %w", file.Path, err)
	}
	return result.Stdout, nil
}

// DiffForCommittedFile returns the diff one file contributed to a commit.
// The driving command emits a summary header before the patch; the parser
// consumes only the final NUL-delimited record.
func (c *Client) DiffForCommittedFile(ctx context.Context, sha, path string) (domain.Diff, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return domain.Diff{}, err
	}

	result, err := c.run(ctx,
		"log", sha, "-m", "-1", "--first-parent", "--patch-with-raw", "-z", "--", path)
	if err != nil {
		return domain.Diff{}, fmt.Errorf("failed to get committed diff for %s: %w", path, err)
	}

	return ParseDiff(result.Stdout)
}

// imageDiffForFile builds an image diff for a binary change to a recognized
// image extension: the previous committed blob (if the file existed before)
// and the current working-tree content (if it still exists), base64-encoded.
func (c *Client) imageDiffForFile(ctx context.Context, file domain.FileChange) (domain.Diff, bool) {
	mediaType, ok := imageMediaTypes[strings.ToLower(filepath.Ext(file.Path))]
	if !ok {
		return domain.Diff{}, false
	}

	diff := domain.Diff{Kind: domain.DiffImage}

	if file.Status != domain.StatusNew {
		oldPath := file.Path
		if file.OldPath != "" {
			oldPath = file.OldPath
		}
		if blob, err := c.blobContents(ctx, "HEAD", oldPath); err == nil {
			diff.Previous = &domain.ImageContents{
				Base64:    base64.StdEncoding.EncodeToString(blob),
				MediaType: mediaType,
			}
		}
	}

	if file.Status != domain.StatusDeleted {
		if data, err := os.ReadFile(filepath.Join(c.repoPath, file.Path)); err == nil {
			diff.Current = &domain.ImageContents{
				Base64:    base64.StdEncoding.EncodeToString(data),
				MediaType: mediaType,
			}
		}
	}

	if diff.Previous == nil && diff.Current == nil {
		return domain.Diff{}, false
	}
	return diff, true
}

// blobContents returns the raw bytes of a file at a revision.
func (c *Client) blobContents(ctx context.Context, rev, path string) ([]byte, error) {
	result, err := c.run(ctx, "show", rev+":"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s:%s: %w", rev, path, err)
	}
	return result.Stdout, nil
}
