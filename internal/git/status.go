// Package git provides Git operations for escritorio.
// This file parses machine-readable status output into the domain model.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/curillo/escritorio/internal/ctxutil"
	"github.com/curillo/escritorio/internal/domain"
)

// Status returns the working directory status. Output is requested in
// NUL-terminated porcelain form so paths with spaces or unusual bytes
// survive; renames carry the new path in the entry and the original path
// in the following NUL field.
func (c *Client) Status(ctx context.Context) (domain.WorkingDirectoryStatus, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return domain.WorkingDirectoryStatus{}, err
	}

	result, err := c.run(ctx, "status", "--porcelain", "-z", "--untracked-files=all")
	if err != nil {
		return domain.WorkingDirectoryStatus{}, fmt.Errorf("failed to get status: %w", err)
	}

	return parseStatus(result.Text())
}

// parseStatus parses `git status --porcelain -z` output.
// Unknown status codes surface as a ParseError, never a silent drop.
func parseStatus(output string) (domain.WorkingDirectoryStatus, error) {
	var files []domain.FileChange

	fields := strings.Split(output, "\x00")
	for i := 0; i < len(fields); i++ {
		entry := fields[i]
		if entry == "" {
			continue
		}
		if len(entry) < 4 || entry[2] != ' ' {
			return domain.WorkingDirectoryStatus{}, newParseError("malformed status entry", entry)
		}

		index := entry[0]
		workTree := entry[1]
		path := entry[3:]

		status, err := mapStatusCode(index, workTree)
		if err != nil {
			return domain.WorkingDirectoryStatus{}, err
		}

		change := domain.FileChange{
			Path:      path,
			Status:    status,
			Selection: domain.SelectAll(),
		}

		// Renames and copies are followed by the original path in the
		// next NUL field.
		if status == domain.StatusRenamed || status == domain.StatusCopied {
			if i+1 >= len(fields) || fields[i+1] == "" {
				return domain.WorkingDirectoryStatus{}, newParseError("rename entry missing original path", entry)
			}
			i++
			change.OldPath = fields[i]
		}

		files = append(files, change)
	}

	return domain.WorkingDirectoryStatus{Files: files}, nil
}

// mapStatusCode maps the two porcelain status characters to a single
// domain status the way a working-directory view needs it.
func mapStatusCode(index, workTree byte) (domain.FileStatus, error) {
	// Untracked.
	if index == '?' && workTree == '?' {
		return domain.StatusNew, nil
	}

	// Unmerged combinations.
	if index == 'U' || workTree == 'U' ||
		(index == 'A' && workTree == 'A') ||
		(index == 'D' && workTree == 'D') {
		return domain.StatusConflicted, nil
	}

	for _, code := range []byte{index, workTree} {
		switch code {
		case 'R':
			return domain.StatusRenamed, nil
		case 'C':
			return domain.StatusCopied, nil
		}
	}

	for _, code := range []byte{index, workTree} {
		switch code {
		case 'D':
			return domain.StatusDeleted, nil
		case 'A':
			return domain.StatusNew, nil
		case 'M', 'T':
			return domain.StatusModified, nil
		case ' ':
			// Other side carries the change.
		default:
			return 0, newParseError("unrecognized status code", string([]byte{index, workTree}))
		}
	}

	return 0, newParseError("status entry with no change", string([]byte{index, workTree}))
}
