// Package git provides Git operations for escritorio.
// This file loads commit history and ahead/behind counts.
package git

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/curillo/escritorio/internal/ctxutil"
	"github.com/curillo/escritorio/internal/domain"
	escerrors "github.com/curillo/escritorio/internal/errors"
)

// ASCII unit/record separators keep log fields parseable regardless of
// message content; commit bodies can contain anything but these.
const (
	logFieldSep  = "\x1f"
	logRecordSep = "\x1e"
)

// logFormat is the pretty format for history loading:
// SHA, summary, body, author name, author email, author date (strict ISO).
const logFormat = "%H%x1f%s%x1f%b%x1f%an%x1f%ae%x1f%aI%x1e"

var shaRe = regexp.MustCompile(`^[0-9a-f]{40}$`)

// Log returns up to limit commits reachable from HEAD, newest first.
// A limit of zero or less means no limit.
func (c *Client) Log(ctx context.Context, limit int) ([]domain.Commit, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	args := []string{"log", "--format=" + logFormat}
	if limit > 0 {
		args = append(args, fmt.Sprintf("--max-count=%d", limit))
	}

	// A repository with no commits makes git log exit 128; treat that as
	// an empty history rather than a failure.
	result, err := c.runWithOptions(ctx,
		RunOptions{ExpectedErrors: map[int]struct{}{128: {}}}, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if result.ExitCode != 0 {
		return nil, nil
	}

	return parseLog(result.Text())
}

// Commit returns the detail for a single SHA.
func (c *Client) Commit(ctx context.Context, sha string) (domain.Commit, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return domain.Commit{}, err
	}

	result, err := c.run(ctx, "log", "-1", "--format="+logFormat, sha)
	if err != nil {
		return domain.Commit{}, fmt.Errorf("failed to load commit %s: %w", sha, err)
	}

	commits, err := parseLog(result.Text())
	if err != nil {
		return domain.Commit{}, err
	}
	if len(commits) != 1 {
		return domain.Commit{}, newParseError("expected exactly one log record", sha)
	}
	return commits[0], nil
}

// parseLog parses record-separated log output into commits.
func parseLog(output string) ([]domain.Commit, error) {
	var commits []domain.Commit

	for _, record := range strings.Split(output, logRecordSep) {
		record = strings.TrimLeft(record, "\n")
		if record == "" {
			continue
		}
		fields := strings.Split(record, logFieldSep)
		if len(fields) != 6 {
			return nil, newParseError("malformed log record", record)
		}

		sha := fields[0]
		if !shaRe.MatchString(sha) {
			return nil, newParseError("malformed commit SHA", sha)
		}

		date, err := time.Parse(time.RFC3339, fields[5])
		if err != nil {
			return nil, newParseError("malformed author date", fields[5])
		}

		commits = append(commits, domain.Commit{
			SHA:     sha,
			Summary: fields[1],
			Body:    strings.TrimRight(fields[2], "\n"),
			Author: domain.CommitIdentity{
				Name:  fields[3],
				Email: fields[4],
				Date:  date,
			},
		})
	}

	return commits, nil
}

// AheadBehind computes the commit counts between a branch and its upstream.
// Branches without an upstream have no ahead/behind; callers should check
// Branch.HasUpstream first.
func (c *Client) AheadBehind(ctx context.Context, branch, upstream string) (domain.AheadBehind, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return domain.AheadBehind{}, err
	}
	if upstream == "" {
		return domain.AheadBehind{}, fmt.Errorf("branch %q has no upstream: %w", branch, escerrors.ErrNoUpstream)
	}

	result, err := c.run(ctx, "rev-list", "--left-right", "--count",
		branch+"..."+upstream)
	if err != nil {
		return domain.AheadBehind{}, fmt.Errorf("failed to compute ahead/behind for %s: %w", branch, err)
	}

	parts := strings.Fields(result.TrimmedText())
	if len(parts) != 2 {
		return domain.AheadBehind{}, newParseError("malformed rev-list count output", result.TrimmedText())
	}

	ahead, err := strconv.Atoi(parts[0])
	if err != nil {
		return domain.AheadBehind{}, newParseError("bad ahead count", parts[0])
	}
	behind, err := strconv.Atoi(parts[1])
	if err != nil {
		return domain.AheadBehind{}, newParseError("bad behind count", parts[1])
	}

	return domain.AheadBehind{Ahead: ahead, Behind: behind}, nil
}
