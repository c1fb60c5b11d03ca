// Package git provides Git operations for escritorio.
// This file implements push, pull, and fetch with error classification.
package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/curillo/escritorio/internal/ctxutil"
	escerrors "github.com/curillo/escritorio/internal/errors"
)

// Push pushes the branch to the remote. setUpstream establishes the
// tracking reference, used when publishing a branch for the first time.
// Failures map to the remote error taxonomy: ErrNoUpstream is
// user-actionable (prompt to publish), ErrPushRejected means the remote
// refused the update, ErrNetwork is transient and caller-retryable.
func (c *Client) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if branch == "" {
		return fmt.Errorf("branch name cannot be empty: %w", escerrors.ErrEmptyValue)
	}
	if remote == "" {
		remote = "origin"
	}

	args := []string{"push"}
	if setUpstream {
		args = append(args, "--set-upstream")
	}
	args = append(args, remote, branch)

	if _, err := c.run(ctx, args...); err != nil {
		return classifyRemoteFailure("push", err)
	}
	return nil
}

// Pull fetches and integrates the branch's upstream.
func (c *Client) Pull(ctx context.Context, remote, branch string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if remote == "" {
		remote = "origin"
	}

	args := []string{"pull"}
	if branch != "" {
		args = append(args, remote, branch)
	}

	if _, err := c.run(ctx, args...); err != nil {
		return classifyRemoteFailure("pull", err)
	}
	return nil
}

// Fetch downloads objects and refs from the remote without merging.
func (c *Client) Fetch(ctx context.Context, remote string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if remote == "" {
		remote = "origin"
	}

	if _, err := c.run(ctx, "fetch", remote); err != nil {
		return classifyRemoteFailure("fetch", err)
	}
	return nil
}

// classifyRemoteFailure maps a git invocation error onto the remote error
// sentinels so callers can distinguish publish-prompt, rejection, and
// transient network cases with errors.Is. Retry policy belongs to the
// caller; nothing here retries.
func classifyRemoteFailure(op string, err error) error {
	var gitErr *GitError
	stderr := err.Error()
	if errors.As(err, &gitErr) {
		stderr = gitErr.Stderr
	}

	switch ClassifyRemoteError(stderr) {
	case RemoteErrorNoUpstream:
		return fmt.Errorf("%s: %w: %w", op, escerrors.ErrNoUpstream, err)
	case RemoteErrorAuth:
		return fmt.Errorf("%s: %w: %w", op, escerrors.ErrAuthFailed, err)
	case RemoteErrorNetwork:
		return fmt.Errorf("%s: %w: %w", op, escerrors.ErrNetwork, err)
	case RemoteErrorRejected:
		return fmt.Errorf("%s: %w: %w", op, escerrors.ErrPushRejected, err)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
