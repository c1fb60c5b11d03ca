// Package git provides Git operations for escritorio.
// This file defines the Client, the typed facade over the git CLI that
// every repository-level operation hangs off.
package git

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	escerrors "github.com/curillo/escritorio/internal/errors"
)

// Client wraps the git CLI for one repository working directory. All
// operations run in that directory and use context for cancellation.
// A Client is safe for concurrent use; it holds no mutable state.
type Client struct {
	repoPath string
	binary   string
	logger   zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger for git operations.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBinary sets the git executable to invoke. Empty keeps the default
// of resolving "git" from PATH.
func WithBinary(binary string) ClientOption {
	return func(c *Client) {
		c.binary = binary
	}
}

// NewClient creates a Client for the given working directory.
// Returns an error if the directory is not a git repository.
func NewClient(ctx context.Context, repoPath string, opts ...ClientOption) (*Client, error) {
	if repoPath == "" {
		return nil, fmt.Errorf("repository path cannot be empty: %w", escerrors.ErrEmptyValue)
	}

	c := &Client{repoPath: repoPath, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}

	if _, err := c.run(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%w: %w", escerrors.ErrNotGitRepo, err)
	}

	return c, nil
}

// RepoPath returns the working directory this client operates on.
func (c *Client) RepoPath() string {
	return c.repoPath
}

// run executes a git command in the client's working directory.
func (c *Client) run(ctx context.Context, args ...string) (*RunResult, error) {
	return c.runWithOptions(ctx, RunOptions{}, args...)
}

// runWithOptions is run with per-call options.
func (c *Client) runWithOptions(ctx context.Context, opts RunOptions, args ...string) (*RunResult, error) {
	c.logger.Debug().Strs("args", args).Msg("running git")
	if opts.Binary == "" {
		opts.Binary = c.binary
	}
	return RunWithOptions(ctx, c.repoPath, opts, args...)
}
