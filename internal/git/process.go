// Package git implements the Git operation layer for escritorio: process
// invocation, output parsing, and the typed facade the stores build on.
// This file provides the process runner all other operations go through.
package git

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	escerrors "github.com/curillo/escritorio/internal/errors"
)

// GitError is the failure of a git invocation whose exit code was outside
// the accepted set. It carries everything needed to surface the failure:
// the command, the exit code, and captured stderr.
type GitError struct {
	// Args is the full git argument list that was run.
	Args []string
	// ExitCode is the observed process exit code.
	ExitCode int
	// Stderr is the captured standard error output.
	Stderr string
}

// Error implements the error interface.
func (e *GitError) Error() string {
	sub := "git"
	if len(e.Args) > 0 {
		sub = "git " + e.Args[0]
	}
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%s failed (exit %d)", sub, e.ExitCode)
	}
	return fmt.Sprintf("%s failed (exit %d): %s", sub, e.ExitCode, stderr)
}

// Unwrap lets errors.Is(err, errors.ErrGitOperation) match.
func (e *GitError) Unwrap() error {
	return escerrors.ErrGitOperation
}

// RunResult is the outcome of one git invocation. Stdout and Stderr are
// captured fully as raw bytes, so binary-safe output (diffs containing
// arbitrary byte sequences) needs no special mode.
type RunResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Text returns stdout decoded as a string, untrimmed. Parsers that depend
// on exact byte positions (NUL-separated records) must use this or Stdout
// directly rather than a trimmed form.
func (r *RunResult) Text() string {
	return string(r.Stdout)
}

// TrimmedText returns stdout as a string with surrounding whitespace
// removed, for single-value outputs like rev-parse.
func (r *RunResult) TrimmedText() string {
	return strings.TrimSpace(string(r.Stdout))
}

// RunOptions adjusts a single invocation.
type RunOptions struct {
	// Binary is the git executable to invoke. Empty means "git" resolved
	// from PATH.
	Binary string
	// ExpectedErrors is the set of non-zero exit codes to treat as
	// success. Exit code 0 is always accepted.
	ExpectedErrors map[int]struct{}
	// Stdin, when non-nil, is streamed to the child process
	// (used to pipe synthetic patches into git apply).
	Stdin io.Reader
	// Env appends additional environment variables (KEY=VALUE).
	Env []string
}

// Run executes git with the given arguments in repoPath and captures the
// result. Exactly one child process is spawned per call and there is no
// automatic retry; retry policy belongs to the caller.
func Run(ctx context.Context, repoPath string, args ...string) (*RunResult, error) {
	return RunWithOptions(ctx, repoPath, RunOptions{}, args...)
}

// RunWithOptions is Run with per-call options. If the observed exit code is
// neither zero nor in opts.ExpectedErrors, the returned error is a *GitError
// carrying the command, exit code, and stderr; no partial result is returned.
func RunWithOptions(ctx context.Context, repoPath string, opts RunOptions, args ...string) (*RunResult, error) {
	binary := opts.Binary
	if binary == "" {
		binary = "git"
	}
	cmd := exec.CommandContext(ctx, binary, args...) //#nosec G204 -- binary and args come from configuration, not user input
	cmd.Dir = repoPath
	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(cmd.Environ(), opts.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// Context cancellation wins over exit-code interpretation.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			// Spawn failure (git missing, bad working directory).
			return nil, fmt.Errorf("failed to run git: %w", err)
		}
	}

	result := &RunResult{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}

	if !accepted(result.ExitCode, opts.ExpectedErrors) {
		return nil, &GitError{
			Args:     args,
			ExitCode: result.ExitCode,
			Stderr:   string(result.Stderr),
		}
	}

	return result, nil
}

// accepted reports whether code is a successful exit for this call.
func accepted(code int, expected map[int]struct{}) bool {
	if code == 0 {
		return true
	}
	_, ok := expected[code]
	return ok
}
