// Package errors provides centralized error handling for escritorio.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrGitOperation indicates that a git command (status, diff, commit, etc.)
	// exited with a code outside the accepted set.
	ErrGitOperation = errors.New("git operation failed")

	// ErrParse indicates that git output did not match the expected format
	// (malformed hunk header, unrecognized status code, bad log record).
	ErrParse = errors.New("git output parse failed")

	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrBranchExists indicates the branch already exists.
	ErrBranchExists = errors.New("branch already exists")

	// ErrBranchNotFound indicates the specified branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrNoDefaultBranch indicates an operation needed a default branch to
	// fall back to (deleting the checked-out branch) and none is known.
	ErrNoDefaultBranch = errors.New("no default branch to fall back to")

	// ErrNoUpstream indicates the branch has no configured upstream or the
	// repository has no configured remote. User-actionable: publish first.
	ErrNoUpstream = errors.New("no configured upstream")

	// ErrPushRejected indicates the remote rejected the push
	// (non-fast-forward or hook rejection).
	ErrPushRejected = errors.New("push rejected by remote")

	// ErrNetwork indicates a transient network failure talking to a remote.
	// Retryable, but retry policy belongs to the caller.
	ErrNetwork = errors.New("network operation failed")

	// ErrAuthFailed indicates the remote refused our credentials.
	ErrAuthFailed = errors.New("remote authentication failed")

	// ErrDetachedHead indicates the repository is not on a branch.
	ErrDetachedHead = errors.New("repository is in detached HEAD state")

	// ErrFileNotInStatus indicates a selected file is no longer present in
	// the working directory status.
	ErrFileNotInStatus = errors.New("file not present in working directory status")

	// ErrRepositoryClosed indicates an operation was issued against a
	// repository store that has been closed.
	ErrRepositoryClosed = errors.New("repository store closed")

	// ErrRepositoryNotFound indicates the requested repository is not open
	// in the application store.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidGit indicates an invalid Git configuration value.
	ErrConfigInvalidGit = errors.New("invalid git configuration")

	// ErrConfigInvalidFetch indicates an invalid background fetch setting.
	ErrConfigInvalidFetch = errors.New("invalid fetch configuration")

	// ErrValueOutOfRange indicates that a value is outside the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrNothingToCommit indicates a commit was requested with no included
	// changes.
	ErrNothingToCommit = errors.New("no changes selected for commit")

	// ErrOperationCanceled indicates the user canceled an operation.
	ErrOperationCanceled = errors.New("operation canceled by user")
)
