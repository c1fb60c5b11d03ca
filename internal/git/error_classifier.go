// Package git provides Git operations for escritorio.
// This file classifies stderr from remote operations into the error
// taxonomy the stores surface to users.
package git

import "strings"

// RemoteErrorType represents the classification of a remote operation error.
type RemoteErrorType int

const (
	// RemoteErrorUnknown indicates the error could not be classified.
	RemoteErrorUnknown RemoteErrorType = iota
	// RemoteErrorNoUpstream indicates no configured remote or upstream;
	// user-actionable (publish the branch).
	RemoteErrorNoUpstream
	// RemoteErrorAuth indicates an authentication error.
	RemoteErrorAuth
	// RemoteErrorNetwork indicates a transient network failure.
	RemoteErrorNetwork
	// RemoteErrorRejected indicates the remote rejected the update.
	RemoteErrorRejected
)

// String returns a human-readable name for the error type.
func (t RemoteErrorType) String() string {
	switch t {
	case RemoteErrorNoUpstream:
		return "no_upstream"
	case RemoteErrorAuth:
		return "authentication"
	case RemoteErrorNetwork:
		return "network"
	case RemoteErrorRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// PatternMatcher checks if a string contains any of a list of patterns.
// It performs case-insensitive matching on the lowercased input.
type PatternMatcher struct {
	patterns []string
}

// NewPatternMatcher creates a new PatternMatcher with the given patterns.
// All patterns should be lowercase for consistent matching.
func NewPatternMatcher(patterns ...string) *PatternMatcher {
	return &PatternMatcher{patterns: patterns}
}

// Matches returns true if the input string contains any of the patterns.
// The input is lowercased before matching.
func (m *PatternMatcher) Matches(s string) bool {
	lower := strings.ToLower(s)
	for _, pattern := range m.patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// Common error pattern matchers for remote operations.
//
//nolint:gochecknoglobals // Package-level immutable pattern matchers
var (
	// noUpstreamPatterns matches missing-remote and missing-upstream errors.
	noUpstreamPatterns = NewPatternMatcher(
		"has no upstream branch",
		"no configured push destination",
		"no upstream configured",
		"does not appear to be a git repository",
		"no such remote",
		"there is no tracking information",
	)

	// authPatterns matches authentication-related errors.
	authPatterns = NewPatternMatcher(
		"authentication failed",
		"could not read username",
		"could not read password",
		"permission denied",
		"invalid username or password",
		"access denied",
		"authentication required",
		"bad credentials",
	)

	// networkPatterns matches network-related errors.
	networkPatterns = NewPatternMatcher(
		"could not resolve host",
		"connection refused",
		"network is unreachable",
		"connection timed out",
		"operation timed out",
		"unable to access",
		"no route to host",
		"failed to connect",
		"early eof",
		"the remote end hung up",
	)

	// rejectedPatterns matches remote rejections, non-fast-forward included.
	rejectedPatterns = NewPatternMatcher(
		"non-fast-forward",
		"failed to push some refs",
		"updates were rejected",
		"fetch first",
		"tip of your current branch is behind",
		"rejected because the remote contains work",
		"pre-receive hook declined",
	)
)

// ClassifyRemoteError determines the error type from stderr text.
//
// Classification priority (first match wins):
//  1. No upstream (most specific, user-actionable)
//  2. Authentication (actionable - user can fix credentials)
//  3. Network (often transient, caller may retry)
//  4. Rejected (requires pull/rebase)
func ClassifyRemoteError(errStr string) RemoteErrorType {
	lower := strings.ToLower(errStr)
	switch {
	case noUpstreamPatterns.Matches(lower):
		return RemoteErrorNoUpstream
	case authPatterns.Matches(lower):
		return RemoteErrorAuth
	case networkPatterns.Matches(lower):
		return RemoteErrorNetwork
	case rejectedPatterns.Matches(lower):
		return RemoteErrorRejected
	default:
		return RemoteErrorUnknown
	}
}
