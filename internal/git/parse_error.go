package git

import (
	"fmt"

	escerrors "github.com/curillo/escritorio/internal/errors"
)

// ParseError reports git output that did not match the expected format:
// a malformed hunk header, an unrecognized porcelain status code, a bad
// log record. It is never swallowed; format drift must surface instead of
// silently producing corrupted state.
type ParseError struct {
	// Reason describes what failed to parse.
	Reason string
	// Input is the offending fragment, truncated for display.
	Input string
}

const parseErrorInputLimit = 120

// newParseError builds a ParseError, truncating the input fragment.
func newParseError(reason, input string) *ParseError {
	if len(input) > parseErrorInputLimit {
		input = input[:parseErrorInputLimit] + "..."
	}
	return &ParseError{Reason: reason, Input: input}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("parse error: %s", e.Reason)
	}
	return fmt.Sprintf("parse error: %s: %q", e.Reason, e.Input)
}

// Unwrap lets errors.Is(err, errors.ErrParse) match.
func (e *ParseError) Unwrap() error {
	return escerrors.ErrParse
}
