// Package ctxutil provides small context helpers shared by the git and
// store layers.
package ctxutil

import "context"

// Canceled reports whether ctx is already done, returning its error
// (Canceled or DeadlineExceeded) so facade operations can bail out at
// entry before spawning a child process. ctx.Err() is nil while the
// context is live, so no select is needed.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
