package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/curillo/escritorio/internal/domain"
	"github.com/curillo/escritorio/internal/errors"
	"github.com/curillo/escritorio/internal/git"
)

// statusService is the facade surface the status command needs.
// Used for dependency injection in tests.
type statusService interface {
	Status(ctx context.Context) (domain.WorkingDirectoryStatus, error)
	CurrentBranch(ctx context.Context) (string, error)
	AheadBehind(ctx context.Context, branch, upstream string) (domain.AheadBehind, error)
	Branches(ctx context.Context) ([]domain.Branch, error)
}

// AddStatusCommand adds the status command to the root command.
func AddStatusCommand(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "status [path]",
		Short: "Show working directory status",
		Long: `Display the current branch, its position relative to the upstream, and
every changed file in the working directory.

Examples:
  escritorio status            # status of the current directory
  escritorio status ~/src/app  # status of another repository`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoPath, err := resolveRepoPath(args)
			if err != nil {
				return err
			}

			client, err := git.NewClient(cmd.Context(), repoPath,
				git.WithLogger(GetLogger()),
				git.WithBinary(GetConfig().Git.Binary))
			if err != nil {
				return err
			}

			return runStatus(cmd.Context(), os.Stdout, client)
		},
	}
	parent.AddCommand(cmd)
}

// runStatus executes the status command with injected dependencies.
func runStatus(ctx context.Context, w io.Writer, svc statusService) error {
	branch, err := svc.CurrentBranch(ctx)
	if err != nil {
		if !stderrors.Is(err, errors.ErrDetachedHead) {
			return err
		}
		branch = ""
	}

	if branch == "" {
		_, _ = fmt.Fprintln(w, "HEAD detached")
	} else {
		_, _ = fmt.Fprintf(w, "On branch %s\n", branch)
		if err := printUpstreamPosition(ctx, w, svc, branch); err != nil {
			return err
		}
	}

	status, err := svc.Status(ctx)
	if err != nil {
		return err
	}

	if len(status.Files) == 0 {
		_, _ = fmt.Fprintln(w, "Working directory clean")
		return nil
	}

	_, _ = fmt.Fprintln(w)
	for _, f := range status.Files {
		if f.OldPath != "" {
			_, _ = fmt.Fprintf(w, "  %s  %s <- %s\n", f.Status, f.Path, f.OldPath)
			continue
		}
		_, _ = fmt.Fprintf(w, "  %s  %s\n", f.Status, f.Path)
	}
	return nil
}

// printUpstreamPosition prints ahead/behind counts when the branch
// tracks an upstream.
func printUpstreamPosition(ctx context.Context, w io.Writer, svc statusService, branch string) error {
	branches, err := svc.Branches(ctx)
	if err != nil {
		return err
	}

	for _, b := range branches {
		if b.Kind != domain.BranchLocal || b.Name != branch || !b.HasUpstream() {
			continue
		}
		counts, err := svc.AheadBehind(ctx, b.Name, b.Upstream)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "Tracking %s: %d ahead, %d behind\n",
			b.Upstream, counts.Ahead, counts.Behind)
		return nil
	}
	return nil
}
