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

// branchService is the facade surface the branch command needs.
type branchService interface {
	Branches(ctx context.Context) ([]domain.Branch, error)
	CurrentBranch(ctx context.Context) (string, error)
}

// AddBranchCommand adds the branch command to the root command.
func AddBranchCommand(parent *cobra.Command) {
	var all bool

	cmd := &cobra.Command{
		Use:   "branch [path]",
		Short: "List branches",
		Args:  cobra.MaximumNArgs(1),
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

			return runBranch(cmd.Context(), os.Stdout, client, all)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include remote-tracking branches")
	parent.AddCommand(cmd)
}

// runBranch executes the branch command with injected dependencies.
func runBranch(ctx context.Context, w io.Writer, svc branchService, all bool) error {
	current, err := svc.CurrentBranch(ctx)
	if err != nil && !stderrors.Is(err, errors.ErrDetachedHead) {
		return err
	}

	branches, err := svc.Branches(ctx)
	if err != nil {
		return err
	}

	for _, b := range branches {
		if b.Kind == domain.BranchRemote && !all {
			continue
		}

		marker := " "
		if b.Kind == domain.BranchLocal && b.Name == current {
			marker = "*"
		}

		if b.HasUpstream() {
			_, _ = fmt.Fprintf(w, "%s %s -> %s  %s\n",
				marker, b.Name, b.Upstream, b.TipSummary)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s %s  %s\n", marker, b.Name, b.TipSummary)
	}
	return nil
}
