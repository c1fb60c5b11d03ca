package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/curillo/escritorio/internal/domain"
	"github.com/curillo/escritorio/internal/git"
)

// historyService is the facade surface the log command needs.
type historyService interface {
	Log(ctx context.Context, limit int) ([]domain.Commit, error)
}

// AddLogCommand adds the log command to the root command.
func AddLogCommand(parent *cobra.Command) {
	var limit int

	cmd := &cobra.Command{
		Use:   "log [path]",
		Short: "Show recent commit history",
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

			return runLog(cmd.Context(), os.Stdout, client, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum commits to show")
	parent.AddCommand(cmd)
}

// runLog executes the log command with injected dependencies.
func runLog(ctx context.Context, w io.Writer, svc historyService, limit int) error {
	commits, err := svc.Log(ctx, limit)
	if err != nil {
		return err
	}

	if len(commits) == 0 {
		_, _ = fmt.Fprintln(w, "No commits yet")
		return nil
	}

	for _, c := range commits {
		_, _ = fmt.Fprintf(w, "%s  %s  %s  %s\n",
			c.ShortSHA(),
			c.Author.Date.Format("2006-01-02"),
			c.Author.Name,
			c.Summary)
	}
	return nil
}
